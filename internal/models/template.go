package models

// TemplateConfig is the declarative dashboard document. It decodes from JSON
// or YAML.
type TemplateConfig struct {
	Header    HeaderConfig    `json:"header" yaml:"header"`
	Theme     ThemeConfig     `json:"theme" yaml:"theme"`
	Dashboard DashboardConfig `json:"dashboard" yaml:"dashboard"`
}

type HeaderConfig struct {
	CompanyName string       `json:"companyName" yaml:"companyName"`
	Logo        LogoConfig   `json:"logo" yaml:"logo"`
	HeaderLinks []HeaderLink `json:"headerLinks" yaml:"headerLinks"`
}

type LogoConfig struct {
	URL  string `json:"url" yaml:"url"`
	Show bool   `json:"show" yaml:"show"`
}

type HeaderLink struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
	Show bool   `json:"show" yaml:"show"`
}

// ThemeConfig is the token set handed to the theming collaborator as-is.
type ThemeConfig struct {
	PrimaryColor        string `json:"primaryColor" yaml:"primaryColor"`
	SecondaryColor      string `json:"secondaryColor" yaml:"secondaryColor"`
	BackgroundColor     string `json:"backgroundColor" yaml:"backgroundColor"`
	CardBackground      string `json:"cardBackground" yaml:"cardBackground"`
	TextColor           string `json:"textColor" yaml:"textColor"`
	TextSecondary       string `json:"textSecondary" yaml:"textSecondary"`
	BorderColor         string `json:"borderColor" yaml:"borderColor"`
	AccentPurple        string `json:"accentPurple" yaml:"accentPurple"`
	AccentCyan          string `json:"accentCyan" yaml:"accentCyan"`
	AccentGreen         string `json:"accentGreen" yaml:"accentGreen"`
	AccentOrange        string `json:"accentOrange" yaml:"accentOrange"`
	AccentPink          string `json:"accentPink" yaml:"accentPink"`
	BorderRadius        string `json:"borderRadius" yaml:"borderRadius"`
	BorderWidth         string `json:"borderWidth" yaml:"borderWidth"`
	LightDarkModeToggle bool   `json:"lightDarkModeToggle" yaml:"lightDarkModeToggle"`
}

type DashboardConfig struct {
	Layout      LayoutSelection   `json:"layout" yaml:"layout"`
	Calendar    CalendarConfig    `json:"calendar" yaml:"calendar"`
	Analytics   AnalyticsConfig   `json:"analytics" yaml:"analytics"`
	Departments DepartmentsConfig `json:"departments" yaml:"departments"`
}

type LayoutSelection struct {
	Selected string `json:"selected" yaml:"selected"`
}

type CalendarConfig struct {
	Show               bool `json:"show" yaml:"show"`
	ShowUpcomingEvents bool `json:"showUpcomingEvents" yaml:"showUpcomingEvents"`
}

type AnalyticsConfig struct {
	Show             bool            `json:"show" yaml:"show"`
	ShowAddAnalytics bool            `json:"showAddAnalytics" yaml:"showAddAnalytics"`
	Items            []AnalyticsItem `json:"items" yaml:"items"`
}

// AnalyticsItem is one configured chart. Order accepts "row-col" or a bare
// number.
type AnalyticsItem struct {
	ID      string       `json:"id" yaml:"id"`
	Name    string       `json:"name" yaml:"name"`
	Title   string       `json:"title" yaml:"title"`
	Type    ChartVariant `json:"type" yaml:"type"`
	Enabled bool         `json:"enabled" yaml:"enabled"`
	Width   int          `json:"width" yaml:"width"`
	Height  int          `json:"height" yaml:"height"`
	Order   *Order       `json:"order,omitempty" yaml:"order,omitempty"`
	Color   string       `json:"color,omitempty" yaml:"color,omitempty"`
	Purpose string       `json:"purpose,omitempty" yaml:"purpose,omitempty"`
}

type DepartmentsConfig struct {
	Show               bool             `json:"show" yaml:"show"`
	ShowAddDepartments bool             `json:"showAddDepartments" yaml:"showAddDepartments"`
	Items              []DepartmentItem `json:"items" yaml:"items"`
}

type DepartmentItem struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}
