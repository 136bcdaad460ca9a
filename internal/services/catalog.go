package services

import (
	"github.com/GregMSThompson/dashboard-backend/internal/models"
)

// cardTemplates are the starting points for cards added from the add-card
// picker. The status template is listed for the catalog only: adding a status
// card opens the chart wizard instead.
var cardTemplates = map[models.CardKind]models.AnalyticsCard{
	models.KindStatus: {
		Kind:         models.KindStatus,
		Title:        "Status Chart",
		Subtitle:     "System status overview",
		Value:        "47%",
		ChartVariant: models.ChartBar,
		Color:        "#8b5cf6",
	},
	models.KindFinance: {
		Kind:         models.KindFinance,
		Title:        "Finance Chart",
		Subtitle:     "Financial metrics",
		Value:        "$73K",
		ChartVariant: models.ChartLine,
		Color:        "#10b981",
	},
	models.KindBalance: {
		Kind:         models.KindBalance,
		Title:        "Balance Chart",
		Subtitle:     "Account balance",
		Value:        "$125K",
		ChartVariant: models.ChartCurve,
		Color:        "#06b6d4",
	},
	models.KindServer: {
		Kind:     models.KindServer,
		Title:    "Server Status",
		Subtitle: "Server monitoring",
		Servers: []models.Server{
			{Name: "Server 1", Status: "Online"},
			{Name: "Server 2", Status: "Online"},
			{Name: "Server 3", Status: "Online"},
			{Name: "Server 4", Status: "Offline"},
		},
	},
	models.KindPerformance: {
		Kind:         models.KindPerformance,
		Title:        "Performance",
		Subtitle:     "System performance",
		Value:        "89%",
		ChartVariant: models.ChartBar,
		Color:        "#f59e0b",
	},
	models.KindAnalytics: {
		Kind:         models.KindAnalytics,
		Title:        "Analytics",
		Subtitle:     "User analytics",
		Value:        "1.2K",
		ChartVariant: models.ChartLine,
		Color:        "#ec4899",
	},
}

// CardTemplate returns a fresh copy of the template for kind.
func CardTemplate(kind models.CardKind) (models.AnalyticsCard, bool) {
	t, ok := cardTemplates[kind]
	if !ok {
		return models.AnalyticsCard{}, false
	}
	return t.Clone(), true
}

// PurposeInfo describes a chart purpose offered by the wizard.
type PurposeInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SampleValue string `json:"sampleValue"`
	SampleColor string `json:"sampleColor"`
}

var purposes = []PurposeInfo{
	{ID: models.PurposeKPI, Name: "KPI", Description: "Track key performance indicators", SampleValue: "94.5%", SampleColor: "#8b5cf6"},
	{ID: models.PurposeCheckin, Name: "User Check-in", Description: "Monitor user activity", SampleValue: "1,234", SampleColor: "#06b6d4"},
	{ID: models.PurposeSales, Name: "Sales", Description: "Track sales metrics", SampleValue: "$54.2K", SampleColor: "#10b981"},
	{ID: models.PurposeTraffic, Name: "Traffic", Description: "Monitor website traffic", SampleValue: "12.5K", SampleColor: "#f59e0b"},
	{ID: models.PurposeRevenue, Name: "Revenue", Description: "Track revenue streams", SampleValue: "$125K", SampleColor: "#ec4899"},
	{ID: models.PurposePerformance, Name: "Performance", Description: "System performance metrics", SampleValue: "89%", SampleColor: "#f59e0b"},
}

var defaultPurpose = PurposeInfo{SampleValue: "100", SampleColor: "#8b5cf6"}

// Purposes lists the wizard's purpose choices.
func Purposes() []PurposeInfo {
	return append([]PurposeInfo(nil), purposes...)
}

// purposeInfo looks up a purpose. Unknown purposes get the default sample
// data and ok=false.
func purposeInfo(id string) (PurposeInfo, bool) {
	for _, p := range purposes {
		if p.ID == id {
			return p, true
		}
	}
	return defaultPurpose, false
}

// DepartmentOption is an entry of the add-department picker.
type DepartmentOption struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

var departmentOptions = []DepartmentOption{
	{Name: "Marketing & Sales", Icon: "Store"},
	{Name: "Customer Care", Icon: "Headphones"},
	{Name: "Shipping Management", Icon: "Package"},
	{Name: "Return Service", Icon: "RotateCcw"},
	{Name: "Project Management", Icon: "FolderKanban"},
	{Name: "Data Center", Icon: "Building2"},
	{Name: "HR Department", Icon: "Users"},
	{Name: "Finance", Icon: "DollarSign"},
}

func DepartmentOptions() []DepartmentOption {
	return append([]DepartmentOption(nil), departmentOptions...)
}
