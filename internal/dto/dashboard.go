package dto

import (
	"github.com/GregMSThompson/dashboard-backend/internal/models"
)

// --- Request types ---

type AddCardRequest struct {
	Kind models.CardKind `json:"kind" validate:"required,oneof=status finance balance server performance analytics"`
}

// CompleteWizardRequest finishes the chart wizard. An empty title is derived
// from the purpose.
type CompleteWizardRequest struct {
	Purpose      string              `json:"purpose" validate:"required,max=64"`
	ChartVariant models.ChartVariant `json:"chartType" validate:"required,oneof=bar line curve pie area"`
	Title        string              `json:"title" validate:"max=200"`
	Subtitle     string              `json:"subtitle" validate:"max=200"`
	Color        string              `json:"color" validate:"omitempty,max=32"`
}

// EditCardRequest is a partial update; nil fields are left unchanged.
type EditCardRequest struct {
	Title        *string              `json:"title" validate:"omitempty,max=200"`
	Subtitle     *string              `json:"subtitle" validate:"omitempty,max=200"`
	ChartVariant *models.ChartVariant `json:"chartType" validate:"omitempty,oneof=bar line curve pie area"`
	Color        *string              `json:"color" validate:"omitempty,max=32"`
	Purpose      *string              `json:"purpose" validate:"omitempty,max=64"`
}

type ResizeCardRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BeginResizeRequest starts a drag. A zero start size means "use the stored
// size".
type BeginResizeRequest struct {
	Pointer     Point `json:"pointer"`
	StartWidth  int   `json:"startWidth" validate:"gte=0,lte=100000"`
	StartHeight int   `json:"startHeight" validate:"gte=0,lte=100000"`
}

type MoveResizeRequest struct {
	Pointer Point `json:"pointer"`
}

type AddDepartmentRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// --- Response types ---

// CardView is a card as rendered: the stored card plus derived provenance and
// current geometry (nil when the card has never been sized).
type CardView struct {
	models.AnalyticsCard
	Source   models.Provenance    `json:"source"`
	Geometry *models.CardGeometry `json:"geometry,omitempty"`
}

type AnalyticsSection struct {
	Show             bool       `json:"show"`
	ShowAddAnalytics bool       `json:"showAddAnalytics"`
	Cards            []CardView `json:"cards"`
}

type DepartmentsSection struct {
	Show               bool                    `json:"show"`
	ShowAddDepartments bool                    `json:"showAddDepartments"`
	Cards              []models.DepartmentCard `json:"cards"`
}

type HeaderView struct {
	CompanyName string              `json:"companyName"`
	Logo        models.LogoConfig   `json:"logo"`
	Links       []models.HeaderLink `json:"links"`
}

// DashboardView is everything the client needs to render one dashboard.
// Version increases whenever the authoritative state changes.
type DashboardView struct {
	Version     uint64                `json:"version"`
	Layout      string                `json:"layout,omitempty"`
	Header      HeaderView            `json:"header"`
	Theme       models.ThemeConfig    `json:"theme"`
	Calendar    models.CalendarConfig `json:"calendar"`
	Analytics   AnalyticsSection      `json:"analytics"`
	Departments DepartmentsSection    `json:"departments"`
}

// AddCardResult is the outcome of an add-card action. For the status kind no
// card is created and OpenWizard is set.
type AddCardResult struct {
	OpenWizard bool      `json:"openWizard"`
	Card       *CardView `json:"card,omitempty"`
	Version    uint64    `json:"version"`
}

type ResizeSessionResponse struct {
	SessionID string              `json:"sessionId"`
	CardID    string              `json:"cardId"`
	Geometry  models.CardGeometry `json:"geometry"`
}

type CardKindInfo struct {
	Kind     models.CardKind      `json:"kind"`
	Template models.AnalyticsCard `json:"template"`
	Wizard   bool                 `json:"wizard"`
}
