package models

// CardKind is the presentational category of an analytics card.
type CardKind string

const (
	KindStatus      CardKind = "status"
	KindFinance     CardKind = "finance"
	KindBalance     CardKind = "balance"
	KindServer      CardKind = "server"
	KindPerformance CardKind = "performance"
	KindAnalytics   CardKind = "analytics"
)

var CardKinds = []CardKind{KindStatus, KindFinance, KindBalance, KindServer, KindPerformance, KindAnalytics}

func (k CardKind) Valid() bool {
	for _, v := range CardKinds {
		if k == v {
			return true
		}
	}
	return false
}

type ChartVariant string

const (
	ChartBar   ChartVariant = "bar"
	ChartLine  ChartVariant = "line"
	ChartCurve ChartVariant = "curve"
	ChartPie   ChartVariant = "pie"
	ChartArea  ChartVariant = "area"
)

const (
	PurposeKPI         = "kpi"
	PurposeCheckin     = "checkin"
	PurposeSales       = "sales"
	PurposeTraffic     = "traffic"
	PurposeRevenue     = "revenue"
	PurposePerformance = "performance"
	PurposeAnalytics   = "analytics"
)

// Provenance says where a card or department came from. It is derived on
// every read and never persisted.
type Provenance string

const (
	ProvenanceConfig  Provenance = "config"
	ProvenanceUser    Provenance = "user"
	ProvenanceSession Provenance = "session"
)

type Server struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// AnalyticsCard is one chart tile. The JSON shape is the persisted durable
// record, so field names follow the stored format ("type", "chartType").
type AnalyticsCard struct {
	ID           string       `json:"id"`
	Kind         CardKind     `json:"type"`
	Title        string       `json:"title"`
	Subtitle     string       `json:"subtitle"`
	Value        string       `json:"value"`
	ChartVariant ChartVariant `json:"chartType,omitempty"`
	Color        string       `json:"color,omitempty"`
	Purpose      string       `json:"purpose,omitempty"`
	Servers      []Server     `json:"servers,omitempty"`
	Order        *Order       `json:"order,omitempty"`
}

// IsLegacyPerformance reports whether c is the removed built-in performance
// card. Such cards are dropped on every load.
func (c AnalyticsCard) IsLegacyPerformance() bool {
	return c.Kind == KindPerformance && c.Title == "Performance" && c.Subtitle == "System performance"
}

// Clone returns a copy that shares no slices or pointers with c.
func (c AnalyticsCard) Clone() AnalyticsCard {
	out := c
	if c.Servers != nil {
		out.Servers = append([]Server(nil), c.Servers...)
	}
	if c.Order != nil {
		o := *c.Order
		out.Order = &o
	}
	return out
}

// DepartmentCard is a shortcut tile, identified by its display name.
type DepartmentCard struct {
	DisplayName string     `json:"displayName"`
	Source      Provenance `json:"source"`
}
