package models

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Order is a card's grid position. Cards sort row-major on (Row, Col).
type Order struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ParseOrder decodes a "row-col" token. Each side falls back to 0 when it is
// not an integer, and anything that is not exactly two segments is the zero
// order. It never fails: a corrupt layout must still render.
func ParseOrder(s string) Order {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Order{}
	}
	return Order{Row: leadingInt(parts[0]), Col: leadingInt(parts[1])}
}

// OrderFromNumber handles the legacy numeric form, which only carries a row.
func OrderFromNumber(n float64) Order {
	if math.IsNaN(n) || n < 0 {
		return Order{}
	}
	if n > math.MaxInt32 {
		return Order{Row: math.MaxInt32}
	}
	return Order{Row: int(n)}
}

func (o Order) Compare(other Order) int {
	switch {
	case o.Row < other.Row:
		return -1
	case o.Row > other.Row:
		return 1
	case o.Col < other.Col:
		return -1
	case o.Col > other.Col:
		return 1
	}
	return 0
}

func (o Order) String() string {
	return strconv.Itoa(o.Row) + "-" + strconv.Itoa(o.Col)
}

func (o Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON accepts "row-col", a bare number, or the {"row","col"}
// object form. Unrecognised input decodes to the zero order.
func (o *Order) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*o = Order{}
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*o = ParseOrder(s)
		}
	case '{':
		var raw struct {
			Row int `json:"row"`
			Col int `json:"col"`
		}
		if err := json.Unmarshal(data, &raw); err == nil {
			*o = Order{Row: max(raw.Row, 0), Col: max(raw.Col, 0)}
		}
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err == nil {
			*o = OrderFromNumber(n)
		}
	}
	return nil
}

func (o *Order) UnmarshalYAML(node *yaml.Node) error {
	*o = Order{}
	if node.Kind != yaml.ScalarNode {
		return nil
	}
	switch node.ShortTag() {
	case "!!int", "!!float":
		if n, err := strconv.ParseFloat(node.Value, 64); err == nil {
			*o = OrderFromNumber(n)
		}
	default:
		*o = ParseOrder(node.Value)
	}
	return nil
}

// SortCards orders cards by Order. Cards without an Order go last, and equal
// keys keep their input sequence.
func SortCards(cards []AnalyticsCard) {
	slices.SortStableFunc(cards, func(a, b AnalyticsCard) int {
		switch {
		case a.Order == nil && b.Order == nil:
			return 0
		case a.Order == nil:
			return 1
		case b.Order == nil:
			return -1
		}
		return a.Order.Compare(*b.Order)
	})
}

// leadingInt reads an optional sign and the digits that follow it, the way a
// lenient integer parse does ("12px" is 12). Negative values and garbage are 0.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		return 0
	}
	return n
}
