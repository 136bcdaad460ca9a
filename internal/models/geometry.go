package models

const (
	MinCardWidth  = 250
	MaxCardWidth  = 1400
	MinCardHeight = 200
	MaxCardHeight = 800
)

// CardGeometry is a card's rendered size in pixels.
type CardGeometry struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ClampGeometry bounds a requested size. Out-of-range sizes are clamped,
// never rejected.
func ClampGeometry(width, height int) CardGeometry {
	return CardGeometry{
		Width:  min(max(width, MinCardWidth), MaxCardWidth),
		Height: min(max(height, MinCardHeight), MaxCardHeight),
	}
}
