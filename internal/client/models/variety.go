package models

import (
	"fmt"
	"strings"
	"time"
)

// Color of a potato variety's skin.
type Color string

const (
	ColorWhite  Color = "White"
	ColorYellow Color = "Yellow"
	ColorRed    Color = "Red"
	ColorPurple Color = "Purple"
	ColorBlue   Color = "Blue"

	DefaultColor = ColorYellow
)

// Colors lists the allowed values in display order.
var Colors = []Color{ColorWhite, ColorYellow, ColorRed, ColorPurple, ColorBlue}

// ParseColor matches s case-insensitively against Colors. An empty string
// yields DefaultColor.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultColor, nil
	}
	for _, c := range Colors {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown color %q", ErrValidation, s)
}

// VarietyFields are the scalar, user-editable attributes of a variety.
type VarietyFields struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Origin      string `json:"origin"`
	Color       Color  `json:"color"`
	BestFor     string `json:"bestFor"`
}

// Image holds the server-derived representations of an uploaded picture,
// keyed by size name ("thumbnail", "medium").
type Image map[string]string

func (i Image) Thumbnail() string { return i["thumbnail"] }

// Variety is a persisted catalog entry. It is immutable once created.
type Variety struct {
	ID ID `json:"id"`
	VarietyFields
	Image       Image     `json:"image,omitempty"`
	Contributor *User     `json:"contributor,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ContributorName returns the hydrated contributor's name or "unknown".
func (v Variety) ContributorName() string {
	if v.Contributor == nil {
		return "unknown"
	}
	return v.Contributor.DisplayName()
}
