package notes

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownColor = errors.New("unknown palette color")
	ErrUnknownField = errors.New("unknown note field")
)

// Note is a single sticky note. The JSON shape is the persisted format.
type Note struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	BG          string `json:"bg"`   // palette color, hex without '#'
	Date        string `json:"date"` // display date, fixed at creation
}

// Field names a user-editable note field.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
)

func ParseField(s string) (Field, error) {
	switch Field(strings.ToLower(strings.TrimSpace(s))) {
	case FieldTitle:
		return FieldTitle, nil
	case FieldDescription, "desc":
		return FieldDescription, nil
	}
	return "", fmt.Errorf("%w: %q (want title or description)", ErrUnknownField, s)
}

// Swatch is one palette entry.
type Swatch struct {
	Hex  string
	Name string
}

// Palette is the fixed, ordered set of note colors.
var Palette = []Swatch{
	{Hex: "FBBF24", Name: "amber"},
	{Hex: "FB923C", Name: "orange"},
	{Hex: "C084FC", Name: "purple"},
	{Hex: "A3E635", Name: "lime"},
	{Hex: "34D399", Name: "emerald"},
}

// NormalizeColor accepts "#fbbf24", "FBBF24" or a swatch name and returns the
// palette hex, or ErrUnknownColor.
func NormalizeColor(s string) (string, error) {
	c := strings.TrimPrefix(strings.TrimSpace(s), "#")
	for _, sw := range Palette {
		if strings.EqualFold(c, sw.Hex) || strings.EqualFold(c, sw.Name) {
			return sw.Hex, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

func ValidColor(hex string) bool {
	for _, sw := range Palette {
		if sw.Hex == hex {
			return true
		}
	}
	return false
}

// ColorName returns the swatch name for hex, or hex itself if it is not in the palette.
func ColorName(hex string) string {
	for _, sw := range Palette {
		if sw.Hex == hex {
			return sw.Name
		}
	}
	return hex
}
