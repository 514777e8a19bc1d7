// Package layout maps the configured product card type to a card variant and
// the CSS classes of the grid that holds the cards.
package layout

import "strings"

// Variant identifies one of the product card components.
type Variant string

const (
	H1  Variant = "h1"
	H11 Variant = "h11"
	H21 Variant = "h21"
	V2  Variant = "v2"
	V3  Variant = "v3"
	V4  Variant = "v4"
	V5  Variant = "v5"
	H6  Variant = "h6"
	V7  Variant = "v7"
)

const (
	classFlexWrap     = "flex flex-col md:flex-row md:flex-wrap gap-3 md:gap-5"
	classFlexFlush    = "flex flex-col md:flex-row md:flex-wrap gap-0 md:gap-0"
	classFlexCentered = "flex flex-col md:flex-row md:flex-wrap gap-3 md:gap-5 justify-center"
	classGridSix      = "grid grid-cols-2 sm:grid-cols-4 lg:grid-cols-6 gap-3"
	classGridFour     = "grid grid-cols-2 sm:grid-cols-3 lg:grid-cols-4 gap-3"
)

// Layout pairs a card variant with its container class.
type Layout struct {
	Variant Variant `json:"variant"`
	Class   string  `json:"class"`
}

// Horizontal reports whether cards of this variant lay image and text side by side.
func (l Layout) Horizontal() bool {
	return strings.HasPrefix(string(l.Variant), "h")
}

// Grid reports whether the container is a CSS grid.
func (l Layout) Grid() bool {
	return strings.HasPrefix(l.Class, "grid ")
}

// Default is used for unset or unknown configuration values.
var Default = Layout{Variant: H1, Class: classFlexWrap}

var registry = map[string]Layout{
	"1":  {Variant: H1, Class: classFlexWrap},
	"11": {Variant: H11, Class: classFlexFlush},
	"21": {Variant: H21, Class: classFlexWrap},
	"2":  {Variant: V2, Class: classFlexCentered},
	"3":  {Variant: V3, Class: classFlexCentered},
	"4":  {Variant: V4, Class: classGridSix},
	"5":  {Variant: V5, Class: classGridFour},
	"6":  {Variant: H6, Class: classFlexWrap},
	"7":  {Variant: V7, Class: classGridSix},
}

// Resolve returns the layout for a configuration value. Surrounding whitespace is
// ignored; anything unrecognised yields Default.
func Resolve(value string) Layout {
	if l, ok := registry[strings.TrimSpace(value)]; ok {
		return l
	}
	return Default
}

// Known reports whether value selects a non-default entry of the registry.
func Known(value string) bool {
	_, ok := registry[strings.TrimSpace(value)]
	return ok
}

// Values lists the recognised configuration values in display order.
func Values() []string {
	return []string{"1", "11", "21", "2", "3", "4", "5", "6", "7"}
}

// Variants lists every card variant once.
func Variants() []Variant {
	return []Variant{H1, H11, H21, V2, V3, V4, V5, H6, V7}
}
