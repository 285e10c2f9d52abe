package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownStyle is returned when a style selector names no known style.
var ErrUnknownStyle = errors.New("palette: unknown color style")

// Style selects how escape results are mapped to colors.
type Style int

const (
	Grayscale Style = iota
	ProportionalRGB
	SaturatingRGB
	TwoTone
)

// DefaultStyle is used when no selector is given.
const DefaultStyle = ProportionalRGB

var styleNames = map[Style]string{
	Grayscale:       "grayscale",
	ProportionalRGB: "proportional",
	SaturatingRGB:   "saturating",
	TwoTone:         "twotone",
}

var styleAliases = map[string]Style{
	"gray":             Grayscale,
	"grey":             Grayscale,
	"greyscale":        Grayscale,
	"proportional-rgb": ProportionalRGB,
	"ratio":            ProportionalRGB,
	"saturating-rgb":   SaturatingRGB,
	"two-tone":         TwoTone,
	"duotone":          TwoTone,
}

// Styles lists every style in selector order.
func Styles() []Style {
	return []Style{Grayscale, ProportionalRGB, SaturatingRGB, TwoTone}
}

func (s Style) Valid() bool {
	_, ok := styleNames[s]
	return ok
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// Next cycles to the following style, wrapping around.
func (s Style) Next() Style {
	n := len(styleNames)
	return Style((int(s)%n + n + 1) % n)
}

// ParseStyle accepts a numeric selector ("0".."3") or a style name.
func ParseStyle(sel string) (Style, error) {
	sel = strings.ToLower(strings.TrimSpace(sel))
	if n, err := strconv.Atoi(sel); err == nil {
		s := Style(n)
		if !s.Valid() {
			return 0, fmt.Errorf("%w: selector %d (want 0-%d)", ErrUnknownStyle, n, len(styleNames)-1)
		}
		return s, nil
	}
	for s, name := range styleNames {
		if name == sel {
			return s, nil
		}
	}
	if s, ok := styleAliases[sel]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStyle, sel)
}

func (s Style) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStyle, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
