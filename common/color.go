package common

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor converts a color string into a linear RGB triple in [0, 1].
//
// Accepted forms are CSS/SVG color names ("powderblue", "wheat"), "#rgb",
// and "#rrggbb". Names are matched case-insensitively.
//
// Parameters:
//   - s: the color string
//
// Returns:
//   - [3]float32: the color as (r, g, b)
//   - error: an error if the string is not a known name or a valid hex color
func ParseColor(s string) ([3]float32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return [3]float32{}, fmt.Errorf("empty color")
	}

	if hex, ok := strings.CutPrefix(s, "#"); ok {
		return parseHexColor(hex)
	}

	c, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return [3]float32{}, fmt.Errorf("unknown color name %q", s)
	}
	return [3]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
	}, nil
}

func parseHexColor(hex string) ([3]float32, error) {
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return [3]float32{}, fmt.Errorf("invalid hex color %q", "#"+hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return [3]float32{}, fmt.Errorf("invalid hex color %q: %w", "#"+hex, err)
	}
	return [3]float32{
		float32((v>>16)&0xff) / 255,
		float32((v>>8)&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}
