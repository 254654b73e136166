package querygen

import (
	"fmt"
	"strconv"
	"strings"
)

// colorNames maps well-known hex values to human names. Lookup is
// case-insensitive; anything not listed falls through to the hue heuristic.
var colorNames = map[string]string{
	"#000000": "black",
	"#ffffff": "white",
	"#ff0000": "red",
	"#00ff00": "green",
	"#0000ff": "blue",
	"#ffff00": "yellow",
	"#ff00ff": "magenta",
	"#00ffff": "cyan",
	"#0f172a": "dark navy",
	"#3b82f6": "bright blue",
	"#10b981": "emerald green",
	"#f59e0b": "amber orange",
	"#ef4444": "red",
	"#8b5cf6": "purple",
	"#ec4899": "pink",
	"#6b7280": "gray",
}

// DescribeColor converts a color value to a descriptive string. Known hex
// values resolve through the name table, other #RRGGBB values through a
// coarse brightness-and-hue heuristic, and anything else (color names,
// malformed input) is returned unchanged. The function is total: it never
// returns an error.
func DescribeColor(color string) string {
	if name, ok := colorNames[strings.ToLower(color)]; ok {
		return name
	}

	if strings.HasPrefix(color, "#") && len(color) == 7 {
		return describeHex(color)
	}

	return color
}

// describeHex derives a "<brightness> <hue>" description from an #RRGGBB
// value. The thresholds are a fixed heuristic, kept stable so stored
// descriptions and freshly computed ones agree.
func describeHex(hexColor string) string {
	r, err := strconv.ParseUint(hexColor[1:3], 16, 8)
	if err != nil {
		return hexColor
	}
	g, err := strconv.ParseUint(hexColor[3:5], 16, 8)
	if err != nil {
		return hexColor
	}
	b, err := strconv.ParseUint(hexColor[5:7], 16, 8)
	if err != nil {
		return hexColor
	}

	// Perceived brightness weighting (ITU-R BT.601 luma coefficients).
	brightness := (float64(r)*299 + float64(g)*587 + float64(b)*114) / 1000
	brightnessTerm := ""
	if brightness < 85 {
		brightnessTerm = "dark"
	} else if brightness > 170 {
		brightnessTerm = "light"
	}

	if r == 0 && g == 0 && b == 0 {
		return "black"
	}
	if r == g && g == b {
		if brightnessTerm != "" {
			return brightnessTerm + " gray"
		}
		return "gray"
	}

	rf, gf, bf := float64(r), float64(g), float64(b)
	var hue string
	switch {
	case rf >= gf && rf >= bf:
		if gf > bf {
			hue = "red"
			if gf > rf*0.5 {
				hue = "orange"
			}
		} else {
			hue = "red"
			if bf > rf*0.3 {
				hue = "pink"
			}
		}
	case gf >= rf && gf >= bf:
		if rf > bf {
			hue = "green"
			if rf > gf*0.5 {
				hue = "yellow-green"
			}
		} else {
			hue = "green"
			if bf > gf*0.3 {
				hue = "teal"
			}
		}
	default:
		if rf > gf {
			hue = "blue"
			if rf > bf*0.3 {
				hue = "purple"
			}
		} else {
			hue = "blue"
			if gf > bf*0.3 {
				hue = "cyan"
			}
		}
	}

	return strings.TrimSpace(fmt.Sprintf("%s %s", brightnessTerm, hue))
}
