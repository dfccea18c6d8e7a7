package charts

import (
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"saludcl/internal/config"
	"saludcl/internal/models"
)

// Theme is the palette every chart draws with.
type Theme struct {
	Name    string
	Public  drawing.Color
	Private drawing.Color
}

// Presets are the named palettes selectable from configuration.
var Presets = map[string]config.ThemeConfig{
	"default":  {Name: "default", Public: "#5d7480", Private: "#fc8d62"},
	"contrast": {Name: "contrast", Public: "#1f77b4", Private: "#ff7f0e"},
}

// NewTheme builds a theme from configuration. A known preset name with empty
// colors takes the preset's colors.
func NewTheme(cfg config.ThemeConfig) (Theme, error) {
	if preset, ok := Presets[cfg.Name]; ok {
		if cfg.Public == "" {
			cfg.Public = preset.Public
		}

		if cfg.Private == "" {
			cfg.Private = preset.Private
		}
	}

	public, err := parseHex(cfg.Public)
	if err != nil {
		return Theme{}, err
	}

	private, err := parseHex(cfg.Private)
	if err != nil {
		return Theme{}, err
	}

	return Theme{Name: cfg.Name, Public: public, Private: private}, nil
}

// DefaultTheme is the "default" preset.
func DefaultTheme() Theme {
	t, _ := NewTheme(Presets["default"])

	return t
}

// Color returns the color assigned to a system type.
func (t Theme) Color(system string) drawing.Color {
	if system == models.SystemPrivate {
		return t.Private
	}

	return t.Public
}

func parseHex(s string) (drawing.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return drawing.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	return drawing.ColorFromHex(hex), nil
}
