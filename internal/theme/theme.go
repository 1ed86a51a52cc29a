package theme

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultName is the built-in theme used when no override is provided.
const DefaultName = "fjord-light"

// Token represents a semantic color slot within the CLI.
type Token string

const (
	ColorTextPrimary   Token = "text.primary"
	ColorTextSecondary Token = "text.secondary"
	ColorTextMuted     Token = "text.muted"
	ColorBorder        Token = "border"
	ColorAccent        Token = "accent"
	ColorAccentText    Token = "accent.text"
	ColorSuccess       Token = "success"
	ColorDanger        Token = "danger"
	ColorHighlight     Token = "highlight"
	ColorHighlightText Token = "highlight.text"
)

// Color stores light and dark variants for adaptive rendering.
type Color struct {
	Light string
	Dark  string
}

// Adaptive converts the color into a lipgloss adaptive color.
func (c Color) Adaptive() lipgloss.AdaptiveColor {
	light, dark := strings.TrimSpace(c.Light), strings.TrimSpace(c.Dark)
	switch {
	case light == "" && dark == "":
		return lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#000000"}
	case light == "":
		light = dark
	case dark == "":
		dark = light
	}
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// Palette represents a concrete theme.
type Palette struct {
	Name        string
	DisplayName string
	Colors      map[Token]Color
}

// Color returns a color for the provided token, falling back to the default palette.
func (p Palette) Color(token Token) Color {
	if c, ok := p.Colors[token]; ok {
		return c
	}
	return fallbackColor(token)
}

// Adaptive returns the lipgloss adaptive color for the provided token.
func (p Palette) Adaptive(token Token) lipgloss.AdaptiveColor {
	return p.Color(token).Adaptive()
}

// ForegroundStyle returns a lipgloss style with the foreground set to the requested token.
func (p Palette) ForegroundStyle(token Token) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Adaptive(token))
}

type contextKey struct{}

var (
	registryOnce sync.Once
	registryMu   sync.RWMutex
	palettes     map[string]Palette
	current      Palette
	defaultPal   Palette
	themeKey     contextKey
)

// ContextWithPalette stores the palette on the context.
func ContextWithPalette(ctx context.Context, p Palette) context.Context {
	return context.WithValue(ctx, themeKey, p)
}

// FromContext returns the palette stored on the context or the current palette.
func FromContext(ctx context.Context) Palette {
	if ctx != nil {
		if p, ok := ctx.Value(themeKey).(Palette); ok {
			return p
		}
	}
	return Current()
}

// Available returns the registered theme IDs, sorted.
func Available() []string {
	ensureRegistry()

	registryMu.RLock()
	defer registryMu.RUnlock()

	keys := make([]string, 0, len(palettes))
	for k := range palettes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the palette with the provided name.
func Get(name string) (Palette, bool) {
	ensureRegistry()

	registryMu.RLock()
	defer registryMu.RUnlock()

	p, ok := palettes[sanitizeName(name)]
	return p, ok
}

// SetCurrent sets the active palette. An empty name selects the default.
func SetCurrent(name string) error {
	ensureRegistry()

	name = sanitizeName(name)
	if name == "" {
		name = DefaultName
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	p, ok := palettes[name]
	if !ok {
		return fmt.Errorf("unknown color theme %q, must be one of %v", name, sortedNames())
	}
	current = p
	return nil
}

// Current returns the active palette.
func Current() Palette {
	ensureRegistry()

	registryMu.RLock()
	defer registryMu.RUnlock()

	return current
}

func ensureRegistry() {
	registryOnce.Do(func() {
		registryMu.Lock()
		defer registryMu.Unlock()

		palettes = make(map[string]Palette)
		registerPalette(newPalette(DefaultName, "Fjord Light", seeds{
			text: "#1B1F24", surface: "#FFFFFF", accent: "#2F6FB3",
			success: "#2E8540", danger: "#C0392B",
		}))
		registerPalette(newPalette("fjord-dark", "Fjord Dark", seeds{
			text: "#E6E9EF", surface: "#14171C", accent: "#6FA8E8",
			success: "#7BC47F", danger: "#F07167",
		}))
		defaultPal = palettes[DefaultName]
		current = defaultPal
	})
}

func registerPalette(p Palette) {
	p.Name = sanitizeName(p.Name)
	palettes[p.Name] = p
}

func sortedNames() []string {
	keys := make([]string, 0, len(palettes))
	for k := range palettes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fallbackColor(token Token) Color {
	if c, ok := defaultPal.Colors[token]; ok {
		return c
	}
	return Color{Light: "#FFFFFF", Dark: "#000000"}
}

func sanitizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

// seeds are the hand-picked colors of a palette; every other token is
// derived from them.
type seeds struct {
	text    string
	surface string
	accent  string
	success string
	danger  string
}

func newPalette(name, display string, s seeds) Palette {
	towardSurface := func(hex string, amount float64) string {
		return blendHex(hex, s.surface, amount)
	}
	return Palette{
		Name:        name,
		DisplayName: display,
		Colors: map[Token]Color{
			ColorTextPrimary:   singleColor(s.text),
			ColorTextSecondary: singleColor(towardSurface(s.text, 0.25)),
			ColorTextMuted:     singleColor(towardSurface(s.text, 0.45)),
			ColorBorder:        singleColor(towardSurface(s.text, 0.7)),
			ColorAccent:        singleColor(s.accent),
			ColorAccentText:    singleColor(contrastColor(s.accent)),
			ColorSuccess:       singleColor(s.success),
			ColorDanger:        singleColor(s.danger),
			ColorHighlight:     singleColor(towardSurface(s.accent, 0.75)),
			ColorHighlightText: singleColor(contrastColor(towardSurface(s.accent, 0.75))),
		},
	}
}

func singleColor(hex string) Color {
	h := normalizeHex(hex)
	return Color{Light: h, Dark: h}
}

func normalizeHex(hex string) string {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 3 {
		var b strings.Builder
		for _, r := range trimmed {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		trimmed = b.String()
	}
	if len(trimmed) > 6 {
		trimmed = trimmed[:6]
	}
	return "#" + strings.ToUpper(trimmed)
}

// blendHex mixes from toward to in Lab space. amount is clamped to [0, 1].
func blendHex(from, to string, amount float64) string {
	a, err := colorful.Hex(normalizeHex(from))
	if err != nil {
		return normalizeHex(from)
	}
	b, err := colorful.Hex(normalizeHex(to))
	if err != nil {
		return normalizeHex(from)
	}
	return normalizeHex(a.BlendLab(b, clampFloat(amount, 0, 1)).Clamped().Hex())
}

func contrastColor(hex string) string {
	c, err := colorful.Hex(normalizeHex(hex))
	if err != nil {
		return "#121418"
	}
	if relativeLuminance(c) > 0.55 {
		return "#121418"
	}
	return "#F8F8F8"
}

func clampFloat(val, minVal, maxVal float64) float64 {
	return max(minVal, min(val, maxVal))
}

func relativeLuminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
