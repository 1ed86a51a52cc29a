package theme

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAvailableThemes(t *testing.T) {
	require.Equal(t, []string{"fjord-dark", "fjord-light"}, Available())
}

func TestSetCurrent(t *testing.T) {
	t.Cleanup(func() { require.NoError(t, SetCurrent(DefaultName)) })

	require.NoError(t, SetCurrent(" Fjord-Dark "))
	require.Equal(t, "fjord-dark", Current().Name)

	require.NoError(t, SetCurrent(""))
	require.Equal(t, DefaultName, Current().Name)

	err := SetCurrent("solarized")
	require.ErrorContains(t, err, "fjord-light")
	require.Equal(t, DefaultName, Current().Name)
}

func TestDerivedColorsAreValid(t *testing.T) {
	for _, name := range Available() {
		p, ok := Get(name)
		require.True(t, ok)
		for token, c := range p.Colors {
			require.Regexp(t, `^#[0-9A-F]{6}$`, c.Light, "%s %s", name, token)
		}
		require.NotEqual(t, p.Color(ColorTextPrimary), p.Color(ColorTextMuted))
	}
}

func TestContrastColor(t *testing.T) {
	require.Equal(t, "#121418", contrastColor("#FFFFFF"))
	require.Equal(t, "#F8F8F8", contrastColor("#000"))
}

func TestBlendHex(t *testing.T) {
	require.Equal(t, "#000000", blendHex("#000000", "#FFFFFF", 0))
	require.Equal(t, "#FFFFFF", blendHex("#000000", "#FFFFFF", 2))
	require.Equal(t, "#ABCDEF", normalizeHex(" abcdef "))
	require.Equal(t, "#AABBCC", normalizeHex("#abc"))
}

func TestFromContext(t *testing.T) {
	dark, ok := Get("fjord-dark")
	require.True(t, ok)

	ctx := ContextWithPalette(context.Background(), dark)
	require.Equal(t, "fjord-dark", FromContext(ctx).Name)
	require.Equal(t, Current().Name, FromContext(context.Background()).Name)
}

func TestUnknownTokenFallsBack(t *testing.T) {
	p := Palette{Name: "empty"}
	require.Equal(t, Current().Color(ColorAccent).Light, p.Color(ColorAccent).Light)
}
