package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, name := range []string{"reports", "Report", " r "} {
		k, err := ParseKind(name)
		require.NoError(t, err)
		require.Equal(t, KindReports, k)
	}
	k, err := ParseKind("p")
	require.NoError(t, err)
	require.Equal(t, KindProducts, k)

	_, err = ParseKind("users")
	require.Error(t, err)
}

func TestKindEndpoints(t *testing.T) {
	require.Equal(t, "reports/unchecked", KindReports.Resource())
	require.Equal(t, "products/not_responded", KindProducts.Resource())
	require.Equal(t, "reports", KindReports.Collection())
	require.Equal(t, "products", KindProducts.Collection())
	require.Equal(t, "Reports", KindReports.Label())
	require.Equal(t, 500*time.Millisecond, KindReports.PageInterval())
	require.Equal(t, 200*time.Millisecond, KindProducts.PageInterval())
}

func TestItemRowMatchesHeader(t *testing.T) {
	for _, k := range Kinds() {
		item := Item{Kind: k, Title: "t", URL: "u", Owner: "o"}
		require.Len(t, item.Row(), len(k.Header()), k.String())
	}

	product := Item{Kind: KindProducts, Title: "Practice", UpdatedOn: "2024-05-01", Owner: "bob", Assigned: true}
	require.Equal(t, Row{"Practice", "2024-05-01", "bob", "✓"}, product.Row())

	product.Assigned = false
	require.Equal(t, "", product.Row()[3])
}
