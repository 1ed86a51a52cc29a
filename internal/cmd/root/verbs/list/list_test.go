package list

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/fjord-cli/fjord/internal/cmd/common"
	jqoutput "github.com/fjord-cli/fjord/internal/cmd/output/jq"
	"github.com/fjord-cli/fjord/internal/config"
	"github.com/fjord-cli/fjord/internal/dashboard"
	apperr "github.com/fjord-cli/fjord/internal/err"
	"github.com/fjord-cli/fjord/internal/iostreams"
	"github.com/fjord-cli/fjord/internal/log"
	"github.com/fjord-cli/fjord/internal/remote"
	"github.com/fjord-cli/fjord/test/cmd"
	testConfig "github.com/fjord-cli/fjord/test/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	items []dashboard.Item
	err   error
	kinds []dashboard.Kind
	ctx   context.Context
}

func (f *fakeSource) Fetch(ctx context.Context, kind dashboard.Kind) ([]dashboard.Item, error) {
	f.kinds = append(f.kinds, kind)
	f.ctx = ctx
	return f.items, f.err
}

type fixture struct {
	helper *cmd.MockHelper
	source *fakeSource
	out    func() string
	bools  map[string]bool
	cmd    *cobra.Command
}

func newFixture(t *testing.T, format common.OutputFormat, args ...string) *fixture {
	t.Helper()
	streams, _, out, _ := iostreams.NewTestIOStreams()
	c, err := NewListCmd()
	require.NoError(t, err)

	f := &fixture{
		source: &fakeSource{},
		out:    out.String,
		bools:  map[string]bool{},
		cmd:    c,
	}
	cfg := &testConfig.MockConfigHook{
		GetBoolMock: func(key string) bool { return f.bools[key] },
	}
	f.helper = &cmd.MockHelper{
		GetCmdMock:  func() *cobra.Command { return f.cmd },
		GetArgsMock: func() []string { return args },
		GetStreamsMock: func() *iostreams.IOStreams {
			return &streams
		},
		GetConfigMock: func() (config.Hook, error) { return cfg, nil },
		GetOutputFormatMock: func() (common.OutputFormat, error) {
			return format, nil
		},
		GetItemSourceMock: func(config.Hook, *slog.Logger) (remote.Source, error) {
			return f.source, nil
		},
	}
	return f
}

func TestListText(t *testing.T) {
	f := newFixture(t, common.TEXT, "reports")
	f.source.items = []dashboard.Item{
		{Kind: dashboard.KindReports, Title: "日報", URL: "https://example.test/r/1", ReportedOn: "2024-01-01", Owner: "alice"},
		{Kind: dashboard.KindReports, Title: "weekly", URL: "https://example.test/r/2", ReportedOn: "2024-01-02", Owner: "bob"},
	}

	require.NoError(t, run(f.helper))
	require.Equal(t, []dashboard.Kind{dashboard.KindReports}, f.source.kinds)
	require.Equal(t, ""+
		"TITLE   REPORTED ON  USER\n"+
		"日報    2024-01-01   alice\n"+
		"weekly  2024-01-02   bob\n", f.out())

	lc := log.FetchLogContextFromContext(f.source.ctx)
	require.Equal(t, "list", lc.Command)
	require.Equal(t, "Reports", lc.Tab)
}

func TestListTextProductsAssignedColumn(t *testing.T) {
	f := newFixture(t, common.TEXT, "products")
	f.source.items = []dashboard.Item{
		{Kind: dashboard.KindProducts, Title: "Ruby", UpdatedOn: "2024-02-01", Owner: "carol", Assigned: true},
		{Kind: dashboard.KindProducts, Title: "Go", UpdatedOn: "2024-02-02", Owner: "dave"},
	}

	require.NoError(t, run(f.helper))
	require.Equal(t, ""+
		"TITLE  UPDATED ON  USER   ASSIGNED\n"+
		"Ruby   2024-02-01  carol  ✓\n"+
		"Go     2024-02-02  dave   -\n", f.out())
}

func TestListTextEmpty(t *testing.T) {
	f := newFixture(t, common.TEXT, "products")

	require.NoError(t, run(f.helper))
	require.Equal(t, "No products found.\n", f.out())
}

func TestListJSON(t *testing.T) {
	f := newFixture(t, common.JSON, "products")
	f.source.items = []dashboard.Item{
		{Kind: dashboard.KindProducts, Title: "Ruby", URL: "https://example.test/p/1", Owner: "carol", Assigned: true},
	}

	require.NoError(t, run(f.helper))

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.out()), &got))
	require.Len(t, got, 1)
	require.Equal(t, "Ruby", got[0]["title"])
	require.Equal(t, true, got[0]["assigned"])
}

func TestListJQFilter(t *testing.T) {
	f := newFixture(t, common.JSON, "reports")
	f.source.items = []dashboard.Item{
		{Kind: dashboard.KindReports, Title: "a", URL: "https://example.test/r/1"},
		{Kind: dashboard.KindReports, Title: "b", URL: "https://example.test/r/2"},
	}
	require.NoError(t, f.cmd.Flags().Set(jqoutput.FlagName, "[.[].title]"))

	require.NoError(t, run(f.helper))

	var got []string
	require.NoError(t, json.Unmarshal([]byte(f.out()), &got))
	require.Equal(t, []string{"a", "b"}, got)
}

func TestListJQRawOutput(t *testing.T) {
	f := newFixture(t, common.JSON, "reports")
	f.source.items = []dashboard.Item{
		{Kind: dashboard.KindReports, Title: "a", URL: "https://example.test/r/1"},
		{Kind: dashboard.KindReports, Title: "b", URL: "https://example.test/r/2"},
	}
	require.NoError(t, f.cmd.Flags().Set(jqoutput.FlagName, ".[].url"))
	f.bools[jqoutput.RawOutputConfigPath] = true

	require.NoError(t, run(f.helper))
	require.Equal(t, "https://example.test/r/1\nhttps://example.test/r/2\n", f.out())
}

func TestListJQRequiresStructuredOutput(t *testing.T) {
	f := newFixture(t, common.TEXT, "reports")
	require.NoError(t, f.cmd.Flags().Set(jqoutput.FlagName, "."))

	err := run(f.helper)
	var cfgErr *apperr.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Empty(t, f.source.kinds)
}

func TestListUnknownKind(t *testing.T) {
	f := newFixture(t, common.TEXT, "issues")

	err := run(f.helper)
	var cfgErr *apperr.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Empty(t, f.source.kinds)
}

func TestListFetchError(t *testing.T) {
	f := newFixture(t, common.TEXT, "reports")
	f.source.err = &apperr.TransportError{Resource: "reports/unchecked", Page: 2, StatusCode: 502}

	err := run(f.helper)
	var execErr *apperr.ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, []any{"resource", "reports/unchecked", "page", 2, "status", 502}, execErr.Attrs)
	require.Empty(t, f.out())
}

func TestListAuthMissing(t *testing.T) {
	f := newFixture(t, common.TEXT, "reports")
	f.source.err = &apperr.AuthMissingError{Source: "FJORD_JWT_TOKEN"}

	err := run(f.helper)
	require.ErrorIs(t, err, apperr.ErrAuthMissing)
}
