package dashboard

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/fjord-cli/fjord/internal/cmd/common"
	"github.com/fjord-cli/fjord/internal/cmd/output/dashboardview"
	"github.com/fjord-cli/fjord/internal/config"
	dash "github.com/fjord-cli/fjord/internal/dashboard"
	apperr "github.com/fjord-cli/fjord/internal/err"
	"github.com/fjord-cli/fjord/internal/iostreams"
	"github.com/fjord-cli/fjord/internal/log"
	"github.com/fjord-cli/fjord/internal/remote"
	"github.com/fjord-cli/fjord/test/cmd"
	testConfig "github.com/fjord-cli/fjord/test/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

type nopSource struct{}

func (nopSource) Fetch(context.Context, dash.Kind) ([]dash.Item, error) {
	return nil, nil
}

type captured struct {
	calls int
	ctx   context.Context
	opts  dashboardview.Options
}

func stubRun(t *testing.T, interactive bool, result error) *captured {
	t.Helper()
	got := &captured{}
	origRun, origInteractive := runDashboard, isInteractive
	t.Cleanup(func() {
		runDashboard, isInteractive = origRun, origInteractive
	})
	isInteractive = func(*iostreams.IOStreams) bool { return interactive }
	runDashboard = func(ctx context.Context, _ *iostreams.IOStreams, opts dashboardview.Options) error {
		got.calls++
		got.ctx = ctx
		got.opts = opts
		return result
	}
	return got
}

func newHelper(tabs []string, tick time.Duration) *cmd.MockHelper {
	streams, _, _, _ := iostreams.NewTestIOStreams()
	cfg := &testConfig.MockConfigHook{
		GetStringSliceMock: func(key string) []string {
			if key == common.TabsConfigPath {
				return tabs
			}
			return nil
		},
		GetDurationMock: func(key string) time.Duration {
			if key == common.TickIntervalConfigPath {
				return tick
			}
			return 0
		},
		GetProfileMock: func() string { return "mentor" },
	}
	return &cmd.MockHelper{
		GetCmdMock:     func() *cobra.Command { return NewDashboardCmd() },
		GetStreamsMock: func() *iostreams.IOStreams { return &streams },
		GetConfigMock:  func() (config.Hook, error) { return cfg, nil },
		GetItemSourceMock: func(config.Hook, *slog.Logger) (remote.Source, error) {
			return nopSource{}, nil
		},
	}
}

func TestRunWiresOptions(t *testing.T) {
	got := stubRun(t, true, nil)

	require.NoError(t, Run(newHelper([]string{"products", "reports"}, 50*time.Millisecond)))
	require.Equal(t, 1, got.calls)
	require.Equal(t, []string{"Products", "Reports"}, got.opts.Registry.Labels())
	require.Equal(t, 50*time.Millisecond, got.opts.TickInterval)
	require.Equal(t, "mentor", got.opts.Profile)
	require.IsType(t, nopSource{}, got.opts.Source)
	require.NotNil(t, got.opts.Opener)
	require.NotNil(t, got.opts.Copier)
	require.NotNil(t, got.opts.Renderer)
	require.Equal(t, "dashboard", log.FetchLogContextFromContext(got.ctx).Command)
}

func TestRunDefaultsTabs(t *testing.T) {
	got := stubRun(t, true, nil)

	require.NoError(t, Run(newHelper(nil, 0)))
	require.Equal(t, []string{"Reports", "Products"}, got.opts.Registry.Labels())
}

func TestRunRequiresInteractiveTerminal(t *testing.T) {
	got := stubRun(t, false, nil)

	err := Run(newHelper(nil, 0))
	var cfgErr *apperr.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Contains(t, err.Error(), "fjord list")
	require.Zero(t, got.calls)
}

func TestRunRejectsBadTabs(t *testing.T) {
	tests := []struct {
		name string
		tabs []string
	}{
		{name: "unknown kind", tabs: []string{"reports", "issues"}},
		{name: "duplicate kind", tabs: []string{"reports", "r"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stubRun(t, true, nil)

			err := Run(newHelper(tt.tabs, 0))
			var cfgErr *apperr.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			require.Zero(t, got.calls)
		})
	}
}

func TestRunRejectsNegativeTick(t *testing.T) {
	got := stubRun(t, true, nil)

	err := Run(newHelper(nil, -time.Second))
	var cfgErr *apperr.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Zero(t, got.calls)
}

func TestRunWrapsFetchFailure(t *testing.T) {
	fetchErr := &apperr.DecodeError{Resource: "products/not_responded", Page: 1}
	stubRun(t, true, fetchErr)

	err := Run(newHelper(nil, 0))
	var execErr *apperr.ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.ErrorIs(t, err, fetchErr)
	require.Equal(t, []any{"resource", "products/not_responded", "page", 1}, execErr.Attrs)
}

func TestBindFlags(t *testing.T) {
	bound := map[string]string{}
	c := NewDashboardCmd()
	helper := &cmd.MockHelper{
		GetCmdMock: func() *cobra.Command { return c },
		GetConfigMock: func() (config.Hook, error) {
			return &testConfig.MockConfigHook{
				BindFlagMock: func(path string, f *pflag.Flag) error {
					bound[path] = f.Name
					return nil
				},
			}, nil
		},
	}

	require.NoError(t, BindFlags(helper))
	require.Equal(t, map[string]string{
		common.TabsConfigPath:         common.TabsFlagName,
		common.TickIntervalConfigPath: common.TickIntervalFlagName,
		common.BaseURLConfigPath:      common.BaseURLFlagName,
		common.PageIntervalConfigPath: common.PageIntervalFlagName,
	}, bound)
}

func TestLongHelpListsOnlyBoundKeys(t *testing.T) {
	km := dash.DefaultKeyMap()
	_, keys, found := strings.Cut(dashboardLong, "Keys:\n")
	require.True(t, found)

	var listed int
	for _, line := range strings.Split(keys, "\n") {
		names, _, _ := strings.Cut(strings.TrimSpace(line), "  ")
		for _, alt := range strings.Split(names, " or ") {
			for _, name := range strings.Split(alt, "/") {
				require.NotEqual(t, dash.ActionNone, km.Action(name), "key %q in help text", name)
				listed++
			}
		}
	}
	require.Greater(t, listed, 10)
	require.Equal(t, dash.ActionNone, km.Action("enter"))
}
