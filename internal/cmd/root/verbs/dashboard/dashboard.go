package dashboard

import (
	"fmt"

	"github.com/fjord-cli/fjord/internal/cmd"
	"github.com/fjord-cli/fjord/internal/cmd/common"
	"github.com/fjord-cli/fjord/internal/cmd/output/dashboardview"
	"github.com/fjord-cli/fjord/internal/cmd/root/verbs"
	dash "github.com/fjord-cli/fjord/internal/dashboard"
	apperr "github.com/fjord-cli/fjord/internal/err"
	"github.com/fjord-cli/fjord/internal/iostreams"
	"github.com/fjord-cli/fjord/internal/launcher"
	"github.com/fjord-cli/fjord/internal/log"
	"github.com/fjord-cli/fjord/internal/meta"
	"github.com/fjord-cli/fjord/internal/theme"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Dashboard
)

var (
	dashboardUse = Verb.String()

	dashboardShort = "Browse pending reports and products in an interactive dashboard"

	dashboardLong = common.LongDesc(`
The dashboard shows one tab per resource. A tab's items are fetched the first
time the tab is shown and kept until refreshed.

Keys:
  h/l or left/right   switch tab
  j/k or down/up      move the selection, wrapping at either end
  o                   open the selected item in the browser
  y                   copy the selected item's URL
  r                   refresh the current tab
  ?                   toggle help
  q or ctrl+c         quit`)

	dashboardExamples = common.Examples(fmt.Sprintf(`
		# Start the dashboard with the configured tabs
		%[1]s dashboard
		# Show products first
		%[1]s dashboard --tabs products,reports
		# Use a different profile and theme
		%[1]s dashboard -p mentor --color-theme fjord-dark
		`, meta.CLIName))
)

var (
	// runDashboard and isInteractive are replaced in tests.
	runDashboard  = dashboardview.Run
	isInteractive = func(s *iostreams.IOStreams) bool { return s.IsInteractive() }
)

func NewDashboardCmd() *cobra.Command {
	c := &cobra.Command{
		Use:     dashboardUse,
		Short:   dashboardShort,
		Long:    dashboardLong,
		Example: dashboardExamples,
		Aliases: []string{"ui", "d"},
		Args:    cobra.NoArgs,
		PreRunE: func(c *cobra.Command, args []string) error {
			return BindFlags(cmd.BuildHelper(c, args))
		},
		RunE: func(c *cobra.Command, args []string) error {
			return Run(cmd.BuildHelper(c, args))
		},
	}

	c.Flags().StringSlice(common.TabsFlagName, nil,
		fmt.Sprintf(`Ordered list of tabs to show.
- Config path: [ %s ]
- Allowed    : [ reports|products ]`, common.TabsConfigPath))
	c.Flags().Duration(common.TickIntervalFlagName, 0,
		fmt.Sprintf(`How often the dashboard checks whether the current tab needs loading.
- Config path: [ %s ]
- Default   : [ %s ]`, common.TickIntervalConfigPath, common.DefaultTickInterval))
	cmd.AddSourceFlags(c.Flags())

	return c
}

// BindFlags binds whichever dashboard flags the command carries.
func BindFlags(helper cmd.Helper) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	flags := helper.GetCmd().Flags()
	bindings := []struct{ flag, cfgPath string }{
		{common.TabsFlagName, common.TabsConfigPath},
		{common.TickIntervalFlagName, common.TickIntervalConfigPath},
	}
	for _, b := range bindings {
		if f := flags.Lookup(b.flag); f != nil {
			if err := cfg.BindFlag(b.cfgPath, f); err != nil {
				return err
			}
		}
	}
	return cmd.BindSourceFlags(cfg, flags)
}

// Run starts the dashboard for the configured tabs and blocks until the user
// quits or a fetch fails.
func Run(helper cmd.Helper) error {
	streams := helper.GetStreams()
	if !isInteractive(streams) {
		return &apperr.ConfigurationError{
			Err: fmt.Errorf("the %s command requires an interactive terminal, use \"%s list\" instead",
				Verb, meta.CLIName),
		}
	}

	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}

	registry, err := buildRegistry(cfg.GetStringSlice(common.TabsConfigPath))
	if err != nil {
		return err
	}

	tick := cfg.GetDuration(common.TickIntervalConfigPath)
	if tick < 0 {
		return &apperr.ConfigurationError{
			Err: fmt.Errorf("%s cannot be negative, got %s", common.TickIntervalConfigPath, tick),
		}
	}

	source, err := helper.GetItemSource(cfg, logger)
	if err != nil {
		return err
	}

	ctx := log.WithFetchLogContext(helper.GetContext(), log.FetchLogContext{Command: Verb.String()})
	palette := theme.FromContext(ctx)

	logger.Debug("starting dashboard",
		"profile", cfg.GetProfile(),
		"tabs", registry.Labels(),
		"tick_interval", tick.String())

	err = runDashboard(ctx, streams, dashboardview.Options{
		Registry:     registry,
		Source:       source,
		Opener:       launcher.NewBrowserOpener(),
		Copier:       launcher.ClipboardCopier{},
		Renderer:     dashboardview.NewTableRenderer(&palette),
		TickInterval: tick,
		Profile:      cfg.GetProfile(),
		Logger:       logger,
	})
	if err != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, err)
	}
	return nil
}

func buildRegistry(names []string) (*dash.TabRegistry, error) {
	if len(names) == 0 {
		names = common.DefaultTabs
	}

	kinds := make([]dash.Kind, 0, len(names))
	seen := make(map[dash.Kind]bool, len(names))
	for _, name := range names {
		kind, err := dash.ParseKind(name)
		if err != nil {
			return nil, &apperr.ConfigurationError{Err: err}
		}
		if seen[kind] {
			return nil, &apperr.ConfigurationError{
				Err: fmt.Errorf("tab %q is listed more than once in %s", kind, common.TabsConfigPath),
			}
		}
		seen[kind] = true
		kinds = append(kinds, kind)
	}

	registry, err := dash.NewTabRegistry(dash.TabsForKinds(kinds...)...)
	if err != nil {
		return nil, &apperr.ConfigurationError{Err: err}
	}
	return registry, nil
}
