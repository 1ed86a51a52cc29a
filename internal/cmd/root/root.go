package root

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fjord-cli/fjord/internal/build"
	"github.com/fjord-cli/fjord/internal/cmd"
	"github.com/fjord-cli/fjord/internal/cmd/common"
	"github.com/fjord-cli/fjord/internal/cmd/root/verbs/dashboard"
	"github.com/fjord-cli/fjord/internal/cmd/root/verbs/list"
	"github.com/fjord-cli/fjord/internal/cmd/root/version"
	"github.com/fjord-cli/fjord/internal/config"
	apperr "github.com/fjord-cli/fjord/internal/err"
	"github.com/fjord-cli/fjord/internal/iostreams"
	"github.com/fjord-cli/fjord/internal/log"
	"github.com/fjord-cli/fjord/internal/meta"
	"github.com/fjord-cli/fjord/internal/theme"
	"github.com/fjord-cli/fjord/internal/util"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

var (
	rootLong = common.LongDesc(`
  fjord is a terminal dashboard for mentors of the FJORD BOOT CAMP. It lists
  unchecked reports and products nobody has responded to yet, one tab per
  resource, and opens the selected item in the browser.

  Running fjord without a command starts the dashboard.`)

	rootShort = fmt.Sprintf("%s shows pending reports and products", meta.CLIName)

	rootCmd *cobra.Command

	// Stores the global runtime value for the Configuration file path,
	configFilePath = config.ExpandDefaultConfigFilePath()
	currProfile    = common.DefaultProfile

	currConfig   config.Hook
	streams      *iostreams.IOStreams
	logger       *slog.Logger
	closeLogger  = func() error { return nil }
	outputFormat = cmd.NewEnum([]string{"json", "yaml", "text"}, common.DefaultOutputFormat)
	logLevel     = cmd.NewEnum([]string{"trace", "debug", "info", "warn", "error"}, common.DefaultLogLevel)
	colorTheme   = cmd.NewEnum(theme.Available(), common.DefaultColorTheme)

	buildInfo *build.Info
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   meta.CLIName,
		Short: rootShort,
		Long:  rootLong,
		Args:  cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			ctx := context.WithValue(cmd.Context(), config.ConfigKey, currConfig)
			ctx = context.WithValue(ctx, iostreams.StreamsKey, streams)
			ctx = context.WithValue(ctx, log.LoggerKey, logger)
			ctx = context.WithValue(ctx, build.InfoKey, buildInfo)
			ctx = theme.ContextWithPalette(ctx, theme.Current())
			cmd.SetContext(ctx)
		},
		// the bare command starts the dashboard
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)
			if err := dashboard.BindFlags(helper); err != nil {
				return err
			}
			return dashboard.Run(helper)
		},
	}

	// parses all flags not just the target command
	rootCmd.TraverseChildren = true

	rootCmd.PersistentFlags().StringVar(&configFilePath, common.ConfigFilePathFlagName,
		config.ExpandDefaultConfigFilePath(),
		"Path to the configuration file to load.")

	rootCmd.PersistentFlags().StringVarP(&currProfile, common.ProfileFlagName, common.ProfileFlagShort,
		common.DefaultProfile,
		fmt.Sprintf("Specify the profile to use for this command. Also read from %s_PROFILE.", meta.EnvPrefix))

	// -------------------------------------------------------------------------
	// Flags limited to a fixed set of values go through FlagEnum so pflag
	// rejects anything else at parse time.
	rootCmd.PersistentFlags().VarP(outputFormat, common.OutputFlagName, common.OutputFlagShort,
		fmt.Sprintf(`Configures the output format.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.OutputConfigPath, strings.Join(outputFormat.Allowed, "|")))

	rootCmd.PersistentFlags().Var(logLevel, common.LogLevelFlagName,
		fmt.Sprintf(`Configures the logging level.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.LogLevelConfigPath, strings.Join(logLevel.Allowed, "|")))

	rootCmd.PersistentFlags().Var(colorTheme, common.ColorThemeFlagName,
		fmt.Sprintf(`Configures the dashboard color theme.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.ColorThemeConfigPath, strings.Join(colorTheme.Allowed, "|")))
	// -------------------------------------------------------------------------

	rootCmd.PersistentFlags().String(common.LogFileFlagName, "",
		fmt.Sprintf(`Write log records to this file.
- Config path: [ %s ]`,
			common.LogFileConfigPath))

	return rootCmd
}

// addCommands adds the root subcommands to the command.
func addCommands() error {
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(dashboard.NewDashboardCmd())

	c, e := list.NewListCmd()
	if e != nil {
		return e
	}
	rootCmd.AddCommand(c)

	return nil
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()
	err := addCommands()
	util.CheckError(err)

	// Because the profile is not part of the configuration, we can't use viper
	// to read it following it's built in priorities.  So here we look for a well known
	// profile variable and set our package level variable if it's set before
	// continuing to process the command run.  This creates a ENV_VAR < CLI_FLAG priority
	profileEnvVar, found := os.LookupEnv(fmt.Sprintf("%s_PROFILE", meta.EnvPrefix))
	if found && profileEnvVar != "" {
		currProfile = profileEnvVar
	}
}

func initConfig() {
	util.CheckError(config.LoadDotEnv(".env"))

	cfg, e1 := config.GetConfig(configFilePath, currProfile, config.ExpandDefaultConfigFilePath())
	util.CheckError(e1)
	currConfig = cfg

	bindings := []struct{ flag, cfgPath string }{
		{common.OutputFlagName, common.OutputConfigPath},
		{common.LogLevelFlagName, common.LogLevelConfigPath},
		{common.LogFileFlagName, common.LogFileConfigPath},
		{common.ColorThemeFlagName, common.ColorThemeConfigPath},
	}
	for _, b := range bindings {
		f := rootCmd.PersistentFlags().Lookup(b.flag)
		util.CheckError(cfg.BindFlag(b.cfgPath, f))
	}

	util.CheckError(theme.SetCurrent(cfg.GetString(common.ColorThemeConfigPath)))

	l, closer, err := log.New(log.Options{
		Level:   cfg.GetString(common.LogLevelConfigPath),
		File:    cfg.GetString(common.LogFileConfigPath),
		Console: streams.ErrOut,
	})
	util.CheckError(err)
	logger, closeLogger = l, closer
	logger.Debug("configuration loaded",
		"profile", cfg.GetProfile(),
		"config_file", cfg.GetPath())
}

// Execute runs the command tree and exits non-zero on any failure.
func Execute(ctx context.Context, s *iostreams.IOStreams, bi *build.Info) {
	buildInfo = bi
	cobra.EnableTraverseRunHooks = true
	streams = s
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		var executionError *apperr.ExecutionError
		if errors.As(err, &executionError) {
			reportExecutionError(executionError, s)
		}
	}
	_ = closeLogger()
	if err != nil {
		os.Exit(1)
	}
}

// reportExecutionError writes err to the log and to s.ErrOut in the selected
// output format. Text output comes from the logger's console handler.
func reportExecutionError(err *apperr.ExecutionError, s *iostreams.IOStreams) {
	msg := err.Msg
	if msg == "" {
		msg = err.Error()
	}

	format := outputFormat.String()
	if currConfig != nil {
		format = currConfig.GetString(common.OutputConfigPath)
	}
	structured := format == common.JSON.String() || format == common.YAML.String()

	if logger != nil {
		if structured {
			log.DisableErrorMirroring()
			defer log.EnableErrorMirroring()
		}
		logger.Error(msg, err.Attrs...)
		if !structured {
			return
		}
	}

	if !structured {
		fmt.Fprintf(s.ErrOut, "Error: %s\n", msg)
		return
	}

	report := map[string]any{"error": msg}
	for i := 0; i+1 < len(err.Attrs); i += 2 {
		if key, ok := err.Attrs[i].(string); ok {
			report[key] = err.Attrs[i+1]
		}
	}
	printer, perr := cli.Format(format, s.ErrOut)
	if perr != nil {
		fmt.Fprintf(s.ErrOut, "Error: %s\n", msg)
		return
	}
	defer printer.Flush()
	printer.Print(report)
}
