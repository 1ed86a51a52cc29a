package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fjord-cli/fjord/internal/build"
	"github.com/fjord-cli/fjord/internal/cmd/common"
	"github.com/fjord-cli/fjord/internal/config"
	apperr "github.com/fjord-cli/fjord/internal/err"
	"github.com/fjord-cli/fjord/internal/iostreams"
	"github.com/fjord-cli/fjord/internal/log"
	"github.com/fjord-cli/fjord/internal/remote"
	"github.com/spf13/cobra"
)

// Helper gives commands access to what the root command placed on the
// context.
type Helper interface {
	GetCmd() *cobra.Command
	GetArgs() []string
	GetStreams() *iostreams.IOStreams
	GetConfig() (config.Hook, error)
	GetOutputFormat() (common.OutputFormat, error)
	GetLogger() (*slog.Logger, error)
	GetBuildInfo() (*build.Info, error)
	GetContext() context.Context
	GetItemSource(cfg config.Hook, logger *slog.Logger) (remote.Source, error)
}

type CommandHelper struct {
	// Cmd is a pointer to the command that is being executed
	Cmd *cobra.Command
	// Args are the arguments (not flags) passed to the command
	Args []string
}

func (r *CommandHelper) GetCmd() *cobra.Command {
	return r.Cmd
}

func (r *CommandHelper) GetArgs() []string {
	return r.Args
}

func (r *CommandHelper) GetContext() context.Context {
	if ctx := r.Cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (r *CommandHelper) GetBuildInfo() (*build.Info, error) {
	info, ok := r.GetContext().Value(build.InfoKey).(*build.Info)
	if !ok || info == nil {
		return nil, &apperr.ConfigurationError{
			Err: fmt.Errorf("no build info configured"),
		}
	}
	return info, nil
}

func (r *CommandHelper) GetLogger() (*slog.Logger, error) {
	logger, ok := r.GetContext().Value(log.LoggerKey).(*slog.Logger)
	if !ok || logger == nil {
		return nil, &apperr.ConfigurationError{
			Err: fmt.Errorf("no logger configured"),
		}
	}
	return logger, nil
}

func (r *CommandHelper) GetStreams() *iostreams.IOStreams {
	if streams, ok := r.GetContext().Value(iostreams.StreamsKey).(*iostreams.IOStreams); ok && streams != nil {
		return streams
	}
	return iostreams.GetOSIOStreams()
}

func (r *CommandHelper) GetConfig() (config.Hook, error) {
	cfg, ok := r.GetContext().Value(config.ConfigKey).(config.Hook)
	if !ok || cfg == nil {
		return nil, PrepareExecutionErrorMsg(r, "no config found in context")
	}
	return cfg, nil
}

func (r *CommandHelper) GetOutputFormat() (common.OutputFormat, error) {
	c, e := r.GetConfig()
	if e != nil {
		return common.TEXT, e
	}
	rv, e := common.OutputFormatStringToIota(c.GetString(common.OutputConfigPath))
	if e != nil {
		return common.TEXT, &apperr.ConfigurationError{Err: e}
	}
	return rv, nil
}

// GetItemSource builds the Source for this invocation using the factory on
// the context, falling back to the HTTP client.
func (r *CommandHelper) GetItemSource(cfg config.Hook, logger *slog.Logger) (remote.Source, error) {
	factory, ok := r.GetContext().Value(remote.SourceFactoryKey).(remote.SourceFactory)
	if !ok || factory == nil {
		factory = remote.DefaultSourceFactory
	}
	source, err := factory(cfg, logger)
	if err != nil {
		return nil, PrepareExecutionErrorFromErr(r, err)
	}
	return source, nil
}

func BuildHelper(cmd *cobra.Command, args []string) Helper {
	return &CommandHelper{
		Cmd:  cmd,
		Args: args,
	}
}

// PrepareExecutionErrorWithHelper mirrors PrepareExecutionError but accepts a Helper.
func PrepareExecutionErrorWithHelper(helper Helper, msg string, err error, attrs ...any) *apperr.ExecutionError {
	if helper == nil {
		return PrepareExecutionError(msg, err, nil, attrs...)
	}
	return PrepareExecutionError(msg, err, helper.GetCmd(), attrs...)
}

// PrepareExecutionErrorFromErr converts an arbitrary error into an ExecutionError. Fetch
// errors contribute their resource and page as attributes.
func PrepareExecutionErrorFromErr(helper Helper, err error, attrs ...any) *apperr.ExecutionError {
	if err == nil {
		return nil
	}
	attrs = append(apperr.Attrs(err), attrs...)
	return PrepareExecutionErrorWithHelper(helper, err.Error(), err, attrs...)
}

// PrepareExecutionErrorMsg builds an ExecutionError from a message when a backing error
// is not already available.
func PrepareExecutionErrorMsg(helper Helper, msg string, attrs ...any) *apperr.ExecutionError {
	if msg == "" {
		return PrepareExecutionErrorWithHelper(helper, msg, errors.New("an unknown error occurred"), attrs...)
	}
	return PrepareExecutionErrorWithHelper(helper, msg, errors.New(msg), attrs...)
}

// This will construct an execution error AND turn off error and usage output for the command
func PrepareExecutionError(msg string, err error, cmd *cobra.Command, attrs ...any) *apperr.ExecutionError {
	if cmd != nil {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
	}

	return &apperr.ExecutionError{
		Msg:   msg,
		Err:   err,
		Attrs: attrs,
	}
}
