package cmd

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fjord-cli/fjord/internal/build"
	"github.com/fjord-cli/fjord/internal/cmd/common"
	"github.com/fjord-cli/fjord/internal/config"
	"github.com/fjord-cli/fjord/internal/dashboard"
	apperr "github.com/fjord-cli/fjord/internal/err"
	"github.com/fjord-cli/fjord/internal/iostreams"
	"github.com/fjord-cli/fjord/internal/log"
	"github.com/fjord-cli/fjord/internal/remote"
	"github.com/spf13/cobra"
	v "github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newCmdWithContext(ctx context.Context) *cobra.Command {
	c := &cobra.Command{Use: "test"}
	c.SetContext(ctx)
	return c
}

func TestHelperReadsContextValues(t *testing.T) {
	streams, _, _, _ := iostreams.NewTestIOStreams()
	logger := slog.New(slog.DiscardHandler)
	info := &build.Info{Version: "1.2.3"}
	cfg := config.BuildProfiledConfig("default", "", v.New())

	ctx := context.Background()
	ctx = context.WithValue(ctx, iostreams.StreamsKey, &streams)
	ctx = context.WithValue(ctx, log.LoggerKey, logger)
	ctx = context.WithValue(ctx, build.InfoKey, info)
	ctx = context.WithValue(ctx, config.ConfigKey, config.Hook(cfg))

	h := BuildHelper(newCmdWithContext(ctx), []string{"reports"})
	require.Equal(t, []string{"reports"}, h.GetArgs())
	require.Same(t, &streams, h.GetStreams())

	gotLogger, err := h.GetLogger()
	require.NoError(t, err)
	require.Same(t, logger, gotLogger)

	gotInfo, err := h.GetBuildInfo()
	require.NoError(t, err)
	require.Equal(t, "1.2.3", gotInfo.Version)

	format, err := h.GetOutputFormat()
	require.NoError(t, err)
	require.Equal(t, common.TEXT, format)

	cfg.Set(common.OutputConfigPath, "json")
	format, err = h.GetOutputFormat()
	require.NoError(t, err)
	require.Equal(t, common.JSON, format)

	cfg.Set(common.OutputConfigPath, "xml")
	_, err = h.GetOutputFormat()
	var cfgErr *apperr.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestHelperMissingValues(t *testing.T) {
	c := newCmdWithContext(context.Background())
	h := BuildHelper(c, nil)

	_, err := h.GetLogger()
	require.Error(t, err)
	_, err = h.GetBuildInfo()
	require.Error(t, err)
	_, err = h.GetConfig()
	var execErr *apperr.ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.True(t, c.SilenceUsage)
}

func TestPrepareExecutionErrorFromErrAddsFetchAttrs(t *testing.T) {
	c := &cobra.Command{Use: "test"}
	fetchErr := &apperr.TransportError{Resource: "reports/unchecked", Page: 2, StatusCode: 503}

	execErr := PrepareExecutionErrorFromErr(BuildHelper(c, nil), fetchErr, "tab", "Reports")
	require.ErrorIs(t, execErr, fetchErr)
	require.Equal(t, []any{"resource", "reports/unchecked", "page", 2, "status", 503, "tab", "Reports"}, execErr.Attrs)
	require.True(t, c.SilenceErrors)

	require.Nil(t, PrepareExecutionErrorFromErr(nil, nil))
	require.Equal(t, "an unknown error occurred", PrepareExecutionErrorMsg(nil, "").Err.Error())
	require.Equal(t, errors.New("boom").Error(), PrepareExecutionErrorMsg(nil, "boom").Msg)
}

type nopSource struct{}

func (nopSource) Fetch(context.Context, dashboard.Kind) ([]dashboard.Item, error) {
	return nil, nil
}

func TestGetItemSourceUsesContextFactory(t *testing.T) {
	cfg := config.BuildProfiledConfig("default", "", v.New())
	var seen config.Hook
	factory := remote.SourceFactory(func(c config.Hook, _ *slog.Logger) (remote.Source, error) {
		seen = c
		return nopSource{}, nil
	})
	ctx := context.WithValue(context.Background(), remote.SourceFactoryKey, factory)

	source, err := BuildHelper(newCmdWithContext(ctx), nil).GetItemSource(cfg, nil)
	require.NoError(t, err)
	require.IsType(t, nopSource{}, source)
	require.Same(t, cfg, seen)
}

func TestGetItemSourceDefaultFactory(t *testing.T) {
	cfg := config.BuildProfiledConfig("default", "", v.New())
	h := BuildHelper(newCmdWithContext(context.Background()), nil)

	source, err := h.GetItemSource(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	require.IsType(t, &remote.Client{}, source)

	cfg.Set(common.BaseURLConfigPath, "not a url")
	_, err = h.GetItemSource(cfg, nil)
	var execErr *apperr.ExecutionError
	require.ErrorAs(t, err, &execErr)
	var cfgErr *apperr.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestFlagEnum(t *testing.T) {
	e := NewEnum([]string{"text", "json"}, "text")
	require.NoError(t, e.Set("json"))
	require.Equal(t, "json", e.String())
	require.Error(t, e.Set("xml"))
	require.Equal(t, "json", e.String())
}
