// Package jq filters the items printed by `fjord list` through a jq
// expression.
package jq

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	cmdpkg "github.com/fjord-cli/fjord/internal/cmd"
	cmdcommon "github.com/fjord-cli/fjord/internal/cmd/common"
	"github.com/fjord-cli/fjord/internal/config"
	"github.com/fjord-cli/fjord/internal/dashboard"
	apperr "github.com/fjord-cli/fjord/internal/err"
	"github.com/fjord-cli/fjord/internal/iostreams"
	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	FlagName           = "jq"
	ColorFlagName      = "jq-color"
	RawOutputFlagName  = "jq-raw-output"
	RawOutputFlagShort = "r"

	DefaultExpressionConfigPath = "jq.default-expression"
	ColorEnabledConfigPath      = "jq.color.enabled"
	RawOutputConfigPath         = "jq.raw-output"

	DefaultStyle = "friendly"
)

// chroma style per fjord color theme
var themeStyles = map[string]string{
	"fjord-light": DefaultStyle,
	"fjord-dark":  "monokai",
}

// Options is the resolved jq configuration of one list invocation.
type Options struct {
	Expr  string
	Color cmdcommon.ColorMode
	Style string
	Raw   bool
}

// Active reports whether an expression was given.
func (o Options) Active() bool {
	return strings.TrimSpace(o.Expr) != ""
}

func AddFlags(flags *pflag.FlagSet) {
	flags.String(FlagName, "",
		"Filter the listed items with a jq expression (requires --output json or yaml)")

	color := cmdpkg.NewEnum([]string{
		cmdcommon.ColorModeAuto.String(),
		cmdcommon.ColorModeAlways.String(),
		cmdcommon.ColorModeNever.String(),
	}, cmdcommon.DefaultColorMode)
	flags.Var(color, ColorFlagName,
		fmt.Sprintf(`Colorize JSON results of --jq.
- Config path: [ %s ]
- Allowed    : [ auto|always|never ]`, ColorEnabledConfigPath))

	flags.BoolP(RawOutputFlagName, RawOutputFlagShort, false,
		fmt.Sprintf(`Print string results of --jq without quotes, one per line.
- Config path: [ %s ]`, RawOutputConfigPath))
}

func BindFlags(cfg config.Hook, flags *pflag.FlagSet) error {
	if cfg == nil || flags == nil {
		return nil
	}
	for flag, path := range map[string]string{
		ColorFlagName:     ColorEnabledConfigPath,
		RawOutputFlagName: RawOutputConfigPath,
	} {
		f := flags.Lookup(flag)
		if f == nil {
			continue
		}
		if err := cfg.BindFlag(path, f); err != nil {
			return err
		}
	}
	return nil
}

// Resolve reads the jq flags of command and falls back to the profile's
// default expression when --jq is absent. Commands without a --jq flag
// never filter.
func Resolve(command *cobra.Command, cfg config.Hook) (Options, error) {
	opts := Options{Color: cmdcommon.ColorModeAuto, Style: DefaultStyle}
	if command == nil || command.Flags().Lookup(FlagName) == nil {
		return opts, nil
	}
	flags := command.Flags()

	expr, err := flags.GetString(FlagName)
	if err != nil {
		return Options{}, err
	}
	opts.Expr = strings.TrimSpace(expr)
	if flags.Changed(FlagName) && opts.Expr == "" {
		// `--jq ''` prints the items unchanged
		opts.Expr = "."
	}

	if cfg == nil {
		if flags.Lookup(RawOutputFlagName) != nil {
			opts.Raw, err = flags.GetBool(RawOutputFlagName)
		}
		return opts, err
	}

	if !flags.Changed(FlagName) {
		opts.Expr = strings.TrimSpace(cfg.GetString(DefaultExpressionConfigPath))
	}
	mode := strings.ToLower(strings.TrimSpace(cfg.GetString(ColorEnabledConfigPath)))
	if mode != "" {
		if opts.Color, err = cmdcommon.ColorModeStringToIota(mode); err != nil {
			return Options{}, &apperr.ConfigurationError{Err: err}
		}
	}
	if style, ok := themeStyles[cfg.GetString(cmdcommon.ColorThemeConfigPath)]; ok {
		opts.Style = style
	}
	opts.Raw = cfg.GetBool(RawOutputConfigPath)
	return opts, nil
}

// Validate rejects combinations of output format and jq options that cannot
// be printed.
func Validate(format cmdcommon.OutputFormat, opts Options) error {
	switch {
	case opts.Raw && !opts.Active():
		return &apperr.ConfigurationError{
			Err: fmt.Errorf("--%s requires --%s", RawOutputFlagName, FlagName),
		}
	case opts.Raw && format != cmdcommon.JSON:
		return &apperr.ConfigurationError{
			Err: fmt.Errorf("--%s needs --output json", RawOutputFlagName),
		}
	case opts.Active() && format != cmdcommon.JSON && format != cmdcommon.YAML:
		return &apperr.ConfigurationError{
			Err: fmt.Errorf("--%s needs --output json or --output yaml", FlagName),
		}
	}
	return nil
}

// Filter runs opts.Expr over items. When the result was already written to
// out (raw or colorized output) it returns written=true; otherwise the caller
// prints the returned payload. Without an expression items come back as-is.
func Filter(items []dashboard.Item, format cmdcommon.OutputFormat, opts Options, out io.Writer) (any, bool, error) {
	if !opts.Active() {
		return items, false, nil
	}
	if err := Validate(format, opts); err != nil {
		return nil, false, err
	}

	results, err := evaluate(opts.Expr, items)
	if err != nil {
		return nil, false, err
	}

	if opts.Raw {
		return nil, true, writeRaw(out, results)
	}

	var payload any
	switch len(results) {
	case 0:
	case 1:
		payload = results[0]
	default:
		payload = results
	}

	if format == cmdcommon.JSON && UseColor(opts.Color, out) && isContainer(payload) {
		return nil, true, writeColored(out, payload, opts.Style)
	}
	return payload, false, nil
}

var codeCache sync.Map

func compile(expr string) (*gojq.Code, error) {
	if code, ok := codeCache.Load(expr); ok {
		return code.(*gojq.Code), nil
	}
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	codeCache.Store(expr, code)
	return code, nil
}

// evaluate runs expr over the JSON form of items, the same document
// `--output json` prints.
func evaluate(expr string, items []dashboard.Item) ([]any, error) {
	code, err := compile(expr)
	if err != nil {
		return nil, err
	}

	// gojq only accepts plain JSON values
	encoded, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	var input any
	if err := json.Unmarshal(encoded, &input); err != nil {
		return nil, err
	}

	var results []any
	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return results, nil
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("jq: %w", err)
		}
		results = append(results, v)
	}
}

func writeRaw(out io.Writer, results []any) error {
	for _, v := range results {
		line, ok := v.(string)
		if !ok {
			encoded, err := json.Marshal(v)
			if err != nil {
				return err
			}
			line = string(encoded)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

func writeColored(out io.Writer, payload any, style string) error {
	indented, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	if err := quick.Highlight(out, string(indented), "json", "terminal256", style); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out)
	return err
}

var terminalDetector = iostreams.IsTerminal

// UseColor resolves mode for out. Auto colors terminals unless NO_COLOR is
// set.
func UseColor(mode cmdcommon.ColorMode, out io.Writer) bool {
	switch mode {
	case cmdcommon.ColorModeAlways:
		return true
	case cmdcommon.ColorModeNever:
		return false
	case cmdcommon.ColorModeAuto:
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return terminalDetector(out)
}
