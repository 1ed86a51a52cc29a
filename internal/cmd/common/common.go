package common

import (
	"fmt"
	"strings"
)

// Represents an enum of valid values for the format of the output for this CLI execution
type OutputFormat int

type ColorMode int

const (
	JSON OutputFormat = iota
	YAML
	TEXT
)

const (
	ColorModeAuto ColorMode = iota
	ColorModeAlways
	ColorModeNever
)

const (
	// related to the --output flag
	DefaultOutputFormat = "text"
	OutputFlagName      = "output"
	OutputFlagShort     = "o"
	OutputConfigPath    = OutputFlagName

	// related to the --jq-color flag
	DefaultColorMode = "auto"

	// related to the --profile flag
	ProfileFlagName  = "profile"
	ProfileFlagShort = "p"
	DefaultProfile   = "default"

	// related to the --config-file flag
	ConfigFilePathFlagName = "config-file"

	// related to the --log-level flag
	LogLevelFlagName   = "log-level"
	DefaultLogLevel    = "info"
	LogLevelConfigPath = LogLevelFlagName

	// related to the --log-file flag
	LogFileFlagName   = "log-file"
	LogFileConfigPath = LogFileFlagName

	// related to the --base-url flag
	BaseURLFlagName   = "base-url"
	BaseURLConfigPath = BaseURLFlagName
	DefaultBaseURL    = "https://bootcamp.fjord.jp/api"

	// the API credential; never exposed as a flag
	TokenConfigPath = "jwt-token"

	// related to the --color-theme flag
	ColorThemeFlagName   = "color-theme"
	ColorThemeConfigPath = ColorThemeFlagName
	DefaultColorTheme    = "fjord-light"

	// related to the --tick-interval flag
	TickIntervalFlagName   = "tick-interval"
	TickIntervalConfigPath = "dashboard." + TickIntervalFlagName
	DefaultTickInterval    = "200ms"

	// related to the --tabs flag
	TabsFlagName   = "tabs"
	TabsConfigPath = "dashboard." + TabsFlagName

	// related to the --page-interval flag
	PageIntervalFlagName   = "page-interval"
	PageIntervalConfigPath = "fetch." + PageIntervalFlagName
)

// DefaultTabs is the tab order used when the config does not name one.
var DefaultTabs = []string{"reports", "products"}

func (of OutputFormat) String() string {
	return [...]string{"json", "yaml", "text"}[of]
}

func OutputFormatStringToIota(format string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSON, nil
	case "yaml":
		return YAML, nil
	case "text", "":
		return TEXT, nil
	default:
		return TEXT, fmt.Errorf("invalid output format %q, must be one of %v", format, []string{"json", "yaml", "text"})
	}
}

func (cm ColorMode) String() string {
	switch cm {
	case ColorModeAuto:
		return "auto"
	case ColorModeAlways:
		return "always"
	case ColorModeNever:
		return "never"
	default:
		return "auto"
	}
}

func ColorModeStringToIota(mode string) (ColorMode, error) {
	switch mode {
	case "auto", "":
		return ColorModeAuto, nil
	case "always":
		return ColorModeAlways, nil
	case "never":
		return ColorModeNever, nil
	default:
		return ColorModeAuto, fmt.Errorf("invalid color mode %q, must be one of %v", mode,
			[]string{"auto", "always", "never"})
	}
}

// LongDesc trims surrounding whitespace from a command's long description.
func LongDesc(s string) string {
	return strings.TrimSpace(s)
}

// Examples trims and indents every line of a command's examples block.
func Examples(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "  " + strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
