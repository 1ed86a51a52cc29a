package cmd

import (
	"fmt"
	"slices"

	"github.com/fjord-cli/fjord/internal/cmd/common"
	"github.com/fjord-cli/fjord/internal/config"
	"github.com/spf13/pflag"
)

// FlagEnum is a pflag.Value restricted to a fixed set of strings.
type FlagEnum struct {
	Allowed []string
	Value   string
}

func NewEnum(allowed []string, d string) *FlagEnum {
	return &FlagEnum{
		Allowed: allowed,
		Value:   d,
	}
}

func (a FlagEnum) String() string {
	return a.Value
}

func (a *FlagEnum) Set(p string) error {
	if !slices.Contains(a.Allowed, p) {
		return fmt.Errorf("invalid value %q, must be one of %v", p, a.Allowed)
	}
	a.Value = p
	return nil
}

func (a *FlagEnum) Type() string {
	return "string"
}

// AddSourceFlags registers the flags that configure the remote item source.
func AddSourceFlags(flags *pflag.FlagSet) {
	flags.String(common.BaseURLFlagName, "",
		fmt.Sprintf(`Base URL of the API serving reports and products.
- Config path: [ %s ]
- Default   : [ %s ]`,
			common.BaseURLConfigPath, common.DefaultBaseURL))

	flags.Duration(common.PageIntervalFlagName, 0,
		fmt.Sprintf(`Pause between consecutive page requests. Zero keeps the per-resource default.
- Config path: [ %s ]`,
			common.PageIntervalConfigPath))
}

// BindSourceFlags binds the flags added by AddSourceFlags to cfg.
func BindSourceFlags(cfg config.Hook, flags *pflag.FlagSet) error {
	bindings := []struct{ flag, cfgPath string }{
		{common.BaseURLFlagName, common.BaseURLConfigPath},
		{common.PageIntervalFlagName, common.PageIntervalConfigPath},
	}
	for _, b := range bindings {
		if f := flags.Lookup(b.flag); f != nil {
			if err := cfg.BindFlag(b.cfgPath, f); err != nil {
				return err
			}
		}
	}
	return nil
}
