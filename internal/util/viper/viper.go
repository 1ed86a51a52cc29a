package viper

import (
	"strings"

	"github.com/fjord-cli/fjord/internal/meta"
	"github.com/fjord-cli/fjord/internal/util"
	v "github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// InitializeDefaultViper loads the config file at path, creating it with
// defaultValues when it does not exist or is empty.
func InitializeDefaultViper(defaultValues map[string]any, path string) (*v.Viper, error) {
	if err := util.InitDir(path, 0o755); err != nil {
		return nil, err
	}

	rv := NewViper(path)
	if len(rv.AllSettings()) > 0 {
		return rv, nil
	}

	if err := rv.MergeConfigMap(defaultValues); err != nil {
		return nil, err
	}
	if err := rv.WriteConfig(); err != nil {
		return nil, err
	}
	return rv, nil
}

// NewViperE reads the config file at path and fails if it cannot be parsed.
func NewViperE(path string) (*v.Viper, error) {
	rv := newViper(path)
	if err := rv.ReadInConfig(); err != nil {
		return nil, err
	}
	return rv, nil
}

// NewViper reads the config file at path, tolerating a missing file.
func NewViper(path string) *v.Viper {
	rv := newViper(path)
	_ = rv.ReadInConfig()
	return rv
}

func newViper(path string) *v.Viper {
	rv := v.New()
	rv.SetConfigFile(path)
	rv.SetConfigType("yaml")
	ConfigureEnvVars(rv, meta.EnvPrefix)
	return rv
}

// ConfigureEnvVars makes every key of vip overridable through
// PREFIX_KEY environment variables, with dots and dashes mapped to underscores.
func ConfigureEnvVars(vip *v.Viper, prefix string) {
	vip.SetEnvPrefix(prefix)
	vip.SetEnvKeyReplacer(envKeyReplacer)
	vip.AutomaticEnv()
}

// EnvVarName returns the variable ConfigureEnvVars would consult for key.
func EnvVarName(prefix, key string) string {
	return strings.ToUpper(prefix + "_" + envKeyReplacer.Replace(key))
}
