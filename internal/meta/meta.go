package meta

const (
	// CLIName is the binary name used in help text, config paths and env vars.
	CLIName = "fjord"

	// EnvPrefix prefixes every environment variable the CLI reads.
	EnvPrefix = "FJORD"

	// TokenEnvVar holds the API credential when it is not stored in the config file.
	TokenEnvVar = "FJORD_JWT_TOKEN"
)
