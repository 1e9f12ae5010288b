package config

import (
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} references in config values.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} references with environment variable
// values. Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

// Load reads the config file at path and returns it merged over
// Defaults. A missing file yields the defaults; a malformed file is an
// error. Credential fields may reference environment variables as
// ${VAR} so keys never have to live in the file itself.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	cfg.Provider.APIKey = expandEnvVars(cfg.Provider.APIKey)
	return cfg, nil
}

// applyDefaults refills zero-value fields so a sparse config file does
// not zero out required settings.
func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.Provider.Name == "" {
		cfg.Provider.Name = def.Provider.Name
	}
	if cfg.Provider.Model == "" {
		cfg.Provider.Model = def.Provider.Model
	}
	if cfg.Provider.MaxTokens <= 0 {
		cfg.Provider.MaxTokens = def.Provider.MaxTokens
	}
	if cfg.History.MaxMessages <= 0 {
		cfg.History.MaxMessages = def.History.MaxMessages
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
}

// applyEnvOverrides lets a handful of environment variables override
// file settings, mainly for scripting and tests.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCRIBE_MODEL"); v != "" {
		cfg.Provider.Model = v
	}
	if v := os.Getenv("SCRIBE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = v
	}
}
