package config

import "path/filepath"

const (
	// Global layout under TABLEMIND_HOME.
	ConfigFilePath     = "config.toml"
	SessionsDirPath    = "sessions"
	CLISessionsDirPath = "cli"
	DefaultSessionPath = "default.jsonl"
)

func homeConfigPath(home string) string {
	return filepath.Join(home, ConfigFilePath)
}

func defaultHomePath(home string) string {
	return filepath.Join(home, ".tablemind")
}

func (c *Config) ConfigPath() string {
	return homeConfigPath(c.HomeDir)
}

// DataDir resolves the CSV search root; relative values live under HomeDir.
func (c *Config) DataDir() string {
	return c.resolve(c.Data.Dir)
}

// OutputDir resolves the chart artifact directory.
func (c *Config) OutputDir() string {
	return c.resolve(c.Data.OutputDir)
}

func (c *Config) SessionsDir() string {
	return filepath.Join(c.HomeDir, SessionsDirPath)
}

func (c *Config) CLISessionPath() string {
	return filepath.Join(c.SessionsDir(), CLISessionsDirPath, DefaultSessionPath)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.HomeDir, path)
}
