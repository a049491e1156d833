package config

import (
	"path/filepath"
	"time"

	"github.com/maksimkurb/wgvpc/src/internal/utils"
)

type Config struct {
	// General holds paths and runtime settings.
	General *GeneralConfig `toml:"general"`
	// Firewall holds iptables settings.
	Firewall *FirewallConfig `toml:"firewall"`
	// API holds REST API settings used by `wgvpc serve`.
	API *APIConfig `toml:"api"`
	// Journal holds lifecycle journal settings.
	Journal *JournalConfig `toml:"journal"`

	_absConfigFilePath string
}

type GeneralConfig struct {
	// DataDir is the root of the resource store (relative paths are resolved against the config file directory).
	DataDir string `toml:"data_dir" json:"data_dir" validate:"required"`
	// RunDir holds lock files and start snapshots.
	RunDir string `toml:"run_dir" json:"run_dir" validate:"required"`
	// WireGuardDir is where rendered interface configs are written (default: /etc/wireguard).
	WireGuardDir string `toml:"wireguard_dir" json:"wireguard_dir" validate:"required"`
	// NamespaceTemplate builds the namespace name of a router. Available variables: {{router_id}}.
	NamespaceTemplate string `toml:"namespace_template" json:"namespace_template" validate:"required,ns_template"`
	// CommandTimeoutSeconds limits each external command (0 = no timeout).
	CommandTimeoutSeconds int `toml:"command_timeout_seconds" json:"command_timeout_seconds" validate:"gte=0"`
}

type FirewallConfig struct {
	// Chain is the filter table chain that receives DROP and ACCEPT rules (default: INPUT).
	Chain string `toml:"chain" json:"chain" validate:"required,iptables_chain"`
}

type APIConfig struct {
	// Enable starts the REST API in `wgvpc serve` (default: true).
	Enable bool `toml:"enable" json:"enable"`
	// Listen is the API listen address (default: 127.0.0.1:8080).
	Listen string `toml:"listen" json:"listen" validate:"hostport_or_empty"`
}

type JournalConfig struct {
	// Path is the SQLite journal file (empty disables the journal).
	Path string `toml:"path" json:"path"`
}

func (c *Config) GetConfigDir() string {
	return filepath.Dir(c._absConfigFilePath)
}

func (c *Config) GetConfigFilePath() string {
	return c._absConfigFilePath
}

func (c *Config) GetAbsDataDir() string {
	return utils.GetAbsolutePath(c.General.DataDir, c.GetConfigDir())
}

func (c *Config) GetAbsRunDir() string {
	return utils.GetAbsolutePath(c.General.RunDir, c.GetConfigDir())
}

func (c *Config) GetAbsWireGuardDir() string {
	return utils.GetAbsolutePath(c.General.WireGuardDir, c.GetConfigDir())
}

// GetAbsJournalPath returns "" when the journal is disabled.
func (c *Config) GetAbsJournalPath() string {
	if c.Journal == nil || c.Journal.Path == "" {
		return ""
	}
	return utils.GetAbsolutePath(c.Journal.Path, c.GetConfigDir())
}

func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.General.CommandTimeoutSeconds) * time.Second
}
