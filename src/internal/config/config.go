package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/valyala/fasttemplate"

	"github.com/maksimkurb/wgvpc/src/internal/log"
)

const (
	DefaultConfigPath        = "/etc/wgvpc/wgvpc.conf"
	DefaultDataDir           = "data"
	DefaultRunDir            = "run"
	DefaultWireGuardDir      = "/etc/wireguard"
	DefaultNamespaceTemplate = "ns_{{router_id}}"
	DefaultFirewallChain     = "INPUT"
	DefaultAPIListen         = "127.0.0.1:8080"
	DefaultJournalPath       = "journal.db"
)

const NS_TMPL_ROUTER_ID = "router_id"

func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %v", err)
		} else {
			configFile = path
		}
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Errorf("Configuration file not found: %s", configFile)
		return nil, fmt.Errorf("configuration file not found: %s", configFile)
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var config Config
	if err := toml.Unmarshal(content, &config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf(derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, fmt.Errorf("failed to parse config file: line %d, column %d", row, col)
		}
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	config._absConfigFilePath = configFile
	config.ApplyDefaults()

	log.Debugf("Configuration file path: %s", configFile)
	log.Debugf("Data directory: %s", config.GetAbsDataDir())
	log.Debugf("Run directory: %s", config.GetAbsRunDir())

	return &config, nil
}

// DefaultConfig returns a configuration with every default applied, anchored at configPath.
func DefaultConfig(configPath string) *Config {
	c := &Config{_absConfigFilePath: configPath}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills in missing sections and empty fields.
func (c *Config) ApplyDefaults() {
	if c.General == nil {
		c.General = &GeneralConfig{}
	}
	if c.General.DataDir == "" {
		c.General.DataDir = DefaultDataDir
	}
	if c.General.RunDir == "" {
		c.General.RunDir = DefaultRunDir
	}
	if c.General.WireGuardDir == "" {
		c.General.WireGuardDir = DefaultWireGuardDir
	}
	if c.General.NamespaceTemplate == "" {
		c.General.NamespaceTemplate = DefaultNamespaceTemplate
	}

	if c.Firewall == nil {
		c.Firewall = &FirewallConfig{}
	}
	if c.Firewall.Chain == "" {
		c.Firewall.Chain = DefaultFirewallChain
	}

	if c.API == nil {
		c.API = &APIConfig{Enable: true}
	}
	if c.API.Listen == "" {
		c.API.Listen = DefaultAPIListen
	}

	if c.Journal == nil {
		c.Journal = &JournalConfig{Path: DefaultJournalPath}
	}
}

// NamespaceName renders the namespace template for routerID.
func (c *Config) NamespaceName(routerID string) string {
	return RenderNamespaceName(c.General.NamespaceTemplate, routerID)
}

func RenderNamespaceName(template, routerID string) string {
	if !strings.Contains(template, "{{") {
		return template
	}

	t := fasttemplate.New(template, "{{", "}}")
	return t.ExecuteString(map[string]interface{}{
		NS_TMPL_ROUTER_ID: routerID,
	})
}

func (c *Config) SerializeConfig() (*bytes.Buffer, error) {
	buf := bytes.Buffer{}
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return &buf, nil
}

func (c *Config) WriteConfig() error {
	config, err := c.SerializeConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.GetConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %v", err)
	}
	if err := os.WriteFile(c._absConfigFilePath, config.Bytes(), 0644); err != nil {
		return err
	}
	return nil
}
