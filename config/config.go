// Package config loads the analyzer configuration: the account-to-broker
// mapping used during normalization and the optional account filter applied
// to reports.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete analyzer configuration.
type Config struct {
	// Accounts maps account names to broker names. The "*" key, or
	// DefaultBroker, supplies the broker for unlisted accounts.
	Accounts      map[string]string `yaml:"accounts"`
	DefaultBroker string            `yaml:"default_broker"`
	// Filter restricts reports to these accounts; empty means all.
	Filter []string `yaml:"filter,omitempty"`
	// Archive is the SQLite archive path used by the archive command.
	Archive string `yaml:"archive,omitempty"`
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks broker names. Only brokers with a parser are allowed.
func (c *Config) Validate() error {
	for account, broker := range c.Accounts {
		if !knownBroker(broker) {
			return fmt.Errorf("account %q: unknown broker %q", account, broker)
		}
	}
	if c.DefaultBroker != "" && !knownBroker(c.DefaultBroker) {
		return fmt.Errorf("unknown default broker %q", c.DefaultBroker)
	}
	return nil
}

func knownBroker(name string) bool {
	return name == "ii" || name == "hsbc"
}

// Broker resolves the broker for an account: the explicit mapping, then the
// "*" entry, then DefaultBroker, then "ii".
func (c *Config) Broker(account string) string {
	if broker, ok := c.Accounts[account]; ok && broker != "" {
		return broker
	}
	if broker, ok := c.Accounts["*"]; ok && broker != "" {
		return broker
	}
	if c.DefaultBroker != "" {
		return c.DefaultBroker
	}
	return "ii"
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Accounts:      map[string]string{},
		DefaultBroker: "ii",
	}
}
