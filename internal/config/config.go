// Package config loads reversi settings from an HCL file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/reversi/internal/policy"
)

// DefaultFile is read when no path is given
const DefaultFile = "reversi.hcl"

// RemotePolicy selects the websocket client instead of a built-in policy
const RemotePolicy = "remote"

// ErrInvalid is wrapped by every Validate error
var ErrInvalid = errors.New("invalid config")

// Config represents the complete configuration
type Config struct {
	Agent  *AgentSettings  `hcl:"agent,block"`
	Log    *LogSettings    `hcl:"log,block"`
	Server *ServerSettings `hcl:"server,block"`
}

// AgentSettings configure the computer player
type AgentSettings struct {
	Policy          string `hcl:"policy,optional"`
	RemoteURL       string `hcl:"remote_url,optional"`
	MinDelay        string `hcl:"min_delay,optional"`
	DecisionTimeout string `hcl:"decision_timeout,optional"`
	Seed            int64  `hcl:"seed,optional"`
}

// LogSettings configure the log file
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// ServerSettings configure the policy server
type ServerSettings struct {
	Address string `hcl:"address,optional"`
	Port    int    `hcl:"port,optional"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads path, falling back to defaults when it does not exist
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file)
}

// Parse reads configuration from src; filename is only used in diagnostics
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file)
}

func decode(file *hcl.File) (*Config, error) {
	var c Config
	if diags := gohcl.DecodeBody(file.Body, nil, &c); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Agent == nil {
		c.Agent = &AgentSettings{}
	}
	if c.Agent.Policy == "" {
		c.Agent.Policy = "greedy"
	}
	if c.Agent.RemoteURL == "" {
		c.Agent.RemoteURL = "ws://localhost:8090/policy"
	}
	if c.Agent.MinDelay == "" {
		c.Agent.MinDelay = "600ms"
	}
	if c.Agent.DecisionTimeout == "" {
		c.Agent.DecisionTimeout = "0s"
	}

	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File == "" {
		c.Log.File = "reversi.log"
	}

	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8090
	}
}

// Validate checks values that decoding cannot. Policy names are
// case-insensitive and are lowered in place.
func (c *Config) Validate() error {
	c.Agent.Policy = strings.ToLower(c.Agent.Policy)
	valid := append(policy.Names(), RemotePolicy)
	if !slices.Contains(valid, c.Agent.Policy) {
		return fmt.Errorf("%w: agent policy %q is not one of %v", ErrInvalid, c.Agent.Policy, valid)
	}
	if c.Agent.Policy == RemotePolicy && c.Agent.RemoteURL == "" {
		return fmt.Errorf("%w: remote policy needs remote_url", ErrInvalid)
	}
	if d, err := time.ParseDuration(c.Agent.MinDelay); err != nil || d < 0 {
		return fmt.Errorf("%w: agent min_delay %q", ErrInvalid, c.Agent.MinDelay)
	}
	if d, err := time.ParseDuration(c.Agent.DecisionTimeout); err != nil || d < 0 {
		return fmt.Errorf("%w: agent decision_timeout %q", ErrInvalid, c.Agent.DecisionTimeout)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d", ErrInvalid, c.Server.Port)
	}
	return nil
}

// MinDelayDuration returns min_delay, which Validate has checked
func (a *AgentSettings) MinDelayDuration() time.Duration {
	d, _ := time.ParseDuration(a.MinDelay)
	return d
}

// DecisionTimeoutDuration returns decision_timeout; zero means none
func (a *AgentSettings) DecisionTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(a.DecisionTimeout)
	return d
}

// LogLevel returns the parsed log level, defaulting to info
func (l *LogSettings) LogLevel() log.Level {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Addr returns host:port for the policy server
func (s *ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}
