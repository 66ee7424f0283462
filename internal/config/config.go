// Package config loads the oRover INI configuration file and exposes
// typed, fallback-safe accessors. Accessors never fail: a missing section
// or key yields the caller's fallback.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	ini "gopkg.in/ini.v1"
)

// DefaultPath is used when no --config flag is given: config.ini in the
// current working directory.
const DefaultPath = "config.ini"

// Config wraps a parsed INI file and the path it was loaded from.
type Config struct {
	file *ini.File
	path string
}

// ResolvePath returns the --config flag value if the flag has already been
// registered and parsed with a non-empty value, otherwise DefaultPath. A
// nil configFlag means the caller has not defined the flag at all.
func ResolvePath(configFlag *string) string {
	if configFlag != nil && *configFlag != "" {
		return *configFlag
	}
	return DefaultPath
}

// RegisterFlag defines the standard --config flag on flag.CommandLine,
// matching every oRover binary's CLI surface (supervisor, actors alike).
func RegisterFlag() *string {
	return flag.String("config", "", fmt.Sprintf("path to configuration file (default: %s)", DefaultPath))
}

// Load reads and parses path. A missing file is reported with a
// human-readable message; callers treat it as fatal.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("configuration file %s does not exist", path)
	}
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return &Config{file: f, path: path}, nil
}

// Path returns the file path this Config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// String returns section/key, or fallback if either is missing.
func (c *Config) String(section, key, fallback string) string {
	sec, err := c.file.GetSection(section)
	if err != nil {
		return fallback
	}
	if !sec.HasKey(key) {
		return fallback
	}
	return sec.Key(key).String()
}

// Int returns section/key parsed as an integer, or fallback if missing or
// unparseable.
func (c *Config) Int(section, key string, fallback int) int {
	sec, err := c.file.GetSection(section)
	if err != nil {
		return fallback
	}
	if !sec.HasKey(key) {
		return fallback
	}
	v, err := sec.Key(key).Int()
	if err != nil {
		return fallback
	}
	return v
}

// Bool returns section/key parsed as a boolean, or fallback if missing or
// unparseable.
func (c *Config) Bool(section, key string, fallback bool) bool {
	sec, err := c.file.GetSection(section)
	if err != nil {
		return fallback
	}
	if !sec.HasKey(key) {
		return fallback
	}
	v, err := sec.Key(key).Bool()
	if err != nil {
		return fallback
	}
	return v
}

// Float returns section/key parsed as a float64, or fallback if missing
// or unparseable. Used by actors whose config keys are fractional
// (e.g. hcsr04's polling_interval in seconds).
func (c *Config) Float(section, key string, fallback float64) float64 {
	sec, err := c.file.GetSection(section)
	if err != nil {
		return fallback
	}
	if !sec.HasKey(key) {
		return fallback
	}
	v, err := sec.Key(key).Float64()
	if err != nil {
		return fallback
	}
	return v
}

// Scripts returns the (name, command) pairs of the [scripts] section in
// file order, for the supervisor.
func (c *Config) Scripts() ([]ScriptEntry, error) {
	sec, err := c.file.GetSection("scripts")
	if err != nil {
		return nil, fmt.Errorf("config: missing required [scripts] section: %w", err)
	}
	keys := sec.Keys()
	if len(keys) == 0 {
		return nil, fmt.Errorf("config: [scripts] section is empty")
	}
	entries := make([]ScriptEntry, 0, len(keys))
	for _, k := range keys {
		if k.String() == "" {
			continue
		}
		entries = append(entries, ScriptEntry{Name: k.Name(), Command: k.String()})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("config: [scripts] section has no entries with a non-empty command")
	}
	return entries, nil
}

// ScriptEntry is a single supervised child process declaration.
type ScriptEntry struct {
	Name    string
	Command string
}

// Heartbeat and logging settings, orover section.
func (c *Config) HeartbeatIntervalSeconds() int { return c.Int("orover", "heartbeat_interval", 0) }
func (c *Config) LogLevel() string              { return c.String("orover", "loglevel", "INFO") }
func (c *Config) LogFormat() string {
	return c.String("orover", "logformat", "%s %-15s %-8s %s")
}
func (c *Config) LogDateFormat() string { return c.String("orover", "logdatefmt", "2006-01-02 15:04:05") }
func (c *Config) LogFile() string       { return c.String("orover", "logfile", "orover.log") }
func (c *Config) PythonExec() string    { return c.String("orover", "python_exec", "") }
func (c *Config) LogServerAddr() string { return c.String("orover", "logserver_addr", "localhost:9020") }

// Eventbus endpoints.
func (c *Config) BusXSubSocket() string    { return c.String("eventbus", "bus_xsub_socket", "tcp://*:5556") }
func (c *Config) BusXPubSocket() string    { return c.String("eventbus", "bus_xpub_socket", "tcp://*:5555") }
func (c *Config) ClientPubSocket() string  { return c.String("eventbus", "client_pub_socket", "tcp://localhost:5556") }
func (c *Config) ClientSubSocket() string  { return c.String("eventbus", "client_sub_socket", "tcp://localhost:5555") }
func (c *Config) SendTimeoutMs() int       { return c.Int("eventbus", "send_timeout", 2500) }
func (c *Config) ReceiveTimeoutMs() int    { return c.Int("eventbus", "receive_timeout", 2500) }

// TCPAddr strips the "tcp://" scheme and "*" wildcard host from a
// ZeroMQ-style endpoint string (e.g. "tcp://*:5556", "tcp://localhost:5556"),
// returning a plain net.Listen/net.Dial address ("0.0.0.0:5556", "localhost:5556").
func TCPAddr(endpoint string) string {
	addr := strings.TrimPrefix(endpoint, "tcp://")
	addr = strings.Replace(addr, "*", "0.0.0.0", 1)
	return addr
}
