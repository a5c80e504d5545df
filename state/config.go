package state

import "time"

// Cfg holds the connection settings for one invocation. All fields are
// optional in the config file; zero values fall back to the defaults below.
type Cfg struct {
	Host         string        `yaml:"host,omitempty"`          // routing daemon host, name or address
	DecisionPort uint16        `yaml:"decision_port,omitempty"` // route computation service
	KvStorePort  uint16        `yaml:"kvstore_port,omitempty"`  // distributed key-value store
	FibAgentPort uint16        `yaml:"fib_agent_port,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	ClientId     string        `yaml:"client_id,omitempty"` // identity reported to the forwarding agent
	LogPath      string        `yaml:"log_path,omitempty"`  // if not empty, weft will also log to this file
}

const (
	DefaultConfigPath   = "weft.yaml"
	DefaultHost         = "localhost"
	DefaultDecisionPort = 60004
	DefaultKvStorePort  = 60002
	DefaultFibAgentPort = 60100
	DefaultTimeout      = 5 * time.Second
	DefaultClientId     = "weft"
	DefaultMaxHops      = 256
)

func (c *Cfg) ApplyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.DecisionPort == 0 {
		c.DecisionPort = DefaultDecisionPort
	}
	if c.KvStorePort == 0 {
		c.KvStorePort = DefaultKvStorePort
	}
	if c.FibAgentPort == 0 {
		c.FibAgentPort = DefaultFibAgentPort
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.ClientId == "" {
		c.ClientId = DefaultClientId
	}
}
