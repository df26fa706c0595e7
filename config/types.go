package config

// NodeConfig represents the node's configuration
type NodeConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// ConfigFile is the top-level structure for node.yml
type ConfigFile struct {
	Config NodeConfig `yaml:"config"`
}

// TuningConfig holds runtime tuning knobs loaded from an .ini file
type TuningConfig struct {
	MaxBodyBytes int64 `ini:"max_body_bytes"`
	CORSMaxAge   int   `ini:"cors_max_age"`
}
