package config

import (
	"os"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"starnotary/logx"
)

const (
	DefaultListenAddr   = ":8545"
	DefaultMaxBodyBytes = 1 << 20 // 1 MiB request bodies
)

// LoadNodeConfig reads and parses the node.yml file
func LoadNodeConfig(path string) (*NodeConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		logx.Error("CONFIG", "Failed to open node config: ", err)
		return nil, err
	}
	defer file.Close()

	var cfgFile ConfigFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfgFile); err != nil {
		logx.Error("CONFIG", "Failed to decode node config YAML: ", err)
		return nil, err
	}
	if cfgFile.Config.ListenAddr == "" {
		cfgFile.Config.ListenAddr = DefaultListenAddr
	}
	logx.Info("CONFIG", "Loaded node config, listen_addr=", cfgFile.Config.ListenAddr)
	return &cfgFile.Config, nil
}

// LoadTuningConfig reads tuning knobs from an .ini file
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	tuningSection := cfg.Section("tuning")
	tuningCfg := &TuningConfig{}
	err = tuningSection.MapTo(tuningCfg)
	if err != nil {
		return nil, err
	}
	if tuningCfg.MaxBodyBytes <= 0 {
		tuningCfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return tuningCfg, nil
}

// DefaultTuningConfig is used when no .ini file is supplied
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{MaxBodyBytes: DefaultMaxBodyBytes}
}
