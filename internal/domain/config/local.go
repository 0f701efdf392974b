package config

// LocalConfig represents the local, per-checkout vault configuration
type LocalConfig struct {
	Vault   string `json:"vault"`
	Network string `json:"network,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyVault   ConfigKey = "vault"
	ConfigKeyNetwork ConfigKey = "network"
)

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{}
}

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyVault,
		ConfigKeyNetwork,
	}
}

// IsValidConfigKey checks if a key is valid
func IsValidConfigKey(key string) bool {
	for _, validKey := range ValidConfigKeys() {
		if string(NormalizeConfigKey(key)) == string(validKey) {
			return true
		}
	}
	return false
}

// NormalizeConfigKey normalizes a config key (e.g., "v" -> "vault")
func NormalizeConfigKey(key string) ConfigKey {
	if key == "v" {
		return ConfigKeyVault
	}
	return ConfigKey(key)
}
