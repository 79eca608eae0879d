package config

// DefaultDefaults returns the built-in system-wide defaults.
func DefaultDefaults() *Defaults {
	return &Defaults{
		MinSimilarity: 0.75,
	}
}

// DefaultSystem returns the built-in system-wide infrastructure defaults.
func DefaultSystem() *SystemYAMLConfig {
	return &SystemYAMLConfig{
		ListenAddr: ":8080",
	}
}
