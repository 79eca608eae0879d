package config

import "os"

// ExpandEnv expands environment variables in YAML content, supporting both
// ${VAR} and $VAR syntax. Missing variables expand to empty string;
// validation catches required fields left empty by that.
func ExpandEnv(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}
