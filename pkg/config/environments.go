package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// environmentsFile is the YAML shape of an environment→URL override file:
//
//	environments:
//	  dev: https://dev.internal.example.com
//	  staging: https://staging.internal.example.com
type environmentsFile struct {
	Environments map[string]string `yaml:"environments"`
}

// LoadEnvironments reads an environment→base-URL table from a YAML file.
// Entries replace the built-in defaults for the environments they name;
// environments absent from the file keep their default URL.
func LoadEnvironments(path string) (map[Environment]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read environments file: %w", err)
	}

	var file environmentsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse environments file: %w", err)
	}

	table := make(map[Environment]string, len(defaultBaseURLs))
	for env, url := range defaultBaseURLs {
		table[env] = url
	}
	for name, url := range file.Environments {
		if url == "" {
			return nil, &Error{Reason: ReasonInvalidValue, Key: KeyEnvironment, Value: name}
		}
		table[Environment(name)] = url
	}

	return table, nil
}
