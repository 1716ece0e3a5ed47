package sync

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Target is a remote environment candidates can be pushed to.
type Target struct {
	// Name is the environment name ("staging", "production").
	Name string `yaml:"name"`
	// BaseURL is the root of the target's import API.
	BaseURL string `yaml:"base_url"`
	// CredentialEnv names the environment variable holding the target's
	// API key. The key itself never appears in the file.
	CredentialEnv string `yaml:"credential_env"`
}

// Credential resolves the target's API key from the environment.
func (t Target) Credential() (string, error) {
	key := os.Getenv(t.CredentialEnv)
	if key == "" {
		return "", &AuthError{Target: t.Name, Env: t.CredentialEnv}
	}
	return key, nil
}

// LoadTargets reads the targets section of the sources file. Other sections
// of the file are ignored here.
func LoadTargets(path string) ([]Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	var f struct {
		Targets []Target `yaml:"targets"`
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse targets file: %w", err)
	}

	for i, t := range f.Targets {
		if t.Name == "" {
			return nil, fmt.Errorf("target %d: missing name", i)
		}
		if t.BaseURL == "" {
			return nil, fmt.Errorf("target %s: missing base_url", t.Name)
		}
		if t.CredentialEnv == "" {
			return nil, fmt.Errorf("target %s: missing credential_env", t.Name)
		}
	}

	return f.Targets, nil
}

// Pick returns the named targets, or all of them when names is empty.
func Pick(targets []Target, names []string) ([]Target, error) {
	if len(names) == 0 {
		return targets, nil
	}

	byName := make(map[string]Target, len(targets))
	for _, t := range targets {
		byName[t.Name] = t
	}

	picked := make([]Target, 0, len(names))
	for _, name := range names {
		t, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown target %q", name)
		}
		picked = append(picked, t)
	}
	return picked, nil
}
