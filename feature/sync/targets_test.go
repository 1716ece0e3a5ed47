package sync_test

import (
	"os"
	"path/filepath"
	"testing"

	syncfeature "github.com/mtrifilo/psychic-homily-web-sub009/feature/sync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const targetsYAML = `
timezones:
  AZ: -7

sources:
  - name: valley-bar
    type: jsonld
    url: https://www.valleybarphx.com/events

targets:
  - name: staging
    base_url: https://staging.example.com
    credential_env: STAGING_API_KEY
  - name: production
    base_url: https://example.com
    credential_env: PRODUCTION_API_KEY
`

func writeTargetsFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(targetsYAML), 0o600))
	return path
}

func TestLoadTargets(t *testing.T) {
	targets, err := syncfeature.LoadTargets(writeTargetsFile(t))
	require.NoError(t, err)

	require.Len(t, targets, 2)
	assert.Equal(t, "staging", targets[0].Name)
	assert.Equal(t, "https://staging.example.com", targets[0].BaseURL)
	assert.Equal(t, "STAGING_API_KEY", targets[0].CredentialEnv)
}

func TestLoadTargetsMissingField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte("targets:\n  - name: staging\n"), 0o600))

	_, err := syncfeature.LoadTargets(path)
	assert.Error(t, err)
}

func TestPick(t *testing.T) {
	targets, err := syncfeature.LoadTargets(writeTargetsFile(t))
	require.NoError(t, err)

	picked, err := syncfeature.Pick(targets, []string{"production"})
	require.NoError(t, err)
	require.Len(t, picked, 1)
	assert.Equal(t, "production", picked[0].Name)

	all, err := syncfeature.Pick(targets, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = syncfeature.Pick(targets, []string{"nonsense"})
	assert.Error(t, err)
}

func TestCredential(t *testing.T) {
	target := syncfeature.Target{Name: "staging", CredentialEnv: "STAGING_API_KEY"}

	t.Setenv("STAGING_API_KEY", "")
	_, err := target.Credential()
	var authErr *syncfeature.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "staging", authErr.Target)

	t.Setenv("STAGING_API_KEY", "secret")
	key, err := target.Credential()
	require.NoError(t, err)
	assert.Equal(t, "secret", key)
}
