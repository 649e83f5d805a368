package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	raw := `log_level: INFO
db_address: postgres://localhost:5432/requests
api_server:
  address: localhost:5000
  timeout: 2s
uploads:
  dir: /tmp/uploads
  max_size_bytes: 1024
identity:
  admins:
    - admin@greenergy.ph
  requesters:
    - requester@greenergy.ph
  evaluators:
    caryl.apa@greenergy.com: caryl
team:
  - id: caryl
    name: Caryl Apa
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg := MustLoad(path)

	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "localhost:5000", cfg.HTTPConfig.Address)
	assert.Equal(t, int64(1024), cfg.Uploads.MaxSizeBytes)
	assert.Equal(t, []string{"admin@greenergy.ph"}, cfg.Identity.Admins)
	assert.Equal(t, "caryl", cfg.Identity.Evaluators["caryl.apa@greenergy.com"])
	require.Len(t, cfg.Team, 1)
	assert.Equal(t, "Caryl Apa", cfg.Team[0].Name)
}
