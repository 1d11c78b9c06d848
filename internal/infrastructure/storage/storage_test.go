package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/staybook/pkg/config"
)

func TestOpen_DocumentBackend(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{
		Backend:      BackendDocument,
		DocumentPath: filepath.Join(t.TempDir(), "data.json"),
	}}

	repos, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer repos.Close()

	assert.NoError(t, repos.Ping(context.Background()))
	list, err := repos.Accommodations.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Backend: "mongo"}}

	_, err := Open(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "unknown storage backend")
}
