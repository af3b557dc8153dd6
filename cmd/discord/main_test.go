package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/keshon/slashkit/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestRunFailsWithoutToken(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("STORAGE_PATH", filepath.Join(dir, "datastore.json"))
	t.Setenv("LOG_PRETTY", "false")

	err := run(context.Background(), filepath.Join(dir, "missing.env"))
	assert.ErrorIs(t, err, config.ErrMissingToken)
}
