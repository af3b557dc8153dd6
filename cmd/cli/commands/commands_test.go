package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/slashkit/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORAGE_PATH", filepath.Join(dir, "datastore.json"))
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--env", filepath.Join(dir, "none.env")))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSchemaCommand(t *testing.T) {
	out, err := run(t, "schema", "--compact")
	require.NoError(t, err)

	var schemas []*discordgo.ApplicationCommand
	require.NoError(t, json.Unmarshal([]byte(out), &schemas))
	names := make([]string, len(schemas))
	for i, s := range schemas {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"ping", "roll", "config", "commands"}, names)
}

func TestDeployRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	_, err := run(t, "deploy")
	assert.ErrorIs(t, err, config.ErrMissingToken)
}
