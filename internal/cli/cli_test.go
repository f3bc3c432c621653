package cli

import (
	"bytes"
	"io"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todolist/internal/model"
)

// setupEnv points the CLI at a throwaway config file and database.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TODOLIST_DATABASE_URL", filepath.Join(dir, "to-do.db"))
	t.Setenv("TODOLIST_AUTH_BCRYPT_COST", "4")
	t.Setenv("TODOLIST_LOG_LEVEL", "error")
	return filepath.Join(dir, "config.yaml")
}

func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestInit(t *testing.T) {
	cfgPath := setupEnv(t)

	out, err := run(t, cfgPath, "init")
	require.NoError(t, err)
	assert.Contains(t, out, cfgPath)

	cfg, err := model.LoadConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Session.Secret)

	_, err = run(t, cfgPath, "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, cfgPath, "init", "--force")
	assert.NoError(t, err)
}

func TestMigrate(t *testing.T) {
	cfgPath := setupEnv(t)

	out, err := run(t, cfgPath, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite schema at version 1")
}

func TestUseraddAndUsers(t *testing.T) {
	cfgPath := setupEnv(t)

	out, err := run(t, cfgPath, "useradd", "--username", "alice", "--email", "Alice@Example.com", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "created alice (id 1)")

	_, err = run(t, cfgPath, "useradd", "--username", "alice2", "--email", "alice@example.com", "--password", "pw")
	assert.ErrorContains(t, err, "already taken")

	_, err = run(t, cfgPath, "useradd", "--username", "bob", "--email", "not-an-email", "--password", "pw")
	assert.ErrorContains(t, err, "email")

	out, err = run(t, cfgPath, "users")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "0 done")
	assert.NotContains(t, out, "bob")
}

func TestUsers_Empty(t *testing.T) {
	cfgPath := setupEnv(t)

	out, err := run(t, cfgPath, "users")
	require.NoError(t, err)
	assert.Contains(t, out, "no accounts yet")
}

func TestKeygenPrint(t *testing.T) {
	cfgPath := setupEnv(t)

	out, err := run(t, cfgPath, "keygen", "--print")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}\n$`), out)
}

func TestResolveSecret_FromConfig(t *testing.T) {
	a := &app{cfg: model.DefaultAppConfig()}
	a.cfg.Session.Secret = "configured"
	require.NoError(t, a.resolveSecret())
	assert.Equal(t, "configured", a.cfg.Session.Secret)
}
