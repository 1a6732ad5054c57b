package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondbrain/brain-server/internal/config"
	"github.com/secondbrain/brain-server/internal/di"
	"github.com/secondbrain/brain-server/internal/dto"
	"github.com/secondbrain/brain-server/internal/service"
)

// seedDataDir creates a user with one tagged content item and returns the
// data path and a session token for that user. The store is closed on return.
func seedDataDir(t *testing.T, driver string) (string, string) {
	t.Helper()
	t.Setenv("ENV", "")
	t.Setenv("JWT_SECRET", "")

	dataPath := t.TempDir()
	opts := &globalOptions{dataPath: dataPath, storeDriver: driver, envFile: "missing.env"}
	cfg, err := opts.loadConfig()
	require.NoError(t, err)
	cfg.Auth.BcryptCost = 4

	injector := di.NewContainerWithConfig(cfg)
	defer func() { _ = injector.Shutdown() }()
	require.NoError(t, di.Bootstrap(injector))

	ctx := context.Background()
	authService := do.MustInvoke[*service.AuthService](injector)
	creds := service.Credentials{Username: "alice", Password: "Str0ng!Pass"}
	user, err := authService.Signup(ctx, creds)
	require.NoError(t, err)
	result, err := authService.Signin(ctx, creds)
	require.NoError(t, err)

	_, err = do.MustInvoke[*service.ContentService](injector).Create(ctx, user.ID, service.CreateContentRequest{
		Link:  "https://go.dev/blog",
		Type:  "article",
		Title: "Go blog",
		Tags:  []string{"golang"},
	})
	require.NoError(t, err)

	return dataPath, result.Token
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", "missing.env"))
	err := cmd.Execute()
	return out.String(), err
}

func TestInspectCommands(t *testing.T) {
	for _, driver := range []string{config.DriverBadger, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			dataPath, _ := seedDataDir(t, driver)
			common := []string{"--data-path", dataPath, "--store-driver", driver}

			out, err := runCLI(t, append([]string{"users"}, common...)...)
			require.NoError(t, err)
			assert.Contains(t, out, "USERNAME")
			assert.Contains(t, out, "alice")

			out, err = runCLI(t, append([]string{"tags"}, common...)...)
			require.NoError(t, err)
			assert.Contains(t, out, "golang")

			out, err = runCLI(t, append([]string{"content", "--user", "alice", "--json"}, common...)...)
			require.NoError(t, err)
			var items []dto.Content
			require.NoError(t, json.Unmarshal([]byte(out), &items))
			require.Len(t, items, 1)
			assert.Equal(t, "Go blog", items[0].Title)
			assert.Equal(t, "alice", items[0].Owner.Username)
			require.Len(t, items[0].Tags, 1)
			assert.Equal(t, "golang", items[0].Tags[0].Title)
		})
	}
}

func TestContentCommand_UnknownUser(t *testing.T) {
	dataPath, _ := seedDataDir(t, config.DriverBadger)

	_, err := runCLI(t, "content", "--user", "bob", "--data-path", dataPath)
	assert.Error(t, err)
}

func TestTokenVerify(t *testing.T) {
	dataPath, token := seedDataDir(t, config.DriverBadger)

	out, err := runCLI(t, "token", "verify", token, "--data-path", dataPath)
	require.NoError(t, err)
	assert.Contains(t, out, "valid jwt token")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "expires: never")

	_, err = runCLI(t, "token", "verify", token+"x", "--data-path", dataPath)
	assert.Error(t, err)
}
