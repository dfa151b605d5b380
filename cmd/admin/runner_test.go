package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"vidtube/internal/config"
	"vidtube/internal/models"
	"vidtube/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func newTestRunner(t *testing.T, flags string) (*Runner, *bytes.Buffer) {
	t.Helper()

	db := testutil.OpenSQLite(t)

	out := &bytes.Buffer{}
	r := &Runner{out: out, cfg: &config.Config{FeatureFlags: flags}, db: db}
	t.Cleanup(r.Close)
	return r, out
}

func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "vidtube-admin", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"vidtube-admin"}, args...))
}

func TestUsersCreateThenList(t *testing.T) {
	r, out := newTestRunner(t, "")

	require.NoError(t, run(t, r, "users", "create",
		"--username", "Alice", "--email", "alice@example.com", "--password", "hunter2hunter2"))
	assert.Contains(t, out.String(), "created alice")

	out.Reset()
	require.NoError(t, run(t, r, "users", "list"))
	assert.Contains(t, out.String(), "USERNAME")
	assert.Contains(t, out.String(), "alice@example.com")
}

func TestUsersCreate_RejectsShortPassword(t *testing.T) {
	r, _ := newTestRunner(t, "")

	err := run(t, r, "users", "create", "--username", "bob", "--email", "bob@example.com", "--password", "short")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestUsersList_Empty(t *testing.T) {
	r, out := newTestRunner(t, "")

	require.NoError(t, run(t, r, "users", "list", "--limit", "5"))
	assert.Equal(t, "No users found\n", out.String())
}

func TestStats(t *testing.T) {
	r, out := newTestRunner(t, "")
	owner := testutil.CreateUser(t, r.db, "owner")
	require.NoError(t, r.db.Create(&models.Video{
		OwnerID: owner.ID, Title: "t", Description: "d",
		VideoURL: "/media/videos/a.mp4", ThumbnailURL: "/media/thumbnails/a.jpg",
		Duration: 12, Views: 7, IsPublished: true,
	}).Error)

	require.NoError(t, run(t, r, "stats", owner.ID.String()))

	var stats models.ChannelStats
	require.NoError(t, json.Unmarshal(out.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalVideos)
	assert.Equal(t, int64(7), stats.TotalViews)
	assert.Equal(t, int64(0), stats.TotalSubscribers)
}

func TestStats_InvalidID(t *testing.T) {
	r, _ := newTestRunner(t, "")

	err := run(t, r, "stats", "not-a-uuid")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeInvalidIdentifier))
}

func TestFlags(t *testing.T) {
	tests := []struct {
		name     string
		flags    string
		args     []string
		contains []string
	}{
		{
			name:     "None configured",
			flags:    "",
			args:     []string{"flags"},
			contains: []string{"No feature flags configured"},
		},
		{
			name:     "Raw values",
			flags:    "strict_like_targets=on,legacy_ui=off",
			args:     []string{"flags"},
			contains: []string{"legacy_ui", "off", "strict_like_targets", "on"},
		},
		{
			name:     "Evaluated for a user",
			flags:    "strict_like_targets=on",
			args:     []string{"flags", "--user", uuid.NewString()},
			contains: []string{"strict_like_targets", "true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out := newTestRunner(t, tt.flags)
			require.NoError(t, run(t, r, tt.args...))
			for _, want := range tt.contains {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}
