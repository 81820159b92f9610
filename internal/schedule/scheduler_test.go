package schedule

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"knowledgedrop/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func noopJob(ctx context.Context, cfg *config.Config) error { return nil }

func TestScheduler_StartStop(t *testing.T) {
	cfg := config.DefaultConfig()
	s := New("", cfg, noopJob, nil)

	require.NoError(t, s.Start())
	s.Stop()
}

func TestScheduler_InvalidCronSpec(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Schedule.Cron = "isto não é cron"

	s := New("", cfg, noopJob, nil)
	assert.Error(t, s.Start())
}

func TestScheduler_WatchesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kdrop.yaml")

	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Save(path))

	s := New(path, cfg, noopJob, nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	// Rewrite the file with a different schedule and wait for the
	// watcher to pick it up.
	cfg2 := config.DefaultConfig()
	cfg2.Schedule.Cron = "30 6 * * *"
	require.NoError(t, cfg2.Save(path))

	deadline := time.After(3 * time.Second)
	for {
		if s.Config().Schedule.Cron == "30 6 * * *" {
			break
		}
		select {
		case <-deadline:
			t.Fatal("config reload never happened")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestScheduler_BadReloadKeepsPreviousConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kdrop.yaml")

	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Save(path))

	s := New(path, cfg, noopJob, nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	// An invalid cron spec must not replace the active schedule.
	bad := config.DefaultConfig()
	bad.Schedule.Cron = "nope"
	require.NoError(t, bad.Save(path))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, "0 7 * * *", s.Config().Schedule.Cron)
}
