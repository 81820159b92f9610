// Package schedule runs the daily pipeline on a cron spec and reloads
// the schedule when the config file changes on disk.
package schedule

import (
	"context"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"knowledgedrop/internal/config"
)

// Job is one full pipeline run, invoked by the cron entry.
type Job func(ctx context.Context, cfg *config.Config) error

// Scheduler owns the cron loop and the config watcher.
type Scheduler struct {
	cfgPath string
	job     Job
	log     *zap.Logger

	mu    sync.Mutex
	cfg   *config.Config
	cron  *cron.Cron
	entry cron.EntryID

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a Scheduler over an already loaded config. cfgPath may be
// empty, in which case no hot-reload watcher is started.
func New(cfgPath string, cfg *config.Config, job Job, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cfgPath: cfgPath,
		cfg:     cfg,
		job:     job,
		log:     log.Named("schedule"),
		done:    make(chan struct{}),
	}
}

// Start registers the cron entry and begins watching the config file.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cron = cron.New()
	entry, err := s.cron.AddFunc(s.cfg.Schedule.Cron, s.runJob)
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", s.cfg.Schedule.Cron, err)
	}
	s.entry = entry

	if s.cfgPath != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create config watcher: %w", err)
		}
		if err := watcher.Add(s.cfgPath); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("failed to watch config: %w", err)
		}
		s.watcher = watcher

		s.wg.Add(1)
		go s.watchLoop()
	}

	s.cron.Start()
	s.log.Info("scheduler started", zap.String("cron", s.cfg.Schedule.Cron))
	return nil
}

// Stop halts the cron loop and the watcher, waiting for a running job
// to finish.
func (s *Scheduler) Stop() {
	close(s.done)
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	s.wg.Wait()

	s.mu.Lock()
	c := s.cron
	s.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
	s.log.Info("scheduler stopped")
}

// Config returns the currently active configuration.
func (s *Scheduler) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *Scheduler) runJob() {
	runID := uuid.NewString()
	log := s.log.With(zap.String("run_id", runID))
	log.Info("scheduled run starting")

	if err := s.job(context.Background(), s.Config()); err != nil {
		log.Error("scheduled run failed", zap.Error(err))
		return
	}
	log.Info("scheduled run finished")
}

func (s *Scheduler) watchLoop() {
	defer s.wg.Done()
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.reload()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("config watcher error", zap.Error(err))
		case <-s.done:
			return
		}
	}
}

// reload re-reads the config file and reschedules the cron entry. A
// broken config is logged and ignored; the previous schedule stays
// active.
func (s *Scheduler) reload() {
	cfg, err := config.Load(s.cfgPath)
	if err != nil {
		s.log.Error("config reload failed, keeping previous config", zap.Error(err))
		return
	}
	if err := cfg.Validate(); err != nil {
		s.log.Error("reloaded config is invalid, keeping previous config", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cron.Remove(s.entry)
	entry, err := s.cron.AddFunc(cfg.Schedule.Cron, s.runJob)
	if err != nil {
		s.log.Error("reloaded cron spec is invalid, keeping previous entry", zap.Error(err))
		// Put the old entry back.
		if prev, addErr := s.cron.AddFunc(s.cfg.Schedule.Cron, s.runJob); addErr == nil {
			s.entry = prev
		}
		return
	}

	s.entry = entry
	s.cfg = cfg
	s.log.Info("config reloaded", zap.String("cron", cfg.Schedule.Cron))
}
