package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"knowledgedrop/internal/config"
	"knowledgedrop/internal/feed"
	"knowledgedrop/internal/note"
	"knowledgedrop/internal/pipeline"
	"knowledgedrop/internal/provider"
	"knowledgedrop/internal/summary"
	"knowledgedrop/internal/vault"
)

var (
	sourceOverride string
	dryRun         bool
)

// runCmd executes a single pipeline run
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch today's content and drop the note into the vault",
	Long: `Runs the full pipeline once: picks the day's source (or the one
given with --source), fetches the article and the daily quote,
generates the analysis and writes the note.

With --dry-run the note is rendered to the terminal instead of the
vault.`,
	RunE: runOnce,
}

func init() {
	runCmd.Flags().StringVarP(&sourceOverride, "source", "s", "", "override the day's provider (e.g. wikipedia, jstor, plato)")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "render the note to stdout instead of the vault")
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return executeRun(cmd.Context(), cfg, sourceOverride, dryRun, logger)
}

// loadConfig reads the config file if it exists, otherwise starts from
// the defaults. Environment overrides apply either way.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(cfgPath); err == nil {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
		cfg.ApplyEnvOverrides()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if !verbose {
		if lvl, err := zap.ParseAtomicLevel(cfg.Logging.Level); err == nil {
			logLevel.SetLevel(lvl.Level())
		}
	}
	return cfg, nil
}

// executeRun is the whole daily pipeline, shared by "run" and the
// scheduler.
func executeRun(ctx context.Context, cfg *config.Config, source string, dryRun bool, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now()
	log = log.With(zap.String("run_id", uuid.NewString()))

	if source == "" {
		source = pipeline.DailySource(cfg.Providers.Rotation, now)
	}
	log.Info("starting drop", zap.String("source", source))

	client := &http.Client{Timeout: cfg.HTTP.TimeoutDuration()}
	fetcher := feed.NewFetcher(client, log)
	registry := provider.BuildRegistry(cfg, client, fetcher, log)

	orch := pipeline.New(registry, cfg.Providers.Fallbacks, cfg.Providers.MaxFallbacks, log)
	agg, err := orch.Run(ctx, source)
	if errors.Is(err, pipeline.ErrNoUsableContent) {
		return openErrorNote(cfg, now, log, err)
	}
	if err != nil {
		return err
	}

	sections := generateSections(ctx, cfg, agg, log)

	body, err := note.Render(note.Input{
		Title:    agg.Main.Title,
		Link:     agg.Main.Link,
		Category: note.Capitalize(source),
		Sections: sections,
		Now:      now,
	})
	if err != nil {
		log.Error("note rendering failed", zap.Error(err))
		return openErrorNote(cfg, now, log, err)
	}

	if dryRun {
		rendered, rerr := glamour.Render(body, "dark")
		if rerr != nil {
			rendered = body
		}
		fmt.Print(rendered)
		return nil
	}

	dir := filepath.Join(cfg.Vault.Path, cfg.Vault.Subdir)
	name := note.Filename(agg.Main.Title, now)
	path, err := note.Write(dir, name, body)
	if err != nil {
		return err
	}
	log.Info("note written", zap.String("path", path))

	if cfg.Vault.Name != "" {
		opener := vault.NewOpener(log)
		if err := opener.Open(vault.NoteURL(cfg.Vault.Name, cfg.Vault.Subdir, name)); err != nil {
			log.Warn("could not open vault", zap.Error(err))
		}
	}
	return nil
}

// generateSections asks Gemini for the analysis when a key is
// configured, degrading to the canned sections on any failure.
func generateSections(ctx context.Context, cfg *config.Config, agg pipeline.Aggregate, log *zap.Logger) summary.Sections {
	if cfg.LLM.APIKey == "" {
		log.Warn("no Gemini API key configured, using default sections")
		return summary.DefaultSections()
	}

	client, err := summary.NewClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model, log)
	if err != nil {
		log.Error("could not create Gemini client", zap.Error(err))
		return summary.DefaultSections()
	}
	defer func() { _ = client.Close() }()

	genCtx, cancel := context.WithTimeout(ctx, cfg.LLM.TimeoutDuration())
	defer cancel()

	markdown, err := client.Generate(genCtx, agg.Main.Link, agg.DailyStoic.Link)
	if err != nil {
		log.Error("summary generation failed, using default sections", zap.Error(err))
		return summary.DefaultSections()
	}
	return summary.ParseSections(markdown)
}

// openErrorNote surfaces the failure inside the vault itself, so a
// silent morning run still leaves a visible trace.
func openErrorNote(cfg *config.Config, now time.Time, log *zap.Logger, cause error) error {
	if cfg.Vault.Name != "" {
		opener := vault.NewOpener(log)
		url := vault.NewNoteURL(cfg.Vault.Name, "ERRO-"+now.Format("2006-01-02"))
		if err := opener.Open(url); err != nil {
			log.Warn("could not open error note", zap.Error(err))
		}
	}
	return cause
}
