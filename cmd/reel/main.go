// Command reel is a vertical autoplay video feed for the terminal.
package main

import (
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/finchley/reel/internal/api"
	"github.com/finchley/reel/internal/config"
	"github.com/finchley/reel/internal/logging"
	"github.com/finchley/reel/internal/media"
	"github.com/finchley/reel/internal/store"
	"github.com/finchley/reel/internal/ui"
)

func main() {
	config.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(); err != nil {
		stdlog.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	// Data directory: ~/.reel/
	homeDir, err := os.UserHomeDir()
	if err != nil {
		stdlog.Fatalf("Failed to get home directory: %v", err)
	}
	dataDir := filepath.Join(homeDir, ".reel")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		stdlog.Fatalf("Failed to create data directory: %v", err)
	}

	// Local cache: seen items, engagement, resume cursor. The app runs
	// without it if the database cannot open.
	var cache *store.Store
	cache, err = store.Open(filepath.Join(dataDir, "reel.db"))
	if err != nil {
		logging.Warn("cache unavailable, running without persistence", "err", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	client := api.New(cfg.API.BaseURL, cfg.API.Token, 30*time.Second)

	prefetcher := media.New(cfg.Spool.Dir, 30*time.Second)
	prefetcher.SetHeadKB(cfg.Spool.HeadKB)

	model := ui.New(client, prefetcher, cache, cfg.API.PageSize, cfg.UI.StartMuted, cfg.UI.LoopPlayback)

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := program.Run(); err != nil {
		logging.Error("program exited with error", "err", err)
		os.Exit(1)
	}
}
