package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/passguardian/passguardian-go/internal/apiclient"
	"github.com/passguardian/passguardian-go/internal/clipboard"
	"github.com/passguardian/passguardian-go/internal/config"
	"github.com/passguardian/passguardian-go/internal/logger"
	"github.com/passguardian/passguardian-go/internal/repository"
	"github.com/passguardian/passguardian-go/internal/service"
	"github.com/passguardian/passguardian-go/internal/tui"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error

	client    *apiclient.Client
	history   *service.HistoryService
	checker   *service.CheckerService
	generator *service.GeneratorService
	copier    *clipboard.Copier
}

func (a *app) setup(interactive bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	var fallback io.Writer = os.Stderr
	if interactive {
		fallback = nil
	}
	log, closeLog, err := logger.Open(cfg.LogFile, cfg.LogLevel, fallback)
	if err != nil {
		return err
	}
	a.logger = log
	a.closeLog = closeLog

	a.client, err = apiclient.New(apiclient.Options{
		BaseURL:        cfg.APIURL,
		Timeout:        cfg.RequestTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Logger:         log,
	})
	if err != nil {
		return err
	}

	repo := repository.NewHistoryRepository(repository.NewLocalStore(cfg.HistoryFile))
	a.history = service.NewHistoryService(repo, a.client, log)
	a.checker = service.NewCheckerService(a.client, a.history)
	a.generator = service.NewGeneratorService(a.client, a.history)
	a.copier = clipboard.New(clipboard.SystemClipboard, clipboard.OSC52(os.Stderr), log)

	log.Debug("client configured", "api_url", cfg.APIURL, "history_file", cfg.HistoryFile, "env", cfg.Env)
	return nil
}

func (a *app) close() error {
	if a.closeLog == nil {
		return nil
	}
	return a.closeLog()
}

func (a *app) runTUI(ctx context.Context) error {
	m := tui.New(ctx, tui.Services{
		Checker:   a.checker,
		Generator: a.generator,
		History:   a.history,
		Copier:    a.copier,
		Health: func(ctx context.Context) error {
			_, err := a.client.Health(ctx)
			return err
		},
	})

	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
