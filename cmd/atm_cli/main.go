package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/atm_ledger/internal/adapters"
	"github.com/SscSPs/atm_ledger/internal/console"
	"github.com/SscSPs/atm_ledger/internal/core/services"
	"github.com/SscSPs/atm_ledger/pkg/config"
	"golang.org/x/term"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}

	// Logs go to stderr so they do not interleave with the menu.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()
	store, closeStore, err := adapters.NewLedgerStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open ledger store", slog.String("error", err.Error()))
		return 1
	}
	defer closeStore()

	engine, err := services.NewAccountEngine(ctx, store,
		services.WithLogger(logger),
		services.WithHistoryDefault(cfg.HistoryDefaultCount),
		services.WithReconcileOnLoad(cfg.ReconcileOnLoad),
	)
	if err != nil {
		logger.Error("Failed to start account engine", slog.String("error", err.Error()))
		return 1
	}
	if _, err := engine.EnsureDemoAccount(ctx); err != nil {
		logger.Error("Failed to create demo account", slog.String("error", err.Error()))
		return 1
	}

	var options []console.Option
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		options = append(options, console.WithSecretReader(func() (string, error) {
			pin, err := term.ReadPassword(fd)
			fmt.Fprintln(os.Stdout)
			return string(pin), err
		}))
	}

	if err := console.New(engine, os.Stdin, os.Stdout, options...).Run(ctx); err != nil {
		if errors.Is(err, console.ErrLoginFailed) {
			return 1
		}
		logger.Error("Console stopped", slog.String("error", err.Error()))
		return 1
	}
	return 0
}
