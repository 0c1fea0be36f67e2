package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/collectdash/internal/backend"
	"github.com/jask/collectdash/internal/config"
)

func main() {
	demo := flag.Bool("demo", false, "use the local demo database instead of the hosted backend")
	customerID := flag.String("customer", "", "open focused on this customer ID")
	ticketID := flag.String("ticket", "", "open focused on this ticket ID")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, logClose := openLogger()
	defer logClose()

	be, beClose, err := openBackend(cfg, *demo)
	if err != nil {
		log.Fatalf("backend: %v", err)
	}
	defer beClose()

	m := newModel(ctx, cfg, be, logger)
	m.deepCustomer = *customerID
	m.deepTicket = *ticketID

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}

// openBackend picks the hosted client when a URL is configured, otherwise
// (or with --demo) a seeded local database.
func openBackend(cfg config.Config, demo bool) (backend.Client, func(), error) {
	if cfg.Backend.URL != "" && !demo {
		return backend.NewHTTPClient(cfg.Backend.URL, config.ResolveAPIKey(cfg)), func() {}, nil
	}

	path := cfg.Backend.DemoPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir demo dir: %w", err)
	}
	local, err := backend.OpenLocal(path)
	if err != nil {
		return nil, nil, err
	}
	if err := backend.SeedDemo(context.Background(), local); err != nil {
		local.Close()
		return nil, nil, fmt.Errorf("seed demo: %w", err)
	}
	return local, func() { local.Close() }, nil
}

// openLogger writes diagnostics to a state-dir file so nothing bleeds into
// the alternate screen. A nil logger is fine; setError tolerates it.
func openLogger() (*log.Logger, func()) {
	dir := filepath.Join(os.Getenv("HOME"), ".local", "state", "collectdash")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "collectdash.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, func() {}
	}
	return log.New(f, "", log.LstdFlags), func() { f.Close() }
}
