package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/emittiv/mockshell/internal/shellserve"
	"github.com/emittiv/mockshell/pkg/config"
	"github.com/emittiv/mockshell/pkg/hostenv"
	"github.com/emittiv/mockshell/pkg/storage"
	"github.com/emittiv/mockshell/pkg/version"
)

func main() {
	addrFlag := flag.String("addr", "", "Listen address (overrides config)")
	fixturesFlag := flag.String("fixtures", "", "Fixtures file to serve and hot-reload (overrides config)")
	configFlag := flag.String("config", "", "Config file path (default: XDG config dir)")
	stateFlag := flag.String("state", "", "SQLite file for persistent localStorage (overrides config)")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *help {
		fmt.Println("Usage: mockshell [options]")
		fmt.Println("\nA mock host shell for frontend dev sessions: stubbed bridge commands,")
		fmt.Println("canned database replies and a recorded call log over websocket/HTTP.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("mockshell %s\n", version.Version)
		os.Exit(0)
	}

	if *configFlag != "" {
		_ = os.Setenv(config.EnvConfigPath, *configFlag)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg = applyOverrides(cfg, *addrFlag, *fixturesFlag, *stateFlag)

	envOpts := []hostenv.Option{hostenv.WithConfig(cfg)}
	if cfg.Server.StatePath != "" {
		store, err := storage.OpenSQLite(cfg.Server.StatePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening state store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		envOpts = append(envOpts, hostenv.WithStore(store))
	}

	env := hostenv.New(envOpts...)
	if err := env.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing environment: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	var srvOpts []shellserve.Option
	if cfg.Fixtures != "" {
		srvOpts = append(srvOpts, shellserve.WithFixturesPath(cfg.Fixtures))
	}
	srv := shellserve.New(env, srvOpts...)
	if err := srv.Listen(cfg.Server.Addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := srv.Serve(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applyOverrides layers command-line flags over the loaded config.
// Empty flags leave the config value alone.
func applyOverrides(cfg config.Config, addr, fixtures, state string) config.Config {
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if fixtures != "" {
		cfg.Fixtures = fixtures
	}
	if state != "" {
		cfg.Server.StatePath = state
	}
	return cfg
}
