package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/maksimkurb/wgvpc/src/internal/commands"
	"github.com/maksimkurb/wgvpc/src/internal/config"
	"github.com/maksimkurb/wgvpc/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := &commands.AppContext{}

	// Define flags
	flag.StringVar(&ctx.ConfigPath, "config", config.DefaultConfigPath, "Path to configuration file")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "WireGuard VPC router manager\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  serve                              Run the REST API server\n")
		fmt.Fprintf(os.Stderr, "  start <router-id>                  Create the router's namespace, interfaces and firewall rules\n")
		fmt.Fprintf(os.Stderr, "  stop <router-id>                   Tear the router down\n")
		fmt.Fprintf(os.Stderr, "  restart <router-id>                Stop (if running) and start from current records\n")
		fmt.Fprintf(os.Stderr, "  status <router-id>                 Show records and runtime state\n")
		fmt.Fprintf(os.Stderr, "  client-config <router-id> <remote> Print a remote's WireGuard config\n")
		fmt.Fprintf(os.Stderr, "  history [router-id]                Show journaled lifecycle operations\n")
		fmt.Fprintf(os.Stderr, "  self-check                         Check tools, privileges and running routers\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}

	// Ensure cfg file exists
	if _, err := os.Stat(ctx.ConfigPath); errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Configuration file not found: %s", ctx.ConfigPath)
	}

	cmds := []commands.Runner{
		commands.CreateServeCommand(),
		commands.CreateStartCommand(),
		commands.CreateStopCommand(),
		commands.CreateRestartCommand(),
		commands.CreateStatusCommand(),
		commands.CreateClientConfigCommand(),
		commands.CreateHistoryCommand(),
		commands.CreateSelfCheckCommand(),
	}

	args := flag.Args()

	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}

			os.Exit(0)
		}
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}
