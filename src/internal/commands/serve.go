package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maksimkurb/wgvpc/src/internal/api"
	"github.com/maksimkurb/wgvpc/src/internal/config"
	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/log"
)

func CreateServeCommand() *ServeCommand {
	sc := &ServeCommand{
		fs: flag.NewFlagSet("serve", flag.ContinueOnError),
	}
	sc.fs.StringVar(&sc.bindAddr, "bind", "", "Address to bind the HTTP server (overrides [api] listen)")
	return sc
}

// ServeCommand runs the REST API until SIGINT or SIGTERM.
type ServeCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	bindAddr string
}

func (c *ServeCommand) Name() string {
	return c.fs.Name()
}

func (c *ServeCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if !cfg.API.Enable {
		return errors.NewConfigError("REST API is disabled, set [api] enable = true", nil)
	}
	if c.bindAddr == "" {
		c.bindAddr = cfg.API.Listen
	}

	return nil
}

func (c *ServeCommand) Run() error {
	deps, err := newDependencies(c.ctx, c.cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	// A nil *journal.Journal must not become a non-nil interface.
	var history api.HistoryReader
	if j := deps.Journal(); j != nil {
		history = j
	}

	handler := api.NewHandler(deps.Store(), deps.Controller(), history)
	server := api.NewServer(c.bindAddr, api.NewRouter(handler, deps.Metrics()))

	log.Infof("Configuration loaded from: %s", c.cfg.GetConfigFilePath())
	log.Infof("Resource store: %s", c.cfg.GetAbsDataDir())

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil {
			return err
		}
	case sig := <-shutdown:
		log.Infof("Received signal %v, shutting down server...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		log.Infof("Server stopped gracefully. Running routers are left untouched")
	}

	return nil
}
