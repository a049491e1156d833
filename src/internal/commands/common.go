package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/maksimkurb/wgvpc/src/internal/config"
	"github.com/maksimkurb/wgvpc/src/internal/core"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	Verbose    bool

	// Options are passed to core.NewAppDependencies. Tests inject simulated hosts here.
	Options core.Options

	// Stdout receives command output (default: os.Stdout).
	Stdout io.Writer
}

func (c *AppContext) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

// loadAndValidateConfigOrFail loads configuration from file and validates it.
func loadAndValidateConfigOrFail(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	return cfg, nil
}

func newDependencies(ctx *AppContext, cfg *config.Config) (*core.AppDependencies, error) {
	return core.NewAppDependencies(context.Background(), cfg, ctx.Options)
}

// positionalArgs checks the number of arguments left after flag parsing.
func positionalArgs(name string, args []string, usage ...string) ([]string, error) {
	if len(args) != len(usage) {
		return nil, fmt.Errorf("usage: %s <%s>", name, strings.Join(usage, "> <"))
	}
	return args, nil
}
