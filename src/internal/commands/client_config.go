package commands

import (
	"flag"
	"fmt"

	"github.com/maksimkurb/wgvpc/src/internal/config"
)

func CreateClientConfigCommand() *ClientConfigCommand {
	return &ClientConfigCommand{
		fs: flag.NewFlagSet("client-config", flag.ContinueOnError),
	}
}

// ClientConfigCommand prints the wg-quick file for a remote.
type ClientConfigCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	routerID string
	remoteID string
}

func (c *ClientConfigCommand) Name() string {
	return c.fs.Name()
}

func (c *ClientConfigCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}
	rest, err := positionalArgs(c.Name(), c.fs.Args(), "router-id", "remote-id")
	if err != nil {
		return err
	}
	c.routerID, c.remoteID = rest[0], rest[1]

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		c.cfg = cfg
	}

	return nil
}

func (c *ClientConfigCommand) Run() error {
	deps, err := newDependencies(c.ctx, c.cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	conf, err := deps.Controller().ClientConfig(c.routerID, c.remoteID)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(c.ctx.stdout(), conf)
	return err
}
