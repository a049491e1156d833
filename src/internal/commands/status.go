package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/maksimkurb/wgvpc/src/internal/config"
)

func CreateStatusCommand() *StatusCommand {
	sc := &StatusCommand{
		fs: flag.NewFlagSet("status", flag.ContinueOnError),
	}
	sc.fs.BoolVar(&sc.asJSON, "json", false, "Print status as JSON")
	return sc
}

// StatusCommand prints a router's records and runtime state without changing anything.
type StatusCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	asJSON   bool
	routerID string
}

func (c *StatusCommand) Name() string {
	return c.fs.Name()
}

func (c *StatusCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}
	rest, err := positionalArgs(c.Name(), c.fs.Args(), "router-id")
	if err != nil {
		return err
	}
	c.routerID = rest[0]

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		c.cfg = cfg
	}

	return nil
}

func (c *StatusCommand) Run() error {
	deps, err := newDependencies(c.ctx, c.cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	status, err := deps.Controller().Status(context.Background(), c.routerID)
	if err != nil {
		return err
	}

	out := c.ctx.stdout()
	if c.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	state := "stopped"
	if status.Running {
		state = "running"
		if status.Stale {
			state = "running (records changed since start, restart to apply)"
		}
	}
	fmt.Fprintf(out, "Router:    %s (%s)\n", status.Router.ID, status.Router.Domain)
	fmt.Fprintf(out, "State:     %s\n", state)
	fmt.Fprintf(out, "Namespace: %s\n", status.Namespace)
	fmt.Fprintf(out, "LANs:\n")
	for _, lan := range status.LANs {
		fmt.Fprintf(out, "  %-12s %-8s %-18s gw %-15s port %d\n", lan.ID, lan.Interface, lan.Network, lan.Gateway, lan.Port)
	}
	fmt.Fprintf(out, "Remotes:\n")
	for _, remote := range status.Remotes {
		fmt.Fprintf(out, "  %-12s lan %-12s %s\n", remote.ID, remote.LANID, remote.Address)
	}
	if status.Running {
		fmt.Fprintf(out, "Interfaces:\n")
		for _, link := range status.Interfaces {
			up := "down"
			if link.Up {
				up = "up"
			}
			fmt.Fprintf(out, "  %-12s %-10s %-4s mtu %d %v\n", link.Name, link.Type, up, link.MTU, link.Addresses)
		}
	}
	return nil
}
