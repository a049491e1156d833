package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/maksimkurb/wgvpc/src/internal/config"
	"github.com/maksimkurb/wgvpc/src/internal/lifecycle"
	"github.com/maksimkurb/wgvpc/src/internal/log"
)

// LifecycleCommand runs start, stop or restart for one router.
type LifecycleCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config
	op  lifecycle.Operation

	routerID string
}

func CreateStartCommand() *LifecycleCommand {
	return newLifecycleCommand("start", lifecycle.OpStart)
}

func CreateStopCommand() *LifecycleCommand {
	return newLifecycleCommand("stop", lifecycle.OpStop)
}

func CreateRestartCommand() *LifecycleCommand {
	return newLifecycleCommand("restart", lifecycle.OpRestart)
}

func newLifecycleCommand(name string, op lifecycle.Operation) *LifecycleCommand {
	return &LifecycleCommand{
		fs: flag.NewFlagSet(name, flag.ContinueOnError),
		op: op,
	}
}

func (c *LifecycleCommand) Name() string {
	return c.fs.Name()
}

func (c *LifecycleCommand) Init(args []string, ctx *AppContext) error {
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

func (c *LifecycleCommand) Run() error {
	deps, err := newDependencies(c.ctx, c.cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	ctrl := deps.Controller()
	ctx := context.Background()

	var report *lifecycle.Report
	switch c.op {
	case lifecycle.OpStart:
		report, err = ctrl.Start(ctx, c.routerID)
	case lifecycle.OpStop:
		report, err = ctrl.Stop(ctx, c.routerID)
	default:
		report, err = ctrl.Restart(ctx, c.routerID)
	}
	if err != nil {
		return err
	}

	printReport(c.ctx, report)

	if report.Partial() {
		return fmt.Errorf("%s of router %s completed with %d failure(s)", c.op, c.routerID, len(report.Failed()))
	}
	log.Infof("Router %s: %s completed successfully", c.routerID, c.op)
	return nil
}

func printReport(ctx *AppContext, report *lifecycle.Report) {
	out := ctx.stdout()
	fmt.Fprintf(out, "Router %s (%s) in namespace %s\n", report.RouterID, report.Operation, report.Namespace)
	for _, item := range report.Items {
		if item.OK {
			fmt.Fprintf(out, "  [OK]   %s %s\n", item.Step, item.Target)
		} else {
			fmt.Fprintf(out, "  [FAIL] %s %s: %s\n", item.Step, item.Target, item.Error)
		}
	}
}
