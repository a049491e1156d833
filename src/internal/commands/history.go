package commands

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/maksimkurb/wgvpc/src/internal/config"
	"github.com/maksimkurb/wgvpc/src/internal/errors"
)

func CreateHistoryCommand() *HistoryCommand {
	hc := &HistoryCommand{
		fs: flag.NewFlagSet("history", flag.ContinueOnError),
	}
	hc.fs.IntVar(&hc.limit, "limit", 20, "Number of entries to show (0 = all)")
	return hc
}

// HistoryCommand prints journaled lifecycle operations, newest first.
type HistoryCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	limit    int
	routerID string
}

func (c *HistoryCommand) Name() string {
	return c.fs.Name()
}

func (c *HistoryCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx

	if err := c.fs.Parse(args); err != nil {
		return err
	}
	switch rest := c.fs.Args(); len(rest) {
	case 0:
	case 1:
		c.routerID = rest[0]
	default:
		return fmt.Errorf("usage: history [-limit N] [router-id]")
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		c.cfg = cfg
	}

	return nil
}

func (c *HistoryCommand) Run() error {
	deps, err := newDependencies(c.ctx, c.cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	if deps.Journal() == nil {
		return errors.NewConfigError("journal is disabled, set [journal] path in the configuration", nil)
	}

	entries, err := deps.Journal().History(context.Background(), c.routerID, c.limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.ctx.stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tROUTER\tOPERATION\tOUTCOME\tDURATION\tDETAILS")
	for _, e := range entries {
		details := e.Error
		if details == "" && len(e.FailedItems) > 0 {
			details = fmt.Sprintf("%d failed item(s), first: %s %s: %s",
				len(e.FailedItems), e.FailedItems[0].Step, e.FailedItems[0].Target, e.FailedItems[0].Error)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.StartedAt.Local().Format(time.DateTime), e.RouterID, e.Operation, e.Outcome,
			time.Duration(e.DurationMs)*time.Millisecond, details)
	}
	return w.Flush()
}
