// Package core wires the daemon configuration into the production
// implementations of the store, networking and lifecycle layers.
package core

import (
	"context"
	"fmt"

	"github.com/maksimkurb/wgvpc/src/internal/config"
	"github.com/maksimkurb/wgvpc/src/internal/domain"
	"github.com/maksimkurb/wgvpc/src/internal/journal"
	"github.com/maksimkurb/wgvpc/src/internal/keys"
	"github.com/maksimkurb/wgvpc/src/internal/lifecycle"
	"github.com/maksimkurb/wgvpc/src/internal/log"
	"github.com/maksimkurb/wgvpc/src/internal/metrics"
	"github.com/maksimkurb/wgvpc/src/internal/networking"
	"github.com/maksimkurb/wgvpc/src/internal/store"
)

// AppDependencies is a dependency injection container that holds all application dependencies.
//
// Usage:
//
//	deps, err := core.NewAppDependencies(ctx, cfg, core.Options{})
//	if err != nil {
//	    return err
//	}
//	defer deps.Close()
//	report, err := deps.Controller().Start(ctx, "R1")
type AppDependencies struct {
	cfg *config.Config

	runner     networking.CommandRunner
	namespaces *networking.NamespaceManager
	firewall   *networking.Firewall
	inspector  domain.LinkInspector
	store      *store.FileStore
	controller *lifecycle.Controller

	journal *journal.Journal
	metrics *metrics.Registry
}

// Options replaces production implementations. Zero values select the real ones.
type Options struct {
	// Runner executes ip, wg and wg-quick. Default: ExecRunner with the configured timeout.
	Runner networking.CommandRunner

	// IPTables is the firewall backend. Default: the IPv4 go-iptables handle.
	IPTables networking.IPTables

	// Inspector reads link state inside namespaces. Default: netlink inspector.
	Inspector domain.LinkInspector

	// KeyGenerator creates key pairs for records stored without keys.
	KeyGenerator keys.Generator

	// DisableJournal skips opening the journal even when a path is configured.
	DisableJournal bool
}

// NewAppDependencies creates a new dependency container from cfg.
//
// The journal is opened when configured; callers must Close the container.
func NewAppDependencies(ctx context.Context, cfg *config.Config, opts Options) (*AppDependencies, error) {
	runner := opts.Runner
	if runner == nil {
		runner = networking.NewExecRunner(cfg.CommandTimeout())
	}

	ipt := opts.IPTables
	if ipt == nil {
		var err error
		if ipt, err = networking.NewIPTables(); err != nil {
			return nil, fmt.Errorf("failed to initialize iptables: %w", err)
		}
	}

	inspector := opts.Inspector
	if inspector == nil {
		inspector = networking.NewInspector()
	}

	d := &AppDependencies{
		cfg:        cfg,
		runner:     runner,
		namespaces: networking.NewNamespaceManager(runner),
		firewall:   networking.NewFirewall(ipt, cfg.Firewall.Chain),
		inspector:  inspector,
		store:      store.NewFileStore(cfg.GetAbsDataDir(), opts.KeyGenerator),
		metrics:    metrics.Get(),
	}
	d.controller = lifecycle.NewController(cfg, d.store, d.namespaces, d.firewall, d.inspector)
	d.controller.AddSink(d.metrics)

	if path := cfg.GetAbsJournalPath(); path != "" && !opts.DisableJournal {
		j, err := journal.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		d.journal = j
		d.controller.AddSink(j)
	} else {
		log.Debugf("Lifecycle journal is disabled")
	}

	return d, nil
}

// Close releases the journal database.
func (d *AppDependencies) Close() error {
	if d.journal != nil {
		return d.journal.Close()
	}
	return nil
}

func (d *AppDependencies) Config() *config.Config {
	return d.cfg
}

func (d *AppDependencies) Runner() networking.CommandRunner {
	return d.runner
}

func (d *AppDependencies) NamespaceManager() *networking.NamespaceManager {
	return d.namespaces
}

func (d *AppDependencies) Firewall() *networking.Firewall {
	return d.firewall
}

func (d *AppDependencies) Inspector() domain.LinkInspector {
	return d.inspector
}

func (d *AppDependencies) Store() *store.FileStore {
	return d.store
}

func (d *AppDependencies) Controller() *lifecycle.Controller {
	return d.controller
}

// Journal returns nil when the journal is disabled.
func (d *AppDependencies) Journal() *journal.Journal {
	return d.journal
}

func (d *AppDependencies) Metrics() *metrics.Registry {
	return d.metrics
}
