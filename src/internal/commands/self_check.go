package commands

import (
	"context"
	"flag"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/maksimkurb/wgvpc/src/internal/config"
	"github.com/maksimkurb/wgvpc/src/internal/core"
	"github.com/maksimkurb/wgvpc/src/internal/log"
	"github.com/maksimkurb/wgvpc/src/internal/models"
	"github.com/maksimkurb/wgvpc/src/internal/networking"
	"github.com/maksimkurb/wgvpc/src/internal/utils"
)

var requiredTools = []string{"ip", "wg", "wg-quick", "iptables"}

func CreateSelfCheckCommand() *SelfCheckCommand {
	gc := &SelfCheckCommand{
		fs:       flag.NewFlagSet("self-check", flag.ContinueOnError),
		geteuid:  unix.Geteuid,
		lookPath: networking.LookPath,
	}
	gc.fs.BoolVar(&gc.printConfig, "print-config", false, "Print the effective configuration")
	return gc
}

// SelfCheckCommand verifies the host prerequisites and that every running
// router still has its namespace, interfaces and firewall rules.
type SelfCheckCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	printConfig bool

	geteuid  func() int
	lookPath func(string) (string, error)

	failures int
}

func (g *SelfCheckCommand) Name() string {
	return g.fs.Name()
}

func (g *SelfCheckCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	return nil
}

func (g *SelfCheckCommand) Run() error {
	log.Infof("Running self-check...")
	g.failures = 0

	if g.printConfig {
		buf, err := g.cfg.SerializeConfig()
		if err != nil {
			return fmt.Errorf("failed to serialize config: %w", err)
		}
		log.Infof("---------------- Configuration START -----------------")
		if _, err := g.ctx.stdout().Write(buf.Bytes()); err != nil {
			return err
		}
		log.Infof("----------------- Configuration END ------------------")
	}

	g.check(g.geteuid() == 0, "Running as root", "Not running as root, namespaces and iptables rules cannot be changed")

	for _, tool := range requiredTools {
		path, err := g.lookPath(tool)
		g.check(err == nil, fmt.Sprintf("Found %s at %s", tool, path), fmt.Sprintf("%s not found in PATH", tool))
	}

	for _, dir := range []string{g.cfg.GetAbsDataDir(), g.cfg.GetAbsRunDir(), g.cfg.GetAbsWireGuardDir()} {
		err := utils.CheckDirWritable(dir)
		g.check(err == nil, fmt.Sprintf("Directory %s is writable", dir), fmt.Sprintf("%v", err))
	}

	deps, err := newDependencies(g.ctx, g.cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	routers, err := deps.Store().ListRouters()
	if err != nil {
		return err
	}
	for _, router := range routers {
		g.checkRouter(deps, router)
	}

	if g.failures > 0 {
		log.Errorf("Self-check completed with %d failure(s)", g.failures)
		return fmt.Errorf("self-check failed")
	}

	log.Infof("Self-check completed successfully")
	return nil
}

func (g *SelfCheckCommand) check(ok bool, pass, fail string) {
	if ok {
		log.Infof("[OK]   %s", pass)
		return
	}
	log.Errorf("[FAIL] %s", fail)
	g.failures++
}

func (g *SelfCheckCommand) checkRouter(deps *core.AppDependencies, router *models.Router) {
	ctx := context.Background()
	ctrl := deps.Controller()
	ns := ctrl.NamespaceName(router.ID)

	log.Infof("----------------- Router [%s] ------------------", router.ID)
	defer log.Infof("----------------- Router [%s] END ------------------", router.ID)

	nsExists, err := deps.NamespaceManager().NamespaceExists(ctx, ns)
	if err != nil {
		g.check(false, "", fmt.Sprintf("Failed to check namespace %s: %v", ns, err))
		return
	}

	if !ctrl.IsRunning(router.ID) {
		if nsExists {
			log.Warnf("Router is stopped but namespace %s exists (leftover)", ns)
		} else {
			log.Infof("Router is stopped")
		}
		return
	}

	g.check(nsExists, fmt.Sprintf("Namespace %s exists", ns), fmt.Sprintf("Namespace %s does NOT exist (missing)", ns))
	if !nsExists {
		return
	}

	status, err := ctrl.Status(ctx, router.ID)
	if err != nil {
		g.check(false, "", fmt.Sprintf("Failed to read status: %v", err))
		return
	}
	if status.Stale {
		log.Warnf("Records changed since the router was started, restart to apply them")
	}

	links := make(map[string]networking.LinkInfo, len(status.Interfaces))
	for _, l := range status.Interfaces {
		links[l.Name] = l
	}
	networks := make([]string, 0, len(status.LANs))
	for _, lan := range status.LANs {
		networks = append(networks, lan.Network)

		link, ok := links[lan.Interface]
		switch {
		case !ok:
			g.check(false, "", fmt.Sprintf("Interface %s of LAN %s does NOT exist (missing)", lan.Interface, lan.ID))
		case !link.Up:
			g.check(false, "", fmt.Sprintf("Interface %s of LAN %s is down", lan.Interface, lan.ID))
		default:
			g.check(true, fmt.Sprintf("Interface %s of LAN %s is up", lan.Interface, lan.ID), "")
		}
	}

	states, err := deps.Firewall().CheckTopology(networks, status.Router.MeshAllowed())
	if err != nil {
		g.check(false, "", fmt.Sprintf("Failed to check firewall: %v", err))
		return
	}
	for _, s := range states {
		g.check(s.Present,
			fmt.Sprintf("IPTables rule [%s] exists in %s", s.Rule, deps.Firewall().Chain()),
			fmt.Sprintf("IPTables rule [%s] does NOT exist in %s (missing)", s.Rule, deps.Firewall().Chain()))
	}
}
