package lifecycle

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/maksimkurb/wgvpc/src/internal/config"
	"github.com/maksimkurb/wgvpc/src/internal/domain"
	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/log"
	"github.com/maksimkurb/wgvpc/src/internal/models"
	"github.com/maksimkurb/wgvpc/src/internal/networking"
	"github.com/maksimkurb/wgvpc/src/internal/utils"
	"github.com/maksimkurb/wgvpc/src/internal/wgconfig"
)

// Controller starts, stops and inspects routers.
//
// Operations on the same router id are serialized in process by a keyed
// mutex and across processes by the lock file. Different routers proceed
// in parallel.
type Controller struct {
	store      domain.ResourceStore
	namespaces domain.NamespaceManager
	firewall   domain.FirewallManager
	inspector  domain.LinkInspector

	runDir       string
	wireguardDir string
	nsTemplate   string

	sinks []Sink
	locks keyedMutex
}

// NewController creates a controller.
//
// Parameters:
//   - cfg: provides run_dir, wireguard_dir and the namespace template
//   - store: source of router records
//   - namespaces, firewall: apply OS state
//   - inspector: live link state for Status (optional, can be nil)
func NewController(
	cfg *config.Config,
	store domain.ResourceStore,
	namespaces domain.NamespaceManager,
	firewall domain.FirewallManager,
	inspector domain.LinkInspector,
) *Controller {
	return &Controller{
		store:        store,
		namespaces:   namespaces,
		firewall:     firewall,
		inspector:    inspector,
		runDir:       cfg.GetAbsRunDir(),
		wireguardDir: cfg.GetAbsWireGuardDir(),
		nsTemplate:   cfg.General.NamespaceTemplate,
	}
}

// AddSink registers a receiver of lifecycle events. Not safe to call
// concurrently with operations.
func (c *Controller) AddSink(s Sink) {
	c.sinks = append(c.sinks, s)
}

// NamespaceName returns the namespace that holds the router's interfaces.
func (c *Controller) NamespaceName(routerID string) string {
	return config.RenderNamespaceName(c.nsTemplate, routerID)
}

func (c *Controller) configPath(iface string) string {
	return filepath.Join(c.wireguardDir, iface+".conf")
}

// Start provisions the router: lock, snapshot, namespace, one interface per
// LAN and the firewall topology. Failures of single LANs or of the firewall
// do not stop the operation; they are returned in the report.
func (c *Controller) Start(ctx context.Context, routerID string) (*Report, error) {
	unlock := c.locks.Lock(routerID)
	defer unlock()

	return c.observe(OpStart, routerID, func() (*Report, error) {
		return c.start(ctx, routerID)
	})
}

// Stop tears down what the router's snapshot describes, then removes the
// lock. Namespace deletion and lock removal are always attempted.
func (c *Controller) Stop(ctx context.Context, routerID string) (*Report, error) {
	unlock := c.locks.Lock(routerID)
	defer unlock()

	return c.observe(OpStop, routerID, func() (*Report, error) {
		return c.stop(ctx, routerID)
	})
}

// Restart stops the router if it is running, then starts it from fresh records.
func (c *Controller) Restart(ctx context.Context, routerID string) (*Report, error) {
	unlock := c.locks.Lock(routerID)
	defer unlock()

	return c.observe(OpRestart, routerID, func() (*Report, error) {
		report := newReport(routerID, OpRestart, c.NamespaceName(routerID))

		if c.IsRunning(routerID) {
			stopped, err := c.stop(ctx, routerID)
			if err != nil && !stderrors.Is(err, errors.ErrNotRunning) {
				return nil, err
			}
			if stopped != nil {
				report.Items = append(report.Items, stopped.Items...)
			}
		}

		started, err := c.start(ctx, routerID)
		if err != nil {
			return nil, err
		}
		report.Items = append(report.Items, started.Items...)
		return report, nil
	})
}

func (c *Controller) start(ctx context.Context, routerID string) (*Report, error) {
	if err := c.acquireLock(routerID); err != nil {
		return nil, err
	}

	snap, err := c.readSnapshot(routerID)
	if err == nil {
		if verr := snap.Validate(); verr != nil {
			log.Errorf("[router %s] Refusing to start: %v", routerID, verr)
			err = errors.NewValidationError(fmt.Sprintf("router %s has invalid records", routerID), verr)
		}
	}
	if err == nil {
		err = c.saveSnapshot(snap)
	}
	if err != nil {
		c.abortStart(routerID)
		return nil, err
	}

	ns := c.NamespaceName(routerID)
	report := newReport(routerID, OpStart, ns)
	log.Infof("[router %s] Starting in namespace %s with %d LAN(s)", routerID, ns, len(snap.LANs))

	if err := c.namespaces.CreateNamespace(ctx, ns); err != nil {
		log.Errorf("[router %s] Failed to create namespace %s: %v", routerID, ns, err)
		c.abortStart(routerID)
		return nil, fmt.Errorf("failed to create namespace %s: %w", ns, err)
	}
	report.add("create", "namespace", nil)

	for _, lan := range snap.LANs {
		err := c.startLAN(ctx, ns, snap, lan)
		if err != nil {
			log.Errorf("[router %s] LAN %s (%s) failed: %v", routerID, lan.ID, lan.Interface, err)
		}
		report.add("create", "lan "+lan.ID, err)
	}

	err = c.firewall.EnsureChain()
	if err == nil {
		err = c.firewall.ApplyTopology(snap.Networks(), snap.Router.MeshAllowed())
	}
	if err != nil {
		log.Errorf("[router %s] Failed to apply firewall topology: %v", routerID, err)
	}
	report.add("apply", "firewall", err)

	if report.Partial() {
		log.Warnf("[router %s] Started with %d failed item(s)", routerID, len(report.Failed()))
	} else {
		log.Infof("[router %s] Started", routerID)
	}
	return report, nil
}

// abortStart undoes the lock and snapshot of a start that created nothing else.
func (c *Controller) abortStart(routerID string) {
	if err := c.removeSnapshot(routerID); err != nil {
		log.Warnf("[router %s] %v", routerID, err)
	}
	if err := c.releaseLock(routerID); err != nil {
		log.Warnf("[router %s] %v", routerID, err)
	}
}

func (c *Controller) startLAN(ctx context.Context, ns string, snap *Snapshot, lan *models.LAN) error {
	text, err := wgconfig.RenderLANConfig(snap.Router, lan, snap.Remotes)
	if err != nil {
		return err
	}

	path := c.configPath(lan.Interface)
	if err := utils.WriteFileAtomic(path, []byte(text), 0600); err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to write %s", path), err)
	}
	log.Debugf("[router %s] Wrote %s", snap.Router.ID, path)

	return c.namespaces.CreateInterface(ctx, lan.Interface, ns, lan.Gateway, lan.Network, path)
}

func (c *Controller) stop(ctx context.Context, routerID string) (*Report, error) {
	if !c.IsRunning(routerID) {
		return nil, errors.Derive(errors.ErrNotRunning, fmt.Sprintf("router %s is not running", routerID), nil)
	}

	ns := c.NamespaceName(routerID)
	report := newReport(routerID, OpStop, ns)

	snap, err := c.loadSnapshot(routerID)
	if stderrors.Is(err, errors.ErrNotFound) {
		log.Warnf("[router %s] No snapshot, tearing down from current records", routerID)
		snap, err = c.readSnapshot(routerID)
	}
	if err != nil {
		log.Errorf("[router %s] Cannot tell what to tear down: %v", routerID, err)
		report.add("read", "snapshot", err)
		snap = &Snapshot{Router: &models.Router{ID: routerID}}
	}

	log.Infof("[router %s] Stopping namespace %s with %d LAN(s)", routerID, ns, len(snap.LANs))

	if len(snap.LANs) > 0 {
		err := c.firewall.RevokeTopology(snap.Networks(), snap.Router.MeshAllowed())
		if err != nil {
			log.Errorf("[router %s] Failed to revoke firewall topology: %v", routerID, err)
		}
		report.add("revoke", "firewall", err)
	}

	for _, lan := range snap.LANs {
		err := c.stopLAN(ctx, ns, lan)
		if err != nil {
			log.Errorf("[router %s] LAN %s (%s) teardown failed: %v", routerID, lan.ID, lan.Interface, err)
		}
		report.add("destroy", "lan "+lan.ID, err)
	}

	err = c.namespaces.DeleteNamespace(ctx, ns)
	if err != nil {
		log.Errorf("[router %s] Failed to delete namespace %s: %v", routerID, ns, err)
	}
	report.add("delete", "namespace", err)

	if err := c.removeSnapshot(routerID); err != nil {
		log.Warnf("[router %s] %v", routerID, err)
	}
	err = c.releaseLock(routerID)
	report.add("release", "lock", err)

	if report.Partial() {
		log.Warnf("[router %s] Stopped with %d failed item(s)", routerID, len(report.Failed()))
	} else {
		log.Infof("[router %s] Stopped", routerID)
	}
	return report, nil
}

func (c *Controller) stopLAN(ctx context.Context, ns string, lan *models.LAN) error {
	ifaceErr := c.namespaces.DestroyInterface(ctx, lan.Interface, ns)

	path := c.configPath(lan.Interface)
	if _, err := utils.RemoveIfExists(path); err != nil {
		fileErr := errors.NewInternalError(fmt.Sprintf("failed to remove %s", path), err)
		if ifaceErr == nil {
			return fileErr
		}
		log.Warnf("%v", fileErr)
	}
	return ifaceErr
}

// Status describes a router without changing anything.
type Status struct {
	Running   bool   `json:"running"`
	Namespace string `json:"namespace"`
	// Stale is set when a running router's records changed since it was started.
	Stale      bool                  `json:"stale"`
	Router     models.Router         `json:"router"`
	LANs       []*models.LAN         `json:"lans"`
	Remotes    []models.Remote       `json:"remotes"`
	Interfaces []networking.LinkInfo `json:"interfaces"`
}

// Status returns the router's records with private keys redacted, whether it
// is running and, when it is, the links found in its namespace.
func (c *Controller) Status(ctx context.Context, routerID string) (*Status, error) {
	current, err := c.readSnapshot(routerID)
	if err != nil {
		return nil, err
	}

	status := &Status{
		Running:    c.IsRunning(routerID),
		Namespace:  c.NamespaceName(routerID),
		Router:     current.Router.Redacted(),
		LANs:       current.LANs,
		Remotes:    models.RedactRemotes(current.Remotes),
		Interfaces: []networking.LinkInfo{},
	}
	if !status.Running {
		return status, nil
	}

	if saved, err := c.loadSnapshot(routerID); err == nil {
		status.Stale = snapshotsDiffer(saved, current)
	} else {
		log.Debugf("[router %s] %v", routerID, err)
	}

	if c.inspector != nil && ctx.Err() == nil {
		links, err := c.inspector.Links(status.Namespace)
		if err != nil {
			log.Warnf("[router %s] Failed to inspect namespace %s: %v", routerID, status.Namespace, err)
		} else if links != nil {
			status.Interfaces = links
		}
	}
	return status, nil
}

func snapshotsDiffer(a, b *Snapshot) bool {
	da, err := a.Digest()
	if err != nil {
		return false
	}
	db, err := b.Digest()
	if err != nil {
		return false
	}
	return da != db
}

// ClientConfig renders the WireGuard configuration a remote uses to reach
// the router. It is the only output that carries a remote's private key.
func (c *Controller) ClientConfig(routerID, remoteID string) (string, error) {
	snap, err := c.readSnapshot(routerID)
	if err != nil {
		return "", err
	}

	var remote *models.Remote
	for _, r := range snap.Remotes {
		if r.ID == remoteID {
			remote = r
			break
		}
	}
	if remote == nil {
		return "", errors.Derive(wgconfig.ErrRemoteNotFound, fmt.Sprintf("remote %s not found", remoteID), nil)
	}

	lans := models.NewLANSet(snap.LANs...)
	lan, ok := lans.Get(remote.LANID)
	if !ok {
		return "", errors.Derive(wgconfig.ErrLANNotFound, fmt.Sprintf("lan %s of remote %s not found", remote.LANID, remoteID), nil)
	}
	return wgconfig.RenderRemoteConfig(snap.Router, lan, remote, lans.List())
}

func (c *Controller) observe(op Operation, routerID string, fn func() (*Report, error)) (*Report, error) {
	started := time.Now()
	report, err := fn()
	if err != nil {
		log.Errorf("[router %s] %s failed: %v", routerID, op, err)
	}

	event := Event{
		RouterID:  routerID,
		Operation: op,
		StartedAt: started,
		Duration:  time.Since(started),
		Report:    report,
		Err:       err,
	}
	for _, s := range c.sinks {
		s.Record(event)
	}
	return report, err
}
