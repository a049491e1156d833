package lifecycle

import (
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/models"
	"github.com/maksimkurb/wgvpc/src/internal/utils"
)

// Snapshot is the router as it was provisioned by Start.
type Snapshot struct {
	Router  *models.Router   `toml:"router"`
	LANs    []*models.LAN    `toml:"lans"`
	Remotes []*models.Remote `toml:"remotes"`
}

// Networks returns LAN networks in LAN order.
func (s *Snapshot) Networks() []string {
	return models.NewLANSet(s.LANs...).Networks()
}

// Digest identifies the snapshot content.
func (s *Snapshot) Digest() (string, error) {
	content, err := toml.Marshal(s)
	if err != nil {
		return "", errors.NewInternalError("failed to encode snapshot", err)
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]), nil
}

func (c *Controller) snapshotPath(routerID string) string {
	return filepath.Join(c.runDir, routerID+".snapshot.toml")
}

// readSnapshot collects the router, its LANs (subnets attached to the router
// count as LANs) ordered by id, and its remotes from the store.
func (c *Controller) readSnapshot(routerID string) (*Snapshot, error) {
	router, err := c.store.ReadRouter(routerID)
	if err != nil {
		return nil, err
	}
	lans, err := c.store.ReadLANs(routerID)
	if err != nil {
		return nil, err
	}
	subnets, err := c.store.ReadSubnets(routerID)
	if err != nil {
		return nil, err
	}
	remotes, err := c.store.ReadRemotes(routerID)
	if err != nil {
		return nil, err
	}

	set := models.NewLANSet(lans...)
	for _, sn := range subnets {
		set.Put(sn.AsLAN())
	}
	set.SortByID()

	return &Snapshot{Router: router, LANs: set.List(), Remotes: remotes}, nil
}

// Validate checks every record of the snapshot. Store reads decode files
// as-is, so hand-edited records are only caught here.
func (s *Snapshot) Validate() error {
	var errs []error
	if err := s.Router.Validate(); err != nil {
		errs = append(errs, err)
	}
	set := models.NewLANSet(s.LANs...)
	for _, lan := range s.LANs {
		if err := lan.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, remote := range s.Remotes {
		if err := remote.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		lan, ok := set.Get(remote.LANID)
		if !ok {
			errs = append(errs, fmt.Errorf("remote %s: lan %s does not exist", remote.ID, remote.LANID))
			continue
		}
		if !utils.NetworkContains(lan.Network, remote.Address) {
			errs = append(errs, fmt.Errorf("remote %s: address %s is outside lan network %s", remote.ID, remote.Address, lan.Network))
		}
	}
	return stderrors.Join(errs...)
}

func (c *Controller) saveSnapshot(snap *Snapshot) error {
	content, err := toml.Marshal(snap)
	if err != nil {
		return errors.NewInternalError("failed to encode snapshot", err)
	}
	if err := utils.WriteFileAtomic(c.snapshotPath(snap.Router.ID), content, 0600); err != nil {
		return errors.NewInternalError("failed to write snapshot", err)
	}
	return nil
}

// loadSnapshot reads the saved snapshot. A missing file yields errors.ErrNotFound.
func (c *Controller) loadSnapshot(routerID string) (*Snapshot, error) {
	path := c.snapshotPath(routerID)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Derive(errors.ErrNotFound, fmt.Sprintf("no snapshot for router %s", routerID), nil)
		}
		return nil, errors.NewInternalError(fmt.Sprintf("failed to read %s", path), err)
	}

	var snap Snapshot
	if err := toml.Unmarshal(content, &snap); err != nil {
		var derr *toml.DecodeError
		if stderrors.As(err, &derr) {
			row, col := derr.Position()
			return nil, errors.NewInternalError(fmt.Sprintf("failed to parse %s at line %d, column %d", path, row, col), err)
		}
		return nil, errors.NewInternalError(fmt.Sprintf("failed to parse %s", path), err)
	}
	if snap.Router == nil {
		return nil, errors.NewInternalError(fmt.Sprintf("snapshot %s has no router", path), nil)
	}
	return &snap, nil
}

func (c *Controller) removeSnapshot(routerID string) error {
	if _, err := utils.RemoveIfExists(c.snapshotPath(routerID)); err != nil {
		return errors.NewInternalError("failed to remove snapshot", err)
	}
	return nil
}
