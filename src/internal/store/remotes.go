package store

import (
	"fmt"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/keys"
	"github.com/maksimkurb/wgvpc/src/internal/models"
	"github.com/maksimkurb/wgvpc/src/internal/utils"
)

func (s *FileStore) ReadRemote(routerID, remoteID string) (*models.Remote, error) {
	if err := s.ensureRouter(routerID); err != nil {
		return nil, err
	}
	var remote models.Remote
	if err := readRecord(s.remotePath(routerID, remoteID), "remote", remoteID, &remote); err != nil {
		return nil, err
	}
	if remote.ID == "" {
		remote.ID = remoteID
	}
	return &remote, nil
}

// ReadRemotes returns the router's remote records ordered by id.
func (s *FileStore) ReadRemotes(routerID string) ([]*models.Remote, error) {
	if err := s.ensureRouter(routerID); err != nil {
		return nil, err
	}
	ids, err := listIDs(s.routerDir(routerID), remoteSuffix)
	if err != nil {
		return nil, err
	}
	remotes := make([]*models.Remote, 0, len(ids))
	for _, id := range ids {
		remote, err := s.ReadRemote(routerID, id)
		if err != nil {
			return nil, err
		}
		remotes = append(remotes, remote)
	}
	return remotes, nil
}

// CreateRemote stores a new remote attached to a LAN (or subnet) of the
// router. The address must lie inside that network and be unused on the router.
func (s *FileStore) CreateRemote(routerID string, remote *models.Remote) (*models.Remote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureRouter(routerID); err != nil {
		return nil, err
	}

	if remote.ID == "" {
		remote.ID = newID("remote")
	}
	if remote.Name == "" {
		remote.Name = remote.ID
	}
	if err := s.fillKeys(&remote.PrivateKey, &remote.PublicKey); err != nil {
		return nil, err
	}

	if err := remote.Validate(); err != nil {
		return nil, validationFailed("remote", err)
	}
	if err := keys.CheckPair(remote.PrivateKey, remote.PublicKey); err != nil {
		return nil, err
	}

	network, err := s.lanNetworkFor(routerID, remote.LANID)
	if err != nil {
		return nil, err
	}
	if !utils.NetworkContains(network, remote.Address) {
		return nil, errors.NewValidationError(fmt.Sprintf("address %s is outside lan network %s", remote.Address, network), nil)
	}

	if exists(s.remotePath(routerID, remote.ID)) {
		return nil, alreadyExists("remote", remote.ID)
	}
	existing, err := s.ReadRemotes(routerID)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.Address == remote.Address {
			return nil, errors.NewConflictError(fmt.Sprintf("address %s is already used by remote %s", remote.Address, r.ID), nil)
		}
	}

	if err := writeRecord(s.remotePath(routerID, remote.ID), remote); err != nil {
		return nil, err
	}
	logCreated("remote", remote.ID)
	return remote, nil
}

func (s *FileStore) DeleteRemote(routerID, remoteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureRouter(routerID); err != nil {
		return err
	}
	return removeRecord(s.remotePath(routerID, remoteID), "remote", remoteID)
}
