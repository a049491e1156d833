package store

import (
	"fmt"
	"path/filepath"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/models"
)

func (s *FileStore) ReadSubnet(id string) (*models.Subnet, error) {
	var sn models.Subnet
	if err := readRecord(s.subnetPath(id), "subnet", id, &sn); err != nil {
		return nil, err
	}
	if sn.ID == "" {
		sn.ID = id
	}
	return &sn, nil
}

func (s *FileStore) ListSubnets() ([]*models.Subnet, error) {
	ids, err := listIDs(filepath.Join(s.dataDir, subnetsDir), subnetSuffix)
	if err != nil {
		return nil, err
	}
	subnets := make([]*models.Subnet, 0, len(ids))
	for _, id := range ids {
		sn, err := s.ReadSubnet(id)
		if err != nil {
			return nil, err
		}
		subnets = append(subnets, sn)
	}
	return subnets, nil
}

// ReadSubnets returns the subnets attached to routerID ordered by id.
func (s *FileStore) ReadSubnets(routerID string) ([]*models.Subnet, error) {
	all, err := s.ListSubnets()
	if err != nil {
		return nil, err
	}
	var out []*models.Subnet
	for _, sn := range all {
		if sn.RouterID == routerID {
			out = append(out, sn)
		}
	}
	return out, nil
}

// CreateSubnet stores a subnet attached to a router inside a VPC. Missing id,
// interface and port are generated the same way as for LANs.
func (s *FileStore) CreateSubnet(sn *models.Subnet) (*models.Subnet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sn.ID == "" {
		sn.ID = newID("subnet")
	}
	if sn.Name == "" {
		sn.Name = sn.ID
	}
	if err := s.ensureVPC(sn.VPCID); err != nil {
		return nil, err
	}
	if err := s.ensureRouter(sn.RouterID); err != nil {
		return nil, err
	}

	taken, err := s.takenInterfaces(sn.RouterID)
	if err != nil {
		return nil, err
	}
	if sn.Interface == "" {
		sn.Interface = s.pickInterface(taken)
	}
	if sn.Port == 0 {
		sn.Port = lanPortMin + s.intn(lanPortMax-lanPortMin+1)
	}

	if err := sn.Validate(); err != nil {
		return nil, validationFailed("subnet", err)
	}
	if exists(s.subnetPath(sn.ID)) || exists(s.lanPath(sn.RouterID, sn.ID)) {
		return nil, alreadyExists("subnet", sn.ID)
	}
	if owner, ok := taken[sn.Interface]; ok {
		return nil, errors.NewConflictError(fmt.Sprintf("interface %s is already used by %s", sn.Interface, owner), nil)
	}

	if err := writeRecord(s.subnetPath(sn.ID), sn); err != nil {
		return nil, err
	}
	logCreated("subnet", sn.ID)
	return sn, nil
}

// DeleteSubnet removes a subnet that has no remotes attached.
func (s *FileStore) DeleteSubnet(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sn, err := s.ReadSubnet(id)
	if err != nil {
		return err
	}
	if exists(s.routerPath(sn.RouterID)) {
		remotes, err := s.ReadRemotes(sn.RouterID)
		if err != nil {
			return err
		}
		for _, r := range remotes {
			if r.LANID == id {
				return errors.NewStateError(fmt.Sprintf("subnet %s still has remote %s attached", id, r.ID), nil)
			}
		}
	}
	return removeRecord(s.subnetPath(id), "subnet", id)
}
