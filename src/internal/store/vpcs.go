package store

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/models"
)

func (s *FileStore) ReadVPC(id string) (*models.VPC, error) {
	var vpc models.VPC
	if err := readRecord(s.vpcPath(id), "vpc", id, &vpc); err != nil {
		return nil, err
	}
	if vpc.ID == "" {
		vpc.ID = id
	}
	return &vpc, nil
}

func (s *FileStore) ListVPCs() ([]*models.VPC, error) {
	ids, err := listIDs(filepath.Join(s.dataDir, vpcsDir), vpcSuffix)
	if err != nil {
		return nil, err
	}
	vpcs := make([]*models.VPC, 0, len(ids))
	for _, id := range ids {
		vpc, err := s.ReadVPC(id)
		if err != nil {
			return nil, err
		}
		vpcs = append(vpcs, vpc)
	}
	return vpcs, nil
}

// CreateVPC stores a new VPC. Empty id and name are generated.
func (s *FileStore) CreateVPC(vpc *models.VPC) (*models.VPC, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if vpc.ID == "" {
		vpc.ID = newID("vpc")
	}
	if vpc.Name == "" {
		vpc.Name = vpc.ID
	}
	if vpc.Metadata == nil {
		vpc.Metadata = map[string]string{}
	}
	now := s.now().UTC().Truncate(time.Second)
	vpc.CreatedAt, vpc.UpdatedAt = now, now

	if err := vpc.Validate(); err != nil {
		return nil, validationFailed("vpc", err)
	}
	if exists(s.vpcPath(vpc.ID)) {
		return nil, alreadyExists("vpc", vpc.ID)
	}

	if err := writeRecord(s.vpcPath(vpc.ID), vpc); err != nil {
		return nil, err
	}
	logCreated("vpc", vpc.ID)
	return vpc, nil
}

// DeleteVPC removes a VPC that no router or subnet references.
func (s *FileStore) DeleteVPC(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureVPC(id); err != nil {
		return err
	}

	routers, err := s.ListRouters()
	if err != nil {
		return err
	}
	for _, r := range routers {
		if r.VPCID == id {
			return errors.NewStateError(fmt.Sprintf("vpc %s is used by router %s", id, r.ID), nil)
		}
	}
	subnets, err := s.ListSubnets()
	if err != nil {
		return err
	}
	for _, sn := range subnets {
		if sn.VPCID == id {
			return errors.NewStateError(fmt.Sprintf("vpc %s is used by subnet %s", id, sn.ID), nil)
		}
	}

	return removeRecord(s.vpcPath(id), "vpc", id)
}
