package store

import (
	"fmt"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/models"
)

func (s *FileStore) ReadLAN(routerID, lanID string) (*models.LAN, error) {
	if err := s.ensureRouter(routerID); err != nil {
		return nil, err
	}
	var lan models.LAN
	if err := readRecord(s.lanPath(routerID, lanID), "lan", lanID, &lan); err != nil {
		return nil, err
	}
	if lan.ID == "" {
		lan.ID = lanID
	}
	return &lan, nil
}

// ReadLANs returns the router's LAN records ordered by id.
func (s *FileStore) ReadLANs(routerID string) ([]*models.LAN, error) {
	if err := s.ensureRouter(routerID); err != nil {
		return nil, err
	}
	ids, err := listIDs(s.routerDir(routerID), lanSuffix)
	if err != nil {
		return nil, err
	}
	lans := make([]*models.LAN, 0, len(ids))
	for _, id := range ids {
		lan, err := s.ReadLAN(routerID, id)
		if err != nil {
			return nil, err
		}
		lans = append(lans, lan)
	}
	return lans, nil
}

// CreateLAN stores a new LAN on a router. Missing id, interface and port
// are generated: interface wg-NNNN unique on the router, port in [50000, 60000].
func (s *FileStore) CreateLAN(routerID string, lan *models.LAN) (*models.LAN, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureRouter(routerID); err != nil {
		return nil, err
	}

	taken, err := s.takenInterfaces(routerID)
	if err != nil {
		return nil, err
	}

	if lan.ID == "" {
		lan.ID = newID("lan")
	}
	if lan.Name == "" {
		lan.Name = lan.ID
	}
	if lan.Interface == "" {
		lan.Interface = s.pickInterface(taken)
	}
	if lan.Port == 0 {
		lan.Port = lanPortMin + s.intn(lanPortMax-lanPortMin+1)
	}

	if err := lan.Validate(); err != nil {
		return nil, validationFailed("lan", err)
	}
	if exists(s.lanPath(routerID, lan.ID)) {
		return nil, alreadyExists("lan", lan.ID)
	}
	if sn, err := s.ReadSubnet(lan.ID); err == nil && sn.RouterID == routerID {
		return nil, alreadyExists("subnet", lan.ID)
	}
	if owner, ok := taken[lan.Interface]; ok {
		return nil, errors.NewConflictError(fmt.Sprintf("interface %s is already used by %s", lan.Interface, owner), nil)
	}

	if err := writeRecord(s.lanPath(routerID, lan.ID), lan); err != nil {
		return nil, err
	}
	logCreated("lan", lan.ID)
	return lan, nil
}

// DeleteLAN removes a LAN that has no remotes attached.
func (s *FileStore) DeleteLAN(routerID, lanID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureRouter(routerID); err != nil {
		return err
	}
	remotes, err := s.ReadRemotes(routerID)
	if err != nil {
		return err
	}
	for _, r := range remotes {
		if r.LANID == lanID {
			return errors.NewStateError(fmt.Sprintf("lan %s still has remote %s attached", lanID, r.ID), nil)
		}
	}
	return removeRecord(s.lanPath(routerID, lanID), "lan", lanID)
}

// takenInterfaces maps interface names used on the router to their owner.
func (s *FileStore) takenInterfaces(routerID string) (map[string]string, error) {
	taken := make(map[string]string)

	lans, err := s.ReadLANs(routerID)
	if err != nil {
		return nil, err
	}
	for _, l := range lans {
		taken[l.Interface] = "lan " + l.ID
	}

	subnets, err := s.ReadSubnets(routerID)
	if err != nil {
		return nil, err
	}
	for _, sn := range subnets {
		taken[sn.Interface] = "subnet " + sn.ID
	}
	return taken, nil
}

func (s *FileStore) pickInterface(taken map[string]string) string {
	for {
		name := fmt.Sprintf("wg-%d", ifaceNumMin+s.intn(ifaceNumMax-ifaceNumMin+1))
		if _, ok := taken[name]; !ok {
			return name
		}
	}
}

// lanNetworkFor returns the network of a LAN or subnet on the router.
func (s *FileStore) lanNetworkFor(routerID, lanID string) (string, error) {
	if lan, err := s.ReadLAN(routerID, lanID); err == nil {
		return lan.Network, nil
	} else if errors.CodeOf(err) != errors.ErrCodeNotFound {
		return "", err
	}

	sn, err := s.ReadSubnet(lanID)
	if err != nil {
		return "", notFound("lan", lanID, nil)
	}
	if sn.RouterID != routerID {
		return "", notFound("lan", lanID, nil)
	}
	return sn.Network, nil
}
