package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/keys"
	"github.com/maksimkurb/wgvpc/src/internal/models"
)

func (s *FileStore) ReadRouter(id string) (*models.Router, error) {
	var router models.Router
	if err := readRecord(s.routerPath(id), "router", id, &router); err != nil {
		return nil, err
	}
	if router.ID == "" {
		router.ID = id
	}
	return &router, nil
}

// ListRouters returns every router with a router.toml, ordered by id.
func (s *FileStore) ListRouters() ([]*models.Router, error) {
	dir := filepath.Join(s.dataDir, routersDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewInternalError(fmt.Sprintf("failed to list %s", dir), err)
	}

	var routers []*models.Router
	for _, e := range entries {
		if !e.IsDir() || !exists(s.routerPath(e.Name())) {
			continue
		}
		router, err := s.ReadRouter(e.Name())
		if err != nil {
			return nil, err
		}
		routers = append(routers, router)
	}
	return routers, nil
}

// CreateRouter stores a new router. An empty id is generated; missing keys
// are generated, a lone private key gets its public key derived.
func (s *FileStore) CreateRouter(router *models.Router) (*models.Router, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if router.ID == "" {
		router.ID = newID("router")
	}
	if router.Name == "" {
		router.Name = router.ID
	}
	if err := s.fillKeys(&router.PrivateKey, &router.PublicKey); err != nil {
		return nil, err
	}

	if err := router.Validate(); err != nil {
		return nil, validationFailed("router", err)
	}
	if err := keys.CheckPair(router.PrivateKey, router.PublicKey); err != nil {
		return nil, err
	}
	if router.VPCID != "" {
		if err := s.ensureVPC(router.VPCID); err != nil {
			return nil, err
		}
	}
	if exists(s.routerPath(router.ID)) {
		return nil, alreadyExists("router", router.ID)
	}

	if err := writeRecord(s.routerPath(router.ID), router); err != nil {
		return nil, err
	}
	logCreated("router", router.ID)
	return router, nil
}

// DeleteRouter removes the router with its LANs and remotes. Routers that
// still have subnets attached are rejected. Whether the router is running is
// checked by the caller.
func (s *FileStore) DeleteRouter(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureRouter(id); err != nil {
		return err
	}

	subnets, err := s.ReadSubnets(id)
	if err != nil {
		return err
	}
	if len(subnets) > 0 {
		return errors.NewStateError(fmt.Sprintf("router %s has %d subnet(s) attached", id, len(subnets)), nil)
	}

	if err := os.RemoveAll(s.routerDir(id)); err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to remove router %s", id), err)
	}
	return nil
}

func (s *FileStore) fillKeys(privateKey, publicKey *string) error {
	switch {
	case *privateKey == "" && *publicKey == "":
		pair, err := s.keyGen.Generate()
		if err != nil {
			return err
		}
		*privateKey, *publicKey = pair.PrivateKey, pair.PublicKey
	case *publicKey == "":
		pub, err := keys.PublicKey(*privateKey)
		if err != nil {
			return err
		}
		*publicKey = pub
	}
	return nil
}
