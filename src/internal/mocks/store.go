package mocks

import (
	"fmt"
	"sort"
	"sync"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/models"
)

// MemoryStore is an in-memory domain.ResourceStore.
type MemoryStore struct {
	mu sync.Mutex

	Routers map[string]*models.Router
	LANs    map[string][]*models.LAN
	Remotes map[string][]*models.Remote
	Subnets []*models.Subnet

	ReadRouterFunc func(routerID string) (*models.Router, error)
	ReadLANsFunc   func(routerID string) ([]*models.LAN, error)

	ReadRouterCalls  int
	ReadLANsCalls    int
	ReadRemotesCalls int
	ReadSubnetsCalls int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Routers: make(map[string]*models.Router),
		LANs:    make(map[string][]*models.LAN),
		Remotes: make(map[string][]*models.Remote),
	}
}

func (m *MemoryStore) AddRouter(r *models.Router) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Routers[r.ID] = r
}

func (m *MemoryStore) AddLAN(routerID string, lan *models.LAN) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LANs[routerID] = append(m.LANs[routerID], lan)
}

func (m *MemoryStore) AddRemote(routerID string, remote *models.Remote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Remotes[routerID] = append(m.Remotes[routerID], remote)
}

func (m *MemoryStore) AddSubnet(sn *models.Subnet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Subnets = append(m.Subnets, sn)
}

func (m *MemoryStore) ReadRouter(routerID string) (*models.Router, error) {
	m.mu.Lock()
	m.ReadRouterCalls++
	m.mu.Unlock()

	if m.ReadRouterFunc != nil {
		return m.ReadRouterFunc(routerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Routers[routerID]
	if !ok {
		return nil, errors.Derive(errors.ErrNotFound, fmt.Sprintf("router %s not found", routerID), nil)
	}
	return r, nil
}

func (m *MemoryStore) ReadLANs(routerID string) ([]*models.LAN, error) {
	m.mu.Lock()
	m.ReadLANsCalls++
	m.mu.Unlock()

	if m.ReadLANsFunc != nil {
		return m.ReadLANsFunc(routerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]*models.LAN{}, m.LANs[routerID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) ReadRemotes(routerID string) ([]*models.Remote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReadRemotesCalls++
	out := append([]*models.Remote{}, m.Remotes[routerID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) ReadSubnets(routerID string) ([]*models.Subnet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReadSubnetsCalls++
	var out []*models.Subnet
	for _, sn := range m.Subnets {
		if sn.RouterID == routerID {
			out = append(out, sn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
