// Package domain defines the interfaces the router lifecycle depends on.
//
// Production implementations live in store and networking; tests substitute
// the doubles from the mocks package.
package domain

import (
	"context"

	"github.com/maksimkurb/wgvpc/src/internal/models"
	"github.com/maksimkurb/wgvpc/src/internal/networking"
)

// ResourceStore reads router records. Missing records yield an error
// matching errors.ErrNotFound.
type ResourceStore interface {
	// ReadRouter returns the router record.
	ReadRouter(routerID string) (*models.Router, error)

	// ReadLANs returns the router's LAN records ordered by id.
	// A router without LANs yields an empty slice, not an error.
	ReadLANs(routerID string) ([]*models.LAN, error)

	// ReadRemotes returns the router's remote records ordered by id.
	ReadRemotes(routerID string) ([]*models.Remote, error)

	// ReadSubnets returns the subnets attached to the router ordered by id.
	ReadSubnets(routerID string) ([]*models.Subnet, error)
}

// NamespaceManager manages namespaces and the WireGuard interfaces inside them.
//
// Every method is idempotent: creating something that exists or deleting
// something that is gone succeeds without side effects.
type NamespaceManager interface {
	NamespaceExists(ctx context.Context, ns string) (bool, error)
	CreateNamespace(ctx context.Context, ns string) error
	DeleteNamespace(ctx context.Context, ns string) error

	// CreateInterface creates a WireGuard interface in ns configured from
	// configPath, addressed with address and routing network.
	CreateInterface(ctx context.Context, name, ns, address, network, configPath string) error
	DestroyInterface(ctx context.Context, name, ns string) error
}

// FirewallManager applies the default-deny LAN policy.
type FirewallManager interface {
	// EnsureChain prepares the configured chain.
	EnsureChain() error

	// ApplyTopology blocks each network, allows each to itself and, with
	// mesh, allows every ordered pair of distinct networks.
	ApplyTopology(networks []string, mesh bool) error

	// RevokeTopology removes the rules ApplyTopology added.
	RevokeTopology(networks []string, mesh bool) error
}

// LinkInspector reports the live links of a namespace.
type LinkInspector interface {
	Links(ns string) ([]networking.LinkInfo, error)
}
