package api

import (
	"context"

	"github.com/maksimkurb/wgvpc/src/internal/journal"
	"github.com/maksimkurb/wgvpc/src/internal/lifecycle"
	"github.com/maksimkurb/wgvpc/src/internal/models"
)

// RecordStore is the record CRUD the API exposes. store.FileStore implements it.
type RecordStore interface {
	ListVPCs() ([]*models.VPC, error)
	ReadVPC(id string) (*models.VPC, error)
	CreateVPC(vpc *models.VPC) (*models.VPC, error)
	DeleteVPC(id string) error

	ListRouters() ([]*models.Router, error)
	ReadRouter(id string) (*models.Router, error)
	CreateRouter(router *models.Router) (*models.Router, error)
	DeleteRouter(id string) error

	ReadLANs(routerID string) ([]*models.LAN, error)
	CreateLAN(routerID string, lan *models.LAN) (*models.LAN, error)
	DeleteLAN(routerID, lanID string) error

	ReadRemotes(routerID string) ([]*models.Remote, error)
	CreateRemote(routerID string, remote *models.Remote) (*models.Remote, error)
	DeleteRemote(routerID, remoteID string) error

	ListSubnets() ([]*models.Subnet, error)
	CreateSubnet(sn *models.Subnet) (*models.Subnet, error)
	DeleteSubnet(id string) error
}

// RouterLifecycle drives routers. lifecycle.Controller implements it.
type RouterLifecycle interface {
	Start(ctx context.Context, routerID string) (*lifecycle.Report, error)
	Stop(ctx context.Context, routerID string) (*lifecycle.Report, error)
	Restart(ctx context.Context, routerID string) (*lifecycle.Report, error)
	Status(ctx context.Context, routerID string) (*lifecycle.Status, error)
	IsRunning(routerID string) bool
	ClientConfig(routerID, remoteID string) (string, error)
}

// HistoryReader reads the lifecycle journal. journal.Journal implements it.
type HistoryReader interface {
	History(ctx context.Context, routerID string, limit int) ([]journal.Entry, error)
}
