package store

import (
	"path/filepath"
	"strings"
)

const (
	vpcsDir    = "vpcs"
	routersDir = "routers"
	subnetsDir = "subnets"

	routerFile   = "router.toml"
	vpcSuffix    = ".toml"
	lanSuffix    = ".lan.toml"
	remoteSuffix = ".remote.toml"
	subnetSuffix = ".subnet.toml"
)

func (s *FileStore) vpcPath(id string) string {
	return filepath.Join(s.dataDir, vpcsDir, id+vpcSuffix)
}

func (s *FileStore) routerDir(id string) string {
	return filepath.Join(s.dataDir, routersDir, id)
}

func (s *FileStore) routerPath(id string) string {
	return filepath.Join(s.routerDir(id), routerFile)
}

func (s *FileStore) lanPath(routerID, lanID string) string {
	return filepath.Join(s.routerDir(routerID), lanID+lanSuffix)
}

func (s *FileStore) remotePath(routerID, remoteID string) string {
	return filepath.Join(s.routerDir(routerID), remoteID+remoteSuffix)
}

func (s *FileStore) subnetPath(id string) string {
	return filepath.Join(s.dataDir, subnetsDir, id+subnetSuffix)
}

// idFromFile strips suffix from a record file name, "" when it does not match.
func idFromFile(name, suffix string) string {
	if !strings.HasSuffix(name, suffix) {
		return ""
	}
	return strings.TrimSuffix(name, suffix)
}
