package store

import (
	stderrors "errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/keys"
	"github.com/maksimkurb/wgvpc/src/internal/log"
	"github.com/maksimkurb/wgvpc/src/internal/utils"
)

const (
	lanPortMin = 50000
	lanPortMax = 60000

	ifaceNumMin = 1000
	ifaceNumMax = 9999
)

// FileStore keeps records as TOML files under a data directory:
//
//	<data>/vpcs/<vpcId>.toml
//	<data>/routers/<routerId>/router.toml
//	<data>/routers/<routerId>/<lanId>.lan.toml
//	<data>/routers/<routerId>/<remoteId>.remote.toml
//	<data>/subnets/<subnetId>.subnet.toml
type FileStore struct {
	dataDir string
	keyGen  keys.Generator

	// intn returns a value in [0, n). Replaced in tests.
	intn func(n int) int
	now  func() time.Time

	mu sync.Mutex
}

func NewFileStore(dataDir string, keyGen keys.Generator) *FileStore {
	if keyGen == nil {
		keyGen = keys.WGGenerator{}
	}
	return &FileStore{
		dataDir: dataDir,
		keyGen:  keyGen,
		intn:    rand.Intn,
		now:     time.Now,
	}
}

func (s *FileStore) DataDir() string {
	return s.dataDir
}

func newID(prefix string) string {
	return prefix + "-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
}

func notFound(kind, id string, cause error) error {
	return errors.Derive(errors.ErrNotFound, fmt.Sprintf("%s %s not found", kind, id), cause)
}

func alreadyExists(kind, id string) error {
	return errors.Derive(errors.ErrAlreadyExists, fmt.Sprintf("%s %s already exists", kind, id), nil)
}

// readRecord decodes path into v. A missing file yields errors.ErrNotFound.
func readRecord(path, kind, id string, v any) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return notFound(kind, id, nil)
		}
		return errors.NewInternalError(fmt.Sprintf("failed to read %s", path), err)
	}
	if err := toml.Unmarshal(content, v); err != nil {
		var derr *toml.DecodeError
		if stderrors.As(err, &derr) {
			row, col := derr.Position()
			return errors.NewInternalError(fmt.Sprintf("failed to parse %s at line %d, column %d", path, row, col), err)
		}
		return errors.NewInternalError(fmt.Sprintf("failed to parse %s", path), err)
	}
	return nil
}

func writeRecord(path string, v any) error {
	content, err := toml.Marshal(v)
	if err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to encode %s", path), err)
	}
	if err := utils.WriteFileAtomic(path, content, 0600); err != nil {
		return errors.NewInternalError("failed to write record", err)
	}
	return nil
}

func removeRecord(path, kind, id string) error {
	removed, err := utils.RemoveIfExists(path)
	if err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to remove %s", path), err)
	}
	if !removed {
		return notFound(kind, id, nil)
	}
	return nil
}

// listIDs returns record ids in dir with suffix, sorted.
func listIDs(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewInternalError(fmt.Sprintf("failed to list %s", dir), err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id := idFromFile(e.Name(), suffix); id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func validationFailed(what string, err error) error {
	return errors.NewValidationError(fmt.Sprintf("invalid %s", what), err)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (s *FileStore) ensureVPC(id string) error {
	if !exists(s.vpcPath(id)) {
		return notFound("vpc", id, nil)
	}
	return nil
}

func (s *FileStore) ensureRouter(id string) error {
	if !exists(s.routerPath(id)) {
		return notFound("router", id, nil)
	}
	return nil
}

func logCreated(kind, id string) {
	log.Infof("Created %s %s", kind, id)
}
