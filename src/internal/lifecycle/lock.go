package lifecycle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/log"
	"github.com/maksimkurb/wgvpc/src/internal/utils"
)

func (c *Controller) lockPath(routerID string) string {
	return filepath.Join(c.runDir, routerID+".lock")
}

// acquireLock creates the lock file if absent. An existing lock means the
// router is already running.
func (c *Controller) acquireLock(routerID string) error {
	if err := os.MkdirAll(c.runDir, 0755); err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to create %s", c.runDir), err)
	}

	f, err := os.OpenFile(c.lockPath(routerID), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return errors.Derive(errors.ErrAlreadyRunning, fmt.Sprintf("router %s is already running", routerID), nil)
		}
		return errors.NewInternalError("failed to create lock file", err)
	}

	if err := writeLockInfo(f, os.Getpid(), time.Now()); err != nil {
		utils.CloseOrWarn(f)
		if rmErr := os.Remove(f.Name()); rmErr != nil {
			log.Warnf("[router %s] Failed to remove lock file: %v", routerID, rmErr)
		}
		return errors.NewInternalError("failed to write lock file", err)
	}
	utils.CloseOrWarn(f)
	return nil
}

var writeLockInfo = func(w io.Writer, pid int, started time.Time) error {
	_, err := fmt.Fprintf(w, "pid=%d\nstarted=%s\n", pid, started.UTC().Format(time.RFC3339))
	return err
}

func (c *Controller) releaseLock(routerID string) error {
	if _, err := utils.RemoveIfExists(c.lockPath(routerID)); err != nil {
		return errors.NewInternalError("failed to remove lock file", err)
	}
	return nil
}

// IsRunning reports whether the router's lock file exists.
func (c *Controller) IsRunning(routerID string) bool {
	return utils.FileExists(c.lockPath(routerID))
}

// keyedMutex serializes callers per key. Entries are never dropped; there is
// one per router id ever operated on.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
