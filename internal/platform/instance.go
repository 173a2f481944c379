package platform

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	instanceLockDirName   = ".ytd.lock"
	instanceLockOwnerFile = "owner.json"
)

// ErrAlreadyRunning is returned when another live process holds the instance lock
var ErrAlreadyRunning = errors.New("another instance is already running")

// InstanceLock marks the running process as the single GUI instance
type InstanceLock struct {
	lockDir string
}

type instanceOwner struct {
	PID       int    `json:"pid"`
	CreatedAt string `json:"created_at"`
	Hostname  string `json:"hostname,omitempty"`
}

// AcquireInstanceLock creates the lock directory under dir.
// A lock left behind by a process that no longer exists on this host is taken over.
func AcquireInstanceLock(dir string) (*InstanceLock, error) {
	target := strings.TrimSpace(dir)
	if target == "" {
		return nil, fmt.Errorf("lock directory is required")
	}
	if err := CreateDirectoryIfNotExists(target); err != nil {
		return nil, fmt.Errorf("create lock parent %s: %w", target, err)
	}

	lockDir := filepath.Join(target, instanceLockDirName)
	if err := os.Mkdir(lockDir, DefaultDirPermissions); err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("acquire instance lock in %s: %w", target, err)
		}
		owner, readErr := readOwner(lockDir)
		if readErr == nil && owner.PID > 0 && (owner.Hostname != hostnameOrUnknown() || processAlive(owner.PID)) {
			return nil, fmt.Errorf("%w (pid=%d created_at=%s host=%s)",
				ErrAlreadyRunning, owner.PID, owner.CreatedAt, owner.Hostname)
		}
		// stale or half-written lock
		if rmErr := os.RemoveAll(lockDir); rmErr != nil {
			return nil, fmt.Errorf("remove stale instance lock: %w", rmErr)
		}
		if err := os.Mkdir(lockDir, DefaultDirPermissions); err != nil {
			if os.IsExist(err) {
				return nil, ErrAlreadyRunning
			}
			return nil, fmt.Errorf("acquire instance lock in %s: %w", target, err)
		}
	}

	owner := instanceOwner{
		PID:       os.Getpid(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Hostname:  hostnameOrUnknown(),
	}
	if err := writeOwner(lockDir, owner); err != nil {
		_ = os.RemoveAll(lockDir)
		return nil, fmt.Errorf("write instance lock owner: %w", err)
	}
	return &InstanceLock{lockDir: lockDir}, nil
}

// Release removes the lock directory
func (l *InstanceLock) Release() error {
	if l == nil || strings.TrimSpace(l.lockDir) == "" {
		return nil
	}
	_ = os.Remove(filepath.Join(l.lockDir, instanceLockOwnerFile))
	if err := os.Remove(l.lockDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release instance lock %s: %w", l.lockDir, err)
	}
	return nil
}

func readOwner(lockDir string) (instanceOwner, error) {
	var owner instanceOwner
	data, err := os.ReadFile(filepath.Join(lockDir, instanceLockOwnerFile))
	if err != nil {
		return owner, err
	}
	err = json.Unmarshal(data, &owner)
	return owner, err
}

func writeOwner(lockDir string, owner instanceOwner) error {
	data, err := json.MarshalIndent(owner, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(lockDir, instanceLockOwnerFile), data, 0o644)
}

func hostnameOrUnknown() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "unknown"
	}
	return host
}
