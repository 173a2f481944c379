package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireInstanceLockExclusive(t *testing.T) {
	dir := t.TempDir()

	lock, err := AcquireInstanceLock(dir)
	if err != nil {
		t.Fatalf("AcquireInstanceLock() error = %v", err)
	}

	_, err = AcquireInstanceLock(dir)
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second acquire error = %v, want ErrAlreadyRunning", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, instanceLockDirName)); !os.IsNotExist(err) {
		t.Fatalf("expected lock dir removed, stat err = %v", err)
	}

	again, err := AcquireInstanceLock(dir)
	if err != nil {
		t.Fatalf("acquire after release error = %v", err)
	}
	_ = again.Release()
}

func TestAcquireInstanceLockTakesOverHalfWrittenLock(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, instanceLockDirName), 0o755); err != nil {
		t.Fatal(err)
	}

	lock, err := AcquireInstanceLock(dir)
	if err != nil {
		t.Fatalf("AcquireInstanceLock() error = %v", err)
	}
	defer lock.Release()

	owner, err := readOwner(filepath.Join(dir, instanceLockDirName))
	if err != nil {
		t.Fatalf("readOwner() error = %v", err)
	}
	if owner.PID != os.Getpid() {
		t.Errorf("owner pid = %d, want %d", owner.PID, os.Getpid())
	}
}

func TestAcquireInstanceLockRequiresDir(t *testing.T) {
	if _, err := AcquireInstanceLock("  "); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestReleaseNilLock(t *testing.T) {
	var lock *InstanceLock
	if err := lock.Release(); err != nil {
		t.Errorf("Release() on nil lock = %v", err)
	}
}
