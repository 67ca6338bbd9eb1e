package columns

import (
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultDirCreationPerm is used when creating output directories.
var DefaultDirCreationPerm = os.FileMode(0755)

// WriteFileAtomic writes the file at path with the content produced by write.
//
// The content is first written to a uniquely named temporary file in the same directory, and
// moved to path only if write succeeds, so readers never see a partial file. A path+".lock"
// file serializes concurrent writers of the same path, across processes. The lock file is never
// removed, so all writers of path lock the same inode.
func WriteFileAtomic(path string, write func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirCreationPerm); err != nil {
		return errors.Wrapf(err, "failed to create directory for file %q", path)
	}

	lockPath := path + ".lock"
	var mainErr error
	errLock := execOnFileLock(lockPath, func() {
		tmpPath := path + "." + uuid.NewString() + ".tmp"
		tmpFile, err := os.Create(tmpPath)
		if err != nil {
			mainErr = errors.Wrapf(err, "creating temporary file %q", tmpPath)
			return
		}
		var tmpFileClosed bool
		defer func() {
			// On error, close and remove the unfinished temporary file.
			if !tmpFileClosed {
				_ = tmpFile.Close()
				_ = os.Remove(tmpPath)
			}
		}()

		if mainErr = write(tmpFile); mainErr != nil {
			mainErr = errors.WithMessagef(mainErr, "while writing %q", path)
			return
		}

		tmpFileClosed = true
		if err := tmpFile.Close(); err != nil {
			_ = os.Remove(tmpPath)
			mainErr = errors.Wrapf(err, "failed to close temporary file %q", tmpPath)
			return
		}
		if err := os.Rename(tmpPath, path); err != nil {
			_ = os.Remove(tmpPath)
			mainErr = errors.Wrapf(err, "failed to move %q to %q", tmpPath, path)
			return
		}
	})
	if mainErr != nil {
		return mainErr
	}
	if errLock != nil {
		return errors.WithMessagef(errLock, "while locking %q to write %q", lockPath, path)
	}
	return nil
}

// execOnFileLock opens the lockPath file (or creates it), locks it, and executes fn.
// If lockPath is already locked, it polls every 50 to 100 milliseconds until it acquires the
// lock.
func execOnFileLock(lockPath string, fn func()) (err error) {
	fileLock := flock.New(lockPath)
	for {
		locked, err := fileLock.TryLock()
		if err != nil {
			return errors.Wrapf(err, "while trying to lock %q", lockPath)
		}
		if locked {
			break
		}
		time.Sleep(time.Millisecond * time.Duration(50+rand.Intn(50)))
	}

	// Unlock even if fn panics.
	defer func() {
		if unlockErr := fileLock.Unlock(); unlockErr != nil && err == nil {
			err = errors.Wrapf(unlockErr, "unlocking file %q", lockPath)
		}
	}()
	fn()
	return
}

// CreateDir creates the output directory dir, which must not exist yet.
func CreateDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return errors.Errorf("%s already exists", dir)
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "checking %q", dir)
	}
	if err := os.MkdirAll(dir, DefaultDirCreationPerm); err != nil {
		return errors.Wrapf(err, "creating %q", dir)
	}
	return nil
}
