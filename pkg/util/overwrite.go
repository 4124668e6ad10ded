package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// OverwriteFile replaces the contents of filename with updated. A backup of
// orig is written next to the file first and removed once the write
// succeeds. If the write fails, the original contents are restored; if that
// fails too, the backup is kept and its name is included in the error.
func OverwriteFile(filename string, orig, updated []byte, perm fs.FileMode, size int64) error {
	bakname, err := backupFile(filename, orig, perm)
	if err != nil {
		return fmt.Errorf("backing up %s: %w", filename, err)
	}

	fout, err := os.OpenFile(filename, os.O_WRONLY, perm)
	if err != nil {
		os.Remove(bakname)
		return err
	}
	defer fout.Close() // for error paths

	n, err := fout.Write(updated)
	if err == nil && int64(n) < size {
		err = fout.Truncate(int64(n))
	}
	if err != nil {
		if n == 0 {
			// nothing was written
			os.Remove(bakname)
			return err
		}
		if rerr := restore(fout, orig); rerr != nil {
			return errors.Join(err, fmt.Errorf("restoring %s: %w; backup in %s", filename, rerr, bakname))
		}
		os.Remove(bakname)
		return err
	}
	if err := fout.Close(); err != nil {
		return fmt.Errorf("%w; backup in %s", err, bakname)
	}
	os.Remove(bakname)
	return nil
}

func restore(f *os.File, orig []byte) error {
	if _, err := f.WriteAt(orig, 0); err != nil {
		return err
	}
	if err := f.Truncate(int64(len(orig))); err != nil {
		return err
	}
	return f.Close()
}

// backupFile writes data to a new uniquely named file in the same directory
// as filename and returns its name.
func backupFile(filename string, data []byte, perm fs.FileMode) (string, error) {
	dir, base := filepath.Split(filename)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, base+".*.bak")
	if err != nil {
		return "", err
	}
	if err := f.Chmod(perm); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
