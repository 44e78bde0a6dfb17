// Package fileutil provides the atomic file materialization used to install
// the bundled verse database into writable storage.
package fileutil

import (
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/zeebo/blake3"
)

// Variables for testing - allow injection of failures
var (
	osRename = os.Rename
	osChmod  = os.Chmod
)

// Transform wraps a source stream before it is written, e.g. to decompress it.
type Transform func(io.Reader) (io.Reader, error)

// CopyFromFS copies name from fsys to dst and returns the hex BLAKE3 digest of
// the bytes written. The file is staged next to dst and renamed into place, so
// dst either does not exist or holds a complete copy.
func CopyFromFS(fsys fs.FS, name, dst string, transform Transform) (string, error) {
	src, err := fsys.Open(name)
	if err != nil {
		return "", errors.NewIO("open", name, err)
	}
	defer src.Close()

	var r io.Reader = src
	if transform != nil {
		if r, err = transform(src); err != nil {
			return "", errors.NewIO("decode", name, err)
		}
	}

	return writeAtomic(dst, r)
}

func writeAtomic(dst string, r io.Reader) (string, error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.NewIO("create directory", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".copy-*")
	if err != nil {
		return "", errors.NewIO("create temp file in", dir, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	h := blake3.New()
	if _, err := io.Copy(io.MultiWriter(tmp, h), r); err != nil {
		cleanup()
		return "", errors.NewIO("write", dst, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return "", errors.NewIO("sync", dst, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", errors.NewIO("close", dst, err)
	}
	if err := osChmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return "", errors.NewIO("chmod", dst, err)
	}
	if err := osRename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return "", errors.NewIO("rename into", dst, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Digest returns the hex BLAKE3 digest of the file at path.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestBytes returns the hex BLAKE3 digest of data.
func DigestBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
