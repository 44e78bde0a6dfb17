package versestore

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/FocuswithJustin/JuniperReader/internal/fileutil"
	"github.com/FocuswithJustin/JuniperReader/internal/validation"
	"github.com/ulikunitz/xz"
)

// Variables for testing - allow injection of failures
var (
	xzNewReader = xz.NewReader
	osReadFile  = os.ReadFile
	osWriteFile = os.WriteFile
)

// DigestSuffix is appended to the local database path to name the file
// holding the BLAKE3 digest recorded when the copy was made.
const DigestSuffix = ".blake3"

// Location tells a Store where the bundled dataset lives and where its
// writable copy goes.
type Location struct {
	Assets    fs.FS  // packaged assets
	AssetName string // dataset path inside Assets; a ".xz" suffix means compressed
	Dir       string // writable directory for the local copy
	FileName  string // local file name; defaults to AssetName without ".xz"
}

// Path returns the absolute path of the local copy.
func (l Location) Path() string {
	name := l.FileName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(l.AssetName), ".xz")
	}
	p := filepath.Join(l.Dir, name)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func (l Location) compressed() bool {
	return strings.HasSuffix(l.AssetName, ".xz")
}

// materialize makes sure the local copy exists, copying it out of the assets
// if it does not. It reports whether a copy was made.
func (l Location) materialize(verify bool) (bool, error) {
	path := l.Path()

	if fileutil.Exists(path) {
		if verify {
			if err := verifyDigest(path); err != nil {
				return false, err
			}
		}
		return false, nil
	}

	if l.Assets == nil || l.AssetName == "" {
		return false, errors.NewStorageUnavailable("materialize", path, fs.ErrNotExist)
	}

	want := validation.FileTypeSQLite
	var transform fileutil.Transform
	if l.compressed() {
		want = validation.FileTypeXZ
		transform = func(r io.Reader) (io.Reader, error) {
			return xzNewReader(r)
		}
	}
	if err := validation.RequireFileType(l.Assets, l.AssetName, want); err != nil {
		return false, errors.NewStorageUnavailable("materialize", path, err)
	}

	sum, err := fileutil.CopyFromFS(l.Assets, l.AssetName, path, transform)
	if err != nil {
		return false, errors.NewStorageUnavailable("materialize", path, err)
	}
	if err := osWriteFile(path+DigestSuffix, []byte(sum+"\n"), 0644); err != nil {
		// A copy without its sidecar would pass verification unchecked.
		os.Remove(path + DigestSuffix)
		os.Remove(path)
		return false, errors.NewStorageUnavailable("materialize", path, err)
	}
	return true, nil
}

// verifyDigest compares the local copy against its recorded digest.
// A copy without a sidecar predates digest recording and is accepted.
func verifyDigest(path string) error {
	want, err := osReadFile(path + DigestSuffix)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.NewStorageUnavailable("verify", path, err)
	}
	got, err := fileutil.Digest(path)
	if err != nil {
		return errors.NewStorageUnavailable("verify", path, err)
	}
	if strings.TrimSpace(string(want)) != got {
		return errors.NewStorageUnavailable("verify", path, errDigestMismatch)
	}
	return nil
}
