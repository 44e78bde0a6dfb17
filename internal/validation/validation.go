// Package validation checks configured paths and file names, and sniffs
// dataset assets so that a wrong file is rejected before it is copied.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"unicode"
)

const (
	// MaxFilenameLength is the maximum allowed filename length.
	MaxFilenameLength = 255
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrPathTooLong      = errors.New("path too long")
	ErrFilenameTooLong  = errors.New("filename too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrFileType         = errors.New("unexpected file type")
)

// ValidateFilename checks a bare file name: no separators, control
// characters or reserved names.
func ValidateFilename(filename string) error {
	switch {
	case filename == "":
		return ErrInvalidFilename
	case len(filename) > MaxFilenameLength:
		return ErrFilenameTooLong
	case filename == "." || filename == "..":
		return fmt.Errorf("%w: reserved name", ErrInvalidFilename)
	case strings.ContainsAny(filename, `/\`):
		return fmt.Errorf("%w: path separator not allowed", ErrInvalidFilename)
	case strings.HasPrefix(filename, "-"):
		return fmt.Errorf("%w: filename cannot start with hyphen", ErrInvalidFilename)
	}
	if hasControl(filename) {
		return fmt.Errorf("%w: control character not allowed", ErrInvalidFilename)
	}
	return nil
}

// ValidatePath checks length and characters of a configured path.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return ErrEmptyPath
	case len(path) > MaxPathLength:
		return ErrPathTooLong
	case hasControl(path):
		return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
	}
	return nil
}

func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// FileType is a detected asset format.
type FileType string

const (
	FileTypeSQLite  FileType = "sqlite"
	FileTypeXZ      FileType = "xz"
	FileTypeUnknown FileType = "unknown"
)

// headerSize covers the longest signature.
const headerSize = 16

var magicBytes = []struct {
	fileType FileType
	magic    []byte
}{
	{FileTypeXZ, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}},
	{FileTypeSQLite, []byte("SQLite format 3\x00")},
}

// DetectFileType identifies a file from its leading bytes.
func DetectFileType(header []byte) FileType {
	for _, sig := range magicBytes {
		if bytes.HasPrefix(header, sig.magic) {
			return sig.fileType
		}
	}
	return FileTypeUnknown
}

// Sniff reads the header of r and returns its detected type.
func Sniff(r io.Reader) (FileType, error) {
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FileTypeUnknown, fmt.Errorf("failed to read file header: %w", err)
	}
	return DetectFileType(buf[:n]), nil
}

// RequireFileType fails unless name in fsys has the wanted type.
func RequireFileType(fsys fs.FS, name string, want FileType) error {
	f, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	got, err := Sniff(f)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: %s is %s, want %s", ErrFileType, name, got, want)
	}
	return nil
}
