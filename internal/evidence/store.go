package evidence

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/akylbek/payment-system/payment-tracker/internal/payments"
)

// FileStore keeps evidence files in one directory named "<payment id>_<filename>".
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create evidence dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// CheckFilename rejects names without a base or with an extension outside
// payments.AllowedEvidenceExtensions.
func CheckFilename(filename string) (string, error) {
	base := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(filename, `\`, "/")))
	if base == "/" || base == "." || base == "" {
		return "", payments.Malformed("evidence filename is empty")
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	if !payments.AllowedEvidenceExtensions[ext] {
		return "", payments.Malformed("file type not allowed: %q (allowed: pdf, png, jpg)", ext)
	}
	return base, nil
}

// Save writes the file through a temp file and rename, so a retry with the
// same payment id and filename replaces the earlier copy whole.
func (s *FileStore) Save(paymentID, filename string, r io.Reader) (string, error) {
	base, err := CheckFilename(filename)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(s.dir, paymentID+"_"+base)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", err
	}
	return dest, nil
}

// Locate returns the path for ref, or payments.ErrEvidenceNotFound when the
// file is gone or ref points outside the evidence directory.
func (s *FileStore) Locate(ref string) (string, error) {
	if ref == "" || !s.contains(ref) {
		return "", payments.ErrEvidenceNotFound
	}
	info, err := os.Stat(ref)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return "", payments.ErrEvidenceNotFound
	}
	if err != nil {
		return "", err
	}
	return ref, nil
}

func (s *FileStore) contains(ref string) bool {
	dir, err := filepath.Abs(s.dir)
	if err != nil {
		return false
	}
	path, err := filepath.Abs(ref)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
