// Package disk stores case attachments on a local directory tree:
// <root>/<case id>/<uploader>/<filename>. The file's existence in its
// bucket is its only record; there are no metadata rows.
package disk

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Uploader buckets. Client submissions and staff responses never mix.
const (
	UploaderClient = "client"
	UploaderStaff  = "staff"
)

var ErrEmptyFilename = errors.New("filename is empty after sanitization")

type AttachmentStore interface {
	Save(caseID int64, uploader, filename string, r io.Reader) (string, error)
	List(caseID int64, uploader string) ([]string, error)
	Open(caseID int64, uploader, filename string) (io.ReadCloser, error)
}

type diskStore struct {
	root string
}

func NewAttachmentStore(root string) (AttachmentStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &diskStore{root: root}, nil
}

func ValidUploader(uploader string) bool {
	return uploader == UploaderClient || uploader == UploaderStaff
}

// SanitizeFilename reduces a client-supplied name to its base component,
// stripping any directory traversal ("../../etc/passwd" becomes "passwd").
// Returns "" when nothing usable remains.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return name
}

// Save writes the file into its (case, uploader) bucket, creating parent
// directories as needed. An existing file with the same name is silently
// overwritten. Returns the stored name.
func (s *diskStore) Save(caseID int64, uploader, filename string, r io.Reader) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return "", ErrEmptyFilename
	}

	dir := s.bucketDir(caseID, uploader)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return name, nil
}

// List returns every filename in the (case, uploader) bucket, or an
// empty slice when the bucket does not exist yet.
func (s *diskStore) List(caseID int64, uploader string) ([]string, error) {
	entries, err := os.ReadDir(s.bucketDir(caseID, uploader))
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Open returns a readable handle on a stored file. The name is sanitized
// again so a crafted download path cannot escape the tree.
func (s *diskStore) Open(caseID int64, uploader, filename string) (io.ReadCloser, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return nil, ErrEmptyFilename
	}
	return os.Open(filepath.Join(s.bucketDir(caseID, uploader), name))
}

func (s *diskStore) bucketDir(caseID int64, uploader string) string {
	return filepath.Join(s.root, strconv.FormatInt(caseID, 10), uploader)
}
