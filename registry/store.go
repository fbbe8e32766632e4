package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// DefaultFile is the registry file name used when none is configured.
const DefaultFile = "buckets.json"

// Store reads and writes the registry file.
type Store struct {
	fs   afero.Fs
	path string
	log  *logrus.Entry
}

// NewStore creates a store for path on fs. A nil fs means the OS filesystem.
func NewStore(fs afero.Fs, path string) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if path == "" {
		path = DefaultFile
	}
	return &Store{
		fs:   fs,
		path: path,
		log:  logrus.WithFields(logrus.Fields{"component": "registry_store", "path": path}),
	}
}

// Path returns the registry file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the registry. A missing file is an empty registry; malformed
// JSON is an error.
func (s *Store) Load() (*Registry, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Info("Registry file not found, starting with an empty registry")
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	reg := New()
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", s.path, err)
	}
	if reg.Buckets == nil {
		reg.Buckets = []Record{}
	}
	for i := range reg.Buckets {
		reg.Buckets[i].normalize()
	}

	s.log.WithField("buckets", len(reg.Buckets)).Debug("Loaded registry")
	return reg, nil
}

// Save replaces the registry file with reg. The document is written to a
// temporary file in the same directory and renamed over the destination, so
// a failed write never truncates the previous registry.
func (s *Store) Save(reg *Registry) error {
	for i := range reg.Buckets {
		reg.Buckets[i].normalize()
	}
	data, err := json.MarshalIndent(reg, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	if err := WriteFileAtomic(s.fs, s.path, data); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}

	s.log.WithField("buckets", len(reg.Buckets)).Info("Registry saved")
	return nil
}

// WriteFileAtomic writes data to path via a sibling temporary file and a rename.
func WriteFileAtomic(fs afero.Fs, path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = fs.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return fs.Rename(tmpName, path)
}
