// Package nginx owns the on-disk nginx site document.
//
// The provisioning pipeline fully overwrites the document each run; nothing
// is patched in place. Before overwriting, the writer snapshots the prior
// contents so any failure downstream of the write can restore the
// last-known-good configuration.
package nginx

import (
	"os"
	"path/filepath"

	"github.com/quizzler/deployctl/internal/errors"
)

// SiteFile is the reverse-proxy configuration document at a fixed path.
type SiteFile struct {
	path string
}

// NewSiteFile returns a SiteFile for the given path.
func NewSiteFile(path string) *SiteFile {
	return &SiteFile{path: path}
}

// Path returns the document's location.
func (s *SiteFile) Path() string {
	return s.path
}

// Read returns the current document contents. A missing file reads as
// empty, which is the state before the first provisioning run.
func (s *SiteFile) Read() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Step(errors.StepConfigWrite, "failed to read site document", err)
	}
	return string(data), nil
}

// Snapshot captures the document's current state for later restore.
func (s *SiteFile) Snapshot() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &Snapshot{path: s.path}, nil
	}
	if err != nil {
		return nil, errors.Step(errors.StepConfigWrite, "failed to snapshot site document", err)
	}
	return &Snapshot{path: s.path, content: data, existed: true}, nil
}

// Write overwrites the document with the rendered content.
func (s *SiteFile) Write(content string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Step(errors.StepConfigWrite, "failed to create site directory", err)
	}
	if err := os.WriteFile(s.path, []byte(content), 0644); err != nil {
		return errors.Step(errors.StepConfigWrite, "failed to write site document", err)
	}
	return nil
}

// Snapshot is the prior state of a site document.
type Snapshot struct {
	path    string
	content []byte
	existed bool
}

// Restore puts the document back the way the snapshot found it. If the
// document did not exist at snapshot time it is removed.
func (sn *Snapshot) Restore() error {
	if !sn.existed {
		if err := os.Remove(sn.path); err != nil && !os.IsNotExist(err) {
			return errors.Step(errors.StepConfigWrite, "failed to remove site document on rollback", err)
		}
		return nil
	}
	if err := os.WriteFile(sn.path, sn.content, 0644); err != nil {
		return errors.Step(errors.StepConfigWrite, "failed to restore site document", err)
	}
	return nil
}
