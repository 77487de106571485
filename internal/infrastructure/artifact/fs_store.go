// Package artifact persists generated invoice documents on disk so that the
// exact bytes submitted to the portal remain available for download and audit.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// suffix matches the portal-facing naming convention for generated documents.
const suffix = "_jofotara.xml"

// FSStore writes invoice XML artifacts under a single base directory, one file
// per invoice, overwritten on regeneration.
type FSStore struct {
	baseDir string
}

// NewFSStore creates the base directory if needed and returns the store.
func NewFSStore(baseDir string) (*FSStore, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("artifact: base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: create base directory: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

// Save writes the document for the given invoice number and returns the
// stored path. The write goes through a temp file and rename so a crashed
// process never leaves a half-written artifact behind.
func (s *FSStore) Save(invoiceNumber, xmlDoc string) (string, error) {
	name, err := fileName(invoiceNumber)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.baseDir, name)

	tmp, err := os.CreateTemp(s.baseDir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("artifact: create temp file: %w", err)
	}
	if _, err := tmp.WriteString(xmlDoc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("artifact: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("artifact: close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("artifact: rename %s: %w", name, err)
	}
	return path, nil
}

// Load reads back the stored document for an invoice number.
func (s *FSStore) Load(invoiceNumber string) ([]byte, error) {
	name, err := fileName(invoiceNumber)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, name))
	if err != nil {
		return nil, fmt.Errorf("artifact: read %s: %w", name, err)
	}
	return data, nil
}

// fileName derives the on-disk name from the invoice number. Path separators
// and parent references are rejected rather than sanitized: invoice numbers
// are caller-controlled identifiers, not arbitrary text.
func fileName(invoiceNumber string) (string, error) {
	n := strings.TrimSpace(invoiceNumber)
	if n == "" {
		return "", fmt.Errorf("artifact: invoice number is required")
	}
	if strings.ContainsAny(n, `/\`) || strings.Contains(n, "..") {
		return "", fmt.Errorf("artifact: invalid invoice number %q", invoiceNumber)
	}
	return n + suffix, nil
}
