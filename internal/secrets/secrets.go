// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials kept out of the config file. A secrets
// directory holds one plain-text file per secret; the file name is the key
// and the trimmed contents are the value.
//
// Known keys: guardian-api-key, archive-dsn.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// GuardianAPIKey holds the content API key.
	GuardianAPIKey = "guardian-api-key"
	// ArchiveDSN holds a PostgreSQL connection string for the archive.
	ArchiveDSN = "archive-dsn"
)

// Secrets maps key names to values.
type Secrets map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error and yields an empty set. Files that cannot be read are
// reported to warn and skipped; empty files are ignored.
func Load(dir string, warn io.Writer) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if warn != nil {
				fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			}
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			s[name] = v
		}
	}
	return s, nil
}

// Or returns configured when it is set, otherwise the secret stored under
// key, otherwise "".
func (s Secrets) Or(key, configured string) string {
	if configured != "" {
		return configured
	}
	return s[key]
}
