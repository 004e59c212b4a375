// Package credentials loads the OpsGenie API key and heartbeat name from a
// TOML credentials file.
//
//	[opsgenie]
//	api_key = "..."
//	name    = "billing-worker"
package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// ErrInsecurePermissions is returned when credentials file has overly permissive permissions.
var ErrInsecurePermissions = fmt.Errorf("credentials file has insecure permissions")

// FileName is the credentials file looked up in the standard locations.
const FileName = "credentials.toml"

// Credentials holds the values read from the [opsgenie] section.
type Credentials struct {
	OpsGenie *Section `toml:"opsgenie"`
}

// Section is a single credentials section. Source is the legacy spelling of Name.
type Section struct {
	APIKey string `toml:"api_key"`
	Name   string `toml:"name"`
	Source string `toml:"source"`
}

// StandardPaths returns the standard credential file locations in order of priority
func StandardPaths() []string {
	paths := []string{FileName}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "opsgenie", FileName),
			filepath.Join(home, ".opsgenie", FileName),
		)
	}

	return paths
}

// Load loads credentials from the first available standard location.
// A missing file is not an error: it returns nil credentials and an empty path.
func Load() (*Credentials, string, error) {
	for _, path := range StandardPaths() {
		if _, err := os.Stat(path); err == nil {
			creds, err := LoadFile(path)
			if err != nil {
				return nil, path, err
			}
			return creds, path, nil
		}
	}
	return nil, "", nil
}

// LoadFile loads credentials from a specific file.
// Returns ErrInsecurePermissions if the file is readable by group or others.
func LoadFile(path string) (*Credentials, error) {
	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		mode := info.Mode().Perm()
		if mode&0077 != 0 {
			return nil, fmt.Errorf("%w: %s has mode %04o (must not be group/world accessible)",
				ErrInsecurePermissions, path, mode)
		}
	}

	var creds Credentials
	if _, err := toml.DecodeFile(path, &creds); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &creds, nil
}

// APIKey returns the OpsGenie API key, or "" when none is set.
func (c *Credentials) APIKey() string {
	if c == nil || c.OpsGenie == nil {
		return ""
	}
	return c.OpsGenie.APIKey
}

// Name returns the heartbeat name. name wins over the legacy source key.
func (c *Credentials) Name() string {
	if c == nil || c.OpsGenie == nil {
		return ""
	}
	if c.OpsGenie.Name != "" {
		return c.OpsGenie.Name
	}
	return c.OpsGenie.Source
}
