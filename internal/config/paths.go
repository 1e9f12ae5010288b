package config

import (
	"os"
	"path/filepath"
)

const defaultBaseDir = ".scribe"

// Paths holds resolved filesystem paths for scribe data.
type Paths struct {
	Base     string // ~/.scribe
	Config   string // ~/.scribe/config.yaml
	Sessions string // ~/.scribe/sessions
	Data     string // ~/.scribe/data
	Logs     string // ~/.scribe/logs
}

// ResolvePaths computes all standard paths from the home directory.
// SCRIBE_HOME overrides the default base directory when set.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("SCRIBE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:     base,
		Config:   filepath.Join(base, "config.yaml"),
		Sessions: filepath.Join(base, "sessions"),
		Data:     filepath.Join(base, "data"),
		Logs:     filepath.Join(base, "logs"),
	}, nil
}

// EnsureDirs creates all standard directories if they don't exist.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.Base, p.Sessions, p.Data, p.Logs} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	return nil
}
