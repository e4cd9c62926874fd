package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// debugBinary matches the default executable name produced by dlv.
var debugBinary = regexp.MustCompile(`^__debug_bin\d+$`)

// Prefix returns the directory name used under the user configuration and
// cache directories.
//
// It is the base name of the running executable without extension or
// leading dots. A dlv debug binary is reported as [Name].
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	base := filepath.Base(exe)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimLeft(base, ".")

	if base == "" || debugBinary.MatchString(base) {
		return Name
	}

	return base
})

// ConfigDir returns the directory holding configuration files.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// CacheDir returns the directory holding transient files such as the REPL
// history and profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// userDir joins [Prefix] to the directory returned by base. If base fails,
// the hidden directory fallback under the home directory is used, and failing
// that the working directory.
func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
