package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/diagmask/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

// Configuration file extensions, in the order they are loaded. Values in
// later files override values in earlier ones.
const (
	extJSON = ".json"
	extYAML = ".yaml"
)

// baseEnv is the name of the dotenv file loaded from the working directory.
const baseEnv = ".env"

// defaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// configPath returns the absolute path to a file or directory formed by
// joining the configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [pkg.ConfigDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// cachePath is like [configPath] for the cache directory.
func cachePath(elem ...string) string {
	return filepath.Join(append([]string{pkg.CacheDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
