// FILE: lixenwraith/conftree/discovery.go
package conftree

import (
	"fmt"
	"os"
	"path/filepath"
)

// DiscoveryOptions configures system configuration lookup by name
type DiscoveryOptions struct {
	// RootEnv names the environment variable holding the installation root
	RootEnv string

	// ConfigEnv names the environment variable holding the configuration directory
	ConfigEnv string

	// Hostname selects the host-specific subdirectory (empty = os.Hostname)
	Hostname string

	// Extension appended to the configuration name
	Extension string

	// Custom search paths, tried after the configuration directory
	Paths []string

	// Whether to search in XDG config directories
	UseXDG bool

	// Whether to search in current directory
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns the standard lookup: CONFTREE_ROOT and
// CONFTREE_CONFIG_ROOT, ".conf" files, XDG and current directory enabled.
func DefaultDiscoveryOptions() DiscoveryOptions {
	return DiscoveryOptions{
		RootEnv:       "CONFTREE_ROOT",
		ConfigEnv:     "CONFTREE_CONFIG_ROOT",
		Extension:     ".conf",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// SystemPaths are the directories of an installation.
type SystemPaths struct {
	Root   string
	Config string
	Lib    string
	Log    string
}

// ResolveSystemPaths determines the installation directories. The root comes
// from RootEnv, else the parent of the executable's directory. The config
// directory comes from ConfigEnv, else <root>/etc, else /etc.
func ResolveSystemPaths(opts DiscoveryOptions) SystemPaths {
	root := BasePath(opts.RootEnv, "")
	if root == "" {
		if exe, err := os.Executable(); err == nil {
			root = filepath.Dir(filepath.Dir(exe))
			if !isDir(root) {
				root = ""
			}
		}
	}

	config := BasePath(opts.ConfigEnv, "")
	if config == "" {
		config = filepath.Join(root, "etc")
		if root == "" || !isDir(config) {
			config = string(filepath.Separator) + "etc"
		}
	}

	return SystemPaths{
		Root:   root,
		Config: config,
		Lib:    filepath.Join(root, "lib"),
		Log:    filepath.Join(root, "log"),
	}
}

// Complete joins a relative path onto the root. Absolute paths are returned cleaned.
func (p SystemPaths) Complete(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.Root, path)
}

// BasePath returns the directory named by envVar joined with subdir, or ""
// when the variable is unset or the directory does not exist.
func BasePath(envVar, subdir string) string {
	if envVar == "" {
		return ""
	}
	base := os.Getenv(envVar)
	if base == "" {
		return ""
	}
	dir := filepath.Join(base, subdir)
	if !isDir(dir) {
		return ""
	}
	return dir
}

// SearchPaths lists candidate files for name in lookup order:
// <config>/<hostname>/<name>, <config>/<name>, custom paths, XDG paths, then
// <name> in the current directory.
func SearchPaths(name string, opts DiscoveryOptions) []string {
	file := name + opts.Extension
	paths := ResolveSystemPaths(opts)

	hostname := opts.Hostname
	if hostname == "" {
		hostname, _ = os.Hostname()
	}

	var candidates []string
	if hostname != "" {
		candidates = append(candidates, filepath.Join(paths.Config, hostname, file))
	}
	candidates = append(candidates, filepath.Join(paths.Config, file))

	for _, dir := range opts.Paths {
		candidates = append(candidates, filepath.Join(dir, file))
	}

	if opts.UseXDG {
		for _, dir := range getXDGConfigPaths(name) {
			candidates = append(candidates, filepath.Join(dir, file))
		}
	}

	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(cwd, file))
		}
	}

	return candidates
}

// Discover returns the first existing file from SearchPaths.
func Discover(name string, opts DiscoveryOptions) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty configuration name", ErrConfigNotFound)
	}
	for _, path := range SearchPaths(name, opts) {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s%s", ErrConfigNotFound, name, opts.Extension)
}

// LoadSystem discovers the file for name and loads it through the cache.
func (c *Cache) LoadSystem(name string, opts DiscoveryOptions) (*Config, error) {
	path, err := Discover(name, opts)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("name", name).Str("file", path).Msg("Discovered configuration")
	return c.Load(path)
}

// getXDGConfigPaths returns XDG-compliant config search paths
func getXDGConfigPaths(appName string) []string {
	var paths []string

	// XDG_CONFIG_HOME
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	// XDG_CONFIG_DIRS
	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		paths = append(paths, filepath.Join("/etc/xdg", appName))
	}

	return paths
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
