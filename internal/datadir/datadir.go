package datadir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default data directory name under $HOME.
	DefaultDirName = ".termllm"

	// EnvVar is the environment variable that overrides the data directory.
	EnvVar = "TERMLLM_DATA_DIR"

	// subdirectory names inside the data root
	knowledgeSubdir = "knowledge"
	databaseSubdir  = "data"
)

// DataDir provides a single source of truth for all data-directory paths.
// Use New to construct an instance, which resolves the root; call EnsureDirs
// to create the directory tree.
type DataDir struct {
	root string
}

// New returns a DataDir rooted at the resolved data directory.
//
// Resolution priority:
//  1. TERMLLM_DATA_DIR environment variable
//  2. configValue argument (from the config file's data_dir field)
//  3. ~/.termllm/
func New(configValue string) (*DataDir, error) {
	root, err := resolveRoot(configValue)
	if err != nil {
		return nil, err
	}
	return &DataDir{root: root}, nil
}

// Root returns the base data directory path.
func (d *DataDir) Root() string { return d.root }

// KnowledgeDir returns {root}/knowledge/, the vector snapshot directory.
func (d *DataDir) KnowledgeDir() string { return filepath.Join(d.root, knowledgeSubdir) }

// DatabaseDir returns {root}/data/, holding the history and cache databases.
func (d *DataDir) DatabaseDir() string { return filepath.Join(d.root, databaseSubdir) }

// HistoryDBPath returns the chat history database path.
func (d *DataDir) HistoryDBPath() string { return filepath.Join(d.DatabaseDir(), "history.db") }

// CacheDBPath returns the response cache database path.
func (d *DataDir) CacheDBPath() string { return filepath.Join(d.DatabaseDir(), "cache.db") }

// ConfigPath returns the user-level config file path.
func (d *DataDir) ConfigPath() string { return filepath.Join(d.root, "termllm.yaml") }

// EnsureDirs creates the data root and all managed subdirectories.
func (d *DataDir) EnsureDirs() error {
	for _, dir := range []string{d.root, d.KnowledgeDir(), d.DatabaseDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

func resolveRoot(configValue string) (string, error) {
	if env := os.Getenv(EnvVar); env != "" {
		return env, nil
	}
	if configValue != "" {
		return expandHome(configValue)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}

func expandHome(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
