package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/524D/mztab/internal/logger"
)

const (
	// ProjectConfigFile is looked up in the working directory
	ProjectConfigFile = "mztab.yaml"
	// UserConfigDir is the directory of the user config, below the home directory
	UserConfigDir = ".config/mztab"
	// UserConfigFile is the name of the user config file
	UserConfigFile = "config.yaml"
)

// Loader loads configuration in layers: defaults, then the user config,
// then the project config, then an explicit file.
type Loader struct {
	log     *logger.Logger
	homeDir string
	workDir string
}

// NewLoader creates a Loader. A nil logger discards messages.
func NewLoader(l *logger.Logger) *Loader {
	if l == nil {
		l = logger.Nop()
	}
	home, _ := os.UserHomeDir()
	wd, _ := os.Getwd()
	return &Loader{log: l, homeDir: home, workDir: wd}
}

// Load returns the merged configuration. A missing user or project config
// is skipped; a missing explicit file is an error.
func (l *Loader) Load(explicit string) (*Config, error) {
	config := DefaultConfig()

	for _, path := range []string{l.userConfigPath(), l.projectConfigPath()} {
		if path == "" {
			continue
		}
		c, err := readLayer(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			l.log.Warn("Failed to load config", "path", path, "error", err)
			continue
		}
		l.log.Debug("Loaded config", "path", path)
		config.Merge(c)
	}

	if explicit != "" {
		c, err := readLayer(explicit)
		if err != nil {
			return nil, err
		}
		l.log.Debug("Loaded config", "path", explicit)
		config.Merge(c)
	}

	if err := config.Check(); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *Loader) userConfigPath() string {
	if l.homeDir == "" {
		return ""
	}
	return filepath.Join(l.homeDir, UserConfigDir, UserConfigFile)
}

func (l *Loader) projectConfigPath() string {
	if l.workDir == "" {
		return ""
	}
	return filepath.Join(l.workDir, ProjectConfigFile)
}
