package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const installedFileName = "installed.yaml"

// Record is what the workspace remembers about one installed resource.
type Record struct {
	Version     string    `yaml:"version"`
	Size        int64     `yaml:"size"`
	InstalledAt time.Time `yaml:"installed_at"`
}

type installedFile struct {
	Version   int               `yaml:"version"`
	Resources map[string]Record `yaml:"resources"`
}

func installedPath(metaDir string) string {
	return filepath.Join(metaDir, installedFileName)
}

func loadInstalled(metaDir string) (installedFile, error) {
	file := installedFile{Version: 1, Resources: map[string]Record{}}
	data, err := os.ReadFile(installedPath(metaDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return file, nil
		}
		return installedFile{}, fmt.Errorf("read %s: %w", installedFileName, err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return installedFile{}, fmt.Errorf("parse %s: %w", installedFileName, err)
	}
	if file.Version == 0 {
		file.Version = 1
	}
	if file.Resources == nil {
		file.Resources = map[string]Record{}
	}
	return file, nil
}

func saveInstalled(metaDir string, file installedFile) error {
	if file.Version == 0 {
		file.Version = 1
	}
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", installedFileName, err)
	}
	if err := os.WriteFile(installedPath(metaDir), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", installedFileName, err)
	}
	return nil
}
