package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const EnvRoot = "NYOKA_ROOT"

// ResolveRoot picks the workspace root: flag, then $NYOKA_ROOT, then the
// current working directory.
func ResolveRoot(flagRoot string) (string, error) {
	if strings.TrimSpace(flagRoot) != "" {
		return normalizeRoot(flagRoot)
	}

	envRoot := os.Getenv(EnvRoot)
	if strings.TrimSpace(envRoot) != "" {
		return normalizeRoot(envRoot)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(wd), nil
}

func normalizeRoot(path string) (string, error) {
	expanded, err := expandHome(strings.TrimSpace(path))
	if err != nil {
		return "", err
	}
	return filepath.Abs(filepath.Clean(expanded))
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}

	return path, nil
}
