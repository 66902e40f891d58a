package paths

import "path/filepath"

const (
	CodeDirName   = "Code"
	ModelsDirName = "Models"
	DataDirName   = "Data"

	// MetaDirName is the hidden per-category metadata directory.
	MetaDirName = ".nyoka"

	// ConfigFileName is the optional remote configuration at the root.
	ConfigFileName = "nyoka.yaml"
)

// MetaDir returns the hidden metadata directory nested in a category root.
func MetaDir(categoryRoot string) string {
	return filepath.Join(categoryRoot, MetaDirName)
}

// LogsDir returns where debug logs are written for a root.
func LogsDir(rootDir string) string {
	return filepath.Join(rootDir, MetaDirName, "logs")
}

// ConfigPath returns the path of nyoka.yaml under a root.
func ConfigPath(rootDir string) string {
	return filepath.Join(rootDir, ConfigFileName)
}
