// Package pathutil resolves the project's .polsweep directory layout.
package pathutil

import "path/filepath"

// DotDir is the per-project state directory created under the root.
const DotDir = ".polsweep"

// Dir returns the .polsweep directory for a project root.
func Dir(root string) string {
	return filepath.Join(root, DotDir)
}

// ConfigPath returns the project config file path.
func ConfigPath(root string) string {
	return filepath.Join(Dir(root), "config.yaml")
}

// DBPath returns the result database path.
func DBPath(root string) string {
	return filepath.Join(Dir(root), "results.db")
}

// PlotsDir returns the default chart output directory.
func PlotsDir(root string) string {
	return filepath.Join(Dir(root), "plots")
}

// RedactPath reduces a full path to .../<parent>/<basename> for error
// messages that may end up in shared logs.
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	dir := filepath.Dir(cleaned)
	base := filepath.Base(cleaned)
	parent := filepath.Base(dir)
	if parent == "." || parent == string(filepath.Separator) {
		return base
	}
	return ".../" + parent + "/" + base
}
