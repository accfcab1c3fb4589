package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Scenes and scripts ship embedded; a copy under ./prefabs takes precedence
// so edits show up on hot reload without rebuilding.
var (
	//go:embed *.yaml
	sceneFS embed.FS

	//go:embed scripts/*.tengo
	scriptFS embed.FS
)

// Load reads a scene or entity prefab by name, e.g. "demo.yaml".
func Load(name string) ([]byte, error) {
	return readOverride(sceneFS, cleanPrefabPath(name))
}

// LoadScript reads a tengo script by name, e.g. "demo.tengo".
func LoadScript(name string) ([]byte, error) {
	return readOverride(scriptFS, cleanScriptPath(name))
}

// Scenes lists the embedded prefab files.
func Scenes() ([]string, error) {
	return fs.Glob(sceneFS, "*.yaml")
}

func readOverride(embedded fs.FS, clean string) ([]byte, error) {
	if clean == "" {
		return nil, errors.New("prefabs: empty name")
	}
	if data, err := os.ReadFile(filepath.Join("prefabs", filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	return fs.ReadFile(embedded, clean)
}

func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	return strings.TrimPrefix(filepath.ToSlash(p), "prefabs/")
}

func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}
	return path.Join("scripts", path.Base(filepath.ToSlash(p)))
}
