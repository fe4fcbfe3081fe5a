package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// LoadScript reads a script from prefabs/scripts on disk, falling back to the
// embedded copy.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	data, err := ScriptsFS.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load script %s: %w", name, err)
	}
	return data, nil
}

//go:embed *.yaml
var PrefabsFS embed.FS

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

// ModTime reports the modification time of a prefab or script on disk.
func ModTime(name string) (time.Time, bool) {
	clean := cleanPrefabPath(name)
	info, err := os.Stat(diskPrefabPath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if i := strings.LastIndex(s, "prefabs/"); i >= 0 {
		s = s[i+len("prefabs/"):]
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := cleanPrefabPath(path)
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}
	if filepath.Ext(s) == "" {
		s += ".tengo"
	}

	return fmt.Sprintf("scripts/%s", s)
}

func diskPrefabPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}
