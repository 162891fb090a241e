package prefabs

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml scenarios/*.yaml
var PrefabsFS embed.FS

// Dir is the on-disk directory checked before the embedded copies. Editing a
// file there overrides the built-in data without a rebuild.
var Dir = "prefabs"

// LoadScript returns an AI script by name, preferring the disk copy.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	clean := cleanPrefabPath(name)
	info, err := os.Stat(diskPrefabPath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// ScenarioNames lists the scenarios available on disk and embedded.
func ScenarioNames() []string {
	seen := map[string]bool{}
	collect := func(fsys fs.FS) {
		matches, _ := fs.Glob(fsys, "scenarios/*.yaml")
		for _, m := range matches {
			seen[strings.TrimSuffix(path.Base(m), ".yaml")] = true
		}
	}
	collect(PrefabsFS)
	if info, err := os.Stat(Dir); err == nil && info.IsDir() {
		collect(os.DirFS(Dir))
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "prefabs/") {
		return strings.TrimPrefix(s, "prefabs/")
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
	if !strings.HasSuffix(s, ".tengo") {
		s += ".tengo"
	}

	return fmt.Sprintf("scripts/%s", s)
}

func scenarioPath(name string) string {
	s := cleanPrefabPath(name)
	if after, ok := strings.CutPrefix(s, "scenarios/"); ok {
		s = after
	}
	if !strings.HasSuffix(s, ".yaml") {
		s += ".yaml"
	}
	return "scenarios/" + s
}

func diskPrefabPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
