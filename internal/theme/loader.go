package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no source holds the named theme.
var ErrNotFound = errors.New("theme not found")

// Loader resolves theme names against the embedded set and the user and
// system theme directories, in that order.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader returns a Loader for the standard directories.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "rasterpad", "themes"),
		SystemDir: "/usr/share/rasterpad/themes",
	}
}

func (l *Loader) sources() []fs.FS {
	embedded, _ := fs.Sub(EmbeddedThemes, "defaults")
	srcs := []fs.FS{embedded}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir != "" {
			srcs = append(srcs, os.DirFS(dir))
		}
	}
	return srcs
}

// Load returns the theme called name. A path to an existing file is read
// directly; an empty name gives Default.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if st, err := os.Stat(name); err == nil && !st.IsDir() {
		return parseFile(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	}
	file := name
	if !strings.HasSuffix(file, ".theme") {
		file += ".theme"
	}
	if !fs.ValidPath(file) {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	for _, src := range l.sources() {
		t, err := parseFile(src, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return t, err
	}
	return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
}

func parseFile(fsys fs.FS, name string) (*Theme, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", name, err)
	}
	return t, nil
}
