package types

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileResolver resolves module names against an ordered list of search
// paths. The executable's directory and the working directory are
// always searched; flags and configuration append further entries.
type FileResolver struct {
	sync.Mutex

	paths []string
}

func NewFileResolver() *FileResolver {
	resolver := &FileResolver{
		paths: make([]string, 0),
	}

	if executable, err := os.Executable(); err == nil {
		resolver.paths = append(resolver.paths, filepath.Dir(executable))
	}
	if workingDir, err := os.Getwd(); err == nil {
		resolver.paths = append(resolver.paths, workingDir)
	}

	return resolver
}

func (fr *FileResolver) AddPath(path string) {
	fr.Lock()
	defer fr.Unlock()

	fr.paths = append(fr.paths, path)
}

func (fr *FileResolver) GetPaths() []string {
	fr.Lock()
	defer fr.Unlock()

	paths := make([]string, len(fr.paths))
	copy(paths, fr.paths)
	return paths
}

// Resolve maps a module name to the path of its shared object. A name
// that already points at an existing file is used as-is; otherwise
// "<name>.so" is probed against every search path in order.
func (fr *FileResolver) Resolve(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	fileName := name
	if !strings.HasSuffix(fileName, ".so") {
		fileName = fileName + ".so"
	}

	for _, path := range fr.GetPaths() {
		candidate := filepath.Join(path, fileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf(
		"could not resolve module '%s' (searched: %s)",
		name, strings.Join(fr.GetPaths(), ", "),
	)
}
