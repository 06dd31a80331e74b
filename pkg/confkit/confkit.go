package confkit

import (
	"os"
	"path/filepath"
)

// ResolvePath resolves a file path relative to a base directory. Environment
// variables in the path are expanded first; absolute paths are returned as-is.
func ResolvePath(base, file string) string {
	file = os.ExpandEnv(file)
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}

// BaseDir returns the directory of the main config file path.
func BaseDir(mainPath string) string {
	return filepath.Dir(mainPath)
}

// Section represents a configuration section that can be loaded from a
// separate file. The generic type T is the configuration type for the section.
type Section[T any] struct {
	File  string `json:",optional"`
	Value *T     `json:"-"`
}

// Hydrate loads the file referenced by the section, if any, and stores the
// parsed result in Value. The loader is responsible for parsing the file.
// If File is empty, Hydrate does nothing.
func (s *Section[T]) Hydrate(base string, loader func(string) (*T, error)) error {
	if s.File == "" {
		return nil
	}
	p := ResolvePath(base, s.File)
	v, err := loader(p)
	if err != nil {
		return err
	}
	s.File, s.Value = p, v
	return nil
}
