package forwarder

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ConfigFileNames are tried in order inside every search directory. The
// lambdamock names come first since one file may carry both the forwarder
// and the http sections.
var ConfigFileNames = []string{
	"lambdamock.yaml",
	"lambdamock.yml",
	"forwarder.yaml",
	"forwarder.yml",
}

// ConfigSearchDirs lists where FindDefaultConfigFile looks: the working
// directory, its config/ subdirectory, then the directory of the executable.
func ConfigSearchDirs() []string {
	dirs := []string{".", "config"}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

// FindDefaultConfigFile returns the first config file found in
// ConfigSearchDirs.
func FindDefaultConfigFile() (string, error) {
	return findConfigFile(ConfigSearchDirs())
}

func findConfigFile(dirs []string) (string, error) {
	for _, dir := range dirs {
		for _, name := range ConfigFileNames {
			p := filepath.Join(dir, name)
			if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
				return p, nil
			}
		}
	}
	return "", errors.Errorf("no config file %v in %v", ConfigFileNames, dirs)
}

// WithDefaultConfigFile loads the file FindDefaultConfigFile finds.
// It panics if there is none or it cannot be read.
func WithDefaultConfigFile() Option {
	p, err := FindDefaultConfigFile()
	if err != nil {
		return OptionFunc(func(*Options) {
			panic(errors.Wrap(err, "forwarder.WithDefaultConfigFile"))
		})
	}
	return WithConfigFile(p)
}
