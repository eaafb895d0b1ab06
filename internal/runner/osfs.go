package runner

import (
	"io/fs"
	"os"
)

type osFS struct{}

// OSFS returns the operating-system backed filesystem.
func OSFS() FS {
	return osFS{}
}

func (osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (osFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (osFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}
