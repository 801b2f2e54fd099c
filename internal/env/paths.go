package env

import (
	"os"
	"path/filepath"
)

const (
	SLSOCK_CONFIG_DIR_NAME = "slsock"

	SLSOCK_CONFIG_DIR_ENV = "SLSOCK_CONFIG_DIR"
	SLSOCK_CWD_CONFIG_DIR = ".slsock"
)

// In decreasing priority order
//
// Check in these locations:
// $SLSOCK_CONFIG_DIR/
// ./.slsock/
// $XDG_CONFIG_HOME/slsock/ OR $HOME/.config/slsock/
// /etc/slsock/
func resolvePaths() []string {
	paths := []string{filepath.Join("/etc/", SLSOCK_CONFIG_DIR_NAME)}

	if cfgDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(cfgDir, SLSOCK_CONFIG_DIR_NAME))
	}

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, SLSOCK_CWD_CONFIG_DIR))
	}

	if p := os.Getenv(SLSOCK_CONFIG_DIR_ENV); p != "" {
		paths = append(paths, p)
	}

	return paths
}
