package utils

import (
	"os"
	"os/user"
	"path"
	"strings"
)

func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	return path.Join(HomeDir(), strings.TrimPrefix(p[1:], "/"))
}

// FindProjectRoot finds the project root directory
func FindProjectRoot(startDir string) string {
	// Start from the current directory and move up to find go.mod file
	dir := startDir
	for {
		if _, err := os.Stat(path.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parentDir := path.Dir(dir)
		if parentDir == dir {
			// Reached root but couldn't find go.mod
			return startDir
		}
		dir = parentDir
	}
}
