// Package distro identifies the running distribution from os-release.
package distro

import (
	"os"
	"runtime"
	"strings"

	"github.com/ospdev/yumconf/internal/envfile"
)

const (
	osReleasePath = "/etc/os-release"
	ubiRepoPath   = "/etc/yum.repos.d/ubi.repo"
)

// Info describes the detected distribution.
type Info struct {
	ID           string
	MajorVersion string
	Name         string
}

// Detect reads /etc/os-release and returns the distro id, major version
// and name. Hosts carrying the UBI stock repo file are reported as ubi.
func Detect() Info {
	return detect(osReleasePath, ubiRepoPath)
}

func detect(osReleasePath, ubiRepoPath string) Info {
	info := Info{
		ID:           runtime.GOOS,
		MajorVersion: "unknown",
		Name:         "unknown",
	}

	vars, err := envfile.ParseFile(osReleasePath)
	if err != nil {
		return info
	}

	if id := vars["ID"]; id != "" {
		info.ID = id
	}
	if name := vars["NAME"]; name != "" {
		info.Name = name
	}
	if version := vars["VERSION_ID"]; version != "" {
		info.MajorVersion, _, _ = strings.Cut(version, ".")
	}

	if _, err := os.Stat(ubiRepoPath); err == nil {
		info.ID = "ubi"
	}
	return info
}
