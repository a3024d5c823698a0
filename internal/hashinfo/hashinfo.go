// Package hashinfo resolves a named tag on a DLRN build index to the
// concrete build hashes that identify a repository snapshot.
package hashinfo

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ospdev/yumconf/internal/fetch"
	"github.com/ospdev/yumconf/internal/models"
)

const (
	// DefaultDLRNURL is the public DLRN server carrying RDO build indexes.
	DefaultDLRNURL = "https://trunk.rdoproject.org"

	// DefaultTag is the promotion tag resolved when none is given.
	DefaultTag = "current-tripleo"
)

// Options selects which build index entry to resolve.
type Options struct {
	// DLRNURL is the base URL of the DLRN server.
	DLRNURL string

	// OSVersion names the OS and version the index is built for, e.g.
	// centos9.
	OSVersion string

	// Release is the OpenStack release, e.g. master.
	Release string

	// Component optionally narrows the lookup to one CI component.
	Component string

	// Tag is the named tag to resolve, e.g. current-tripleo.
	Tag string

	Logger logrus.FieldLogger
	Getter fetch.Getter
}

// Info holds the hashes a tag resolved to.
type Info struct {
	OSVersion    string
	Release      string
	Component    string
	Tag          string
	CommitHash   string
	DistroHash   string
	ExtendedHash string
	FullHash     string

	// SourceURL is the index document the hashes were read from.
	SourceURL string
}

// commitDocument mirrors the commit.yaml served by DLRN.
type commitDocument struct {
	Commits []struct {
		CommitHash   string `yaml:"commit_hash"`
		DistroHash   string `yaml:"distro_hash"`
		ExtendedHash string `yaml:"extended_hash"`
	} `yaml:"commits"`
}

// Resolve fetches the build index entry selected by opts and extracts its
// hashes.
func Resolve(opts Options) (*Info, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	getter := opts.Getter
	if getter == nil {
		getter = fetch.NewClient(log)
	}
	if opts.DLRNURL == "" {
		opts.DLRNURL = DefaultDLRNURL
	}
	if opts.Tag == "" {
		opts.Tag = DefaultTag
	}

	sourceURL := indexURL(opts)
	log.Debugf("resolving tag %q from %s", opts.Tag, sourceURL)

	body, err := getter.Get(sourceURL)
	if err != nil {
		return nil, err
	}

	info := &Info{
		OSVersion: opts.OSVersion,
		Release:   opts.Release,
		Component: opts.Component,
		Tag:       opts.Tag,
		SourceURL: sourceURL,
	}

	if !strings.HasSuffix(sourceURL, "commit.yaml") {
		// The md5 index carries the full hash and nothing else.
		info.FullHash = strings.TrimSpace(string(body))
		return info, nil
	}

	var doc commitDocument
	if err := yaml.Unmarshal(body, &doc); err != nil {
		return nil, models.WrapError(models.ErrParse, sourceURL, err)
	}
	if len(doc.Commits) == 0 {
		return nil, models.WrapError(models.ErrParse, sourceURL,
			fmt.Errorf("no commits listed in index document"))
	}

	commit := doc.Commits[0]
	info.CommitHash = commit.CommitHash
	info.DistroHash = commit.DistroHash
	info.ExtendedHash = commit.ExtendedHash
	info.FullHash = fullHash(commit.CommitHash, commit.DistroHash)
	return info, nil
}

// indexURL builds the index document URL. centos7 indexes predate
// components and only serve commit.yaml; component lookups always use
// commit.yaml; everything else resolves the md5 full-hash index.
func indexURL(opts Options) string {
	base := fmt.Sprintf("%s/%s-%s", opts.DLRNURL, opts.OSVersion, opts.Release)
	switch {
	case strings.Contains(opts.OSVersion, "centos7"):
		return fmt.Sprintf("%s/%s/commit.yaml", base, opts.Tag)
	case opts.Component != "":
		return fmt.Sprintf("%s/component/%s/%s/commit.yaml", base, opts.Component, opts.Tag)
	default:
		return fmt.Sprintf("%s/%s/delorean.repo.md5", base, opts.Tag)
	}
}

// fullHash composes the directory fragment DLRN publishes a build under.
func fullHash(commitHash, distroHash string) string {
	if commitHash == "" || len(distroHash) < 8 {
		return ""
	}
	return commitHash + "_" + distroHash[:8]
}
