// Package compose synthesizes repo configuration files from a CentOS
// compose: it fetches the compose metadata, pins the compose URL to the
// compose id and writes one repo section per variant.
package compose

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ospdev/yumconf/internal/config"
	"github.com/ospdev/yumconf/internal/fetch"
	"github.com/ospdev/yumconf/internal/inifile"
	"github.com/ospdev/yumconf/internal/models"
)

const (
	// expectedMetadataVersion is the composeinfo document version this
	// code was written against. Other versions are processed anyway.
	expectedMetadataVersion = "1.2"

	metadataPath = "metadata/composeinfo.json"

	// DefaultArch is assumed when the caller does not pick one.
	DefaultArch = "x86_64"
)

// SupportedArchs are the architectures composes publish repositories for.
var SupportedArchs = []string{"aarch64", "ppc64le", "x86_64"}

// releaseURLPatterns validates the compose URL per release. The middle
// group carries the compose label and is replaced with the compose id.
var releaseURLPatterns = map[string]*regexp.Regexp{
	"centos-stream-8": regexp.MustCompile(`^(https://composes\.centos\.org/)(.*)(/compose/?)$`),
	"centos-stream-9": regexp.MustCompile(`^(https://odcs\.stream\.centos\.org/production/)(.*)(/compose/?)$`),
}

// Releases returns the supported release identifiers.
func Releases() []string {
	releases := make([]string, 0, len(releaseURLPatterns))
	for release := range releaseURLPatterns {
		releases = append(releases, release)
	}
	sort.Strings(releases)
	return releases
}

// composeInfo mirrors the composeinfo.json document.
type composeInfo struct {
	Header struct {
		Version string `json:"version"`
	} `json:"header"`
	Payload manifest `json:"payload"`
}

type manifest struct {
	Compose struct {
		ID string `json:"id"`
	} `json:"compose"`
	Variants map[string]variant `json:"variants"`
}

type variant struct {
	Paths struct {
		Repository map[string]string `json:"repository"`
	} `json:"paths"`
}

// Options configures a Generator.
type Options struct {
	// ComposeURL points at the compose, e.g.
	// https://composes.centos.org/latest-CentOS-Stream-8/compose/.
	ComposeURL string

	// Release selects the URL shape to validate against.
	Release string

	// Arch picks which repository path each variant contributes.
	Arch string

	// DirPath is the destination repo configuration directory.
	DirPath string

	// EnvironmentFile is passed through to the repo config manager.
	EnvironmentFile string

	Logger logrus.FieldLogger
	Getter fetch.Getter
}

// Generator writes one repo section per compose variant. The manifest is
// fetched exactly once, at construction, and held read-only.
type Generator struct {
	repo       *config.RepoConfig
	getter     fetch.Getter
	log        logrus.FieldLogger
	arch       string
	dirPath    string
	composeURL string
	composeID  string
	manifest   manifest
}

// New validates the release and compose URL, fetches the compose metadata
// and pins the compose URL to the compose id it declares.
func New(opts Options) (*Generator, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	getter := opts.Getter
	if getter == nil {
		getter = fetch.NewClient(log)
	}
	arch := opts.Arch
	if arch == "" {
		arch = DefaultArch
	}
	dirPath := opts.DirPath
	if dirPath == "" {
		dirPath = models.RepoDir
	}

	pattern, ok := releaseURLPatterns[opts.Release]
	if !ok {
		return nil, models.NewError(models.ErrCompose,
			"release %q is not supported", opts.Release)
	}
	if !pattern.MatchString(opts.ComposeURL) {
		return nil, models.NewError(models.ErrCompose,
			"the provided URL %q does not match the expected pattern", opts.ComposeURL)
	}

	infoURL := joinURL(opts.ComposeURL, metadataPath)
	log.Debugf("retrieving compose info from url: %s", infoURL)
	body, err := getter.Get(infoURL)
	if err != nil {
		return nil, models.WrapError(models.ErrCompose, infoURL,
			fmt.Errorf("failed to retrieve compose info: %w", err))
	}

	var info composeInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, models.WrapError(models.ErrCompose, infoURL,
			fmt.Errorf("failed to parse compose info: %w", err))
	}
	if info.Header.Version != expectedMetadataVersion {
		log.Warnf("expecting compose info version %q but got %q",
			expectedMetadataVersion, info.Header.Version)
	}
	composeID := info.Payload.Compose.ID
	if composeID == "" {
		return nil, models.WrapError(models.ErrCompose, infoURL,
			fmt.Errorf("compose info declares no compose id"))
	}

	// Pin the URL to the compose id so repos do not follow a floating
	// label like latest-CentOS-Stream-8.
	pinnedURL := pattern.ReplaceAllString(opts.ComposeURL, "${1}"+composeID+"${3}")

	repo, err := config.NewRepoConfig(config.RepoOptions{
		DirPath:         dirPath,
		EnvironmentFile: opts.EnvironmentFile,
		Logger:          log,
		Getter:          getter,
	})
	if err != nil {
		return nil, err
	}

	return &Generator{
		repo:       repo,
		getter:     getter,
		log:        log,
		arch:       arch,
		dirPath:    dirPath,
		composeURL: pinnedURL,
		composeID:  composeID,
		manifest:   info.Payload,
	}, nil
}

// ComposeID returns the compose id declared by the metadata.
func (g *Generator) ComposeID() string {
	return g.composeID
}

// ComposeURL returns the compose URL pinned to the compose id.
func (g *Generator) ComposeURL() string {
	return g.composeURL
}

// Variants returns the variant names declared by the compose, sorted.
func (g *Generator) Variants() []string {
	variants := make([]string, 0, len(g.manifest.Variants))
	for name := range g.manifest.Variants {
		variants = append(variants, name)
	}
	sort.Strings(variants)
	return variants
}

// EnableComposeRepos writes one enabled repo section per variant. With an
// empty variant list every variant in the manifest is written. Variants
// that publish no repository for the configured architecture are skipped.
// When overrideConflicting is set, same-named sections in other files of
// the directory are disabled so the compose sections win.
func (g *Generator) EnableComposeRepos(variants []string, overrideConflicting bool) error {
	for _, v := range variants {
		if _, ok := g.manifest.Variants[v]; !ok {
			return models.NewError(models.ErrCompose,
				"one or more provided variants are invalid")
		}
	}
	if len(variants) == 0 {
		variants = g.Variants()
	}

	written := make(map[string]string, len(variants))
	for _, v := range variants {
		baseURL := g.repoBaseURL(v)
		if baseURL == "" {
			g.log.Debugf("variant %q has no repository for %s, skipping", v, g.arch)
			continue
		}
		opts := map[string]string{
			"name":     g.composeID + " " + v,
			"baseurl":  baseURL,
			"enabled":  "1",
			"gpgcheck": "0",
		}
		section := strings.ToLower(v)
		filePath := filepath.Join(g.dirPath, g.composeID+"-"+v+models.RepoFileExtension)

		if err := inifile.CreateEmptyFile(filePath); err != nil {
			return err
		}
		err := g.repo.AddSection(section, opts, filePath, nil)
		if models.IsKind(err, models.ErrInvalidSection) {
			// Rerun against the same compose: refresh the section instead.
			g.log.Debugf("section %q already exists in %s, updating", section, filePath)
			err = g.repo.UpdateSection(section, opts, filePath, nil)
		}
		if err != nil {
			return err
		}
		written[section] = filePath
	}

	if overrideConflicting {
		if err := g.disableConflicting(written); err != nil {
			return err
		}
	}
	return nil
}

// disableConflicting sets enabled=0 on every same-named section living in a
// different file of the repo directory.
func (g *Generator) disableConflicting(written map[string]string) error {
	sections := make([]string, 0, len(written))
	for section := range written {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	disabled := false
	for _, section := range sections {
		files, err := inifile.FindFilesWithSection(
			g.dirPath, models.RepoFileExtension, section)
		if err != nil {
			return err
		}
		for _, file := range files {
			if file == written[section] {
				continue
			}
			g.log.Debugf("disabling matching section %q in configuration file %s",
				section, file)
			if err := g.repo.UpdateSection(section, nil, file, boolPtr(false)); err != nil {
				return err
			}
			disabled = true
		}
	}
	if disabled {
		g.log.Info("conflicting repo sections were disabled")
	}
	return nil
}

// DisableRepoFiles disables every section of each given repo file. Used to
// retire a distro's stock repo files once compose repos take over.
func (g *Generator) DisableRepoFiles(paths []string) error {
	for _, path := range paths {
		if err := g.repo.UpdateAllSections(path, nil, boolPtr(false)); err != nil {
			return err
		}
		g.log.Infof("disabled all sections of %q", path)
	}
	return nil
}

// repoBaseURL joins the pinned compose URL with the variant's repository
// path for the configured architecture, or returns "" when the variant has
// none.
func (g *Generator) repoBaseURL(name string) string {
	repoPath := g.manifest.Variants[name].Paths.Repository[g.arch]
	if repoPath == "" {
		return ""
	}
	return joinURL(g.composeURL, repoPath)
}

func joinURL(segments ...string) string {
	trimmed := make([]string, 0, len(segments))
	for _, s := range segments {
		trimmed = append(trimmed, strings.Trim(s, "/"))
	}
	return strings.Join(trimmed, "/")
}

func boolPtr(b bool) *bool {
	return &b
}
