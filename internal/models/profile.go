package models

// Default locations used by dnf and yum on Red Hat based systems.
const (
	RepoDir           = "/etc/yum.repos.d"
	RepoFileExtension = ".repo"
	GlobalConfigPath  = "/etc/yum.conf"
)

// RepoSupportedOptions is the fixed set of options that may be written to a
// repo file section. See `man dnf.conf` for their meaning.
var RepoSupportedOptions = []string{
	"baseurl",
	"enabled",
	"gpgcheck",
	"gpgkey",
	"priority",
	"exclude",
	"name",
	"cost",
	"includepkgs",
	"excludepkgs",
	"metalink",
	"mirrorlist",
	"module_hotfixes",
	"skip_if_unavailable",
}

// Profile bundles the defaults that distinguish one kind of configuration
// surface from another: which directory its files live in, which file
// extension they carry and which options may be written to them.
type Profile struct {
	// ValidOptions lists the option names that may be set. An empty list
	// means unrestricted.
	ValidOptions []string

	// DefaultDir is the directory searched for configuration files when no
	// explicit path is given.
	DefaultDir string

	// FileExtension filters which files in DefaultDir are considered.
	FileExtension string
}

// RepoProfile returns the profile for yum/dnf repo files.
func RepoProfile() Profile {
	return Profile{
		ValidOptions:  RepoSupportedOptions,
		DefaultDir:    RepoDir,
		FileExtension: RepoFileExtension,
	}
}

// GlobalProfile returns the profile for the yum/dnf global configuration
// file. Any option may be set there.
func GlobalProfile() Profile {
	return Profile{}
}

// Allows reports whether the profile permits writing the given option.
func (p Profile) Allows(option string) bool {
	if len(p.ValidOptions) == 0 {
		return true
	}
	for _, valid := range p.ValidOptions {
		if option == valid {
			return true
		}
	}
	return false
}

// Validate checks every key of an option map against the profile whitelist.
func (p Profile) Validate(opts map[string]string) error {
	for key := range opts {
		if !p.Allows(key) {
			return NewError(ErrInvalidOption,
				"option %q is not valid for this configuration file", key)
		}
	}
	return nil
}
