// Package profile describes which plugins can be built and where their libraries go.
package profile

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultBuildCommand is used for every profile that doesn't specify its own build command
var DefaultBuildCommand = []string{"cargo", "build"}

// Profile contains everything needed to build one plugin and deploy its library
type Profile struct {
	// Name is the key the profile was registered under
	Name string `yaml:"-"`
	// Plugin is the library base name without the lib prefix or extension. Defaults to Name.
	Plugin      string   `yaml:"plugin,omitempty"`
	Desc        string   `yaml:"desc,omitempty"`
	Subproject  string   `yaml:"subproject,omitempty"`
	Consumer    string   `yaml:"consumer,omitempty"`
	Destination string   `yaml:"dest,omitempty"`
	Extension   string   `yaml:"ext,omitempty"`
	TargetDir   string   `yaml:"target_dir,omitempty"`
	Build       []string `yaml:"build,omitempty"`
	// BuildOnly profiles leave the build output where the build put it
	BuildOnly   bool     `yaml:"build_only,omitempty"`
}

// Catalog maps profile names to profiles
type Catalog map[string]*Profile

type catalogFile struct {
	Plugins map[string]Profile
}

// DefaultExtension returns the shared library extension used on the given OS.
// There's no default for Windows because the expected library name hasn't been decided yet.
func DefaultExtension(goos string) (string, bool) {
	switch goos {
	case "windows":
		return "", false
	default:
		return "so", true
	}
}

// Defaults returns the built-in profiles
func Defaults() Catalog {
	cat := Catalog{
		"station": {
			Desc:        "Station generator plugin for the torus project",
			Subproject:  "station_gen",
			Consumer:    "torus",
			Destination: "Assets/Plugins",
		},
		"station-release": {
			Plugin:      "station",
			Desc:        "Station generator plugin built into the torus asset tree",
			Subproject:  "station_gen",
			Consumer:    "torus",
			Destination: "Assets/Plugins",
			TargetDir:   "torus/Assets/station_gen",
			BuildOnly:   true,
		},
		"utor": {
			Desc:        "Utor plugin for the Game project",
			Subproject:  "Utor",
			Consumer:    "Game",
			Destination: "Assets/Utor",
		},
	}

	for name, p := range cat {
		p.Name = name
		p.applyDefaults(runtime.GOOS)
	}

	return cat
}

func (p *Profile) applyDefaults(goos string) {
	if p.Plugin == "" {
		p.Plugin = p.Name
	}

	if p.Extension == "" {
		p.Extension, _ = DefaultExtension(goos)
	}

	if len(p.Build) == 0 {
		p.Build = append([]string{}, DefaultBuildCommand...)
	}
}

// merge copies every field that is set in other into p
func (p *Profile) merge(other Profile) {
	if other.Plugin != "" {
		p.Plugin = other.Plugin
	}
	if other.Desc != "" {
		p.Desc = other.Desc
	}
	if other.Subproject != "" {
		p.Subproject = other.Subproject
	}
	if other.Consumer != "" {
		p.Consumer = other.Consumer
	}
	if other.Destination != "" {
		p.Destination = other.Destination
	}
	if other.Extension != "" {
		p.Extension = other.Extension
	}
	if other.TargetDir != "" {
		p.TargetDir = other.TargetDir
	}
	if len(other.Build) > 0 {
		p.Build = other.Build
	}
	if other.BuildOnly {
		p.BuildOnly = true
	}
}

// Validate makes sure that the profile can be used to build and deploy a plugin
func (p *Profile) Validate() error {
	if p.Plugin == "" {
		return eris.Errorf("profile %s: missing plugin name", p.Name)
	}

	if strings.ContainsAny(p.Plugin, `/\`) {
		return eris.Errorf("profile %s: plugin name %s must not contain path separators", p.Name, p.Plugin)
	}

	if p.Subproject == "" {
		return eris.Errorf("profile %s: missing subproject", p.Name)
	}

	if !p.BuildOnly {
		if p.Consumer == "" {
			return eris.Errorf("profile %s: missing consumer project", p.Name)
		}

		if p.Destination == "" {
			return eris.Errorf("profile %s: missing destination", p.Name)
		}
	}

	if p.Extension == "" {
		return eris.Errorf("profile %s: no library extension set and %s has no default, please set ext explicitly", p.Name, runtime.GOOS)
	}

	if strings.HasPrefix(p.Extension, ".") {
		return eris.Errorf("profile %s: extension %s must not start with a dot", p.Name, p.Extension)
	}

	if len(p.Build) == 0 {
		return eris.Errorf("profile %s: empty build command", p.Name)
	}

	return nil
}

// LibraryFilename returns the name of the library the build produces (lib<plugin>.<ext>)
func (p *Profile) LibraryFilename() string {
	return fmt.Sprintf("lib%s.%s", p.Plugin, p.Extension)
}

// Load reads the profiles in path and merges them on top of the built-in ones. A missing file
// is not an error. Profiles aren't validated here; call Validate before using one.
func Load(fs afero.Fs, path string) (Catalog, error) {
	cat := Defaults()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			return cat, nil
		}
		return nil, eris.Wrapf(err, "Could not open file %s.", path)
	}

	var file catalogFile
	err = yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, eris.Wrapf(err, "Failed to parse %s.", path)
	}

	for name, override := range file.Plugins {
		p, ok := cat[name]
		if !ok {
			p = &Profile{Name: name}
			cat[name] = p
		}

		p.merge(override)
		p.applyDefaults(runtime.GOOS)
	}

	return cat, nil
}

// Names returns the sorted profile names
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Get looks up a profile by name
func (c Catalog) Get(name string) (*Profile, error) {
	p, ok := c[name]
	if !ok {
		return nil, eris.Errorf("Plugin %s not found", name)
	}

	return p, nil
}
