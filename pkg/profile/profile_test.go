package profile

import (
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultExtension(t *testing.T) {
	ext, ok := DefaultExtension("linux")
	assert.True(t, ok)
	assert.Equal(t, "so", ext)

	ext, ok = DefaultExtension("windows")
	assert.False(t, ok)
	assert.Empty(t, ext)
}

func TestDefaults(t *testing.T) {
	cat := Defaults()
	assert.Equal(t, []string{"station", "station-release", "utor"}, cat.Names())

	station, err := cat.Get("station")
	require.NoError(t, err)
	assert.Equal(t, "station", station.Plugin)
	assert.Equal(t, "station_gen", station.Subproject)
	assert.Equal(t, "torus", station.Consumer)
	assert.Equal(t, "Assets/Plugins", station.Destination)
	assert.Equal(t, []string{"cargo", "build"}, station.Build)
	assert.Empty(t, station.TargetDir)

	release, err := cat.Get("station-release")
	require.NoError(t, err)
	assert.Equal(t, "station", release.Plugin)
	assert.Equal(t, "torus/Assets/station_gen", release.TargetDir)
	assert.True(t, release.BuildOnly, "cargo nests its output below the target dir, so there is nothing to move")
	assert.False(t, station.BuildOnly)

	utor, err := cat.Get("utor")
	require.NoError(t, err)
	assert.Equal(t, "Utor", utor.Subproject)
	assert.Equal(t, "Game", utor.Consumer)
	assert.Equal(t, "Assets/Utor", utor.Destination)

	_, err = cat.Get("missing")
	assert.Error(t, err)
}

func TestDefaultBuildCommandIsNotShared(t *testing.T) {
	cat := Defaults()
	cat["station"].Build[0] = "changed"

	assert.Equal(t, "cargo", DefaultBuildCommand[0])
	assert.Equal(t, "cargo", cat["utor"].Build[0])
}

func TestLibraryFilename(t *testing.T) {
	p := &Profile{Plugin: "station", Extension: "so"}
	assert.Equal(t, "libstation.so", p.LibraryFilename())
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "plugins.yml", []byte(`
plugins:
  station:
    ext: dylib
  mesher:
    subproject: mesh_gen
    consumer: torus
    dest: Assets/Plugins/Mesh
    build: [cargo, build, --features, fast]
  docs:
    subproject: docs_gen
    build_only: true
`), 0o644))

	cat, err := Load(fs, "plugins.yml")
	require.NoError(t, err)
	assert.Equal(t, []string{"docs", "mesher", "station", "station-release", "utor"}, cat.Names())
	assert.True(t, cat["docs"].BuildOnly)
	assert.False(t, cat["mesher"].BuildOnly)
	assert.True(t, cat["station-release"].BuildOnly, "unset build_only keeps the built-in value")

	station := cat["station"]
	assert.Equal(t, "dylib", station.Extension)
	assert.Equal(t, "station_gen", station.Subproject, "unset fields keep their built-in value")

	mesher := cat["mesher"]
	assert.Equal(t, "mesher", mesher.Name)
	assert.Equal(t, "mesher", mesher.Plugin)
	assert.Equal(t, "mesh_gen", mesher.Subproject)
	assert.Equal(t, []string{"cargo", "build", "--features", "fast"}, mesher.Build)
	if runtime.GOOS != "windows" {
		assert.Equal(t, "so", mesher.Extension)
		assert.NoError(t, mesher.Validate())
	}
}

func TestLoadMissingFile(t *testing.T) {
	cat, err := Load(afero.NewMemMapFs(), "plugins.yml")
	require.NoError(t, err)
	assert.Len(t, cat, 3)
}

func TestLoadInvalidYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "plugins.yml", []byte("plugins: [nope"), 0o644))

	_, err := Load(fs, "plugins.yml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Profile {
		return &Profile{
			Name:        "station",
			Plugin:      "station",
			Subproject:  "station_gen",
			Consumer:    "torus",
			Destination: "Assets/Plugins",
			Extension:   "so",
			Build:       []string{"cargo", "build"},
		}
	}

	require.NoError(t, valid().Validate())

	cases := map[string]func(p *Profile){
		"no plugin":      func(p *Profile) { p.Plugin = "" },
		"separator":      func(p *Profile) { p.Plugin = "a/b" },
		"no subproject":  func(p *Profile) { p.Subproject = "" },
		"no consumer":    func(p *Profile) { p.Consumer = "" },
		"no destination": func(p *Profile) { p.Destination = "" },
		"no extension":   func(p *Profile) { p.Extension = "" },
		"dotted ext":     func(p *Profile) { p.Extension = ".so" },
		"no build":       func(p *Profile) { p.Build = nil },
	}

	buildOnly := valid()
	buildOnly.BuildOnly = true
	buildOnly.Consumer = ""
	buildOnly.Destination = ""
	require.NoError(t, buildOnly.Validate())

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := valid()
			mutate(p)
			assert.Error(t, p.Validate())
		})
	}
}
