package console

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterFormatsEvents(t *testing.T) {
	var out bytes.Buffer
	logger := zerolog.New(NewWriter(&out))

	logger.Info().Str("task", "station").Bool("command", true).Msg("cargo build")
	assert.Contains(t, out.String(), "station: $ cargo build")

	out.Reset()
	logger.Error().Err(eris.New("boom")).Msg("Failed")
	assert.Contains(t, out.String(), "Error: Failed")
	assert.Contains(t, out.String(), "boom")
}

func TestWriterRejectsGarbage(t *testing.T) {
	var out bytes.Buffer
	_, err := NewWriter(&out).Write([]byte("not json"))
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestSimplifyPath(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	chdir(t, dir)

	assert.Equal(t, filepath.Join("sub", "lib.so"), simplifyPath(filepath.Join(dir, "sub", "lib.so")))

	outside := filepath.Dir(dir)
	assert.Equal(t, outside, simplifyPath(outside))
}

func TestBanners(t *testing.T) {
	var out bytes.Buffer
	prev := Banner
	Banner = &out
	t.Cleanup(func() { Banner = prev })

	PrintTask("Deploying station")
	PrintSubtask("Building station")
	PrintError("station: build failed")

	assert.Contains(t, out.String(), "==>")
	assert.Contains(t, out.String(), "Deploying station")
	assert.Contains(t, out.String(), "  ->")
	assert.Contains(t, out.String(), "Building station")
	assert.Contains(t, out.String(), "station: build failed")
}
