package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverProblems(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	write("b.yaml", "# Small sphere.\n# Used for smoke tests.\n"+minimal)
	write("a.toml", `name = "another"
histories = 5

[[distributions]]
name = "origin"
type = "delta"
datatype = "point"

[[cells]]
name = "everywhere"

[source]
position = "origin"
direction = "origin"
`)
	write("broken.yaml", "name: [unclosed\n")
	write("notes.txt", "not a problem")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755))

	problems, err := DiscoverProblems(dir, nil)
	require.NoError(t, err)
	require.Len(t, problems, 2)

	assert.Equal(t, "another", problems[0].Name)
	assert.Equal(t, FormatTOML, problems[0].Format)
	assert.Equal(t, uint64(5), problems[0].Histories)
	assert.Empty(t, problems[0].Description)

	assert.Equal(t, "minimal", problems[1].Name)
	assert.Equal(t, FormatYAML, problems[1].Format)
	assert.Equal(t, "Small sphere. Used for smoke tests.", problems[1].Description)
	assert.Equal(t, filepath.Join(dir, "b.yaml"), problems[1].Path)
}

func TestDiscoverProblemsMissingDir(t *testing.T) {
	_, err := DiscoverProblems(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestReadProblemInfoFixtures(t *testing.T) {
	info, err := ReadProblemInfo("testdata/slab.yaml")
	require.NoError(t, err)
	assert.Equal(t, "reflecting slab", info.Name)
	assert.Equal(t, uint64(1000), info.Histories)
}
