package combine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestListFilesRecursively(t *testing.T) {
	dir := t.TempDir()
	want := []string{
		writeFile(t, filepath.Join(dir, "a.go"), ""),
		writeFile(t, filepath.Join(dir, "b", "c.bin"), ""),
		writeFile(t, filepath.Join(dir, "b", "d", "e"), ""),
		writeFile(t, filepath.Join(dir, "z.png"), ""),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0755))

	files, err := ListFilesRecursively(dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, want, files)

	again, err := ListFilesRecursively(dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, files, again)
}

func TestListFilesRecursively_FollowsFileSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, filepath.Join(dir, "real.go"), "")
	link := filepath.Join(dir, "link.go")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(dir, "nowhere"), filepath.Join(dir, "dangling.go")))

	files, err := ListFilesRecursively(dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{link, target}, files)
}

func TestListFilesRecursively_MissingRoot(t *testing.T) {
	_, err := ListFilesRecursively(filepath.Join(t.TempDir(), "missing"), zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRenderTree(t *testing.T) {
	paths := []string{
		"/repo/src/main.go",
		"/repo/README.md",
		"/repo/src/util/strings.go",
		"/repo/a.txt",
	}

	want := "/repo/\n" +
		"├── src/\n" +
		"│   ├── util/\n" +
		"│   │   └── strings.go\n" +
		"│   └── main.go\n" +
		"├── a.txt\n" +
		"└── README.md\n"
	assert.Equal(t, want, RenderTree(paths))
}

func TestRenderTree_SingleFileAndEmpty(t *testing.T) {
	assert.Equal(t, "", RenderTree(nil))
	assert.Equal(t, "/tmp/x/\n└── a.go\n", RenderTree([]string{"/tmp/x/a.go"}))
}

func TestDescribeFiles(t *testing.T) {
	dir := t.TempDir()
	goFile := writeFile(t, filepath.Join(dir, "main.go"), "package main\n\nfunc main() {}\n")
	binFile := filepath.Join(dir, "blob.txt")
	require.NoError(t, os.WriteFile(binFile, []byte{0, 1, 2, 0, 3}, 0644))
	missing := filepath.Join(dir, "missing.py")

	got := DescribeFiles([]string{goFile, binFile, missing}, zap.NewNop())
	require.Len(t, got, 3)

	assert.Equal(t, "main.go", got[0].Name)
	assert.Equal(t, "Go", got[0].Language)
	assert.False(t, got[0].Binary)
	assert.EqualValues(t, 29, got[0].Size)

	assert.True(t, got[1].Binary)

	assert.Equal(t, "missing.py", got[2].Name)
	assert.EqualValues(t, -1, got[2].Size)
}

func TestWriteCombinedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "combined.txt")
	require.NoError(t, WriteCombinedFile(path, "# a.txt\n1\n\n", zap.NewNop()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# a.txt\n1\n\n", string(data))
}
