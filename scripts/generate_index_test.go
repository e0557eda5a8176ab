package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanArchives(t *testing.T) {
	version, downloads := scanArchives([]string{
		"checksums.txt",
		"gridcol_1.2.0_Linux_x86_64.tar.gz",
		"gridcol_1.2.0_Darwin_arm64.tar.gz",
		"gridcol_1.2.0_Windows_x86_64.zip",
		"gridcol_1.2.0_Linux_x86_64.tar.gz.sbom",
	})
	assert.Equal(t, "1.2.0", version)
	assert.Equal(t, []download{
		{Platform: "Linux (x86_64)", Archive: "gridcol_1.2.0_Linux_x86_64.tar.gz"},
		{Platform: "Windows (x86_64)", Archive: "gridcol_1.2.0_Windows_x86_64.zip"},
		{Platform: "macOS (Apple Silicon)", Archive: "gridcol_1.2.0_Darwin_arm64.tar.gz"},
	}, downloads)

	version, downloads = scanArchives(nil)
	assert.Equal(t, "unknown", version)
	assert.Empty(t, downloads)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	readme := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# gridcol\n\n## Installation\n\ngo install\n\n## Usage\n\nrun it\n"), 0o600))
	dist := filepath.Join(dir, "dist")
	require.NoError(t, os.Mkdir(dist, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dist, "gridcol_0.1.0_Linux_arm64.tar.gz"), nil, 0o600))

	require.NoError(t, run(readme, dist))
	page, err := os.ReadFile(filepath.Join(dist, "index.html"))
	require.NoError(t, err)

	assert.Contains(t, string(page), `<a href="gridcol_0.1.0_Linux_arm64.tar.gz">download</a>`)
	assert.Contains(t, string(page), `<h2 id="usage">Usage</h2>`)
	assert.NotContains(t, string(page), "go install")

	assert.Error(t, run(filepath.Join(dir, "missing.md"), dist))
}

func TestReplaceInstallationWithoutSection(t *testing.T) {
	page := []byte("<h1>x</h1>")
	assert.Equal(t, page, replaceInstallation(page, "table"))
}
