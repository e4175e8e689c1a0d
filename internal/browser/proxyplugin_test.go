package browser

import (
	"archive/zip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProxyConfig() *ProxyConfig {
	return &ProxyConfig{
		Host: "proxy.internal",
		Port: 3128,
		User: "crawler",
		Pass: "hunter2",
	}
}

func readArchive(t *testing.T, zipPath string) map[string]string {
	t.Helper()

	zr, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer zr.Close()

	entries := map[string]string{}
	for _, f := range zr.File {
		rc, errOpen := f.Open()
		require.NoError(t, errOpen)

		body, errRead := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, errRead)

		entries[f.Name] = string(body)
	}
	return entries
}

func TestWriteProxyPluginArchiveShape(t *testing.T) {
	dir := t.TempDir()

	zipPath, _, err := WriteProxyPlugin(dir, testProxyConfig())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, PluginArchiveName), zipPath)

	entries := readArchive(t, zipPath)
	require.Len(t, entries, 2)
	require.Contains(t, entries, "manifest.json")
	require.Contains(t, entries, "background.js")

	var manifest map[string]any
	require.NoError(t, json.Unmarshal([]byte(entries["manifest.json"]), &manifest))
	assert.Contains(t, manifest["permissions"], "proxy")
}

func TestWriteProxyPluginTemplatesCredentialsVerbatim(t *testing.T) {
	dir := t.TempDir()

	zipPath, _, err := WriteProxyPlugin(dir, testProxyConfig())
	require.NoError(t, err)

	background := readArchive(t, zipPath)["background.js"]

	assert.Contains(t, background, "host: 'proxy.internal'")
	assert.Contains(t, background, "port: parseInt(3128)")
	assert.Contains(t, background, "username: 'crawler'")
	assert.Contains(t, background, "password: 'hunter2'")
}

func TestWriteProxyPluginUnpackedDir(t *testing.T) {
	dir := t.TempDir()

	_, extDir, err := WriteProxyPlugin(dir, testProxyConfig())
	require.NoError(t, err)

	for _, name := range []string{"manifest.json", "background.js"} {
		_, errStat := os.Stat(filepath.Join(extDir, name))
		assert.NoError(t, errStat, name)
	}
}

func TestWriteProxyPluginOverwritesPreviousRun(t *testing.T) {
	dir := t.TempDir()

	_, _, err := WriteProxyPlugin(dir, testProxyConfig())
	require.NoError(t, err)

	changed := testProxyConfig()
	changed.Host = "other.proxy"

	zipPath, _, err := WriteProxyPlugin(dir, changed)
	require.NoError(t, err)

	background := readArchive(t, zipPath)["background.js"]
	assert.Contains(t, background, "other.proxy")
	assert.NotContains(t, background, "proxy.internal")
}
