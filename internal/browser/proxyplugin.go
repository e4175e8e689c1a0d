package browser

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
)

// The proxy auth plugin is a minimal chromium extension that pins a fixed
// HTTP proxy and answers auth challenges with the configured credentials, so
// the browser never shows a login prompt.
const (
	PluginArchiveName = "proxy_auth_plugin.zip"
	pluginDirName     = "proxy_auth_plugin"
)

const proxyManifestJSON = `{
    "version": "1.0.0",
    "manifest_version": 2,
    "name": "Chrome Proxy",
    "permissions": [
        "proxy",
        "tabs",
        "unlimitedStorage",
        "storage",
        "<all_urls>",
        "webRequest",
        "webRequestBlocking"
    ],
    "background": {
        "scripts": ["background.js"]
    },
    "minimum_chrome_version": "22.0.0"
}
`

const proxyBackgroundJS = `var config = {
    mode: 'fixed_servers',
    rules: {
        singleProxy: {
            scheme: 'http',
            host: '%s',
            port: parseInt(%d)
        },
        bypassList: ['localhost']
    }
};

chrome.proxy.settings.set({value: config, scope: 'regular'}, function() {});

function callbackFn(details) {
    return {
        authCredentials: {
            username: '%s',
            password: '%s'
        }
    };
}

chrome.webRequest.onAuthRequired.addListener(
    callbackFn,
    {urls: ['<all_urls>']},
    ['blocking']
);
`

// WriteProxyPlugin renders the extension into dir: the zip artifact, plus the
// same files unpacked for --load-extension (chromium cannot load a zip at
// launch time). Both are overwritten on every run.
func WriteProxyPlugin(dir string, p *ProxyConfig) (zipPath, extDir string, err error) {
	backgroundJS := fmt.Sprintf(proxyBackgroundJS, p.Host, p.Port, p.User, p.Pass)

	zipPath = filepath.Join(dir, PluginArchiveName)
	if err = writePluginArchive(zipPath, backgroundJS); err != nil {
		return "", "", err
	}

	extDir = filepath.Join(dir, pluginDirName)
	if err = writePluginDir(extDir, backgroundJS); err != nil {
		return "", "", err
	}

	return zipPath, extDir, nil
}

func writePluginArchive(path, backgroundJS string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(f)

	entries := []struct {
		name string
		body string
	}{
		{"manifest.json", proxyManifestJSON},
		{"background.js", backgroundJS},
	}

	for _, entry := range entries {
		w, errCreate := zw.Create(entry.name)
		if errCreate != nil {
			zw.Close()
			f.Close()
			return errCreate
		}
		if _, errWrite := w.Write([]byte(entry.body)); errWrite != nil {
			zw.Close()
			f.Close()
			return errWrite
		}
	}

	if err = zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writePluginDir(dir, backgroundJS string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(proxyManifestJSON), 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "background.js"), []byte(backgroundJS), 0o644)
}
