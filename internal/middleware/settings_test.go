package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequiresDriverName(t *testing.T) {
	s := &Settings{DriverExecutablePath: "/usr/bin/chromium-browser"}

	err := s.Validate()

	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "BROWSER_DRIVER_NAME")
}

func TestValidateRequiresLaunchStrategy(t *testing.T) {
	s := &Settings{DriverName: "chromium"}

	err := s.Validate()

	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "BROWSER_COMMAND_EXECUTOR")
}

func TestValidateAcceptsLocalAndRemote(t *testing.T) {
	local := &Settings{DriverName: "chromium", DriverExecutablePath: "/usr/bin/chromium-browser"}
	remote := &Settings{DriverName: "chromium", CommandExecutor: "ws://browser-farm:7317"}

	assert.NoError(t, local.Validate())
	assert.NoError(t, remote.Validate())
}

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("BROWSER_DRIVER_NAME", "chromium")
	t.Setenv("BROWSER_DRIVER_EXECUTABLE_PATH", "/usr/bin/chromium-browser")
	t.Setenv("BROWSER_EXECUTABLE_PATH", "/opt/chromium/chrome")
	t.Setenv("BROWSER_COMMAND_EXECUTOR", "")
	t.Setenv("BROWSER_DRIVER_ARGUMENTS", "--disable-gpu, --no-first-run")
	t.Setenv("BROWSER_PROXY_ENABLED", "true")
	t.Setenv("BROWSER_PROXY_HOST", "proxy.internal")
	t.Setenv("BROWSER_PROXY_PORT", "3128")
	t.Setenv("BROWSER_PROXY_USER", "crawler")
	t.Setenv("BROWSER_PROXY_PASS", "hunter2")

	s := SettingsFromEnv()

	assert.Equal(t, "chromium", s.DriverName)
	assert.Equal(t, "/usr/bin/chromium-browser", s.DriverExecutablePath)
	assert.Equal(t, "/opt/chromium/chrome", s.BrowserExecutablePath)
	assert.True(t, s.ProxyEnabled)
	assert.Equal(t, 3128, s.ProxyPort)
	assert.Contains(t, s.DriverArguments, "--disable-gpu")

	require.NoError(t, s.Validate())

	cfg := s.driverConfig()
	require.NotNil(t, cfg.Proxy)
	assert.Equal(t, "proxy.internal", cfg.Proxy.Host)
	assert.Equal(t, "crawler", cfg.Proxy.User)
	assert.Equal(t, "hunter2", cfg.Proxy.Pass)
}

func TestDriverConfigWithoutProxy(t *testing.T) {
	s := &Settings{
		DriverName:           "chrome",
		DriverExecutablePath: "/usr/bin/google-chrome",
		ProxyHost:            "ignored.example",
	}

	cfg := s.driverConfig()

	assert.Nil(t, cfg.Proxy)
	assert.Equal(t, "chrome", cfg.Family)
}
