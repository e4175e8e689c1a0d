package middleware

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"browser-crawler/internal/browser"
)

// Settings are the configuration keys the browser middleware is built from.
type Settings struct {
	DriverName            string
	DriverExecutablePath  string
	BrowserExecutablePath string
	CommandExecutor       string
	DriverArguments       []string

	ProxyEnabled bool
	ProxyHost    string
	ProxyPort    int
	ProxyUser    string
	ProxyPass    string
}

// SettingsFromEnv reads the BROWSER_* keys. Missing keys stay zero-valued;
// Validate decides whether the result is usable.
func SettingsFromEnv() *Settings {
	port, _ := strconv.Atoi(os.Getenv("BROWSER_PROXY_PORT"))

	return &Settings{
		DriverName:            os.Getenv("BROWSER_DRIVER_NAME"),
		DriverExecutablePath:  os.Getenv("BROWSER_DRIVER_EXECUTABLE_PATH"),
		BrowserExecutablePath: os.Getenv("BROWSER_EXECUTABLE_PATH"),
		CommandExecutor:       os.Getenv("BROWSER_COMMAND_EXECUTOR"),
		DriverArguments:       splitArguments(os.Getenv("BROWSER_DRIVER_ARGUMENTS")),
		ProxyEnabled:          os.Getenv("BROWSER_PROXY_ENABLED") == "true",
		ProxyHost:             os.Getenv("BROWSER_PROXY_HOST"),
		ProxyPort:             port,
		ProxyUser:             os.Getenv("BROWSER_PROXY_USER"),
		ProxyPass:             os.Getenv("BROWSER_PROXY_PASS"),
	}
}

func splitArguments(raw string) []string {
	var arguments []string
	for _, argument := range strings.Split(raw, ",") {
		argument = strings.TrimSpace(argument)
		if argument != "" {
			arguments = append(arguments, argument)
		}
	}
	return arguments
}

func (s *Settings) Validate() error {
	if s.DriverName == "" {
		return fmt.Errorf("%w: BROWSER_DRIVER_NAME must be set", ErrNotConfigured)
	}

	if s.DriverExecutablePath == "" && s.CommandExecutor == "" {
		return fmt.Errorf("%w: either BROWSER_DRIVER_EXECUTABLE_PATH or BROWSER_COMMAND_EXECUTOR must be set", ErrNotConfigured)
	}

	return nil
}

func (s *Settings) driverConfig() *browser.Config {
	cfg := &browser.Config{
		Family:          s.DriverName,
		ExecutablePath:  s.DriverExecutablePath,
		BrowserBinPath:  s.BrowserExecutablePath,
		CommandExecutor: s.CommandExecutor,
		Arguments:       s.DriverArguments,
	}

	if s.ProxyEnabled {
		cfg.Proxy = &browser.ProxyConfig{
			Host: s.ProxyHost,
			Port: s.ProxyPort,
			User: s.ProxyUser,
			Pass: s.ProxyPass,
		}
	}

	return cfg
}
