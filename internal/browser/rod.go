package browser

import (
	"context"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Config carries everything needed to construct a driver. Exactly one launch
// strategy is picked: proxy mode (local launch with the packaged auth
// extension) wins over a plain local launch, which wins over a remote session.
type Config struct {
	Family          string
	ExecutablePath  string
	BrowserBinPath  string
	CommandExecutor string
	Arguments       []string
	Proxy           *ProxyConfig
}

type ProxyConfig struct {
	Host string
	Port int
	User string
	Pass string
}

// RodDriver drives one browser over CDP. The launcher is nil for remote
// sessions, where the process belongs to the command executor.
type RodDriver struct {
	logger   *zap.SugaredLogger
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

func NewDriver(logger *zap.SugaredLogger, cfg *Config) (*RodDriver, error) {
	fam, err := LookupFamily(cfg.Family)
	if err != nil {
		return nil, err
	}

	switch {
	case cfg.Proxy != nil:
		return launchLocalWithProxy(logger, fam, cfg)
	case cfg.ExecutablePath != "":
		return launchLocal(logger, fam, cfg)
	default:
		return connectRemote(logger, cfg)
	}
}

func launchLocal(logger *zap.SugaredLogger, fam Family, cfg *Config) (*RodDriver, error) {
	l := fam.newLauncher(launchBin(cfg))
	applyArguments(l, cfg.Arguments)

	return launch(logger, l)
}

func launchLocalWithProxy(logger *zap.SugaredLogger, fam Family, cfg *Config) (*RodDriver, error) {
	_, extDir, err := WriteProxyPlugin(".", cfg.Proxy)
	if err != nil {
		return nil, err
	}

	l := fam.newLauncher(launchBin(cfg))
	applyArguments(l, cfg.Arguments)
	l.Set("load-extension", extDir)

	return launch(logger, l)
}

func launch(logger *zap.SugaredLogger, l *launcher.Launcher) (*RodDriver, error) {
	browserURL, err := l.Launch()
	if err != nil {
		logger.Errorf("failed to launch browser: %v", err)
		return nil, err
	}

	b := rod.New().ControlURL(browserURL)
	if errConnect := b.Connect(); errConnect != nil {
		return nil, errConnect
	}

	return attach(logger, l, b)
}

func connectRemote(logger *zap.SugaredLogger, cfg *Config) (*RodDriver, error) {
	l, err := launcher.NewManaged(cfg.CommandExecutor)
	if err != nil {
		logger.Errorf("failed to reach command executor %s: %v", cfg.CommandExecutor, err)
		return nil, err
	}

	if bin := launchBin(cfg); bin != "" {
		l.Bin(bin)
	}
	applyArguments(l, cfg.Arguments)

	client, err := l.Client()
	if err != nil {
		return nil, err
	}

	b := rod.New().Client(client)
	if errConnect := b.Connect(); errConnect != nil {
		return nil, errConnect
	}

	// The remote end owns the process, nothing local to clean up.
	return attach(logger, nil, b)
}

func attach(logger *zap.SugaredLogger, l *launcher.Launcher, b *rod.Browser) (*RodDriver, error) {
	err := proto.BrowserSetDownloadBehavior{
		Behavior: proto.BrowserSetDownloadBehaviorBehaviorDeny,
	}.Call(b)
	if err != nil {
		return nil, err
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, err
	}

	return &RodDriver{
		logger:   logger,
		launcher: l,
		browser:  b,
		page:     page,
	}, nil
}

// launchBin picks the binary handed to the launcher. An explicit browser
// binary overrides the driver executable path.
func launchBin(cfg *Config) string {
	if cfg.BrowserBinPath != "" {
		return cfg.BrowserBinPath
	}
	return cfg.ExecutablePath
}

func applyArguments(l *launcher.Launcher, arguments []string) {
	for _, argument := range arguments {
		name, values := splitArgument(argument)
		if name == "" {
			continue
		}
		l.Set(flags.Flag(name), values...)
	}
}

func splitArgument(argument string) (string, []string) {
	argument = strings.TrimLeft(strings.TrimSpace(argument), "-")
	if argument == "" {
		return "", nil
	}

	if name, value, found := strings.Cut(argument, "="); found {
		return name, []string{value}
	}
	return argument, nil
}

func (d *RodDriver) Navigate(url string) error {
	if err := d.page.Navigate(url); err != nil {
		return err
	}
	return d.page.WaitLoad()
}

// AddCookie scopes the cookie to the current document URL; CDP requires a URL
// or domain on every cookie it sets.
func (d *RodDriver) AddCookie(name, value string) error {
	info, err := d.page.Info()
	if err != nil {
		return err
	}

	return d.page.SetCookies([]*proto.NetworkCookieParam{{
		Name:  name,
		Value: value,
		URL:   info.URL,
	}})
}

func (d *RodDriver) Has(selector string) (bool, error) {
	has, _, err := d.page.Has(selector)
	return has, err
}

func (d *RodDriver) Eval(js string) (any, error) {
	obj, err := d.page.Eval(js)
	if err != nil {
		return nil, err
	}
	return obj.Value.Val(), nil
}

func (d *RodDriver) Screenshot() ([]byte, error) {
	return d.page.Screenshot(false, nil)
}

func (d *RodDriver) HTML() (string, error) {
	return d.page.HTML()
}

func (d *RodDriver) CurrentURL() (string, error) {
	info, err := d.page.Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (d *RodDriver) Quit(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		err := d.browser.Close()
		if d.launcher != nil {
			d.launcher.Kill()
			d.launcher.Cleanup()
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
