package browser

import (
	"fmt"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
)

// Family is one of the supported browser backends. The set is closed on
// purpose: an unsupported name is a configuration error, surfaced before any
// browser process is started.
type Family struct {
	Name       string
	DefaultBin string
}

var families = map[string]Family{
	"chromium": {Name: "chromium", DefaultBin: "/usr/bin/chromium-browser"},
	"chrome":   {Name: "chrome", DefaultBin: "/usr/bin/google-chrome"},
	"edge":     {Name: "edge", DefaultBin: "/usr/bin/microsoft-edge"},
}

func LookupFamily(name string) (Family, error) {
	fam, ok := families[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Family{}, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
	}
	return fam, nil
}

func (f Family) newLauncher(bin string) *launcher.Launcher {
	if bin == "" {
		bin = f.DefaultBin
	}

	return launcher.New().
		Bin(bin).
		Headless(true).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage")
}
