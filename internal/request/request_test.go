package request

import (
	"testing"
	"time"

	"browser-crawler/internal/browser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBrowserDefaults(t *testing.T) {
	req := NewBrowser("https://example.com")

	assert.Equal(t, DefaultWaitTime, req.WaitTime)
	assert.Nil(t, req.WaitUntil)
	assert.False(t, req.Screenshot)
	assert.Empty(t, req.Script)
	assert.Equal(t, "https://example.com", req.URL())
}

func TestBrowserFluentSetters(t *testing.T) {
	cond := browser.ElementPresent("#content")

	req := NewBrowser("https://example.com").
		WithWaitTime(3 * time.Second).
		WithWaitUntil(cond).
		WithScreenshot().
		WithScript("window.scrollTo(0, document.body.scrollHeight);")

	assert.Equal(t, 3*time.Second, req.WaitTime)
	assert.NotNil(t, req.WaitUntil)
	assert.True(t, req.Screenshot)
	assert.Equal(t, "window.scrollTo(0, document.body.scrollHeight);", req.Script)
}

// The middleware dispatches on the concrete type, so both variants must
// satisfy Request and stay distinguishable by assertion.
func TestRequestVariantsAreDistinguishable(t *testing.T) {
	var plain Request = NewHTTP("https://example.com")
	var rendered Request = NewBrowser("https://example.com")

	_, isBrowser := plain.(*Browser)
	assert.False(t, isBrowser)

	_, isBrowser = rendered.(*Browser)
	assert.True(t, isBrowser)
}

func TestHTTPCookies(t *testing.T) {
	req := NewHTTP("https://example.com").
		WithCookie("session", "abc123").
		WithCookie("lang", "en")

	require.Len(t, req.Cookies(), 2)
	assert.Equal(t, "abc123", req.Cookies()["session"])
}

func TestBrowserInheritsCookiesAndMeta(t *testing.T) {
	req := NewBrowser("https://example.com")
	req.WithCookie("session", "abc123")
	req.Meta()[MetaScreenshot] = []byte{1, 2, 3}

	assert.Equal(t, "abc123", req.Cookies()["session"])
	assert.Equal(t, []byte{1, 2, 3}, req.Meta()[MetaScreenshot])
}

func TestNewHTMLResponseDefaultsToUTF8(t *testing.T) {
	req := NewBrowser("https://example.com")

	resp := NewHTMLResponse("https://example.com/final", []byte("<html></html>"), req)

	assert.Equal(t, "utf-8", resp.Encoding)
	assert.Equal(t, "https://example.com/final", resp.URL)
	assert.Same(t, req, resp.Request.(*Browser))
}
