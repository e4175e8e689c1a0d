package request

// Meta keys middlewares write while a request is being processed.
const (
	// MetaScreenshot holds the rendered page as PNG bytes.
	MetaScreenshot = "screenshot"
	// MetaDriver holds the live driver handle, non-owning. Valid only until
	// crawl shutdown.
	MetaDriver = "driver"
)

// Meta is the side-channel carried by a request through the middleware chain.
type Meta map[string]any

// Request is what travels down the middleware chain. Middlewares distinguish
// the variants by type.
type Request interface {
	URL() string
	Cookies() map[string]string
	Meta() Meta
}

// HTTP is the plain fetch request, served by the native HTTP downloader.
type HTTP struct {
	url     string
	cookies map[string]string
	meta    Meta
}

func NewHTTP(url string) *HTTP {
	return &HTTP{
		url:     url,
		cookies: map[string]string{},
		meta:    Meta{},
	}
}

func (r *HTTP) URL() string { return r.url }

func (r *HTTP) Cookies() map[string]string { return r.cookies }

func (r *HTTP) Meta() Meta { return r.meta }

func (r *HTTP) WithCookie(name, value string) *HTTP {
	r.cookies[name] = value
	return r
}
