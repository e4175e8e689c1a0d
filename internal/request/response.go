package request

// HTMLResponse is what a middleware hands back to the host framework. URL is
// the final document URL, after any redirects the browser followed.
type HTMLResponse struct {
	URL      string
	Body     []byte
	Encoding string
	Request  Request
}

func NewHTMLResponse(url string, body []byte, req Request) *HTMLResponse {
	return &HTMLResponse{
		URL:      url,
		Body:     body,
		Encoding: "utf-8",
		Request:  req,
	}
}
