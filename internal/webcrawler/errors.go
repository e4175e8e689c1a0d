package webcrawler

import "errors"

var ErrFetching = errors.New("error fetching page")
