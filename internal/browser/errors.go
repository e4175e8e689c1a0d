package browser

import "errors"

var (
	ErrWaitTimeout   = errors.New("wait condition not satisfied within wait time")
	ErrUnknownFamily = errors.New("unknown browser family")
)
