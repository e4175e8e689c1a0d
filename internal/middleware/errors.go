package middleware

import "errors"

var (
	ErrNotConfigured      = errors.New("browser middleware is not configured")
	ErrNotAllowedByRobots = errors.New("not allowed by robots.txt")
)
