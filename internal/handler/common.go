package handler

import (
	"errors"  // building sentinel errors for context extraction
	"strconv" // parsing path and query parameters

	"github.com/labstack/echo/v4" // Echo web framework
)

// getTenantID extracts the authenticated tenant ID placed in the
// request context by the JWT middleware.  It tolerates the numeric
// forms a decoded token claim may arrive in.
func getTenantID(c echo.Context) (uint64, error) {
	v := c.Get("tenant_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid tenant_id in context")
}

// pathID parses a numeric path parameter, rejecting zero.
func pathID(c echo.Context, name string) (uint64, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}
