package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user id as a string, or "anon".
func currentUserID(c echo.Context) string {
	if id, ok := c.Get(CtxUserID).(uint64); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
