package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookie = "flash"

// SetFlash queues a one-shot message for the next rendered page. Category is
// one of success/warning/danger and only styles the banner.
func SetFlash(c *gin.Context, category, message string) {
	c.SetCookie(flashCookie, category+"|"+message, 300, "/", "", false, true)
}

// TakeFlash returns the queued flash message, if any, and clears it.
func TakeFlash(c *gin.Context) (category, message string) {
	v, err := c.Cookie(flashCookie)
	if err != nil || v == "" {
		return "", ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true) // One-shot: clear on read
	parts := strings.SplitN(v, "|", 2)
	if len(parts) != 2 {
		return "info", v
	}
	return parts[0], parts[1]
}
