package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"lendme/internal/domain/shared/page"
)

// sharerHeader carries the identity of the acting user. There is no auth
// layer; the gateway in front of the service is trusted to set it.
const sharerHeader = "X-Sharer-User-Id"

// callerID extracts the acting user from the request header. Writes the
// response itself on failure.
func callerID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader(sharerHeader)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + sharerHeader + " header"})
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + sharerHeader + " header"})
		return 0, false
	}
	return id, true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// pageParams parses the from/size query pair, defaulting to the first
// twenty records.
func pageParams(c *gin.Context) (page.Page, bool) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil || from < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
		return page.Page{}, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid size"})
		return page.Page{}, false
	}
	return page.Page{From: from, Size: size}, true
}
