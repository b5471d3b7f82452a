package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopstats-backend/internal/app/service"
)

func pageRequest(c *gin.Context) service.PageRequest {
	return service.ParsePageRequest(c.Query("page"), c.Query("per_page"))
}

// pathID parses an integer path parameter; a malformed value matches no row.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// queryID parses an optional integer filter; missing, malformed and zero all mean unset.
func queryID(c *gin.Context, name string) int64 {
	id, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
