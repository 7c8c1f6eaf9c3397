package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/types"
)

const (
	defaultPageLimit = 6
	maxPageLimit     = 100
)

// maxPageNumber keeps page*limit inside int32 on every platform
const maxPageNumber = math.MaxInt32 / maxPageLimit

// parsePage reads ?page= and ?limit=
func parsePage(c *gin.Context) (types.Page, error) {
	page := types.Page{Number: 1, Limit: defaultPageLimit}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPageNumber {
			return page, fmt.Errorf("invalid page %q", raw)
		}
		page.Number = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, fmt.Errorf("invalid limit %q", raw)
		}
		page.Limit = min(n, maxPageLimit)
	}
	return page, nil
}

// paginate wraps one page of results with absolute next and previous links
func paginate[T any](c *gin.Context, page types.Page, total int64, results []T) types.Paginated[T] {
	if results == nil {
		results = []T{}
	}
	out := types.Paginated[T]{Count: total, Results: results}
	if page.Number < maxPageNumber && int64(page.Number)*int64(page.Limit) < total {
		out.Next = pageURL(c, page.Number+1)
	}
	if page.Number > 1 {
		out.Previous = pageURL(c, page.Number-1)
	}
	return out
}

func pageURL(c *gin.Context, number int) *string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	query := c.Request.URL.Query()
	if number == 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(number))
	}

	u := fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, c.Request.URL.Path)
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return &u
}

// pathID parses the :id route parameter. A malformed id names no resource.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "not found"})
		return uuid.Nil, false
	}
	return id, true
}

// parseFlag accepts 1/0 and true/false
func parseFlag(raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid boolean %q", raw)
	}
	return &v, nil
}

// with returns a fresh chain ending in h, so shared middleware chains are
// never appended to in place
func with(chain gin.HandlersChain, h gin.HandlerFunc) gin.HandlersChain {
	out := make(gin.HandlersChain, 0, len(chain)+1)
	out = append(out, chain...)
	return append(out, h)
}
