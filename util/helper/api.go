package helper_util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetPaginationParams reads skip/limit query parameters, applying the given
// defaults. Limit is clamped to max; negative skip is rejected.
func GetPaginationParams(c *gin.Context, defaultLimit, maxLimit int) (skip int, limit int, err error) {
	skip, err = strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		return 0, 0, errInvalidPagination(err)
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		return 0, 0, errInvalidPagination(err)
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit, nil
}

type paginationError struct{ cause error }

func (e paginationError) Error() string { return "invalid pagination parameters" }
func (e paginationError) Unwrap() error { return e.cause }

func errInvalidPagination(cause error) error { return paginationError{cause: cause} }
