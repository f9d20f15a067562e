package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sukalov/karaokedesk/internal/access"
	"github.com/sukalov/karaokedesk/internal/catalog"
	"github.com/sukalov/karaokedesk/internal/logger"
	"github.com/sukalov/karaokedesk/internal/lyrics/parsers/page"
	"github.com/sukalov/karaokedesk/internal/redirect"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, redirect.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrInvalidSong),
		errors.Is(err, catalog.ErrInvalidLyrics),
		errors.Is(err, redirect.ErrInvalidSlug),
		errors.Is(err, redirect.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, redirect.ErrSlugTaken):
		return http.StatusConflict
	case errors.Is(err, page.ErrNoLyrics):
		return http.StatusUnprocessableEntity
	case errors.Is(err, access.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, access.ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error(fmt.Sprintf("Request failed\nRoute: %s %s\nError: %v", c.Request.Method, c.FullPath(), err))
		c.AbortWithStatusJSON(code, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(code, gin.H{"error": publicMessage(err)})
}

// publicMessage keeps wrapped causes (token details and such) out of responses
func publicMessage(err error) string {
	for _, sentinel := range []error{
		catalog.ErrNotFound, catalog.ErrInvalidLyrics,
		redirect.ErrNotFound, redirect.ErrInvalidSlug, redirect.ErrInvalidURL, redirect.ErrSlugTaken,
		page.ErrNoLyrics, access.ErrUnauthenticated, access.ErrPermissionDenied,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
