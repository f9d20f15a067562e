package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sukalov/karaokedesk/internal/access"
)

const identityKey = "identity"

func (s *Server) requireAdmin(c *gin.Context) {
	id, err := s.deps.Gate.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !s.deps.Gate.IsAdmin(c.Request.Context(), id) {
		writeError(c, access.ErrPermissionDenied)
		return
	}

	c.Set(identityKey, id)
	c.Next()
}

// actor names the admin behind the request in the audit log
func actor(c *gin.Context) string {
	value, ok := c.Get(identityKey)
	if !ok {
		return ""
	}
	id := value.(access.Identity)
	if id.Email != "" {
		return id.Email
	}
	return id.UID
}

type callableError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// checkAdminAuth speaks the callable-function wire format: {"result": ...}
// on success, {"error": {"status", "message"}} otherwise. Only the
// allow-list counts here, the admin claim does not.
func (s *Server) checkAdminAuth(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := s.deps.Gate.Authenticate(ctx, c.GetHeader("Authorization"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": callableError{
			Status:  "UNAUTHENTICATED",
			Message: "User must be authenticated",
		}})
		return
	}

	if err := s.deps.Gate.CheckAllowList(ctx, id); err != nil {
		if errors.Is(err, access.ErrPermissionDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": callableError{
				Status:  "PERMISSION_DENIED",
				Message: "User is not authorized",
			}})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": gin.H{"isAdmin": true}})
}
