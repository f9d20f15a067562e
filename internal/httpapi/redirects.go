package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listRedirects(c *gin.Context) {
	redirects, err := s.deps.Redirects.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, redirects)
}

func (s *Server) addRedirect(c *gin.Context) {
	var body struct {
		Slug string `json:"slug"`
		URL  string `json:"url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	r, err := s.deps.Redirects.Add(c.Request.Context(), actor(c), body.Slug, body.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (s *Server) deleteRedirect(c *gin.Context) {
	if err := s.deps.Redirects.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
