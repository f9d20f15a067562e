package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sukalov/karaokedesk/internal/catalog"
)

func (s *Server) listSongs(c *gin.Context) {
	songs, err := s.deps.Songs.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, songs)
}

func (s *Server) getSong(c *gin.Context) {
	song, err := s.deps.Songs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, song)
}

func (s *Server) getSongLRC(c *gin.Context) {
	text, err := s.deps.Songs.LRC(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.String(http.StatusOK, text)
}

func (s *Server) createSong(c *gin.Context) {
	var form catalog.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	song, err := s.deps.Songs.Create(c.Request.Context(), actor(c), form)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, song)
}

func (s *Server) updateSong(c *gin.Context) {
	var form catalog.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	song, err := s.deps.Songs.Update(c.Request.Context(), actor(c), c.Param("id"), form)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, song)
}

func (s *Server) deleteSong(c *gin.Context) {
	if err := s.deps.Songs.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) validateLRC(c *gin.Context) {
	var body struct {
		LRC string `json:"lrc"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	track, ok := catalog.ValidateLRC(body.LRC)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": catalog.ErrInvalidLyrics.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "lyrics": track})
}

func (s *Server) draftLRC(c *gin.Context) {
	if s.deps.Importer == nil {
		c.AbortWithStatusJSON(http.StatusNotImplemented, gin.H{"error": "lyrics import is not configured"})
		return
	}

	var body struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	draft, err := s.deps.Importer.DraftFromURL(c.Request.Context(), body.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (s *Server) listAudit(c *gin.Context) {
	if s.deps.Audit == nil {
		c.JSON(http.StatusOK, []any{})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
		return
	}

	entries, err := s.deps.Audit.Recent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
