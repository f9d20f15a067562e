package httpapi

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sukalov/karaokedesk/internal/logger"
	"github.com/sukalov/karaokedesk/internal/redirect"
)

var pageTemplates = template.Must(template.New("redirect.html").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Redirecting</title>
{{if .URL}}<meta http-equiv="refresh" content="{{.Seconds}};url={{.URL}}">{{end}}
<style>
body { font-family: sans-serif; text-align: center; margin-top: 20vh; }
.bar { width: 60%; margin: 2em auto; height: 8px; background: #eee; border-radius: 4px; overflow: hidden; }
.bar div { height: 100%; width: 100%; background: #b8b986; animation: fill {{.Seconds}}s linear; }
@keyframes fill { from { width: 0; } to { width: 100%; } }
</style>
</head>
<body>
{{if .Error}}
<h1>{{.Error}}</h1>
{{else}}
<h1>You will be redirected to the requested URL shortly.</h1>
<div class="bar"><div></div></div>
<script>setTimeout(function () { window.location.href = {{.URL}}; }, {{.Millis}});</script>
{{end}}
</body>
</html>`))

type redirectPageData struct {
	URL     string
	Seconds int
	Millis  int64
	Error   string
}

func (s *Server) redirectPage(c *gin.Context) {
	s.renderRedirect(c, c.Param("slug"))
}

// slugFallback serves /{slug} for any single-segment GET that no route claimed
func (s *Server) slugFallback(c *gin.Context) {
	slug := strings.Trim(c.Request.URL.Path, "/")
	if c.Request.Method != http.MethodGet || strings.Contains(slug, "/") || redirect.ValidateSlug(slug) != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	s.renderRedirect(c, slug)
}

func (s *Server) renderRedirect(c *gin.Context, slug string) {
	url, err := s.deps.Redirects.Resolve(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, redirect.ErrNotFound) {
			c.HTML(http.StatusNotFound, "redirect.html", redirectPageData{Error: "The requested URL does not exist."})
			return
		}
		logger.Error(fmt.Sprintf("Error fetching redirect URL\nSlug: %s\nError: %v", slug, err))
		c.HTML(http.StatusInternalServerError, "redirect.html", redirectPageData{Error: "An error occurred while fetching the URL."})
		return
	}

	c.HTML(http.StatusOK, "redirect.html", redirectPageData{
		URL:     url,
		Seconds: int(s.deps.Countdown.Seconds()),
		Millis:  s.deps.Countdown.Milliseconds(),
	})
}
