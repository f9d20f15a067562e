package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sukalov/karaokedesk/internal/access"
	"github.com/sukalov/karaokedesk/internal/catalog"
	"github.com/sukalov/karaokedesk/internal/db"
	"github.com/sukalov/karaokedesk/internal/lyrics"
	"github.com/sukalov/karaokedesk/internal/redirect"
)

type Songs interface {
	List(ctx context.Context) ([]catalog.Song, error)
	Get(ctx context.Context, id string) (catalog.Song, error)
	LRC(ctx context.Context, id string) (string, error)
	Create(ctx context.Context, actor string, form catalog.Form) (catalog.Song, error)
	Update(ctx context.Context, actor, id string, form catalog.Form) (catalog.Song, error)
	Delete(ctx context.Context, actor, id string) error
}

type Redirects interface {
	Resolve(ctx context.Context, slug string) (string, error)
	List(ctx context.Context) ([]redirect.Redirect, error)
	Add(ctx context.Context, actor, slug, url string) (redirect.Redirect, error)
	Delete(ctx context.Context, actor, id string) error
}

type Gate interface {
	Authenticate(ctx context.Context, bearer string) (access.Identity, error)
	IsAdmin(ctx context.Context, id access.Identity) bool
	CheckAllowList(ctx context.Context, id access.Identity) error
}

type Importer interface {
	DraftFromURL(ctx context.Context, url string) (*lyrics.DraftResult, error)
}

type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]db.Entry, error)
}

// Deps are the services behind the router. Importer and Audit may be nil.
type Deps struct {
	Songs     Songs
	Redirects Redirects
	Gate      Gate
	Importer  Importer
	Audit     AuditReader

	Countdown time.Duration
}

type Server struct {
	deps Deps
}

// NewRouter wires every route onto a gin engine
func NewRouter(deps Deps) *gin.Engine {
	s := &Server{deps: deps}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(pageTemplates)

	r.GET("/", s.redirectPage)
	r.GET("/r/:slug", s.redirectPage)
	r.NoRoute(s.slugFallback)

	api := r.Group("/api")
	api.GET("/songs", s.listSongs)
	api.GET("/songs/:id", s.getSong)
	api.GET("/songs/:id/lrc", s.getSongLRC)
	api.POST("/checkAdminAuth", s.checkAdminAuth)

	admin := api.Group("/admin", s.requireAdmin)
	admin.POST("/songs", s.createSong)
	admin.PUT("/songs/:id", s.updateSong)
	admin.DELETE("/songs/:id", s.deleteSong)
	admin.POST("/lrc/validate", s.validateLRC)
	admin.POST("/lrc/draft", s.draftLRC)
	admin.GET("/redirects", s.listRedirects)
	admin.POST("/redirects", s.addRedirect)
	admin.DELETE("/redirects/:id", s.deleteRedirect)
	admin.GET("/audit", s.listAudit)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
