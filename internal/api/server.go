// Package api provides the REST control surface for a running sequencer
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/icco/drumseq/internal/debug"
	"github.com/icco/drumseq/internal/persist"
	"github.com/icco/drumseq/internal/sequencer"
)

// @title drumseq API
// @version 1.0
// @description Control a drumseq step sequencer: transport, patterns, tracks and saved sessions.
// @host localhost:8080
// @BasePath /api/v1

// Server exposes a sequencer over HTTP.
type Server struct {
	seq      *sequencer.Sequencer
	store    *persist.Store
	autosave string
	hub      *Hub
}

// NewServer wraps seq. When autosave is not empty every successful change is
// saved to that slot of store.
func NewServer(seq *sequencer.Sequencer, store *persist.Store, autosave string) *Server {
	return &Server{
		seq:      seq,
		store:    store,
		autosave: autosave,
		hub:      NewHub(),
	}
}

// Events is the observer that feeds the /events stream. Install it on the
// sequencer, alongside any other observer.
func (s *Server) Events() *Hub {
	return s.hub
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.Use(corsMiddleware())

	r.GET("/health", healthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/state", s.getState)
		v1.GET("/events", s.streamEvents)
		v1.GET("/templates", listTemplates)
		v1.GET("/presets", listPresets)
		v1.GET("/patterns/:pattern", s.getPattern)
		v1.GET("/slots", s.listSlots)

		edit := v1.Group("", s.autosaveMiddleware())
		edit.POST("/transport/:action", s.transport)
		edit.PUT("/bpm", s.setBPM)
		edit.POST("/patterns/:pattern/select", s.selectPattern)
		edit.POST("/patterns/copy", s.copyPattern)
		edit.DELETE("/patterns/current", s.clearPattern)
		edit.DELETE("/patterns", s.clearAllPatterns)
		edit.POST("/tracks/:track/steps/:step/toggle", s.toggleStep)
		edit.PUT("/tracks/:track/steps/:step", s.setStep)
		edit.DELETE("/tracks/:track/steps", s.clearTrack)
		edit.POST("/tracks/:track/fill", s.fillTrack)
		edit.POST("/tracks/:track/euclid", s.euclidTrack)
		edit.POST("/tracks/:track/randomize", s.randomizeTrack)
		edit.POST("/tracks/:track/mute", s.muteTrack)
		edit.POST("/tracks/:track/solo", s.soloTrack)
		edit.PUT("/tracks/:track/volume", s.setVolume)
		edit.PUT("/tracks/:track/instrument", s.setInstrument)
		edit.POST("/tracks/:track/preview", s.previewTrack)
		edit.POST("/presets/:name", s.loadPreset)
		edit.POST("/demo", s.loadDemo)
		edit.POST("/slots/:name/load", s.loadSlot)

		v1.POST("/slots/:name/save", s.saveSlot)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// autosaveMiddleware saves the session after every successful change.
func (s *Server) autosaveMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if s.autosave == "" || s.store == nil || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		if err := s.seq.Save(c.Request.Context(), s.store, s.autosave); err != nil {
			debug.Log("persist", "autosave after %s %s: %v", c.Request.Method, c.FullPath(), err)
		}
	}
}
