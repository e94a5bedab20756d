// Package server streams a sandbox world to browser renderers: a gin JSON
// API drives the world and a WebSocket pushes one snapshot per frame.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/san-kum/physbox/internal/config"
)

type Server struct {
	cfg     *config.ServerConfig
	session *Session
	hub     *Hub
	router  *gin.Engine
	started time.Time
}

func New(cfg *config.ServerConfig, session *Session) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		cfg:     cfg,
		session: session,
		hub:     NewHub(originCheck(cfg)),
		started: time.Now(),
	}
	s.router = gin.New()
	s.router.Use(gin.Recovery(), CORSMiddleware(cfg))
	s.routes()
	return s
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) routes() {
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/health", s.health)
		v1.GET("/state", s.state)
		v1.GET("/frame.svg", s.frameSVG)
		v1.GET("/ws", s.websocket)

		v1.POST("/bodies", s.addBody)
		v1.DELETE("/bodies", s.clearBodies)
		v1.POST("/bodies/:index/force", s.pushBody)

		v1.POST("/lesson", s.setLesson)
		v1.GET("/params", s.params)
		v1.PATCH("/params", s.setParams)

		v1.POST("/pause", s.pause)
		v1.POST("/resume", s.resume)
		v1.POST("/reset", s.reset)
	}
}

// tick steps the session once and broadcasts the frame.
func (s *Server) tick() {
	if snap, ok := s.session.Step(); ok {
		s.hub.Broadcast(snap)
	}
}

// Run drives the session at the configured frame rate until ctx is done.
func (s *Server) Run(ctx context.Context) {
	fps := s.cfg.FPS
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// ListenAndServe serves HTTP and runs the frame loop until ctx is done, then
// shuts both down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	loopCtx, stop := context.WithCancel(ctx)
	defer stop()
	go s.Run(loopCtx)

	errc := make(chan error, 1)
	go func() {
		log.Printf("[SERVER] listening on :%s at %d fps", s.cfg.Port, s.cfg.FPS)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("[SERVER] shutting down")
	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
