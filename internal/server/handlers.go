package server

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/sim"
)

// defaultPush is the force duration when a push request names none.
const defaultPush = 0.1

type lessonRequest struct {
	Lesson string `json:"lesson" binding:"required"`
}

type pushRequest struct {
	Duration float64 `json:"duration"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "physbox",
		"uptime":  time.Since(s.started).String(),
		"clients": s.hub.Len(),
	})
}

func (s *Server) state(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Snapshot())
}

func (s *Server) frameSVG(c *gin.Context) {
	c.Data(http.StatusOK, "image/svg+xml", []byte(s.session.FrameSVG()))
}

func (s *Server) websocket(c *gin.Context) {
	if err := s.hub.Serve(c.Writer, c.Request, s.session.Snapshot()); err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
	}
}

func (s *Server) addBody(c *gin.Context) {
	var req BodyRequest
	if err := bindOptional(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	index, snap, err := s.session.Add(req)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.hub.Broadcast(snap)
	c.JSON(http.StatusCreated, gin.H{"index": index, "state": snap})
}

func (s *Server) clearBodies(c *gin.Context) {
	s.reply(c, s.session.Clear())
}

func (s *Server) pushBody(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, errors.New("body index must be an integer"))
		return
	}
	req := pushRequest{Duration: defaultPush}
	if err := bindOptional(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	snap, err := s.session.Push(index, req.Duration)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.reply(c, snap)
}

func (s *Server) setLesson(c *gin.Context) {
	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	snap, err := s.session.SetLesson(req.Lesson)
	if err != nil {
		s.fail(c, err)
		return
	}
	log.Printf("[SERVER] lesson switched to %s", snap.Lesson)
	s.reply(c, snap)
}

func (s *Server) params(c *gin.Context) {
	c.JSON(http.StatusOK, paramsJSON(s.session.Params()))
}

func (s *Server) setParams(c *gin.Context) {
	var req physics.Overrides
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := s.session.SetParams(req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, paramsJSON(p))
}

func (s *Server) pause(c *gin.Context)  { s.reply(c, s.session.Pause()) }
func (s *Server) resume(c *gin.Context) { s.reply(c, s.session.Resume()) }
func (s *Server) reset(c *gin.Context)  { s.reply(c, s.session.Reset()) }

// reply answers with snap and pushes it to the frame subscribers.
func (s *Server) reply(c *gin.Context, snap sim.Snapshot) {
	s.hub.Broadcast(snap)
	c.JSON(http.StatusOK, snap)
}

func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrBadRequest) || errors.Is(err, sim.ErrInvalidConfig) {
		badRequest(c, err)
		return
	}
	log.Printf("[SERVER] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// bindOptional decodes a JSON body into v, leaving v untouched when the
// body is empty.
func bindOptional(c *gin.Context, v any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func paramsJSON(p physics.Params) gin.H {
	return gin.H{
		"gravity":     p.Gravity,
		"restitution": p.Restitution,
		"friction":    p.Friction,
		"mass":        p.Mass,
		"force":       p.Force,
		"angle":       p.Angle,
		"use_gravity": p.UseGravity,
	}
}
