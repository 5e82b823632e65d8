package server

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/recapkit/recapkit/config"
	"github.com/recapkit/recapkit/notify"
	"github.com/recapkit/recapkit/orchestrator"
	"github.com/recapkit/recapkit/provider"
	"github.com/recapkit/recapkit/store"
)

// Server exposes the pipeline over HTTP: submit a recording, read back
// records, test providers and stream lifecycle events. Rendering is the
// client's problem.
type Server struct {
	cfg   *config.Config
	pipe  *orchestrator.Pipeline
	store *store.SQLiteStore
	hub   *notify.Hub
	gate  *orchestrator.CaptureGate
	log   *logrus.Entry
}

func New(cfg *config.Config, pipe *orchestrator.Pipeline, st *store.SQLiteStore, hub *notify.Hub, log *logrus.Entry) *Server {
	return &Server{
		cfg:   cfg,
		pipe:  pipe,
		store: st,
		hub:   hub,
		gate:  &orchestrator.CaptureGate{},
		log:   log,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/recordings", s.submitRecording)
	r.POST("/capture/start", s.startCapture)
	r.POST("/capture/stop", s.stopCapture)
	r.GET("/recordings", s.listRecordings)
	r.GET("/recordings/:id", s.getRecording)
	r.PUT("/recordings/:id/speakers", s.renameSpeaker)
	r.GET("/providers", s.listProviders)
	r.POST("/providers/:id/test", s.testProvider)
	r.GET("/events", s.events)

	return r
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	return s.Router().Run(s.cfg.Listen)
}

type submitRequest struct {
	Path string `json:"path" binding:"required"`
}

func (s *Server) submitRecording(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := os.Stat(req.Path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "audio file not found"})
		return
	}

	// Processing runs in the background; the caller polls or listens on
	// /events for lifecycle signals.
	s.pipe.Submit(req.Path)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "path": req.Path})
}

// startCapture claims the single recorder. The capture device itself lives
// outside this process; a second live session is refused, not queued.
func (s *Server) startCapture(c *gin.Context) {
	if err := s.gate.Begin(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "recording"})
}

// stopCapture releases the recorder and hands the finished file to the
// pipeline.
func (s *Server) stopCapture(c *gin.Context) {
	if !s.gate.Active() {
		c.JSON(http.StatusConflict, gin.H{"error": "no capture session active"})
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.gate.End()
	if _, err := os.Stat(req.Path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "audio file not found"})
		return
	}
	s.pipe.Submit(req.Path)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "path": req.Path})
}

func (s *Server) listRecordings(c *gin.Context) {
	recs, err := s.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (s *Server) getRecording(c *gin.Context) {
	rec, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recording not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

type renameRequest struct {
	Label string `json:"label" binding:"required"`
	Name  string `json:"name" binding:"required"`
}

func (s *Server) renameSpeaker(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.RenameSpeaker(c.Request.Context(), c.Param("id"), req.Label, req.Name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listProviders(c *gin.Context) {
	caps, err := provider.Capabilities()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"registered": provider.IDs(), "capabilities": caps})
}

func (s *Server) testProvider(c *gin.Context) {
	id := c.Param("id")
	pc := s.cfg.ProviderFor(id)
	prov, err := provider.Open(id, provider.Settings{
		BaseURL:        pc.BaseURL,
		APIKey:         pc.APIKey,
		Model:          pc.Model,
		ConnectTimeout: s.cfg.Timeouts.Connect(),
		ReceiveTimeout: s.cfg.Timeouts.Receive(),
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, provider.ErrUnknown) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"success": false, "message": err.Error()})
		return
	}
	ok, msg := prov.TestConnection(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": ok, "message": msg})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) events(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	s.hub.Attach(conn)
}
