package syncserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Giantpizzahead/life-coach-x/internal/engine"
	"github.com/Giantpizzahead/life-coach-x/internal/gateway"
)

func respond(c *gin.Context, code int, data any) {
	c.JSON(code, APIResponse{Success: true, Data: data})
}

func fail(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, APIResponse{Success: false, Error: err.Error()})
}

// statusFor maps tracker errors to HTTP status codes.
func statusFor(err error) int {
	var notOffered engine.TierNotOfferedError
	switch {
	case errors.Is(err, engine.ErrUnknownTask):
		return http.StatusNotFound
	case errors.As(err, &notOffered):
		return http.StatusUnprocessableEntity
	case errors.Is(err, gateway.ErrCorruptSnapshot):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) handleHealth(c *gin.Context) {
	respond(c, http.StatusOK, HealthResponse{
		Status:    "ok",
		Profile:   s.svc.Profile(),
		Backend:   gateway.BackendName(s.svc.Gateway()),
		Timestamp: time.Now(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleCatalog(c *gin.Context) {
	respond(c, http.StatusOK, s.svc.Catalog())
}

func (s *Server) handleStatus(c *gin.Context) {
	st, err := s.svc.Status(c.Request.Context())
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	respond(c, http.StatusOK, newStatusResponse(st))
}

func (s *Server) handleGetSnapshot(c *gin.Context) {
	snap, err := s.svc.Open(c.Request.Context())
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	respond(c, http.StatusOK, gateway.ToDocument(snap, time.Now()))
}

func (s *Server) handlePutSnapshot(c *gin.Context) {
	var doc gateway.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	snap, err := doc.Snapshot()
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	out, err := s.svc.Replace(c.Request.Context(), snap)
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	respond(c, http.StatusOK, gateway.ToDocument(out, time.Now()))
}

func (s *Server) handleHistory(c *gin.Context) {
	history, err := s.svc.History(c.Request.Context())
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	doc := gateway.ToDocument(&engine.Snapshot{PointsHistory: history}, time.Now())
	respond(c, http.StatusOK, doc.PointsHistory)
}

func (s *Server) handleSelection(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	tier, err := engine.ParseTier(req.Tier)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	snap, err := s.svc.Select(c.Request.Context(), req.TaskID, tier)
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	respond(c, http.StatusOK, gateway.ToDocument(snap, time.Now()))
}

func (s *Server) handleAdjustment(c *gin.Context) {
	var req AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	snap, err := s.svc.Adjust(c.Request.Context(), req.Delta)
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	respond(c, http.StatusOK, gateway.ToDocument(snap, time.Now()))
}

func (s *Server) handleRollover(c *gin.Context) {
	snap, n, err := s.svc.Rollover(c.Request.Context())
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	respond(c, http.StatusOK, RolloverResponse{DaysClosed: n, Snapshot: gateway.ToDocument(snap, time.Now())})
}

func (s *Server) handleStream(c *gin.Context) {
	snap, err := s.svc.Open(c.Request.Context())
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	s.hub.serve(conn, snapshotMessage(snap))
}
