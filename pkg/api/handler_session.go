package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guestwise/guestflow/pkg/database"
	"github.com/guestwise/guestflow/pkg/engine"
	"github.com/guestwise/guestflow/pkg/models"
)

// postMessageHandler handles POST /api/v1/sessions/:id/messages.
// It runs one conversational turn and returns the reply with a profile
// summary. When persistence is enabled the resulting snapshot is saved
// before responding; a failed save is logged, not surfaced.
func (s *Server) postMessageHandler(c *gin.Context) {
	sessionID := c.Param("id")

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	prior := []byte(req.PriorState)
	if len(prior) == 0 {
		prior = s.loadSnapshot(c, sessionID)
	}

	res, err := s.engine.ProcessMessage(c.Request.Context(), engine.ProcessInput{
		SessionID:  sessionID,
		PersonID:   req.PersonID,
		CampaignID: req.CampaignID,
		Message:    req.Message,
		PriorState: prior,
	})
	if err != nil {
		status, msg := mapEngineError(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	if s.store != nil {
		saveErr := s.store.Save(c.Request.Context(), database.Record{
			SessionID:            res.SessionID,
			PersonID:             req.PersonID,
			CampaignID:           req.CampaignID,
			State:                res.State,
			CompletionPercentage: res.Summary.CompletionPercentage,
			Completed:            res.Summary.Completed,
		})
		if saveErr != nil {
			slog.Error("Failed to persist session snapshot",
				"session_id", res.SessionID, "error", saveErr)
		}
	}

	c.JSON(http.StatusOK, MessageResponse{
		SessionID: res.SessionID,
		Reply:     res.Reply,
		Summary:   res.Summary,
	})
}

// summaryHandler handles GET /api/v1/sessions/:id/summary.
func (s *Server) summaryHandler(c *gin.Context) {
	sessionID := c.Param("id")

	summary, err := s.engine.SessionSummary(sessionID)
	if errors.Is(err, models.ErrSessionNotFound) {
		if blob := s.loadSnapshot(c, sessionID); blob != nil {
			summary, err = s.engine.GetSummary(blob)
		}
	}
	if err != nil {
		status, msg := mapEngineError(err)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// stateHandler handles GET /api/v1/sessions/:id/state. It returns the
// serialized conversation blob for external storage.
func (s *Server) stateHandler(c *gin.Context) {
	sessionID := c.Param("id")

	conv, err := s.engine.Registry().Get(sessionID)
	if err == nil {
		blob, serErr := conv.Serialize()
		if serErr != nil {
			status, msg := mapEngineError(serErr)
			c.JSON(status, ErrorResponse{Error: msg})
			return
		}
		c.Data(http.StatusOK, "application/json", blob)
		return
	}

	if blob := s.loadSnapshot(c, sessionID); blob != nil {
		c.Data(http.StatusOK, "application/json", blob)
		return
	}

	status, msg := mapEngineError(err)
	c.JSON(status, ErrorResponse{Error: msg})
}

// deleteSessionHandler handles DELETE /api/v1/sessions/:id. It drops
// the live session and its persisted snapshot.
func (s *Server) deleteSessionHandler(c *gin.Context) {
	sessionID := c.Param("id")

	clearErr := s.engine.Registry().Clear(sessionID)

	if s.store != nil {
		if err := s.store.Delete(c.Request.Context(), sessionID); err != nil {
			status, msg := mapEngineError(err)
			c.JSON(status, ErrorResponse{Error: msg})
			return
		}
	} else if clearErr != nil {
		status, msg := mapEngineError(clearErr)
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	c.Status(http.StatusNoContent)
}

// loadSnapshot fetches the persisted blob for a session, or nil when
// persistence is disabled or no snapshot exists.
func (s *Server) loadSnapshot(c *gin.Context, sessionID string) []byte {
	if s.store == nil {
		return nil
	}
	rec, err := s.store.Load(c.Request.Context(), sessionID)
	if err != nil {
		if !errors.Is(err, models.ErrSessionNotFound) {
			slog.Error("Failed to load session snapshot",
				"session_id", sessionID, "error", err)
		}
		return nil
	}
	return rec.State
}
