package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/HerbHall/testerhub/internal/metrics"
	"github.com/HerbHall/testerhub/pkg/models"
)

const (
	defaultLiveIdle    = 5 * time.Minute
	liveMaxMessageSize = 16 << 10
	liveWriteTimeout   = 10 * time.Second
)

// LiveResponse is sent for every criteria message on the live channel.
// Error is set, and Tools empty, when the criteria were rejected.
type LiveResponse struct {
	Count int           `json:"count"`
	Tools []models.Tool `json:"tools"`
	Error string        `json:"error,omitempty"`
}

// handleLive upgrades to a WebSocket that re-runs the filter for every
// criteria message the client sends. The full catalog is sent on connect.
// Messages are handled in order, so the last response always reflects the
// last criteria sent.
//
//	@Summary		Live filtering
//	@Description	WebSocket. Send Criteria JSON messages, receive a LiveResponse for each.
//	@Tags			catalog
//	@Success		101
//	@Router			/catalog/live [get]
func (h *Handler) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Debug("live upgrade failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(liveMaxMessageSize)

	h.metrics.AddLiveConnections(1)
	defer h.metrics.AddLiveConnections(-1)

	ctx := r.Context()
	if err := h.sendResults(ctx, conn, DefaultCriteria()); err != nil {
		return
	}

	for {
		c, err := h.readCriteria(ctx, conn)
		if err != nil {
			var invalid *invalidCriteriaError
			if errors.As(err, &invalid) {
				if err := h.write(ctx, conn, LiveResponse{Tools: []models.Tool{}, Error: invalid.Error()}); err != nil {
					return
				}
				continue
			}
			h.closeLive(conn, err)
			return
		}
		if err := h.sendResults(ctx, conn, c); err != nil {
			return
		}
	}
}

type invalidCriteriaError struct{ err error }

func (e *invalidCriteriaError) Error() string { return e.err.Error() }

func (h *Handler) readCriteria(ctx context.Context, conn *websocket.Conn) (Criteria, error) {
	readCtx, cancel := context.WithTimeout(ctx, h.liveIdle)
	defer cancel()

	typ, data, err := conn.Read(readCtx)
	if err != nil {
		return Criteria{}, err
	}
	if typ != websocket.MessageText {
		return Criteria{}, &invalidCriteriaError{err: errors.New("criteria must be sent as text messages")}
	}
	var c Criteria
	if err := json.Unmarshal(data, &c); err != nil {
		return Criteria{}, &invalidCriteriaError{err: err}
	}
	return c, nil
}

func (h *Handler) sendResults(ctx context.Context, conn *websocket.Conn, c Criteria) error {
	tools, err := h.engine.Filter(c)
	if err != nil {
		h.logger.Error("live filter failed", zap.Error(err))
		conn.Close(websocket.StatusInternalError, "failed to load catalog")
		return err
	}
	h.metrics.ObserveFilter(metrics.SurfaceLive, len(tools))
	return h.write(ctx, conn, LiveResponse{Count: len(tools), Tools: tools})
}

func (h *Handler) write(ctx context.Context, conn *websocket.Conn, resp LiveResponse) error {
	writeCtx, cancel := context.WithTimeout(ctx, liveWriteTimeout)
	defer cancel()
	if err := wsjson.Write(writeCtx, conn, resp); err != nil {
		h.logger.Debug("live write failed", zap.Error(err))
		return err
	}
	return nil
}

func (h *Handler) closeLive(conn *websocket.Conn, err error) {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		conn.Close(websocket.StatusPolicyViolation, "idle timeout")
		return
	}
	h.logger.Debug("live connection closed", zap.Error(err))
}
