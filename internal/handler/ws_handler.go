package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/events"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/middleware"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/response"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/service"
	ws "github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// monitorBuffer is the per-connection event backlog; a slower monitor
// misses events instead of stalling the coordinator.
const monitorBuffer = 64

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams coordinator events to proctors.
type WSHandler struct {
	hub            *events.Hub
	sessionService *service.SessionService
	adminService   *service.AdminService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *events.Hub, sessionService *service.SessionService, adminService *service.AdminService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:            hub,
		sessionService: sessionService,
		adminService:   adminService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// ProctorMonitor godoc
// WS /ws/v1/proctor/monitor?token=
// Sends a snapshot, then forwards every coordinator event until the proctor
// disconnects.
func (h *WSHandler) ProctorMonitor(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.Wrap(raw)
	defer conn.Close()
	conn.KeepAlive()

	feed, unsubscribe := h.hub.Subscribe(monitorBuffer)
	defer unsubscribe()

	wsLog := h.log.With().Str("proctor", claims.Username).Logger()
	wsLog.Info().Msg("Proctor attached to live monitor")
	defer wsLog.Info().Msg("Proctor detached from live monitor")

	if err := conn.WriteTyped(h.snapshot()); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	go h.readLoop(ctx, cancel, conn, wsLog)

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case e := <-feed:
			if err := conn.WriteTyped(ws.UpdateResponse{Event: ws.EventUpdate, Payload: e}); err != nil {
				wsLog.Debug().Err(err).Msg("Monitor write failed")
				return
			}
		case <-ticker.C:
			if err := conn.Ping(); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) readLoop(ctx context.Context, cancel context.CancelFunc, conn *ws.Conn, wsLog zerolog.Logger) {
	defer cancel()
	for {
		var msg ws.RequestEnvelope
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}
		if ctx.Err() != nil {
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		case ws.ActionSnapshot:
			conn.WriteTyped(h.snapshot())
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			conn.WriteError("unknown action: " + string(msg.Action))
		}
	}
}

func (h *WSHandler) snapshot() ws.SnapshotResponse {
	session, _ := h.sessionService.ActiveSession()
	return ws.SnapshotResponse{
		Event:       ws.EventSnapshot,
		Session:     session,
		Connections: h.adminService.GetActiveConnections(),
		Metrics:     h.adminService.GetServerMetrics(),
	}
}
