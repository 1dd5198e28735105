package handlers

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"myflix/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Origins are already enforced by the CORS layer in front of the router.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// favoritesStream godoc
// @Summary      Stream a user's favorites
// @Description  WebSocket. Sends {"type":"favorites","data":[...]} on connect and whenever the list changes.
// @Tags         users
// @Param        username     path   string  true   "Username"
// @Param        interval     query  string  false  "Poll interval, e.g. 2s (max 10s)"
// @Param        interval_ms  query  int     false  "Poll interval in milliseconds"
// @Router       /users/{username}/movies/ws [get]
// @Security     BearerAuth
func (h *Handler) favoritesStream(c *gin.Context) {
	username := c.Param("username")
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	last, err := h.sendFavorites(ctx, conn, username, nil)
	if err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "username", username, "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if last, err = h.sendFavorites(ctx, conn, username, last); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "username", username, "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return defaultInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendFavorites writes the current list when it differs from last (always
// on the first call, when last is nil) and returns the list now on the wire.
// A vanished user gets an error frame and ends the stream.
func (h *Handler) sendFavorites(ctx context.Context, conn *websocket.Conn, username string, last []string) ([]string, error) {
	u, err := h.services.Users.Get(ctx, username)
	if err != nil {
		if h.log != nil && !errors.Is(err, service.ErrNotFound) {
			h.log.Errorw("ws_get_user_failed", "username", username, "err", err)
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(wsEnvelope{Type: "error", Error: err.Error()})
		return last, err
	}

	current := u.FavoriteMovies
	if current == nil {
		current = []string{}
	}
	if last != nil && slices.Equal(last, current) {
		return last, nil
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(wsEnvelope{Type: "favorites", Data: current}); err != nil {
		return last, err
	}
	return current, nil
}
