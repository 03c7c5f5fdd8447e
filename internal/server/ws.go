package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/theirongolddev/fincoach/internal/model"
)

const wsReadTimeout = 60 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     sameOrigin,
}

// sameOrigin accepts clients without an Origin header and browsers on the
// serving host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

type wsError struct {
	Error string `json:"error"`
}

// handleWebSocket runs a chat over one connection. Each {message} frame gets
// one reply frame; errors are sent back and the connection stays open.
func (s *Service) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sess := current(c)
	s.log.Debug("websocket connected", zap.String("session", sess.ID), zap.String("remote", c.Request.RemoteAddr))

	for {
		if err := conn.SetReadDeadline(time.Now().Add(wsReadTimeout)); err != nil {
			return
		}
		var msg chatBody
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read failed", zap.String("session", sess.ID), zap.Error(err))
			}
			return
		}

		reply, err := sess.Ask(c.Request.Context(), strings.TrimSpace(msg.Message))
		if err != nil {
			if werr := conn.WriteJSON(wsError{Error: err.Error()}); werr != nil {
				return
			}
			continue
		}
		s.publishEvent("chat", sess.ID)
		out := chatReply{
			Role:     model.RoleAssistant,
			Text:     reply.Text,
			Source:   string(reply.Source),
			Degraded: reply.Degraded,
		}
		if err := conn.WriteJSON(out); err != nil {
			return
		}
	}
}
