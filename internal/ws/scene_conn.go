package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"careerxr/internal/session"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// sceneConn pumps one websocket against one scene session. Closing either
// side ends both.
type sceneConn struct {
	conn     *websocket.Conn
	sess     *session.Session
	sessions *session.Manager
	limiter  *rate.Limiter
	logger   *log.Logger

	out    chan ServerMessage
	ctx    context.Context
	cancel context.CancelFunc
}

func newSceneConn(conn *websocket.Conn, sess *session.Session, sessions *session.Manager, limiter *rate.Limiter, logger *log.Logger) *sceneConn {
	ctx, cancel := context.WithCancel(context.Background())
	return &sceneConn{
		conn:     conn,
		sess:     sess,
		sessions: sessions,
		limiter:  limiter,
		logger:   logger,
		out:      make(chan ServerMessage, 16),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (c *sceneConn) start() {
	go c.sess.Run(c.ctx)
	go c.writePump()
	go c.readPump()
}

func (c *sceneConn) readPump() {
	defer func() {
		c.cancel()
		c.sessions.Detach(c.sess)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.sess.KeepAlive()
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var dropped int
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && c.logger != nil {
				c.logger.Printf("WS scene read error | session=%s error=%v", c.sess.ID, err)
			}
			return
		}

		if c.limiter != nil && !c.limiter.Allow() {
			dropped++
			if dropped == 1 || dropped%100 == 0 {
				c.reply(ServerMessage{Type: MsgError, Message: "rate_limited"})
			}
			continue
		}

		in, err := DecodeInput(raw)
		if err != nil {
			c.reply(ServerMessage{Type: MsgError, Message: err.Error()})
			continue
		}
		if !c.sess.Send(in) {
			c.reply(ServerMessage{Type: MsgError, Message: "input_queue_full"})
		}
	}
}

func (c *sceneConn) reply(m ServerMessage) {
	select {
	case c.out <- m:
	default:
	}
}

func (c *sceneConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	if err := c.write(ServerMessage{Type: MsgReady, Data: readyData{SessionID: c.sess.ID.String(), Layout: c.sess.Layout}}); err != nil {
		return
	}

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.sess.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
			return
		case snap := <-c.sess.Snapshots():
			if err := c.write(ServerMessage{Type: MsgSnapshot, Data: snap}); err != nil {
				return
			}
		case m := <-c.out:
			if err := c.write(m); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *sceneConn) write(m ServerMessage) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		if !errors.Is(err, websocket.ErrCloseSent) && c.logger != nil {
			c.logger.Printf("WS scene write error | session=%s error=%v", c.sess.ID, err)
		}
		return err
	}
	return nil
}
