package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"example.com/mastermind/internal/game"
	"github.com/gorilla/websocket"
)

const (
	pingInterval = 25 * time.Second
	sendBuffer   = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func newClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{ws: ws, send: make(chan []byte, sendBuffer)}
}

func (c *ClientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		if c.ws != nil {
			_ = c.ws.Close()
		}
	})
}

// handleWS plays a session over WebSocket: GET /ws/{sessionID}, token in the
// Authorization header or ?token=.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	sess, ok := s.lookup(w, r, claims.DisplayName)
	if !ok {
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	cc := newClientConn(ws)
	if err := sess.Attach(claims.DisplayName, cc); err != nil {
		_ = ws.WriteJSON(Envelope{
			Type:    MsgError,
			Payload: mustJSON(ErrorPayload{Code: "forbidden", Message: err.Error()}),
		})
		cc.Close()
		return
	}

	go cc.writeLoop()

	sess.SendState()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			break
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			sess.SendError("bad_json", "invalid json")
			continue
		}
		if env.Type == MsgQuit {
			break
		}
		if err := s.dispatch(r, sess, env); err != nil {
			sess.SendError(errorCode(err), err.Error())
		}
	}

	sess.Detach(cc)
	cc.Close()
}

func (s *Server) dispatch(r *http.Request, sess *Session, env Envelope) error {
	switch env.Type {
	case MsgPickColor:
		var p PickColorPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return errBadPayload
		}
		return sess.PickColor(p.Color)

	case MsgResetGuess:
		sess.ResetGuess()
		return nil

	case MsgConfirmGuess:
		var p ConfirmGuessPayload
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				return errBadPayload
			}
		}
		_, _, err := sess.Confirm(r.Context(), p.Guess)
		return err

	case MsgNewRound:
		sess.NewRound()
		return nil

	default:
		return errUnknownType
	}
}

func (c *ClientConn) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var (
	errBadPayload  = errors.New("invalid payload")
	errUnknownType = errors.New("unknown message type")
)

func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidGuessLength):
		return "invalid_guess_length"
	case errors.Is(err, game.ErrInvalidTransition), errors.Is(err, ErrNotPlaying):
		return "round_finished"
	case errors.Is(err, game.ErrUnknownColor):
		return "unknown_color"
	case errors.Is(err, game.ErrGuessFull):
		return "guess_full"
	case errors.Is(err, errUnknownType):
		return "unknown_type"
	default:
		return "bad_input"
	}
}
