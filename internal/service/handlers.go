package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/annelo/go-kitchen-server/internal/room"
	"github.com/annelo/go-kitchen-server/pkg/protocol"
)

const (
	helloTimeout = 10 * time.Second
	leaveTimeout = 2 * time.Second
)

var errShuttingDown = errors.New("server is shutting down")

// handleWS обслуживает одного игрока: hello, затем поток команд до разрыва
func (s *KitchenService) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("websocket upgrade: %v", err)
		return
	}
	conn := newClientConn(ws, s.logger)
	go conn.writeLoop()
	defer conn.Close()

	ws.SetReadLimit(maxFrameSize)
	_ = ws.SetReadDeadline(time.Now().Add(helloTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	hello, err := s.readHello(ws)
	if err != nil {
		s.reject(conn, err)
		return
	}
	code := r.URL.Query().Get("room")
	if code == "" {
		code = hello.Room
	}
	if s.closing.Load() {
		s.reject(conn, errShuttingDown)
		return
	}
	rm, err := s.rooms.GetOrCreate(code)
	if err != nil {
		s.reject(conn, err)
		return
	}
	res, err := rm.JoinPlayer(r.Context(), conn, hello.Name, hello.ReconnectToken)
	if err != nil {
		s.reject(conn, err)
		return
	}
	playerID := res.PlayerID
	s.logger.Infof("player %s connected to room %s", playerID, rm.Code)

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), leaveTimeout)
		defer cancel()
		_ = rm.Submit(ctx, room.Leave{PlayerID: playerID})
	}()

	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Infof("connection lost for player %s: %v", playerID, err)
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))

		cmd, err := decodeCommand(playerID, data)
		if err != nil {
			s.logger.Debugf("bad frame from %s: %v", playerID, err)
			continue
		}
		if cmd == nil {
			continue
		}
		if err := rm.Submit(r.Context(), cmd); err != nil {
			return
		}
	}
}

func (s *KitchenService) readHello(ws *websocket.Conn) (protocol.Hello, error) {
	_, data, err := ws.ReadMessage()
	if err != nil {
		return protocol.Hello{}, err
	}
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		return protocol.Hello{}, err
	}
	if env.T != protocol.MsgHello {
		return protocol.Hello{}, errors.New("expected hello")
	}
	return protocol.DecodePayload[protocol.Hello](env)
}

func (s *KitchenService) reject(conn *clientConn, reason error) {
	s.logger.Infof("join rejected: %v", reason)
	if b, err := protocol.Encode(protocol.MsgRejected, protocol.Rejected{Reason: reason.Error()}); err == nil {
		_ = conn.SendHigh(b)
	}
}

// decodeCommand превращает кадр клиента в команду комнаты. Неизвестные
// типы возвращают nil без ошибки.
func decodeCommand(playerID string, data []byte) (any, error) {
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		return nil, err
	}
	switch env.T {
	case protocol.MsgMove:
		mv, err := protocol.DecodePayload[protocol.Move](env)
		if err != nil {
			return nil, err
		}
		return room.Move{PlayerID: playerID, Move: mv}, nil
	case protocol.MsgInteract:
		in, err := protocol.DecodePayload[protocol.Interact](env)
		if err != nil {
			return nil, err
		}
		return room.Interact{PlayerID: playerID, ObjectID: in.ObjectID}, nil
	case protocol.MsgMessage:
		msg, err := protocol.DecodePayload[protocol.Message](env)
		if err != nil {
			return nil, err
		}
		return room.Chat{PlayerID: playerID, Text: msg.Text}, nil
	}
	return nil, nil
}
