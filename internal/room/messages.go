package room

import (
	"errors"

	"github.com/annelo/go-kitchen-server/pkg/protocol"
)

var (
	ErrRoomLocked  = errors.New("room is locked")
	ErrRoomFull    = errors.New("room is full")
	ErrTokenInUse  = errors.New("reconnect token is in use")
	ErrRoomStopped = errors.New("room stopped")
)

// Conn соединение клиента. SendHigh для уведомлений, Send для снапшотов.
type Conn interface {
	Send([]byte) error
	SendHigh([]byte) error
	Close() error
}

// Join отправляется один раз после разбора hello
type Join struct {
	Conn           Conn
	Name           string
	ReconnectToken string
	Reply          chan<- JoinResult
}

type JoinResult struct {
	PlayerID       string
	ReconnectToken string
	Reconnected    bool
	Err            error
}

type Move struct {
	PlayerID string
	Move     protocol.Move
}

type Interact struct {
	PlayerID string
	ObjectID int
}

type Chat struct {
	PlayerID string
	Text     string
}

// Leave отправляется при разрыве соединения
type Leave struct {
	PlayerID string
}

// shutdown отключает всех и останавливает комнату
type shutdown struct {
	done chan struct{}
}
