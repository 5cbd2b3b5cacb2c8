// Package protocol JSON формат обмена между клиентами кухни и сервером.
// Каждый кадр это Envelope, T которого называет сообщение.
package protocol

import "encoding/json"

// Клиент -> сервер
const (
	MsgHello    = "hello"
	MsgMove     = "move"
	MsgInteract = "interact"
	MsgMessage  = "message"
)

// Сервер -> клиент. Уведомления используют имя уведомления как T и несут Notice.
const (
	MsgWelcome  = "welcome"
	MsgRejected = "rejected"
	MsgState    = "state"
	MsgChat     = "chat"
	MsgGameOver = "gameOver"
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}
