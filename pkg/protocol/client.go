package protocol

// Hello вход в комнату. Непустой ReconnectToken возвращает игрока, который
// отключился в пределах отсрочки.
type Hello struct {
	Name           string `json:"name,omitempty"`
	Room           string `json:"room,omitempty"`
	ReconnectToken string `json:"reconnectToken,omitempty"`
}

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Rotation struct {
	Y float64 `json:"y"`
}

type Move struct {
	Position       Vec3     `json:"position"`
	Rotation       Rotation `json:"rotation"`
	AnimationState string   `json:"animationState"`
}

type Interact struct {
	ObjectID int `json:"objectId"`
}

// Message входящий текст чата
type Message struct {
	Text string `json:"text"`
}
