package protocol

type Welcome struct {
	PlayerID       string `json:"playerId"`
	ReconnectToken string `json:"reconnectToken"`
	Room           string `json:"room"`
	TickHz         int    `json:"tickHz"`
	MapHash        string `json:"mapHash"`
}

type Rejected struct {
	Reason string `json:"reason"`
}

// Notice тело любого уведомления
type Notice struct {
	Message string `json:"message,omitempty"`
}

type Chat struct {
	From string `json:"from"`
	Name string `json:"name"`
	Text string `json:"text"`
}

type GameOver struct {
	FinalScore int `json:"finalScore"`
}

type PlayerState struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Position       Vec3    `json:"position"`
	RotationY      float64 `json:"rotationY"`
	AnimationState string  `json:"animationState"`
	Connected      bool    `json:"connected"`
	HeldIngredient string  `json:"holdedIngredient"`
	HoldingPlate   bool    `json:"holdingPlate"`
}

// StationState времена в миллисекундах
type StationState struct {
	ID                 int      `json:"id"`
	Type               string   `json:"type"`
	Ingredient         string   `json:"ingredient"`
	X                  float64  `json:"x"`
	Z                  float64  `json:"z"`
	IsActive           bool     `json:"isActive"`
	Disabled           bool     `json:"disabled"`
	ProcessingRecipeID string   `json:"processingRecipeId,omitempty"`
	ProcessingTimeLeft int64    `json:"processingTimeLeft"`
	TotalProcessing    int64    `json:"totalProcessingDuration"`
	Board              []string `json:"ingredientsOnBoard"`
	HasDirtyPlate      bool     `json:"hasDirtyPlate"`
}

type OrderState struct {
	ID            string `json:"id"`
	RecipeID      string `json:"recipeId"`
	Completed     bool   `json:"completed"`
	ChairID       int    `json:"chairId"`
	CustomerType  string `json:"customerType"`
	TimeLeft      int64  `json:"timeLeft"`
	TotalDuration int64  `json:"totalDuration"`
}

// State полный снимок комнаты. Станции по десятичному id.
type State struct {
	Tick     uint64                  `json:"tick"`
	Phase    string                  `json:"phase"`
	TimeLeft int64                   `json:"timeLeft"`
	Score    int                     `json:"score"`
	MapHash  string                  `json:"mapHash"`
	Players  map[string]PlayerState  `json:"players"`
	Stations map[string]StationState `json:"stations"`
	Orders   []OrderState            `json:"orders"`
}
