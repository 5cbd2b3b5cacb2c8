package playermanager

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/annelo/go-kitchen-server/internal/catalog"
)

var (
	ErrPlayerExists   = errors.New("player already exists")
	ErrPlayerNotFound = errors.New("player not found")
)

// Vec3 позиция игрока в мировых координатах
type Vec3 struct {
	X, Y, Z float64
}

// Player содержит информацию об игроке на кухне
type Player struct {
	ID             string
	Name           string
	ReconnectToken string

	Position       Vec3
	RotationY      float64
	AnimationState string

	Connected      bool
	DisconnectedAt time.Time

	// В руках не больше одного ингредиента; тарелка держится отдельно
	HeldIngredient catalog.Ingredient
	HoldingPlate   bool
}

// EmptyHanded сообщает, что у игрока ничего нет в руках
func (p *Player) EmptyHanded() bool {
	return p.HeldIngredient == catalog.None && !p.HoldingPlate
}

// HoldsIngredient сообщает, держит ли игрок ингредиент (без учета тарелки)
func (p *Player) HoldsIngredient() bool {
	return p.HeldIngredient != catalog.None
}

// TakeIngredient забирает ингредиент из рук игрока
func (p *Player) TakeIngredient() catalog.Ingredient {
	ing := p.HeldIngredient
	p.HeldIngredient = catalog.None
	return ing
}

// ClearHands освобождает обе руки
func (p *Player) ClearHands() {
	p.HeldIngredient = catalog.None
	p.HoldingPlate = false
}

// HandsValid проверяет инвариант: нефинальный ингредиент никогда не лежит на тарелке
func (p *Player) HandsValid(reg *catalog.Registry) bool {
	if p.HeldIngredient == catalog.None || !p.HoldingPlate {
		return true
	}
	def, ok := reg.Item(p.HeldIngredient)
	return ok && def.IsFinal
}

// PlayerManager управляет данными игроков комнаты
type PlayerManager struct {
	players map[string]*Player
	mu      sync.RWMutex
}

// NewPlayerManager создает новый экземпляр менеджера игроков
func NewPlayerManager() *PlayerManager {
	return &PlayerManager{
		players: make(map[string]*Player),
	}
}

// AddPlayer добавляет нового игрока в менеджер
func (pm *PlayerManager) AddPlayer(id, name, token string) (*Player, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if _, exists := pm.players[id]; exists {
		return nil, ErrPlayerExists
	}

	player := &Player{
		ID:             id,
		Name:           name,
		ReconnectToken: token,
		Connected:      true,
		AnimationState: "idle",
	}
	pm.players[id] = player
	return player, nil
}

// GetPlayer возвращает данные игрока по ID
func (pm *PlayerManager) GetPlayer(id string) (*Player, error) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	player, exists := pm.players[id]
	if !exists {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

// FindByToken ищет игрока по токену переподключения
func (pm *PlayerManager) FindByToken(token string) (*Player, error) {
	if token == "" {
		return nil, ErrPlayerNotFound
	}
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	for _, p := range pm.players {
		if p.ReconnectToken == token {
			return p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

// UpdatePlayerTransform обновляет позицию, поворот и анимацию игрока
func (pm *PlayerManager) UpdatePlayerTransform(id string, pos Vec3, rotY float64, anim string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	player, exists := pm.players[id]
	if !exists {
		return ErrPlayerNotFound
	}
	player.Position = pos
	player.RotationY = rotY
	if anim != "" {
		player.AnimationState = anim
	}
	return nil
}

// SetConnected отмечает подключение или отключение игрока
func (pm *PlayerManager) SetConnected(id string, connected bool, at time.Time) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	player, exists := pm.players[id]
	if !exists {
		return ErrPlayerNotFound
	}
	player.Connected = connected
	if connected {
		player.DisconnectedAt = time.Time{}
	} else {
		player.DisconnectedAt = at
	}
	return nil
}

// RemovePlayer удаляет игрока из менеджера
func (pm *PlayerManager) RemovePlayer(id string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if _, exists := pm.players[id]; !exists {
		return ErrPlayerNotFound
	}
	delete(pm.players, id)
	return nil
}

// GetAllPlayers возвращает список всех игроков, отсортированный по ID
func (pm *PlayerManager) GetAllPlayers() []*Player {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	players := make([]*Player, 0, len(pm.players))
	for _, player := range pm.players {
		players = append(players, player)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players
}

// Count возвращает число игроков, включая ожидающих переподключения
func (pm *PlayerManager) Count() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.players)
}

// ConnectedCount возвращает число подключенных игроков
func (pm *PlayerManager) ConnectedCount() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	n := 0
	for _, p := range pm.players {
		if p.Connected {
			n++
		}
	}
	return n
}
