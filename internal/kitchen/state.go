// Package kitchen содержит авторитетную симуляцию кухни: состояние матча,
// рецепты, взаимодействие со станциями, заказы и таймер матча.
package kitchen

import (
	"sort"
	"time"

	"github.com/annelo/go-kitchen-server/internal/playermanager"
	"github.com/annelo/go-kitchen-server/internal/station"
)

// Phase фаза матча
type Phase int

const (
	PhaseWaiting Phase = iota
	PhasePlaying
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// Order активный заказ клиента, привязанный к одному месту
type Order struct {
	ID            string
	RecipeID      string
	Completed     bool
	CreatedAt     time.Time
	Deadline      time.Time
	ChairID       int
	CustomerType  string
	TimeLeft      time.Duration
	TotalDuration time.Duration
}

// State реплицируемое дерево состояния комнаты. Изменяется только на месте.
type State struct {
	Players  *playermanager.PlayerManager
	Stations map[string]*station.Station
	Orders   []*Order
	TimeLeft time.Duration
	Score    int
	MapHash  string
	Phase    Phase
}

// NewState создает состояние из станций карты
func NewState(stations []*station.Station, mapHash string, matchDuration time.Duration) *State {
	s := &State{
		Players:  playermanager.NewPlayerManager(),
		Stations: make(map[string]*station.Station, len(stations)),
		Orders:   make([]*Order, 0, 8),
		TimeLeft: matchDuration,
		MapHash:  mapHash,
		Phase:    PhaseWaiting,
	}
	for _, st := range stations {
		s.Stations[st.Key()] = st
	}
	return s
}

// Station возвращает станцию по числовому id
func (s *State) Station(id int) (*station.Station, bool) {
	st, ok := s.Stations[station.Key(id)]
	return st, ok
}

// SortedStations возвращает станции в порядке возрастания id
func (s *State) SortedStations() []*station.Station {
	out := make([]*station.Station, 0, len(s.Stations))
	for _, st := range s.Stations {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// OrderAt возвращает незавершенный заказ на месте chairID
func (s *State) OrderAt(chairID int) *Order {
	for _, o := range s.Orders {
		if o.ChairID == chairID && !o.Completed {
			return o
		}
	}
	return nil
}

// ActiveOrders считает незавершенные заказы
func (s *State) ActiveOrders() int {
	n := 0
	for _, o := range s.Orders {
		if !o.Completed {
			n++
		}
	}
	return n
}

// Clock симуляционное время. Идет вперед только вместе с тиками комнаты.
type Clock struct {
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time { return c.now }

// Advance сдвигает время на dt
func (c *Clock) Advance(dt time.Duration) {
	if dt > 0 {
		c.now = c.now.Add(dt)
	}
}
