package room

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	codeChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength = 6
	maxCodeLen = 16
)

var ErrBadCode = errors.New("invalid room code")

// Manager хранит комнаты по коду. Комната удаляется, когда в ней не остается
// игроков (в том числе после конца матча).
type Manager struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	opts   Options
	logger *zap.SugaredLogger
}

func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return &Manager{
		rooms:  make(map[string]*Room),
		opts:   opts,
		logger: opts.Logger,
	}
}

// NormalizeCode приводит код к верхнему регистру и проверяет его
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > maxCodeLen {
		return "", ErrBadCode
	}
	for _, ch := range code {
		if (ch < 'A' || ch > 'Z') && (ch < '0' || ch > '9') {
			return "", ErrBadCode
		}
	}
	return code, nil
}

// GetOrCreate возвращает комнату по коду, создавая ее при необходимости
func (m *Manager) GetOrCreate(code string) (*Room, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[code]; ok {
		return r, nil
	}
	return m.startLocked(code), nil
}

// Create создает комнату со свободным случайным кодом
func (m *Manager) Create() *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		code := generateCode(codeLength)
		if _, exists := m.rooms[code]; exists {
			continue
		}
		return m.startLocked(code)
	}
}

func (m *Manager) startLocked(code string) *Room {
	r := New(code, m.opts)
	r.OnEmpty = m.Remove
	m.rooms[code] = r
	addGauge(metricRoomsActive, 1)
	m.logger.Infof("room %s created", code)
	go r.Run()
	return r
}

func (m *Manager) Get(code string) (*Room, bool) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[code]
	return r, ok
}

// Remove останавливает и удаляет комнату
func (m *Manager) Remove(code string) {
	m.mu.Lock()
	r, ok := m.rooms[code]
	if ok {
		delete(m.rooms, code)
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	r.Stop()
	addGauge(metricRoomsActive, -1)
	m.logger.Infof("room %s removed", code)
}

// List возвращает сводки комнат, отсортированные по коду
func (m *Manager) List() []Info {
	m.mu.RLock()
	out := make([]Info, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r.Info())
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Shutdown отключает игроков во всех комнатах и останавливает их
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	for _, r := range rooms {
		done := make(chan struct{})
		if err := r.Submit(ctx, shutdown{done: done}); err == nil {
			select {
			case <-done:
			case <-r.Done():
			case <-ctx.Done():
			}
		}
		m.Remove(r.Code)
	}
}

func generateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}
