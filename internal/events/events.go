// Package events публикует события матча во внешнюю шину.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Темы событий в шине
const (
	SubjectOrderCreated   = "kitchen.order.created"
	SubjectOrderCompleted = "kitchen.order.completed"
	SubjectOrderExpired   = "kitchen.order.expired"
	SubjectMatchStarted   = "kitchen.match.started"
	SubjectMatchFinished  = "kitchen.match.finished"
)

// Event тело любого события матча
type Event struct {
	Subject  string    `json:"-"`
	Room     string    `json:"room"`
	OrderID  string    `json:"orderId,omitempty"`
	RecipeID string    `json:"recipeId,omitempty"`
	ChairID  int       `json:"chairId,omitempty"`
	Score    int       `json:"score"`
	Delta    int       `json:"delta,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher отправляет сырые сообщения в тему
type Publisher interface {
	Publish(ctx context.Context, topic string, msg []byte) error
	Close() error
}

// Sink принимает события, не блокируя вызывающего
type Sink interface {
	Emit(e Event)
}

// Discard выбрасывает все события
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(Event) {}

// Emitter сериализует события и отдает их Publisher из своей горутины.
// Emit никогда не блокирует: при полном буфере событие теряется.
type Emitter struct {
	pub    Publisher
	logger *zap.SugaredLogger
	queue  chan Event
	done   chan struct{}
	once   sync.Once

	mu     sync.RWMutex
	closed bool
}

// NewEmitter запускает горутину публикации
func NewEmitter(pub Publisher, logger *zap.SugaredLogger, buffer int) *Emitter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if buffer <= 0 {
		buffer = 256
	}
	e := &Emitter{
		pub:    pub,
		logger: logger,
		queue:  make(chan Event, buffer),
		done:   make(chan struct{}),
	}
	go e.run()
	return e
}

// Emit ставит событие в очередь. После Close события молча теряются.
func (e *Emitter) Emit(ev Event) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return
	}
	select {
	case e.queue <- ev:
	default:
		e.logger.Warnf("event queue full, dropping %s", ev.Subject)
	}
}

func (e *Emitter) run() {
	defer close(e.done)
	for ev := range e.queue {
		b, err := json.Marshal(ev)
		if err != nil {
			e.logger.Errorf("marshal event %s: %v", ev.Subject, err)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := e.pub.Publish(ctx, ev.Subject, b); err != nil {
			e.logger.Warnf("publish %s: %v", ev.Subject, err)
		}
		cancel()
	}
}

// Close дописывает очередь и закрывает Publisher. Повторный вызов безопасен.
func (e *Emitter) Close() error {
	var err error
	e.once.Do(func() {
		e.mu.Lock()
		e.closed = true
		close(e.queue)
		e.mu.Unlock()
		<-e.done
		err = e.pub.Close()
	})
	return err
}
