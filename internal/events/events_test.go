package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	bodies [][]byte
	fail   bool
	closed bool
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, msg []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("bus down")
	}
	r.topics = append(r.topics, topic)
	r.bodies = append(r.bodies, msg)
	return nil
}

func (r *recordingPublisher) Close() error {
	r.closed = true
	return nil
}

func TestEmitter_PublishesInOrderAndFlushesOnClose(t *testing.T) {
	pub := &recordingPublisher{}
	em := NewEmitter(pub, nil, 8)

	em.Emit(Event{Subject: SubjectOrderCreated, Room: "ABC123", OrderID: "o1"})
	em.Emit(Event{Subject: SubjectOrderCompleted, Room: "ABC123", OrderID: "o1", Score: 100, Delta: 100})
	require.NoError(t, em.Close())

	assert.True(t, pub.closed)
	assert.Equal(t, []string{SubjectOrderCreated, SubjectOrderCompleted}, pub.topics)

	var ev Event
	require.NoError(t, json.Unmarshal(pub.bodies[1], &ev))
	assert.Equal(t, "o1", ev.OrderID)
	assert.Equal(t, 100, ev.Delta)
	assert.Empty(t, ev.Subject, "subject travels as the topic, not in the body")
}

func TestEmitter_PublishErrorDoesNotStopQueue(t *testing.T) {
	pub := &recordingPublisher{fail: true}
	em := NewEmitter(pub, nil, 4)
	em.Emit(Event{Subject: SubjectOrderExpired})
	em.Emit(Event{Subject: SubjectOrderExpired})
	require.NoError(t, em.Close())
	assert.Empty(t, pub.topics)

	// Close is idempotent.
	assert.NoError(t, em.Close())
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard.Emit(Event{Subject: SubjectMatchFinished}) })
}

func TestEmitter_EmitAfterCloseIsDropped(t *testing.T) {
	pub := &recordingPublisher{}
	em := NewEmitter(pub, nil, 4)
	em.Emit(Event{Subject: SubjectMatchStarted})
	require.NoError(t, em.Close())

	assert.NotPanics(t, func() { em.Emit(Event{Subject: SubjectMatchFinished}) })
	assert.Equal(t, []string{SubjectMatchStarted}, pub.topics)
}

func TestEmitter_ConcurrentEmitAndClose(t *testing.T) {
	em := NewEmitter(&recordingPublisher{}, nil, 16)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				em.Emit(Event{Subject: SubjectOrderCreated})
			}
		}()
	}
	require.NoError(t, em.Close())
	wg.Wait()
}
