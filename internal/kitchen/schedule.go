package kitchen

import (
	"sort"
	"time"
)

type scheduled struct {
	dueAt  time.Time
	seq    uint64
	action func()
}

// Schedule отложенные действия, проверяемые каждый тик по времени симуляции
type Schedule struct {
	clock   *Clock
	entries []scheduled
	seq     uint64
}

func NewSchedule(clock *Clock) *Schedule {
	return &Schedule{clock: clock}
}

// After планирует action через d времени симуляции
func (s *Schedule) After(d time.Duration, action func()) {
	s.seq++
	s.entries = append(s.entries, scheduled{dueAt: s.clock.Now().Add(d), seq: s.seq, action: action})
}

// RunDue выполняет наступившие действия в порядке срока и возвращает их число.
// Действия, запланированные во время выполнения, ждут следующего вызова.
func (s *Schedule) RunDue() int {
	now := s.clock.Now()
	var due []scheduled
	rest := s.entries[:0]
	for _, e := range s.entries {
		if e.dueAt.After(now) {
			rest = append(rest, e)
		} else {
			due = append(due, e)
		}
	}
	s.entries = rest
	sort.Slice(due, func(i, j int) bool {
		if due[i].dueAt.Equal(due[j].dueAt) {
			return due[i].seq < due[j].seq
		}
		return due[i].dueAt.Before(due[j].dueAt)
	})
	for _, e := range due {
		e.action()
	}
	return len(due)
}

// Len число ожидающих действий
func (s *Schedule) Len() int {
	return len(s.entries)
}
