package event

import (
	"sort"
	"sync"

	"github.com/hyperflow/backend/internal/domain/shared"
)

type subscription struct {
	handler shared.EventHandler
	types   map[string]struct{} // nil matches every event
}

func (s subscription) matches(eventType string) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// subscriptions keeps handlers in the order they subscribed, so delivery
// order is stable. A handler appears at most once.
type subscriptions struct {
	mu   sync.RWMutex
	subs []subscription
}

// add subscribes handler to eventTypes. Subscribing again widens the set;
// an empty list turns the handler into a catch-all.
func (s *subscriptions) add(handler shared.EventHandler, eventTypes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(handler)
	if idx < 0 {
		s.subs = append(s.subs, subscription{handler: handler, types: map[string]struct{}{}})
		idx = len(s.subs) - 1
	}
	sub := &s.subs[idx]
	if len(eventTypes) == 0 {
		sub.types = nil
		return
	}
	if sub.types == nil {
		return
	}
	for _, t := range eventTypes {
		sub.types[t] = struct{}{}
	}
}

func (s *subscriptions) remove(handler shared.EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(handler); idx >= 0 {
		s.subs = append(s.subs[:idx], s.subs[idx+1:]...)
	}
}

// matching returns a snapshot, so handlers may subscribe while an event is delivered
func (s *subscriptions) matching(eventType string) []shared.EventHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []shared.EventHandler
	for _, sub := range s.subs {
		if sub.matches(eventType) {
			out = append(out, sub.handler)
		}
	}
	return out
}

func (s *subscriptions) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// eventTypes lists the explicitly subscribed types, sorted
func (s *subscriptions) eventTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]struct{}{}
	for _, sub := range s.subs {
		for t := range sub.types {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (s *subscriptions) indexOf(handler shared.EventHandler) int {
	for i, sub := range s.subs {
		if sub.handler == handler {
			return i
		}
	}
	return -1
}
