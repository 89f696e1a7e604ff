package interview

import "interviewassist/internal/models"

const watcherBuffer = 8

// Subscribe returns a channel of session views, sent after every change and
// on each tick. Slow readers miss intermediate views rather than block the
// service. The returned func unsubscribes and closes the channel.
func (s *Service) Subscribe() (<-chan models.SessionView, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextWatcher
	s.nextWatcher++
	ch := make(chan models.SessionView, watcherBuffer)
	s.watchers[id] = ch
	ch <- s.viewLocked()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if w, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(w)
		}
	}
}

func (s *Service) publishLocked() {
	if len(s.watchers) == 0 {
		return
	}
	view := s.viewLocked()
	for _, ch := range s.watchers {
		select {
		case ch <- view:
		default:
		}
	}
}
