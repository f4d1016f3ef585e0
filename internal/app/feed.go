package app

import (
	"sync"
	"time"

	"quizhub/internal/domain"
)

// ResultEvent is what the live feed carries: one finished play-through.
type ResultEvent struct {
	ResultID  string            `json:"resultId"`
	QuizID    string            `json:"quizId"`
	User      domain.PublicUser `json:"user"`
	Score     int               `json:"score"`
	Total     int               `json:"total"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ResultFeed fans new results out to per-quiz subscribers. Subscribers get a
// buffered channel; a slow subscriber has its oldest pending event dropped
// rather than blocking the publisher.
type ResultFeed struct {
	mu   sync.RWMutex
	subs map[string]map[chan ResultEvent]struct{}
}

func NewResultFeed() *ResultFeed {
	return &ResultFeed{subs: make(map[string]map[chan ResultEvent]struct{})}
}

// Subscribe registers a listener for one quiz's results. The caller must
// invoke the returned cancel function to avoid leaks.
func (f *ResultFeed) Subscribe(quizID string) (<-chan ResultEvent, func()) {
	ch := make(chan ResultEvent, 8)

	f.mu.Lock()
	if f.subs[quizID] == nil {
		f.subs[quizID] = make(map[chan ResultEvent]struct{})
	}
	f.subs[quizID][ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if set, ok := f.subs[quizID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(f.subs, quizID)
			}
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber of its quiz. It never
// blocks: when a subscriber's buffer is full the oldest pending event is
// dropped, and if another publisher refills the buffer in between, this
// event is dropped instead.
func (f *ResultFeed) Publish(ev ResultEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for ch := range f.subs[ev.QuizID] {
		select {
		case ch <- ev:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- ev:
		default:
		}
	}
}
