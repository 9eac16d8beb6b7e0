package scans

import "sync"

// Feed fans every scan outcome out to its subscribers.
// A subscriber that does not keep up misses messages instead of blocking the dispatcher.
type Feed struct {
	mu      sync.RWMutex
	subs    map[uint64]chan Outcome
	next    uint64
	bufSize int
}

func NewFeed(bufSize int) *Feed {
	if bufSize <= 0 {
		bufSize = 16
	}
	return &Feed{subs: make(map[uint64]chan Outcome), bufSize: bufSize}
}

// Subscribe returns a channel of outcomes and a func that cancels the subscription
func (f *Feed) Subscribe() (<-chan Outcome, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++
	ch := make(chan Outcome, f.bufSize)
	f.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, id)
			close(ch)
		})
	}
}

func (f *Feed) Publish(o Outcome) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, ch := range f.subs {
		select {
		case ch <- o:
		default:
		}
	}
}
