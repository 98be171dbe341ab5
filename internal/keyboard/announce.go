package keyboard

import "sync"

// Announcer delivers messages to assistive technology, typically an
// aria-live region in the rendering layer.
type Announcer interface {
	Announce(message string)
}

// AnnouncerFunc adapts a func to Announcer.
type AnnouncerFunc func(string)

func (f AnnouncerFunc) Announce(message string) { f(message) }

// Recorder keeps every announcement in order.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Announce(message string) {
	r.mu.Lock()
	r.messages = append(r.messages, message)
	r.mu.Unlock()
}

func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Last returns the newest message, or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}

type discard struct{}

func (discard) Announce(string) {}
