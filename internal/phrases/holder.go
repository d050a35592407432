package phrases

import "sync/atomic"

// Holder publishes the current Set. Readers always see either the previous or
// the next complete Set.
type Holder struct {
	current atomic.Pointer[Set]
}

func NewHolder(initial *Set) *Holder {
	h := &Holder{}
	if initial != nil {
		h.current.Store(initial)
	}
	return h
}

// Load returns nil until a Set has been published.
func (h *Holder) Load() *Set {
	return h.current.Load()
}

func (h *Holder) Publish(s *Set) {
	if s == nil {
		return
	}
	h.current.Store(s)
}
