package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// ConsoleSender writes each payload as indented JSON instead of sending it.
type ConsoleSender struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleSender returns a sender that writes to w.
func NewConsoleSender(w io.Writer) *ConsoleSender {
	return &ConsoleSender{w: w}
}

// Send writes payload followed by a newline.
func (s *ConsoleSender) Send(ctx context.Context, payload any) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := encodeJSON(s.w, payload, true); err != nil {
		return nil, fmt.Errorf("writing payload: %w", err)
	}
	return &Result{}, nil
}
