package providers

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// ConsoleSender writes announcements to a writer instead of delivering them
type ConsoleSender struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleSender creates a console sender writing to w
func NewConsoleSender(w io.Writer) *ConsoleSender {
	return &ConsoleSender{w: w}
}

func (c *ConsoleSender) Name() string { return "console" }

// Send writes text followed by a blank line
func (c *ConsoleSender) Send(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.w, "%s\n\n", text)
	return err
}
