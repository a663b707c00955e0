// Package share delivers share text to wherever the user can pick it up.
package share

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/atotto/clipboard"
)

// Sharer hands text to a share target.
type Sharer interface {
	Share(ctx context.Context, text string) error
}

// Clipboard copies text to the system clipboard.
type Clipboard struct {
	// write is swapped in tests; nil means the system clipboard.
	write func(string) error
}

// Share implements Sharer.
func (c Clipboard) Share(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clipboard.Unsupported && c.write == nil {
		return errors.New("clipboard unsupported on this system")
	}
	write := c.write
	if write == nil {
		write = clipboard.WriteAll
	}
	if err := write(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// Writer prints each shared text on its own line.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Share implements Sharer.
func (w *Writer) Share(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintln(w.w, text)
	return err
}

// Multi fans text out to every sharer and joins their errors.
type Multi []Sharer

// Share implements Sharer.
func (m Multi) Share(ctx context.Context, text string) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Share(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
