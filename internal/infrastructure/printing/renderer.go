package printing

import (
	"context"
	"errors"
	"fmt"
)

// ErrRendererDisabled is returned when PDF rendering is switched off
var ErrRendererDisabled = errors.New("printing: pdf rendering is disabled")

// Renderer converts a complete HTML document to PDF bytes
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
	Close() error
}

// RenderError describes a failed render
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("printing: %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// DisabledRenderer fails every render with ErrRendererDisabled
type DisabledRenderer struct{}

func (DisabledRenderer) Render(context.Context, string) ([]byte, error) {
	return nil, ErrRendererDisabled
}

func (DisabledRenderer) Close() error { return nil }
