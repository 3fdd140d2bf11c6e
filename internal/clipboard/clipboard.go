// Package clipboard copies generated passwords out of the terminal.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// ResetAfter is how long the copied indicator stays on.
const ResetAfter = 2 * time.Second

// ErrNothingToCopy is returned for empty text.
var ErrNothingToCopy = errors.New("nothing to copy")

// Method names the mechanism that performed a copy.
type Method string

const (
	MethodSystem Method = "system"
	MethodOSC52  Method = "osc52"
)

// WriteFunc writes text to a clipboard.
type WriteFunc func(text string) error

// SystemClipboard writes through the OS clipboard utilities.
func SystemClipboard(text string) error {
	return clipboard.WriteAll(text)
}

// OSC52 returns a WriteFunc that emits an OSC 52 escape sequence to w, which
// terminals that support it turn into a clipboard write.
func OSC52(w io.Writer) WriteFunc {
	return func(text string) error {
		_, err := osc52.New(text).WriteTo(w)
		return err
	}
}

// Copier tries the primary writer first and the fallback second. Callers
// show a copied indicator for ResetAfter after a successful Copy.
type Copier struct {
	primary  WriteFunc
	fallback WriteFunc
	logger   *slog.Logger
}

// New creates a Copier. fallback may be nil.
func New(primary, fallback WriteFunc, logger *slog.Logger) *Copier {
	return &Copier{primary: primary, fallback: fallback, logger: logger}
}

// Copy places text on the clipboard and reports which mechanism worked.
func (c *Copier) Copy(text string) (Method, error) {
	if text == "" {
		return "", ErrNothingToCopy
	}

	method := MethodSystem
	err := c.primary(text)
	if err != nil {
		c.logger.Debug("system clipboard unavailable, falling back", "error", err)
		if c.fallback == nil {
			return "", fmt.Errorf("copy to clipboard: %w", err)
		}
		method = MethodOSC52
		if ferr := c.fallback(text); ferr != nil {
			return "", fmt.Errorf("copy to clipboard: %w", errors.Join(err, ferr))
		}
	}

	return method, nil
}
