package launcher

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/skratchdot/open-golang/open"
)

// Opener launches the external handler for a resource URL.
type Opener interface {
	Open(target string) error
}

// Copier places text on the system clipboard.
type Copier interface {
	Copy(text string) error
}

// StartFunc hands target to the platform's default handler without waiting
// for it to exit.
type StartFunc func(target string) error

// BrowserOpener opens URLs with the platform's default handler.
type BrowserOpener struct {
	Start StartFunc
}

func NewBrowserOpener() *BrowserOpener {
	return &BrowserOpener{Start: open.Start}
}

// Open validates target and passes it to Start.
func (o *BrowserOpener) Open(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return errors.New("empty url")
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" {
		return fmt.Errorf("not an absolute url: %q", target)
	}

	start := o.Start
	if start == nil {
		start = open.Start
	}
	if err := start(target); err != nil {
		return fmt.Errorf("opening %s: %w", target, err)
	}
	return nil
}

// ClipboardCopier writes to the system clipboard.
type ClipboardCopier struct{}

func (ClipboardCopier) Copy(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard is not available on this system")
	}
	return clipboard.WriteAll(text)
}
