package iostreams

import (
	"bytes"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

var osStreams *IOStreams

type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// Empty type to represent the _type_ IOStreams. Used as a key in a Context
type Key struct{}

// StreamsKey is a global instance of the Key type
var StreamsKey = Key{}

type fdProvider interface {
	Fd() uintptr
}

// GetOSIOStreams returns a singleton instance of the OS IOStreams
func GetOSIOStreams() *IOStreams {
	if osStreams == nil {
		osStreams = &IOStreams{
			In:     os.Stdin,
			Out:    os.Stdout,
			ErrOut: os.Stderr,
		}
	}
	return osStreams
}

func NewTestIOStreams() (IOStreams, *bytes.Buffer, *bytes.Buffer, *bytes.Buffer) {
	in := &bytes.Buffer{}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return IOStreams{
		In:     in,
		Out:    out,
		ErrOut: errOut,
	}, in, out, errOut
}

// IsInteractive reports whether both the input and output streams are
// attached to a terminal. The dashboard refuses to start otherwise.
func (s *IOStreams) IsInteractive() bool {
	if s == nil {
		return false
	}
	return IsTerminal(s.In) && IsTerminal(s.Out)
}

// FD returns the file descriptor behind a stream when it has one.
func FD(v any) (uintptr, bool) {
	fp, ok := v.(fdProvider)
	if !ok {
		return 0, false
	}
	fd := fp.Fd()
	if fd == ^uintptr(0) {
		return 0, false
	}
	return fd, true
}

// IsTerminal reports whether v is backed by a terminal device.
func IsTerminal(v any) bool {
	fd, ok := FD(v)
	if !ok {
		return false
	}
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
