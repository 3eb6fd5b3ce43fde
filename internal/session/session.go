// Package session runs the viewer's synchronous loop: measure the window,
// render, block for one decoded key, apply it, repeat. The session owns all
// mutable state; nothing here is shared across goroutines.
package session

import (
	"io"

	"github.com/zjrosen/loupe/internal/input"
	"github.com/zjrosen/loupe/internal/log"
	"github.com/zjrosen/loupe/internal/render"
	"github.com/zjrosen/loupe/internal/textbuf"
	"github.com/zjrosen/loupe/internal/viewport"
)

// Interrupt is the byte that ends the session (Ctrl-C in raw mode).
const Interrupt = 0x03

// Sizer reports the window dimensions before each refresh. Production wiring
// speaks the cursor-position-report protocol over the session's own streams;
// tests inject fixed sizes.
type Sizer interface {
	Size() (width, height int, err error)
}

// Session ties the buffer, model, renderer, and decoder together.
type Session struct {
	buf      *textbuf.Buffer
	model    *viewport.Model
	renderer *render.Renderer
	dec      *input.Decoder
	sizer    Sizer
	out      io.Writer
}

// New assembles a session reading keys from in and writing frames to out.
func New(buf *textbuf.Buffer, in io.Reader, out io.Writer, sizer Sizer, filler byte) *Session {
	return &Session{
		buf:      buf,
		model:    viewport.New(buf),
		renderer: render.New(filler),
		dec:      input.NewDecoder(in),
		sizer:    sizer,
		out:      out,
	}
}

// Model exposes the viewport state, for inspection after Run returns.
func (s *Session) Model() *viewport.Model {
	return s.model
}

// Run loops until the interrupt byte or end of input. A size-query failure
// is returned as an error: the report protocol is a precondition, not a
// recoverable condition. End of input is a normal exit.
func (s *Session) Run() error {
	log.Info(log.CatSession, "session started", "lines", s.buf.Len())
	for {
		width, height, err := s.sizer.Size()
		if err != nil {
			return err
		}
		s.model.SetSize(width, height)

		if err := s.renderer.Refresh(s.out, s.model, s.buf); err != nil {
			return err
		}

		ev, err := s.dec.Next()
		if err != nil {
			log.Info(log.CatSession, "input closed, ending session")
			return nil
		}
		if ev.Key == input.KeyRune && ev.Rune == Interrupt {
			log.Info(log.CatSession, "interrupt received, ending session")
			return nil
		}
		s.dispatch(ev)
	}
}

// dispatch applies one decoded event to the model. Unrecognized sequences
// and plain bytes fall through untouched; this core does not edit text.
func (s *Session) dispatch(ev input.Event) {
	switch ev.Key {
	case input.KeyArrowUp:
		s.model.CursorUp()
	case input.KeyArrowDown:
		s.model.CursorDown()
	case input.KeyArrowLeft:
		s.model.CursorLeft()
	case input.KeyArrowRight:
		s.model.CursorRight()
	case input.KeyPageUp:
		s.model.PageUp()
	case input.KeyPageDown:
		s.model.PageDown()
	case input.KeyHome:
		s.model.Home()
	case input.KeyEnd:
		s.model.End()
	case input.KeyDelete:
		// Recognized but inert: mutation is outside this core.
	case input.KeyRune:
		log.Debug(log.CatInput, "unhandled input", "byte", ev.Rune)
	case input.KeyNone:
		log.Debug(log.CatInput, "unrecognized sequence dropped")
	}
}

// FixedSizer implements Sizer with constant dimensions.
type FixedSizer struct {
	W int
	H int
}

// Size returns the fixed dimensions.
func (f FixedSizer) Size() (int, int, error) {
	return f.W, f.H, nil
}
