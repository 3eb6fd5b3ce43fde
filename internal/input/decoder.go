// Package input decodes the raw byte stream coming from a raw-mode terminal
// into logical key events. The decoder is a small streaming state machine
// over the escape-sequence grammar the viewer understands:
//
//	ESC '[' digit '~'   tilde-terminated keys (Home/End/Delete/PageUp/PageDown)
//	ESC '[' final       arrow keys plus Home/End
//	ESC 'O' final       SS3-style Home/End
//
// Anything else that starts with ESC is consumed and dropped without a key.
package input

import "io"

// Key identifies a decoded navigation key.
type Key int

const (
	// KeyNone marks an event carrying no recognized key. Sequences the
	// grammar rejects decode to KeyNone and are silently dropped upstream.
	KeyNone Key = iota
	// KeyRune marks a plain byte outside any escape sequence.
	KeyRune
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyDelete
)

func (k Key) String() string {
	switch k {
	case KeyNone:
		return "none"
	case KeyRune:
		return "rune"
	case KeyArrowUp:
		return "up"
	case KeyArrowDown:
		return "down"
	case KeyArrowLeft:
		return "left"
	case KeyArrowRight:
		return "right"
	case KeyPageUp:
		return "pgup"
	case KeyPageDown:
		return "pgdown"
	case KeyHome:
		return "home"
	case KeyEnd:
		return "end"
	case KeyDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Event is one decoded input event. Rune is meaningful only when Key is
// KeyRune.
type Event struct {
	Key  Key
	Rune byte
}

const esc = 0x1b

// Transition tables for the escape grammar. Keeping the mapping in data
// rather than nested conditionals lets the grammar be tested on its own.
var (
	// csiFinal maps the byte after "ESC [" when it is not a digit.
	csiFinal = map[byte]Key{
		'A': KeyArrowUp,
		'B': KeyArrowDown,
		'C': KeyArrowRight,
		'D': KeyArrowLeft,
		'H': KeyHome,
		'F': KeyEnd,
	}

	// csiTilde maps the digit in "ESC [ <digit> ~".
	csiTilde = map[byte]Key{
		'1': KeyHome,
		'7': KeyHome,
		'4': KeyEnd,
		'8': KeyEnd,
		'3': KeyDelete,
		'5': KeyPageUp,
		'6': KeyPageDown,
	}

	// ss3Final maps the byte after "ESC O".
	ss3Final = map[byte]Key{
		'H': KeyHome,
		'F': KeyEnd,
	}
)

// machine states, advanced one byte at a time.
type state int

const (
	stateGround  state = iota
	stateEsc           // seen ESC
	stateCSI           // seen ESC [
	stateCSIParam      // seen ESC [ <digit>, expecting '~'
	stateSS3           // seen ESC O
	stateDiscard       // unrecognized introducer; one byte left to consume
)

// Decoder turns a byte stream into Events. It holds no state between
// complete events; mid-sequence bytes are consumed within a single Next call.
type Decoder struct {
	r   io.Reader
	one [1]byte
}

// NewDecoder returns a decoder reading from r. The reader must deliver bytes
// unbuffered and unmodified, which a raw-mode terminal guarantees.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Next blocks for the next event. A read failure or end of stream at any
// point, including mid-sequence, returns io.EOF: the session-end signal.
// Unrecognized sequences return an Event with KeyNone.
func (d *Decoder) Next() (Event, error) {
	st := stateGround
	var param byte
	for {
		b, err := d.readByte()
		if err != nil {
			return Event{}, io.EOF
		}
		ev, done := step(&st, &param, b)
		if done {
			return ev, nil
		}
	}
}

// step advances the machine by one byte. done reports that an event (possibly
// KeyNone) completed.
func step(st *state, param *byte, b byte) (Event, bool) {
	switch *st {
	case stateGround:
		if b == esc {
			*st = stateEsc
			return Event{}, false
		}
		return Event{Key: KeyRune, Rune: b}, true
	case stateEsc:
		switch b {
		case '[':
			*st = stateCSI
			return Event{}, false
		case 'O':
			*st = stateSS3
			return Event{}, false
		default:
			// Two bytes always follow an ESC; consume the second before
			// dropping the sequence.
			*st = stateDiscard
			return Event{}, false
		}
	case stateCSI:
		if b >= '0' && b <= '9' {
			*st = stateCSIParam
			*param = b
			return Event{}, false
		}
		return Event{Key: csiFinal[b]}, true
	case stateCSIParam:
		if b == '~' {
			return Event{Key: csiTilde[*param]}, true
		}
		return Event{Key: KeyNone}, true
	case stateSS3:
		return Event{Key: ss3Final[b]}, true
	case stateDiscard:
		return Event{Key: KeyNone}, true
	}
	return Event{Key: KeyNone}, true
}

func (d *Decoder) readByte() (byte, error) {
	for {
		n, err := d.r.Read(d.one[:])
		if n == 1 {
			return d.one[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}
