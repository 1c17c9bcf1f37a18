// Package konami detects a fixed key sequence in a stream of key codes.
package konami

import (
	"errors"
	"fmt"
	"strings"
)

// Key codes follow the browser KeyboardEvent.code naming.
const (
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyB          = "KeyB"
	KeyA          = "KeyA"
)

// ActivationMessage is shown when the sequence completes.
const ActivationMessage = "Konami Code activated! You found the easter egg!"

// ErrEmptySequence is returned when a detector would never fire.
var ErrEmptySequence = errors.New("konami: sequence is empty")

// Sequence returns the classic up-up-down-down-left-right-left-right-B-A code.
func Sequence() []string {
	return []string{
		KeyArrowUp, KeyArrowUp,
		KeyArrowDown, KeyArrowDown,
		KeyArrowLeft, KeyArrowRight,
		KeyArrowLeft, KeyArrowRight,
		KeyB, KeyA,
	}
}

// KeyEvent is a single key press. InField marks presses typed into an input
// or textarea, which the detector ignores.
type KeyEvent struct {
	Code    string
	InField bool
}

// Detector keeps a rolling window of the most recent key codes, as long as
// the target sequence.
type Detector struct {
	sequence []string
	window   []string
}

// Option configures a Detector.
type Option func(*Detector)

// WithSequence replaces the target sequence.
func WithSequence(codes ...string) Option {
	return func(d *Detector) {
		d.sequence = append([]string(nil), codes...)
	}
}

// New builds a detector for the classic sequence unless overridden.
func New(options ...Option) (*Detector, error) {
	d := &Detector{sequence: Sequence()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	if len(d.sequence) == 0 {
		return nil, ErrEmptySequence
	}
	d.window = make([]string, 0, len(d.sequence))
	return d, nil
}

// Push records a key code and reports whether the window now equals the
// sequence. A match clears the window.
func (d *Detector) Push(code string) bool {
	d.window = append(d.window, code)
	if len(d.window) > len(d.sequence) {
		d.window = d.window[len(d.window)-len(d.sequence):]
	}
	if len(d.window) != len(d.sequence) {
		return false
	}
	for i, key := range d.window {
		if key != d.sequence[i] {
			return false
		}
	}
	d.Reset()
	return true
}

// Observe is Push for key events, skipping those typed into form fields.
func (d *Detector) Observe(ev KeyEvent) bool {
	if ev.InField {
		return false
	}
	return d.Push(ev.Code)
}

// Reset clears the window.
func (d *Detector) Reset() {
	d.window = d.window[:0]
}

// Pending returns a copy of the current window.
func (d *Detector) Pending() []string {
	return append([]string(nil), d.window...)
}

var shorthand = map[rune]string{
	'↑': KeyArrowUp,
	'↓': KeyArrowDown,
	'←': KeyArrowLeft,
	'→': KeyArrowRight,
}

// ParseKeys turns user input into key codes. Whitespace separated tokens are
// read as code names ("ArrowUp", "KeyB"); a single token of arrows and letters
// ("↑↑↓↓←→←→BA") is expanded character by character.
func ParseKeys(input string) ([]string, error) {
	tokens := strings.Fields(input)
	var out []string
	for _, token := range tokens {
		if isCodeName(token) {
			out = append(out, token)
			continue
		}
		for _, r := range token {
			if code, ok := shorthand[r]; ok {
				out = append(out, code)
				continue
			}
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				out = append(out, "Key"+strings.ToUpper(string(r)))
				continue
			}
			return nil, fmt.Errorf("konami: unsupported key %q in %q", r, token)
		}
	}
	return out, nil
}

func isCodeName(token string) bool {
	if strings.HasPrefix(token, "Arrow") && len(token) > len("Arrow") {
		return true
	}
	return strings.HasPrefix(token, "Key") && len(token) == len("Key")+1
}
