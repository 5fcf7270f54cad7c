package vty

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// lineScreen is the default Screen: a minimal raw-mode line renderer.
// The cell-buffer/animation renderer spec.md §1 scopes out of core is left
// as the Screen interface boundary; this is just enough of an
// implementation to drive the Main Loop end to end on a real tty.
type lineScreen struct {
	tty   *os.File
	state *term.State
	in    *bufio.Reader
}

// NewLineScreen opens ttyPath and puts it into raw mode.
func NewLineScreen(ttyPath string) (*lineScreen, error) {
	f, err := os.OpenFile(ttyPath, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	s := &lineScreen{tty: f, in: bufio.NewReader(f)}
	if err := s.Init(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *lineScreen) Init() error {
	state, err := term.MakeRaw(int(s.tty.Fd()))
	if err != nil {
		return err
	}
	s.state = state
	return nil
}

func (s *lineScreen) Shutdown() {
	if s.state != nil {
		term.Restore(int(s.tty.Fd()), s.state)
		s.state = nil
	}
}

func (s *lineScreen) Redraw(f *Form, info string) {
	fmt.Fprint(s.tty, "\033[2J\033[H")
	fmt.Fprintf(s.tty, "%s %s\r\n", "Login:", f.Login.String())
	fmt.Fprintf(s.tty, "%s %s\r\n", "Password:", strings.Repeat("*", f.Password.Len()))
	if f.Session.Len() > 0 {
		fmt.Fprintf(s.tty, "Session: %s\r\n", f.Session.Current().DisplayName)
	}
	if info != "" {
		fmt.Fprintf(s.tty, "\r\n%s\r\n", info)
	}
}

// PollEvent reads one byte with a timeout, translating common raw bytes
// into Key values (spec.md §3 "Key").
func (s *lineScreen) PollEvent(timeout time.Duration) (Key, bool) {
	s.tty.SetReadDeadline(time.Now().Add(timeout))

	b, err := s.in.ReadByte()
	if err != nil {
		return Key{}, false
	}

	switch b {
	case '\r', '\n':
		return Key{Special: KeyEnter}, true
	case 127, 8:
		return Key{Special: KeyBackspace}, true
	case 3:
		return Key{CtrlC: true}, true
	case 27:
		return s.readEscape()
	default:
		return Key{Rune: rune(b)}, true
	}
}

func (s *lineScreen) readEscape() (Key, bool) {
	b1, err := s.in.ReadByte()
	if err != nil || b1 != '[' {
		return Key{}, true
	}
	b2, err := s.in.ReadByte()
	if err != nil {
		return Key{}, true
	}
	switch b2 {
	case 'A':
		return Key{Special: KeyUp}, true
	case 'B':
		return Key{Special: KeyDown}, true
	case 'C':
		return Key{Special: KeyRight}, true
	case 'D':
		return Key{Special: KeyLeft}, true
	case 'P':
		return Key{Special: KeyF1}, true
	case 'Q':
		return Key{Special: KeyF2}, true
	default:
		return Key{}, true
	}
}
