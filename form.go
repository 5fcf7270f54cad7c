package vty

// Focus identifies which field of the Form State currently has input focus
// (spec.md §3 "F", §4.3).
type Focus int

const (
	FocusSession Focus = iota
	FocusLogin
	FocusPassword
)

// Action is the result of routing a key event through the Form: either no
// action yet, a submit, or a global power action.
type Action int

const (
	ActionNone Action = iota
	ActionSubmit
	ActionPowerOff
	ActionReboot
	ActionQuit
)

// Key is the subset of key events the Form cares about. The terminal I/O
// abstraction (out of core scope, spec.md §1) is expected to translate its
// own event type into these before calling Form.Handle.
type Key struct {
	Rune      rune
	Special   SpecialKey
	CtrlC     bool
}

type SpecialKey int

const (
	KeyNone SpecialKey = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyF1
	KeyF2
)

// Form is the three-field, focus-routed login form (spec.md §3 "F", §4.3).
type Form struct {
	Session  *Catalog
	Login    *Credential
	Password *Credential
	focus    Focus
}

// NewForm builds a Form with the spec-mandated initial focus of Password
// (spec.md §3: "assumes the user and session are remembered... via the
// save file").
func NewForm(session *Catalog, login, password *Credential) *Form {
	return &Form{
		Session:  session,
		Login:    login,
		Password: password,
		focus:    FocusPassword,
	}
}

// Focus returns the currently focused field.
func (f *Form) Focus() Focus { return f.focus }

// Handle routes one key event and returns the resulting Action. Global
// keys (Ctrl+C, and the configured shutdown/reboot keys, translated to
// KeyF1/KeyF2 by the caller) are checked first, independent of focus
// (spec.md §4.3 "Global keys").
func (f *Form) Handle(k Key) Action {
	if k.CtrlC {
		return ActionQuit
	}
	switch k.Special {
	case KeyF1:
		return ActionPowerOff
	case KeyF2:
		return ActionReboot
	}

	switch k.Special {
	case KeyUp:
		f.focusUp()
		return ActionNone
	case KeyDown:
		f.focusDown()
		return ActionNone
	}

	switch f.focus {
	case FocusSession:
		f.handleSession(k)
	case FocusLogin:
		f.handleCredential(f.Login, k)
	case FocusPassword:
		if k.Special == KeyEnter {
			return ActionSubmit
		}
		f.handleCredential(f.Password, k)
	}

	if k.Special == KeyEnter && f.focus != FocusPassword {
		f.focusDown()
	}

	return ActionNone
}

func (f *Form) focusUp() {
	if f.focus > FocusSession {
		f.focus--
	}
}

func (f *Form) focusDown() {
	if f.focus < FocusPassword {
		f.focus++
	}
}

func (f *Form) handleSession(k Key) {
	switch k.Special {
	case KeyLeft:
		f.Session.MoveLeft()
	case KeyRight:
		f.Session.MoveRight()
	}
}

func (f *Form) handleCredential(c *Credential, k Key) {
	switch k.Special {
	case KeyLeft:
		c.Move(Left)
	case KeyRight:
		c.Move(Right)
	case KeyBackspace:
		c.Backspace()
	case KeyDelete:
		c.Delete()
	case KeyNone:
		if k.Rune != 0 {
			c.Write(byte(k.Rune))
		}
	}
}
