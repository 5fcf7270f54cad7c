package vty

import (
	"log"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/tvrzna/vty/config"
	"github.com/tvrzna/vty/locale"
)

// Screen is the terminal I/O abstraction the core depends on: a
// termbox-style cell buffer plus an input event loop. Both the rendering
// and the event-source plumbing are out of this module's core scope
// (spec.md §1 "a generic terminal cell-buffer renderer with input event
// loop... is specified only at its interface").
type Screen interface {
	// PollEvent blocks up to timeout for the next key or resize event. It
	// returns ok=false on timeout, matching the Main Loop's peek-with-
	// timeout behavior (spec.md §4.7, §5 "Scheduling").
	PollEvent(timeout time.Duration) (Key, bool)

	// Redraw renders the current Form/Catalog/info-line state.
	Redraw(f *Form, info string)

	// Shutdown tears the terminal UI down so a session child inherits a
	// clean tty (spec.md §4.6 "Tear down the terminal UI").
	Shutdown()

	// Init re-initializes the UI after a session exits.
	Init() error
}

// App composes every component into the Main Loop (spec.md §4.7).
type App struct {
	Cfg    *config.Config
	Locale *locale.Locale
	Log    *log.Logger
	Screen Screen
	TTY    *TTYArbiter
	Auth   *Authenticator
	Launch *Launcher

	catalog        *Catalog
	form           *Form
	failedAttempts int
}

// NewApp builds an App with a freshly scanned Desktop Catalog and a Form
// in its initial state (spec.md §3 "F": focus starts on Password).
func NewApp(cfg *config.Config, loc *locale.Locale, logger *log.Logger, screen Screen) (*App, error) {
	cat, scanErr := Scan(cfg.XinitrcPath, cfg.XSessionsDir, cfg.WaylandSessionsDir, cfg.WaylandSpecifier)
	if scanErr != nil {
		SetLastError(scanErr)
	}

	login, lerr := NewCredential(cfg.MaxLoginLen, cfg.MaxLoginLen, false)
	if lerr != nil {
		SetLastError(lerr)
	}

	password, perr := NewCredential(cfg.MaxPasswordLen, cfg.MaxPasswordLen, true)
	if perr != nil {
		SetLastError(perr)
	}

	tty := &TTYArbiter{ConsoleDev: cfg.ConsoleDev}

	a := &App{
		Cfg:    cfg,
		Locale: loc,
		Log:    logger,
		Screen: screen,
		TTY:    tty,
		Auth:   &Authenticator{ServiceName: cfg.ServiceName},
		Launch: &Launcher{Cfg: cfg, TTY: tty, Screen: screen, Log: logger},
		catalog: cat,
		form:    NewForm(cat, login, password),
	}

	if cfg.Load {
		loadSaveFile(cfg.SaveFile, login, cat)
	}

	tty.Activate(cfg.TTY)

	return a, nil
}

// Run drives the event loop until a quit/power action terminates it
// (spec.md §4.7 "Main Loop"). It returns nil on Ctrl+C, and only returns
// an error for conditions the caller should treat as a fatal startup-class
// failure; shutdown/reboot actions normally end the process via exec and
// never return.
func (a *App) Run() error {
	for {
		info := ""
		if e := LastError(); e != nil {
			info = a.describeError(e)
		}
		a.Screen.Redraw(a.form, info)

		key, ok := a.Screen.PollEvent(a.Cfg.MinRefreshDelta)
		if !ok {
			continue
		}

		action := a.form.Handle(key)

		switch action {
		case ActionQuit:
			return nil
		case ActionPowerOff:
			return a.power(a.Cfg.ShutdownCmd, "-h", "now")
		case ActionReboot:
			return a.power(a.Cfg.RestartCmd, "-r", "now")
		case ActionSubmit:
			a.submit()
		}
	}
}

// power tears the UI down and execs the configured halt command
// (spec.md §6 "Exit codes": "0 on clean shutdown... which then exec the
// configured halt command", scenario 6).
func (a *App) power(cmd string, args ...string) error {
	a.Screen.Shutdown()
	return syscall.Exec(cmd, append([]string{cmd}, args...), os.Environ())
}

// submit runs one full authenticate → launch → wait → unwind cycle
// (spec.md §4.7 "if submit fires, call Authenticator and on success
// Session Launcher").
func (a *App) submit() {
	login := a.form.Login.String()
	password := a.form.Password.String()
	desktop := a.catalog.Current()

	handle, authErr := a.Auth.Authenticate(login, password, "tty"+strconv.Itoa(a.Cfg.TTY))
	if authErr != nil {
		a.onAuthFailure(authErr)
		return
	}

	a.failedAttempts = 0
	saveFile(a.Cfg, login, a.catalog)

	rec, launchErr := a.Launch.Launch(handle, login, a.form.Password, desktop, a.Cfg.TTY)
	if launchErr != nil {
		SetLastError(launchErr)
		handle.Unwind()
		return
	}

	usr, _ := LookupSysUser(handle.PamUser())
	a.Launch.Wait(rec, usr)

	// Post-session: reload the catalog (installs/removals since last
	// login are observable, spec.md §4.6 "Post-session in parent"), then
	// reinitialize the UI and unwind PAM.
	newCat, scanErr := Scan(a.Cfg.XinitrcPath, a.Cfg.XSessionsDir, a.Cfg.WaylandSessionsDir, a.Cfg.WaylandSpecifier)
	if scanErr != nil {
		SetLastError(scanErr)
	}
	newCat.SetCur(a.catalog.Cur())
	a.catalog = newCat
	a.form.Session = newCat

	if err := a.Screen.Init(); err != nil {
		a.Log.Printf("reinitializing screen after session exit: %v", err)
	}

	a.form = NewForm(a.catalog, a.form.Login, a.form.Password)

	if unwindErr := handle.Unwind(); unwindErr != nil {
		SetLastError(unwindErr)
	}
}

// onAuthFailure applies spec.md §7's "user-visible behavior": the
// password is always cleared; the login is cleared only on UserUnknown.
func (a *App) onAuthFailure(err *Error) {
	SetLastError(err)
	a.form.Password.Clear()

	if err.Kind == KindPamUserUnknown {
		a.form.Login.Clear()
	}

	a.failedAttempts++
	// Above spec.md's configured threshold the UI switches to a cascade
	// animation until it self-resets; that animation is out of core scope
	// (spec.md §1), so only the counter itself lives here.
}

func (a *App) describeError(e *Error) string {
	switch e.Kind {
	case KindPamAcctExpired:
		return a.Locale.ErrPamAcctExpired
	case KindPamAuth:
		return a.Locale.ErrPamAuth
	case KindPamAuthInfoUnavail:
		return a.Locale.ErrPamAuthInfoUnavail
	case KindPamBuf:
		return a.Locale.ErrPamBuf
	case KindPamCredErr:
		return a.Locale.ErrPamCredErr
	case KindPamCredExpired:
		return a.Locale.ErrPamCredExpired
	case KindPamCredInsufficient:
		return a.Locale.ErrPamCredInsufficient
	case KindPamCredUnavail:
		return a.Locale.ErrPamCredUnavail
	case KindPamMaxTries:
		return a.Locale.ErrPamMaxTries
	case KindPamNewAuthTokReqd:
		return a.Locale.ErrPamNewAuthTokReqd
	case KindPamPermDenied:
		return a.Locale.ErrPamPermDenied
	case KindPamSessionErr:
		return a.Locale.ErrPamSession
	case KindPamSysErr:
		return a.Locale.ErrPamSys
	case KindPamUserUnknown:
		return a.Locale.ErrPamUserUnknown
	case KindPamAbort:
		return a.Locale.ErrPamAbort
	case KindPwnamErr:
		return a.Locale.ErrPwnam
	case KindConsoleDev:
		return a.Locale.ErrConsoleDev
	case KindMlockErr:
		return a.Locale.ErrMlock
	case KindXSessionsDir:
		return a.Locale.ErrXSessionsDir
	case KindXSessionsOpen:
		return a.Locale.ErrXSessionsOpen
	default:
		return ""
	}
}
