package vty

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/rs/xid"

	"github.com/tvrzna/vty/config"
)

// SessionRecord is the live state of one authenticated session
// (spec.md §3 "SR"). cmd is the single subprocess the Launcher blocks on;
// postWait runs any extra teardown (terminating a helper X server,
// removing a temporary xauth file) once that subprocess has exited.
type SessionRecord struct {
	Token          string
	ChildPID       int
	Utmp           *UtmpEntry
	DisplayName    string
	XauthorityPath string

	cmd      *exec.Cmd
	postWait func()
}

// Launcher implements the Session Launcher component (spec.md §4.6).
//
// Go's runtime cannot safely fork() a multi-threaded process the way the
// original C implementation does. The kernel-level privilege drop
// (initgroups/setgid/setuid, spec.md §4.6 child-path steps 1–3) is instead
// requested atomically at exec time via syscall.SysProcAttr.Credential,
// which is the idiomatic Go equivalent the teacher repo itself uses for
// the same purpose: the kernel performs the credential switch as part of
// the exec, so there is never a window where a live Go goroutine runs
// with dropped privileges, and no plaintext password can leak into a
// forked child's memory because Credential.Clear() runs before any
// exec.Cmd.Start() (spec.md §4.5's fork-ordering requirement).
type Launcher struct {
	Cfg    *config.Config
	TTY    *TTYArbiter
	Screen Screen
	Log    *log.Logger
}

// Launch resolves the target user, tears down the UI, builds the child's
// environment, and dispatches on the desktop entry's kind
// (spec.md §4.6 "Contract").
func (l *Launcher) Launch(h *Handle, login string, passwordBuf *Credential, d Desktop, tty int) (*SessionRecord, *Error) {
	usr, err := LookupSysUser(login)
	if err != nil {
		return nil, err
	}

	l.Screen.Shutdown()

	env := l.buildEnvironment(usr, d, tty)
	for k, v := range h.EnvList() {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	// The password buffer must be wiped before any child of this process
	// exists, so the child's address space never contains plaintext
	// (spec.md §4.5 "At step A success, the password buffer MUST be
	// cleared before fork").
	passwordBuf.Clear()

	cred := &syscall.Credential{
		Uid:    uint32(usr.UID),
		Gid:    uint32(usr.GID),
		Groups: usr.Groups,
	}

	if err := ResetTerminalAsUser(usr, l.Cfg.TermResetCmd, cred, env); err != nil {
		l.Log.Printf("reset_terminal before session start: %v", err)
	}

	var rec *SessionRecord
	var launchErr *Error

	switch d.Kind {
	case Shell:
		rec, launchErr = l.launchShell(usr, cred, env)
	case XInitrc, Xorg:
		rec, launchErr = l.launchXorg(usr, d, cred, env, tty)
	case Wayland:
		rec, launchErr = l.launchWayland(usr, d, cred, env)
	}

	if launchErr != nil {
		return nil, launchErr
	}

	rec.Token = xid.New().String()
	rec.DisplayName = d.DisplayName

	ttyName, _ := os.Readlink("/proc/self/fd/0")
	rec.Utmp = WriteUtmpEntry(usr.Username, ttyName, rec.ChildPID)

	l.Log.Printf("session %s: launched %q for %s as pid %d", rec.Token, d.DisplayName, usr.Username, rec.ChildPID)

	return rec, nil
}

// Wait blocks until the session's subprocess exits, runs any
// kind-specific teardown, removes the utmp entry and resets the terminal
// (spec.md §4.6 "Post-session in parent").
func (l *Launcher) Wait(rec *SessionRecord, usr *SysUser) error {
	err := rec.cmd.Wait()
	l.Log.Printf("session %s: exited: %v", rec.Token, err)

	if rec.postWait != nil {
		rec.postWait()
	}

	RemoveUtmpEntry(rec.Utmp)

	if rerr := ResetTerminal(usr.Shell, l.Cfg.TermResetCmd); rerr != nil {
		l.Log.Printf("session %s: reset_terminal after session exit: %v", rec.Token, rerr)
	}

	return err
}

func envValue(env []string, key string) string {
	prefix := key + "="
	for _, e := range env {
		if len(e) > len(prefix) && e[:len(prefix)] == prefix {
			return e[len(prefix):]
		}
	}
	return ""
}

// buildEnvironment replaces the process environment the child will see
// with the minimal fixed set plus XDG variables (spec.md §4.6 steps 4–5).
// It never mutates os.Environ(): it returns a complete replacement slice
// passed to exec.Cmd.Env, which is the functional equivalent of the C
// source's "wipe the environment, then install" sequence.
func (l *Launcher) buildEnvironment(usr *SysUser, d Desktop, tty int) []string {
	term := os.Getenv("TERM")
	if term == "" {
		term = "linux"
	}
	lang := os.Getenv("LANG")
	if lang == "" {
		lang = "C"
	}

	env := []string{
		"TERM=" + term,
		"HOME=" + usr.HomeDir,
		"PWD=" + usr.HomeDir,
		"SHELL=" + usr.Shell,
		"USER=" + usr.Username,
		"LOGNAME=" + usr.Username,
		"LANG=" + lang,
	}

	if l.Cfg.Path != "" {
		env = append(env, "PATH="+l.Cfg.Path)
	}

	desktop := d.Filename
	if desktop == "" {
		desktop = filepath.Base(d.Exec)
	}

	env = append(env,
		"XDG_SESSION_TYPE="+sessionType(d.Kind),
		"XDG_SESSION_CLASS=user",
		"XDG_SESSION_ID=1", // spec.md §9 open question: fixed at 1, preserved as-is
		"XDG_SESSION_DESKTOP="+desktop,
		"XDG_SEAT=seat0",
		"XDG_VTNR="+fmt.Sprint(tty),
	)

	if rtd := os.Getenv("XDG_RUNTIME_DIR"); rtd != "" {
		env = append(env, "XDG_RUNTIME_DIR="+rtd)
	} else {
		env = append(env, fmt.Sprintf("XDG_RUNTIME_DIR=/run/user/%d", usr.UID))
	}

	return env
}

func sessionType(k SessionKind) string {
	switch k {
	case Wayland:
		return "wayland"
	case Xorg, XInitrc:
		return "x11"
	default:
		return "tty"
	}
}

func (l *Launcher) launchShell(usr *SysUser, cred *syscall.Credential, env []string) (*SessionRecord, *Error) {
	base := filepath.Base(usr.Shell)
	cmd := exec.Command(usr.Shell)
	cmd.Args = []string{"-" + base}
	cmd.Dir = usr.HomeDir
	cmd.Env = env
	cmd.SysProcAttr = &syscall.SysProcAttr{Credential: cred}

	if err := cmd.Start(); err != nil {
		return nil, NewError(KindChdirErr, err)
	}

	return &SessionRecord{ChildPID: cmd.Process.Pid, cmd: cmd}, nil
}
