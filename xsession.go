package vty

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// ResetTerminalAsUser runs the configured terminal-reset command as the
// target user, the same way the C source's reset_terminal forks and
// execs it under pwd->pw_shell before the session starts
// (spec.md §4.6 child-path step 8, also run again post-session by
// ResetTerminal from session.go).
func ResetTerminalAsUser(usr *SysUser, cmdLine string, cred *syscall.Credential, env []string) error {
	shell := usr.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell, "-c", cmdLine)
	cmd.Env = env
	cmd.Dir = usr.HomeDir
	cmd.SysProcAttr = &syscall.SysProcAttr{Credential: cred}
	return cmd.Run()
}

// freeDisplay scans /tmp/.X<i>-lock for i in [0, 200) and returns the
// first unused index, or 200 if all are taken (spec.md §4.6 "Free
// display index", the boundary behavior from §8, preserved at the
// original C source's loop bound of 200 per SPEC_FULL.md §7).
func freeDisplay() int {
	for i := 0; i < 200; i++ {
		if _, err := os.Stat(fmt.Sprintf("/tmp/.X%d-lock", i)); os.IsNotExist(err) {
			return i
		}
	}
	return 200
}

// xauthCookiePath chooses the XAUTH cookie path using the three-tier
// fallback from login.c's xauth(): XDG_RUNTIME_DIR, then
// XDG_CONFIG_HOME, then pw_dir/.config/ly (creating pw_dir/.config/ly if
// needed), finally falling back to pw_dir/.lyxauth if that creation
// fails (spec.md §4.6 "XAUTH bootstrap").
func xauthCookiePath(usr *SysUser, runtimeDir, configHome string) string {
	if runtimeDir != "" {
		return filepath.Join(runtimeDir, "lyxauth")
	}

	if configHome != "" {
		return filepath.Join(configHome, "ly", "lyxauth")
	}

	dir := filepath.Join(usr.HomeDir, ".config", "ly")
	if err := os.MkdirAll(dir, 0777); err == nil {
		return filepath.Join(dir, "lyxauth")
	}

	return filepath.Join(usr.HomeDir, ".lyxauth")
}

// bootstrapXauth ensures the cookie file exists, exports XAUTHORITY and
// DISPLAY into env, and runs "<xauth> add <display> . $(mcookie)" as the
// target user (spec.md §4.6 "XAUTH bootstrap").
func (l *Launcher) bootstrapXauth(usr *SysUser, display string, cred *syscall.Credential, env []string) (string, []string, *Error) {
	path := xauthCookiePath(usr, envValue(env, "XDG_RUNTIME_DIR"), os.Getenv("XDG_CONFIG_HOME"))

	env = append(env, "XAUTHORITY="+path, "DISPLAY="+display)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return "", env, NewError(KindChdirErr, err)
	}
	f.Close()

	cmdLine := fmt.Sprintf("%s add %s . $(%s)", l.Cfg.XauthCmd, display, l.Cfg.MCookieCmd)
	helper := exec.Command(usr.Shell, "-c", cmdLine)
	helper.Env = env
	helper.SysProcAttr = &syscall.SysProcAttr{Credential: cred}
	if err := helper.Run(); err != nil {
		return path, env, NewError(KindChdirErr, err)
	}

	return path, env, nil
}

// launchXorg starts Xorg on a free display, bootstraps XAUTH, waits for
// the server to become ready (or die), then execs the X setup wrapper
// with the desktop's Exec string (spec.md §4.6 "XInitrc / Xorg"). The
// wrapper is the subprocess the Launcher blocks on; postWait terminates
// Xorg once the wrapper has exited.
func (l *Launcher) launchXorg(usr *SysUser, d Desktop, cred *syscall.Credential, env []string, tty int) (*SessionRecord, *Error) {
	display := fmt.Sprintf(":%d", freeDisplay())

	xauthPath, env, err := l.bootstrapXauth(usr, display, cred, env)
	if err != nil {
		return nil, err
	}

	xorgCmd := exec.Command(l.Cfg.XCmd, display, fmt.Sprintf("vt%d", tty))
	xorgCmd.Env = env
	xorgCmd.SysProcAttr = &syscall.SysProcAttr{Credential: cred}
	if err := xorgCmd.Start(); err != nil {
		return nil, NewError(KindChdirErr, err)
	}

	if waitErr := waitXReady(xorgCmd.Process.Pid, display); waitErr != nil {
		xorgCmd.Process.Kill()
		xorgCmd.Wait()
		return nil, waitErr
	}

	wrapperCmd := exec.Command(usr.Shell, "-c", fmt.Sprintf("%s %s", l.Cfg.XCmdSetup, d.Exec))
	wrapperCmd.Env = env
	wrapperCmd.Dir = usr.HomeDir
	wrapperCmd.SysProcAttr = &syscall.SysProcAttr{Credential: cred}
	if err := wrapperCmd.Start(); err != nil {
		xorgCmd.Process.Signal(syscall.SIGTERM)
		xorgCmd.Wait()
		return nil, NewError(KindChdirErr, err)
	}

	postWait := func() {
		if xorgCmd.ProcessState == nil {
			xorgCmd.Process.Signal(syscall.SIGTERM)
			xorgCmd.Wait()
		}
		os.Remove(xauthPath)
	}

	return &SessionRecord{
		ChildPID:       wrapperCmd.Process.Pid,
		XauthorityPath: xauthPath,
		cmd:            wrapperCmd,
		postWait:       postWait,
	}, nil
}

// waitXReady polls until a connection to the X server's Unix socket
// succeeds, bailing out the moment the
// server process has died (kill(pid, 0) == ESRCH in the C source); there
// is no overall timeout, matching spec.md §5/§9's documented open
// question — a hung-but-alive server blocks forever here too.
func waitXReady(serverPID int, display string) *Error {
	sockPath := fmt.Sprintf("/tmp/.X11-unix/X%s", strings.TrimPrefix(display, ":"))

	for {
		if conn, err := net.Dial("unix", sockPath); err == nil {
			conn.Close()
			return nil
		}

		if err := syscall.Kill(serverPID, 0); err == syscall.ESRCH {
			return NewError(KindChdirErr, fmt.Errorf("X server exited before becoming ready"))
		}

		time.Sleep(10 * time.Millisecond)
	}
}

// launchWayland execs the Wayland wrapper with the desktop's Exec string
// (spec.md §4.6 "Wayland").
func (l *Launcher) launchWayland(usr *SysUser, d Desktop, cred *syscall.Credential, env []string) (*SessionRecord, *Error) {
	cmd := exec.Command(usr.Shell, "-c", fmt.Sprintf("%s %s", l.Cfg.WaylandCmd, d.Exec))
	cmd.Env = env
	cmd.Dir = usr.HomeDir
	cmd.SysProcAttr = &syscall.SysProcAttr{Credential: cred}

	if err := cmd.Start(); err != nil {
		return nil, NewError(KindChdirErr, err)
	}

	return &SessionRecord{ChildPID: cmd.Process.Pid, cmd: cmd}, nil
}
