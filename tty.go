package vty

import (
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// ioctl constants for the Linux vt and keyboard subsystems (linux/vt.h,
// linux/kd.h), not exposed by
// golang.org/x/sys/unix as named constants.
const (
	vtActivate   = 0x5606 // VT_ACTIVATE
	vtWaitActive = 0x5607 // VT_WAITACTIVE
	kdgkbled     = 0x4B64 // KDGKBLED
)

const (
	ledCapsLock = 0x04
	ledNumLock  = 0x02
)

// LEDState reports the keyboard LED bits relevant to the login prompt.
type LEDState struct {
	CapsLock bool
	NumLock  bool
}

// TTYArbiter activates the configured virtual terminal and reads its LED
// state (spec.md §4.4). Every operation opens the console device lazily
// and closes it immediately; there is no long-lived file descriptor
// (spec.md §5 "Shared resources").
type TTYArbiter struct {
	ConsoleDev string
}

// Activate switches to tty and waits for the switch to complete. Failure
// is non-fatal: it's recorded via SetLastError and the caller proceeds
// (spec.md §4.4 "activate(tty)").
func (t *TTYArbiter) Activate(tty int) {
	f, err := os.OpenFile(t.ConsoleDev, os.O_WRONLY, 0)
	if err != nil {
		SetLastError(NewError(KindConsoleDev, err))
		return
	}
	defer f.Close()

	fd := int(f.Fd())
	if err := unix.IoctlSetInt(fd, vtActivate, tty); err != nil {
		SetLastError(NewError(KindConsoleDev, err))
		return
	}
	if err := unix.IoctlSetInt(fd, vtWaitActive, tty); err != nil {
		SetLastError(NewError(KindConsoleDev, err))
	}
}

// LEDState queries the keyboard LEDs for the CapsLock/NumLock indicators
// shown by the UI (spec.md §4.4 "led_state()").
func (t *TTYArbiter) LEDState() (LEDState, *Error) {
	f, err := os.OpenFile(t.ConsoleDev, os.O_RDONLY, 0)
	if err != nil {
		return LEDState{}, NewError(KindConsoleDev, err)
	}
	defer f.Close()

	leds, err := unix.IoctlGetInt(int(f.Fd()), kdgkbled)
	if err != nil {
		return LEDState{}, NewError(KindConsoleDev, err)
	}

	return LEDState{
		CapsLock: leds&ledCapsLock != 0,
		NumLock:  leds&ledNumLock != 0,
	}, nil
}

// ResetTerminal runs the configured terminal-reset command via the given
// shell and waits for it to finish, undoing any mode changes a session
// left behind (spec.md §4.4 "reset_terminal(shell)").
func ResetTerminal(shell, cmd string) error {
	if shell == "" {
		shell = "/bin/sh"
	}
	c := exec.Command(shell, "-c", cmd)
	return c.Run()
}
