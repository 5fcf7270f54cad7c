package vty

import (
	"golang.org/x/sys/unix"
)

// Credential is a fixed-capacity editable text buffer (spec.md §3 "CB",
// §4.2). Password instances are memory-locked against swap and zeroed on
// every release/clear, mirroring widgets.c's widget_input/widget_input_free
// from the reference implementation.
type Credential struct {
	storage      []byte
	end          int
	cursor       int
	visibleStart int
	visibleLen   int
	locked       bool
}

// NewCredential allocates a buffer with the given capacity. If lock is
// true, the backing storage is mlock'd so it never hits swap; a lock
// failure is non-fatal (spec.md §7 MlockErr) and reported through the
// returned error, but the buffer is still usable.
func NewCredential(capacity int, visibleLen int, lock bool) (*Credential, *Error) {
	c := &Credential{
		storage:    make([]byte, capacity+1),
		visibleLen: visibleLen,
	}

	if lock {
		if err := unix.Mlock(c.storage); err != nil {
			return c, NewError(KindMlockErr, err)
		}
		c.locked = true
	}

	return c, nil
}

// Cap returns the buffer's usable capacity (excluding the trailing NUL).
func (c *Credential) Cap() int { return len(c.storage) - 1 }

// Len returns the number of bytes currently stored.
func (c *Credential) Len() int { return c.end }

// Cursor returns the current cursor offset.
func (c *Credential) Cursor() int { return c.cursor }

// VisibleStart returns the start offset of the visible window.
func (c *Credential) VisibleStart() int { return c.visibleStart }

// String returns the stored text. Callers holding a password buffer should
// avoid retaining the result beyond the current operation.
func (c *Credential) String() string {
	return string(c.storage[:c.end])
}

// isPrintable matches spec.md §3: "only printable bytes in 0x20..=0x7E and
// Space" (0x20 is space, so this is simply the printable ASCII range).
func isPrintable(b byte) bool {
	return b >= 0x20 && b <= 0x7E
}

// Write inserts c at the cursor if there's room and it's printable
// (spec.md §4.2 "write(c)").
func (cb *Credential) Write(b byte) {
	if !isPrintable(b) {
		return
	}
	if cb.end >= cb.Cap() {
		return
	}

	copy(cb.storage[cb.cursor+1:cb.end+1], cb.storage[cb.cursor:cb.end])
	cb.storage[cb.cursor] = b
	cb.end++
	cb.storage[cb.end] = 0
	cb.moveRight()
}

// Backspace deletes the byte left of the cursor, if any.
func (cb *Credential) Backspace() {
	if cb.cursor > 0 {
		cb.moveLeft()
		cb.Delete()
	}
}

// Delete removes the byte at the cursor, shifting the remainder left.
func (cb *Credential) Delete() {
	if cb.cursor < cb.end {
		copy(cb.storage[cb.cursor:cb.end-1], cb.storage[cb.cursor+1:cb.end])
		cb.end--
		cb.storage[cb.end] = 0
	}
}

// Direction selects which way Move shifts the cursor.
type Direction int

const (
	Left Direction = iota
	Right
)

// Move shifts the cursor one position, clamped to [0, end], and slides the
// visible window so the cursor stays within it (spec.md §4.2 "move").
func (cb *Credential) Move(dir Direction) {
	if dir == Right {
		cb.moveRight()
	} else {
		cb.moveLeft()
	}
}

func (cb *Credential) moveRight() {
	if cb.cursor < cb.end {
		cb.cursor++
		if cb.cursor-cb.visibleStart > cb.visibleLen {
			cb.visibleStart++
		}
	}
}

func (cb *Credential) moveLeft() {
	if cb.cursor > 0 {
		cb.cursor--
		if cb.cursor < cb.visibleStart {
			cb.visibleStart--
		}
	}
}

// Clear overwrites the stored bytes with zero and resets all offsets, but
// keeps the buffer allocated and locked (spec.md §4.2 "clear()").
func (cb *Credential) Clear() {
	for i := 0; i < cb.end; i++ {
		cb.storage[i] = 0
	}
	cb.end = 0
	cb.cursor = 0
	cb.visibleStart = 0
}

// Release zeroes the whole backing storage, unlocks it if locked, and
// drops the reference so the backing array can be collected (spec.md §4.2
// "release()"). Safe to call more than once.
func (cb *Credential) Release() {
	if cb.storage == nil {
		return
	}
	for i := range cb.storage {
		cb.storage[i] = 0
	}
	if cb.locked {
		unix.Munlock(cb.storage)
		cb.locked = false
	}
	cb.storage = nil
	cb.end, cb.cursor, cb.visibleStart = 0, 0, 0
}
