package vty

import (
	"bytes"
	"encoding/binary"
	"os"
	"strings"
	"time"
)

// utmp record types, sizes and file path (utmp(5)); no third-party utmp
// binding appears anywhere in the reference pack, so this is written
// directly against glibc's struct utmp layout, matching login.c's
// add_utmp_entry/remove_utmp_entry field for field: ut_type (short, then
// 2 bytes of padding before ut_pid), ut_pid, ut_line, ut_id, ut_user,
// ut_host, ut_exit (two shorts), ut_session, ut_tv (tv_sec/tv_usec),
// ut_addr_v6, and 20 bytes reserved.
const (
	utmpPath       = "/var/run/utmp"
	utUserProcess  = 7
	utDeadProcess  = 8
	utLineSize     = 32
	utIDSize       = 4
	utNameSize     = 32
	utHostSize     = 256
	utmpRecordSize = 2 + 2 + 4 + utLineSize + utIDSize + utNameSize + utHostSize + 2 + 2 + 4 + 4 + 4 + 16 + 20
)

// UtmpEntry is the Session Record's utmp half (spec.md §3 "SR",
// §4.6 "Fork"). ut_host is always written empty: spec.md §4.6 and
// login.c:287 (memset(entry->ut_host, 0, UT_HOSTSIZE)) both leave it
// blank rather than populating it with the X display.
type UtmpEntry struct {
	Type int16
	PID  int32
	Line string
	ID   string
	User string
	Time time.Time

	offset int64 // byte offset of this record, for the DEAD_PROCESS rewrite
}

// ttyLineAndID derives ut_line and ut_id from ttyname(stdin) the same way
// the C source does: ut_line is the suffix after "/dev/", ut_id is the
// suffix after "/dev/tty". Per spec.md §9's open question, this is
// preserved as-is — no fallback is invented for non-tty stdin, where the
// result may be meaningless.
func ttyLineAndID(ttyName string) (line, id string) {
	line = strings.TrimPrefix(ttyName, "/dev/")
	id = strings.TrimPrefix(ttyName, "/dev/tty")
	return line, id
}

func (e *UtmpEntry) marshal() []byte {
	buf := new(bytes.Buffer)

	write := func(v interface{}) { binary.Write(buf, binary.LittleEndian, v) }

	var line [utLineSize]byte
	copy(line[:], e.Line)
	var id [utIDSize]byte
	copy(id[:], e.ID)
	var user [utNameSize]byte
	copy(user[:], e.User)
	var host [utHostSize]byte

	write(e.Type)                // ut_type
	write(int16(0))              // padding to align ut_pid
	write(e.PID)                 // ut_pid
	write(line)                  // ut_line[32]
	write(id)                    // ut_id[4]
	write(user)                  // ut_user[32]
	write(host)                  // ut_host[256], always blank
	write(int16(0))              // ut_exit.e_termination
	write(int16(0))              // ut_exit.e_exit
	write(int32(0))              // ut_session
	write(int32(e.Time.Unix()))  // ut_tv.tv_sec
	write(int32(0))              // ut_tv.tv_usec
	var addr [4]int32
	write(addr) // ut_addr_v6
	var unused [20]byte
	write(unused)

	out := buf.Bytes()
	if len(out) != utmpRecordSize {
		panic("vty: utmp record marshaled to unexpected size")
	}
	return out
}

// WriteUtmpEntry appends a USER_PROCESS entry at the end of the utmp file.
// A write failure is non-fatal: the session proceeds regardless
// (spec.md §4.6: "If the entry cannot be written, the session still
// proceeds").
func WriteUtmpEntry(username, ttyName string, pid int) *UtmpEntry {
	line, id := ttyLineAndID(ttyName)
	entry := &UtmpEntry{
		Type: utUserProcess,
		PID:  int32(pid),
		Line: line,
		ID:   id,
		User: username,
		Time: time.Now(),
	}

	f, err := os.OpenFile(utmpPath, os.O_RDWR|os.O_CREATE, 0664)
	if err != nil {
		return entry
	}
	defer f.Close()

	off, err := f.Seek(0, os.SEEK_END)
	if err != nil {
		return entry
	}
	entry.offset = off

	f.Write(entry.marshal())
	return entry
}

// RemoveUtmpEntry converts a previously written entry to DEAD_PROCESS in
// place (spec.md §4.6 "post-wait it converts the entry to DEAD_PROCESS").
func RemoveUtmpEntry(entry *UtmpEntry) {
	if entry == nil {
		return
	}

	entry.Type = utDeadProcess
	entry.Line = ""
	entry.User = ""
	entry.Time = time.Unix(0, 0)

	f, err := os.OpenFile(utmpPath, os.O_RDWR, 0664)
	if err != nil {
		return
	}
	defer f.Close()

	f.WriteAt(entry.marshal(), entry.offset)
}
