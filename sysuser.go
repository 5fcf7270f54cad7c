package vty

import (
	"bufio"
	"os"
	"os/user"
	"strconv"
	"strings"
)

// SysUser is the resolved passwd entry for the authenticating login,
// enriched with the supplementary group ids the child process needs
// (spec.md §4.6 step 1 "Resolve the target user's passwd entry").
type SysUser struct {
	Username string
	UID      int
	GID      int
	Groups   []uint32
	HomeDir  string
	Shell    string
}

// LookupSysUser resolves login via the host's user database. If the
// shell field is empty, it falls back to the first entry in /etc/shells
// (the user-shells database); if that also fails, Shell is left empty and
// the child will fail visibly on exec (spec.md §4.6 step 1).
func LookupSysUser(login string) (*SysUser, *Error) {
	u, err := user.Lookup(login)
	if err != nil {
		return nil, NewError(KindPwnamErr, err)
	}

	uid, _ := strconv.Atoi(u.Uid)
	gid, _ := strconv.Atoi(u.Gid)

	groupIDs, _ := u.GroupIds()
	groups := make([]uint32, 0, len(groupIDs))
	for _, g := range groupIDs {
		if n, err := strconv.Atoi(g); err == nil {
			groups = append(groups, uint32(n))
		}
	}

	shell := lookupShell(login)

	return &SysUser{
		Username: u.Username,
		UID:      uid,
		GID:      gid,
		Groups:   groups,
		HomeDir:  u.HomeDir,
		Shell:    shell,
	}, nil
}

// lookupShell reads the shell field out of /etc/passwd directly (the Go
// standard library's os/user doesn't expose it), falling back to the
// first usable entry in /etc/shells if the passwd shell field is empty,
// matching the C source's setusershell/getusershell fallback.
func lookupShell(login string) string {
	if f, err := os.Open("/etc/passwd"); err == nil {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			fields := strings.Split(scanner.Text(), ":")
			if len(fields) >= 7 && fields[0] == login {
				if fields[6] != "" {
					return fields[6]
				}
				break
			}
		}
	}

	if f, err := os.Open("/etc/shells"); err == nil {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			return line
		}
	}

	return ""
}
