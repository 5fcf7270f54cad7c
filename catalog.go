package vty

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
)

// SessionKind identifies the display-server flavor of a desktop entry
// (spec.md §3 "D").
type SessionKind int

const (
	Shell SessionKind = iota
	XInitrc
	Xorg
	Wayland
)

// Desktop is one entry in the Desktop Catalog (spec.md §3 "D"). Filename
// is the source .desktop file's base name for crawled entries (spec.md
// §4.6 step 5 sets XDG_SESSION_DESKTOP from it); the built-in Shell and
// XInitrc entries have no backing file and leave it empty.
type Desktop struct {
	DisplayName string
	Exec        string
	Kind        SessionKind
	Filename    string
}

// Catalog is the ordered sequence of Desktop entries with a current
// selection (spec.md §3 "DC"). The built-in Shell and XInitrc entries are
// always present and always first.
type Catalog struct {
	entries []Desktop
	cur     int
}

// NewCatalog builds a catalog containing only the two built-ins, matching
// spec.md §8: "After DC.scan(empty, empty), DC.len == 2...".
func NewCatalog(xinitrcPath string) *Catalog {
	return &Catalog{
		entries: []Desktop{
			{DisplayName: "Shell", Exec: "", Kind: Shell},
			{DisplayName: "Xinitrc", Exec: xinitrcPath, Kind: XInitrc},
		},
	}
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Cur returns the currently selected index.
func (c *Catalog) Cur() int { return c.cur }

// Current returns the currently selected entry.
func (c *Catalog) Current() Desktop { return c.entries[c.cur] }

// At returns the entry at index i.
func (c *Catalog) At(i int) Desktop { return c.entries[i] }

// SetCur sets the current index if it is in range; matches the save-file
// load semantics in spec.md §8 ("Round-trips").
func (c *Catalog) SetCur(i int) {
	if i >= 0 && i < len(c.entries) {
		c.cur = i
	}
}

// MoveLeft/MoveRight change the current selection, clamped to bounds
// (spec.md §4.3 Left/Right on the Session field).
func (c *Catalog) MoveLeft() {
	if c.cur > 0 {
		c.cur--
	}
}

func (c *Catalog) MoveRight() {
	if c.cur < len(c.entries)-1 {
		c.cur++
	}
}

func (c *Catalog) append(d Desktop) {
	c.entries = append(c.entries, d)
}

// Scan rebuilds a Catalog's crawled entries (built-ins untouched) by
// reading every regular, non-dotfile entry under waylandDir then xDir,
// matching spec.md §4.1's ordering contract: Shell, XInitrc, then crawled
// Wayland entries, then crawled Xorg entries.
func Scan(xinitrcPath, xDir, waylandDir string, waylandSpecifier bool) (*Catalog, *Error) {
	cat := NewCatalog(xinitrcPath)

	var firstErr *Error
	if err := cat.crawl(waylandDir, Wayland, waylandSpecifier); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := cat.crawl(xDir, Xorg, false); err != nil && firstErr == nil {
		firstErr = err
	}

	return cat, firstErr
}

const waylandSuffix = " (Wayland)"

// crawl scans one session directory, parsing each file's [Desktop Entry]
// section for Name/Exec (spec.md §4.1). A missing/unreadable directory
// yields no entries and a non-fatal error; entries missing Name or Exec
// are silently skipped.
func (c *Catalog) crawl(dir string, kind SessionKind, waylandSpecifier bool) *Error {
	infos, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return NewError(KindXSessionsDir, err)
		}
		return NewError(KindXSessionsOpen, err)
	}

	for _, info := range infos {
		name := info.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if info.IsDir() {
			continue
		}

		path := filepath.Join(dir, name)
		f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
		if err != nil {
			continue
		}

		sec, err := f.GetSection("Desktop Entry")
		if err != nil {
			continue
		}

		if !sec.HasKey("Name") || !sec.HasKey("Exec") {
			continue
		}

		displayName := sec.Key("Name").String()
		exec := sec.Key("Exec").String()
		if displayName == "" || exec == "" {
			continue
		}

		if kind == Wayland && waylandSpecifier && !strings.Contains(displayName, waylandSuffix) {
			displayName += waylandSuffix
		}

		c.append(Desktop{DisplayName: displayName, Exec: exec, Kind: kind, Filename: name})
	}

	return nil
}
