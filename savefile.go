package vty

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/tvrzna/vty/config"
)

// loadSaveFile reads the two-line save file (spec.md §6 "Save file (two
// lines): line 1 = last login, line 2 = last desktop index") into login
// and cat. A missing file, or any parse failure, leaves both untouched —
// the save file is a convenience, never a requirement.
func loadSaveFile(path string, login *Credential, cat *Catalog) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	if scanner.Scan() {
		line := scanner.Text()
		for i := 0; i < len(line) && i < login.Cap(); i++ {
			login.Write(line[i])
		}
	}

	if scanner.Scan() {
		if idx, err := strconv.Atoi(strings.TrimSpace(scanner.Text())); err == nil {
			cat.SetCur(idx)
		}
	}
}

// saveFile writes the two-line save file after a successful submit, only
// if cfg.Save is set (spec.md §6 "Written after every successful submit
// if save is true"). The original implementation writes no trailing
// newline after the index; this mirrors that exactly so round-trips
// against files it wrote stay stable.
func saveFile(cfg *config.Config, login string, cat *Catalog) {
	if !cfg.Save {
		return
	}

	f, err := os.Create(cfg.SaveFile)
	if err != nil {
		return
	}
	defer f.Close()

	f.WriteString(login + "\n" + strconv.Itoa(cat.Cur()))
}
