// Package locale loads the per-run language table consumed by the UI layer
// for labels and error phrases. Parsing itself is out of core scope
// (spec.md §1); this package is the narrow consumer-facing record plus a
// go-ini-backed loader, matching the teacher's INI-driven config idiom.
package locale

import (
	"fmt"
	"path/filepath"

	"github.com/go-ini/ini"
)

// Locale holds every user-facing string the core needs to report, keyed by
// the same locale-table keys the Authenticator's error taxonomy returns.
type Locale struct {
	Login    string
	Password string
	Shell    string
	Xinitrc  string
	Wayland  string
	Shutdown string
	Restart  string
	Logout   string
	CapsLock string
	NumLock  string

	ErrPamAcctExpired        string
	ErrPamAuth               string
	ErrPamAuthInfoUnavail    string
	ErrPamBuf                string
	ErrPamCredErr            string
	ErrPamCredExpired        string
	ErrPamCredInsufficient   string
	ErrPamCredUnavail        string
	ErrPamMaxTries           string
	ErrPamNewAuthTokReqd     string
	ErrPamPermDenied         string
	ErrPamSession            string
	ErrPamSys                string
	ErrPamUserUnknown        string
	ErrPamAbort              string
	ErrPwnam                 string
	ErrHostname              string
	ErrConsoleDev            string
	ErrMlock                 string
	ErrXSessionsDir          string
	ErrXSessionsOpen         string
	ErrAlloc                 string
	ErrPath                  string
	ErrChdir                 string
	ErrUserInit              string
	ErrUserGid               string
	ErrUserUid               string
}

// Default returns the built-in (English) locale table so the UI always has
// something to render even without a language file on disk.
func Default() *Locale {
	return &Locale{
		Login:    "Login:",
		Password: "Password:",
		Shell:    "Shell",
		Xinitrc:  "Xinitrc",
		Wayland:  "(Wayland)",
		Shutdown: "Shutdown",
		Restart:  "Restart",
		Logout:   "Logout",
		CapsLock: "Caps Lock",
		NumLock:  "Num Lock",

		ErrPamAcctExpired:      "account expired",
		ErrPamAuth:             "wrong password",
		ErrPamAuthInfoUnavail:  "authentication info unavailable",
		ErrPamBuf:              "buffer error",
		ErrPamCredErr:          "credential error",
		ErrPamCredExpired:      "credential expired",
		ErrPamCredInsufficient: "insufficient credential",
		ErrPamCredUnavail:      "credential unavailable",
		ErrPamMaxTries:         "maximum tries exceeded",
		ErrPamNewAuthTokReqd:   "new authentication token required",
		ErrPamPermDenied:       "permission denied",
		ErrPamSession:          "session error",
		ErrPamSys:              "system error",
		ErrPamUserUnknown:      "unknown user",
		ErrPamAbort:            "authentication aborted",
		ErrPwnam:               "user lookup failed",
		ErrHostname:            "could not determine hostname",
		ErrConsoleDev:          "could not open console device",
		ErrMlock:               "could not lock credential memory",
		ErrXSessionsDir:        "could not access X sessions directory",
		ErrXSessionsOpen:       "could not open X sessions directory",
		ErrAlloc:               "out of memory",
		ErrPath:                "could not set PATH",
		ErrChdir:               "could not change directory",
		ErrUserInit:            "could not initialize user groups",
		ErrUserGid:             "could not set group id",
		ErrUserUid:             "could not set user id",
	}
}

// Load reads "<dataDir>/lang/<lang>.ini" and overlays it onto Default().
// A missing file is not an error: the default (English) table stands in.
func Load(dataDir, lang string) (*Locale, error) {
	l := Default()
	path := filepath.Join(dataDir, "lang", fmt.Sprintf("%s.ini", lang))

	f, err := ini.Load(path)
	if err != nil {
		return l, nil
	}

	sec := f.Section("")
	set := func(key string, dst *string) {
		if sec.HasKey(key) {
			*dst = sec.Key(key).String()
		}
	}

	set("login", &l.Login)
	set("password", &l.Password)
	set("shell", &l.Shell)
	set("xinitrc", &l.Xinitrc)
	set("wayland", &l.Wayland)
	set("shutdown", &l.Shutdown)
	set("restart", &l.Restart)
	set("logout", &l.Logout)
	set("capslock", &l.CapsLock)
	set("numlock", &l.NumLock)

	set("err_pam_acct_expired", &l.ErrPamAcctExpired)
	set("err_pam_auth", &l.ErrPamAuth)
	set("err_pam_authinfo_unavail", &l.ErrPamAuthInfoUnavail)
	set("err_pam_buf", &l.ErrPamBuf)
	set("err_pam_cred_err", &l.ErrPamCredErr)
	set("err_pam_cred_expired", &l.ErrPamCredExpired)
	set("err_pam_cred_insufficient", &l.ErrPamCredInsufficient)
	set("err_pam_cred_unavail", &l.ErrPamCredUnavail)
	set("err_pam_maxtries", &l.ErrPamMaxTries)
	set("err_pam_authok_reqd", &l.ErrPamNewAuthTokReqd)
	set("err_pam_perm_denied", &l.ErrPamPermDenied)
	set("err_pam_session", &l.ErrPamSession)
	set("err_pam_sys", &l.ErrPamSys)
	set("err_pam_user_unknown", &l.ErrPamUserUnknown)
	set("err_pam_abort", &l.ErrPamAbort)
	set("err_pwnam", &l.ErrPwnam)
	set("err_hostname", &l.ErrHostname)
	set("err_console_dev", &l.ErrConsoleDev)
	set("err_mlock", &l.ErrMlock)
	set("err_xsessions_dir", &l.ErrXSessionsDir)
	set("err_xsessions_open", &l.ErrXSessionsOpen)
	set("err_alloc", &l.ErrAlloc)
	set("err_path", &l.ErrPath)
	set("err_chdir", &l.ErrChdir)
	set("err_user_init", &l.ErrUserInit)
	set("err_user_gid", &l.ErrUserGid)
	set("err_user_uid", &l.ErrUserUid)

	return l, nil
}
