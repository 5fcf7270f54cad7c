package vty

import (
	"errors"
	"sync"

	"github.com/msteinert/pam"
)

// Handle wraps the PAM transaction kept open across a session so the
// Session Launcher can hand it back for the post-session unwind
// (spec.md §3 "AT", §4.5). endOnce guarantees pam_end runs exactly once
// regardless of which failure path triggers it (spec.md §8 testable
// property).
type Handle struct {
	trans   *pam.Transaction
	endOnce sync.Once
}

func (h *Handle) end() {
	h.endOnce.Do(func() {
		h.trans.End()
	})
}

// Authenticator drives the pluggable-auth transaction end to end. The
// exact step sequence and unwind order are the hardest-to-get-wrong part
// of this system (spec.md §4.5) — failure at any step must unwind every
// step already taken, exactly once.
type Authenticator struct {
	ServiceName string
}

// Authenticate runs pam_start → pam_authenticate → pam_acct_mgmt →
// pam_setcred(ESTABLISH) → pam_open_session in order, short-circuiting and
// unwinding via pam_end on the first failure (spec.md §4.5 table).
func (a *Authenticator) Authenticate(login, password, tty string) (*Handle, *Error) {
	conv := func(s pam.Style, msg string) (string, error) {
		switch s {
		case pam.PromptEchoOn:
			return login, nil
		case pam.PromptEchoOff:
			return password, nil
		case pam.ErrorMsg:
			return "", errors.New(msg)
		case pam.TextInfo:
			return "", nil
		}
		return "", errors.New("unrecognized PAM message style")
	}

	transRaw, err := pam.StartFunc(a.ServiceName, login, conv)
	if err != nil {
		return nil, NewError(mapPamErr(err), err)
	}
	h := &Handle{trans: transRaw}

	if tty != "" {
		_ = h.trans.SetItem(pam.Tty, tty)
	}

	if err := h.trans.Authenticate(pam.Silent); err != nil {
		h.end()
		return nil, NewError(mapPamErr(err), err)
	}

	if err := h.trans.AcctMgmt(pam.Silent); err != nil {
		h.end()
		return nil, NewError(mapPamErr(err), err)
	}

	if err := h.trans.SetCred(pam.EstablishCred); err != nil {
		h.end()
		return nil, NewError(mapPamErr(err), err)
	}

	if err := h.trans.OpenSession(pam.Silent); err != nil {
		h.end()
		return nil, NewError(mapPamErr(err), err)
	}

	return h, nil
}

// EnvList returns the environment variables PAM modules contributed
// during the transaction (spec.md §4.6 step 6).
func (h *Handle) EnvList() map[string]string {
	envs, err := h.trans.GetEnvList()
	if err != nil {
		return nil
	}
	return envs
}

// PamUser returns the username PAM resolved the transaction to, which may
// differ from the one initially typed (module stacking, NIS, etc.).
func (h *Handle) PamUser() string {
	u, _ := h.trans.GetItem(pam.User)
	return u
}

// Unwind runs pam_close_session → pam_setcred(DELETE) → pam_end, in that
// order, exactly once, after the session child has exited (spec.md §4.5
// "On success... After the session's child exits").
func (h *Handle) Unwind() *Error {
	if err := h.trans.CloseSession(pam.Silent); err != nil {
		h.end()
		return NewError(mapPamErr(err), err)
	}

	if err := h.trans.SetCred(pam.DeleteCred); err != nil {
		h.end()
		return NewError(mapPamErr(err), err)
	}

	h.end()
	return nil
}

// mapPamErr maps an error returned by the pam binding to our taxonomy.
// The binding surfaces the underlying PAM return code via pam.Error;
// anything it doesn't recognize falls back to Abort, the spec's default.
func mapPamErr(err error) Kind {
	var pe pam.Error
	if !errors.As(err, &pe) {
		return KindPamAbort
	}

	switch pe {
	case pam.ErrAcctExpired:
		return KindPamAcctExpired
	case pam.ErrAuth:
		return KindPamAuth
	case pam.ErrAuthinfoUnavail:
		return KindPamAuthInfoUnavail
	case pam.ErrBuf:
		return KindPamBuf
	case pam.ErrCredErr:
		return KindPamCredErr
	case pam.ErrCredExpired:
		return KindPamCredExpired
	case pam.ErrCredInsufficient:
		return KindPamCredInsufficient
	case pam.ErrCredUnavail:
		return KindPamCredUnavail
	case pam.ErrMaxtries:
		return KindPamMaxTries
	case pam.ErrNewAuthtokReqd:
		return KindPamNewAuthTokReqd
	case pam.ErrPermDenied:
		return KindPamPermDenied
	case pam.ErrSession:
		return KindPamSessionErr
	case pam.ErrSystem:
		return KindPamSysErr
	case pam.ErrUserUnknown:
		return KindPamUserUnknown
	default:
		return KindPamAbort
	}
}
