package config

import (
	"os"
	"time"

	"github.com/go-ini/ini"
)

// IniSource loads a Config from a freedesktop-style INI file, falling back
// to Default() for any key that is absent or the file itself is missing.
// This mirrors config.c's config_load: every field is optional and a
// missing config file is not an error.
type IniSource struct{}

// Load reads path and overlays it onto Default(). A missing file yields
// the built-in defaults unchanged (spec.md §6: "Missing file → built-in
// defaults").
func (IniSource) Load(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr != nil {
		return cfg, nil
	}

	f, err := ini.LoadSources(ini.LoadOptions{AllowBooleanKeys: true}, path)
	if err != nil {
		return cfg, nil
	}

	sec := f.Section("")

	getStr := func(key string, dst *string) {
		if sec.HasKey(key) {
			*dst = sec.Key(key).String()
		}
	}
	getInt := func(key string, dst *int) {
		if sec.HasKey(key) {
			if v, err := sec.Key(key).Int(); err == nil {
				*dst = v
			}
		}
	}
	getBool := func(key string, dst *bool) {
		if sec.HasKey(key) {
			if v, err := sec.Key(key).Bool(); err == nil {
				*dst = v
			}
		}
	}

	getInt("tty", &cfg.TTY)
	getStr("console_dev", &cfg.ConsoleDev)
	getStr("term_reset_cmd", &cfg.TermResetCmd)
	if sec.HasKey("min_refresh_delta") {
		if v, err := sec.Key("min_refresh_delta").Int(); err == nil {
			cfg.MinRefreshDelta = time.Duration(v) * time.Millisecond
		}
	}
	getStr("service_name", &cfg.ServiceName)
	getBool("save", &cfg.Save)
	getBool("load", &cfg.Load)
	getStr("save_file", &cfg.SaveFile)
	getStr("path", &cfg.Path)
	getStr("mcookie_cmd", &cfg.MCookieCmd)
	getStr("x_cmd", &cfg.XCmd)
	getStr("x_cmd_setup", &cfg.XCmdSetup)
	getStr("wayland_cmd", &cfg.WaylandCmd)
	getStr("xauth_cmd", &cfg.XauthCmd)
	getStr("xinitrc", &cfg.XinitrcPath)
	getStr("xsessions", &cfg.XSessionsDir)
	getStr("waylandsessions", &cfg.WaylandSessionsDir)
	getBool("wayland_specifier", &cfg.WaylandSpecifier)
	getInt("max_login_len", &cfg.MaxLoginLen)
	getInt("max_password_len", &cfg.MaxPasswordLen)
	getStr("shutdown_cmd", &cfg.ShutdownCmd)
	getStr("shutdown_key", &cfg.ShutdownKey)
	getStr("restart_cmd", &cfg.RestartCmd)
	getStr("restart_key", &cfg.RestartKey)
	getStr("lang", &cfg.Lang)
	getInt("auth_trigger", &cfg.FailedAttemptsTrigger)

	return cfg, nil
}
