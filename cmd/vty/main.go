// Command vty is a PAM-driven TTY login manager.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tvrzna/vty"
	"github.com/tvrzna/vty/config"
	"github.com/tvrzna/vty/locale"
)

const version = "0.1.0"

const defaultConfigPath = "/etc/vty/vty.ini"

func main() {
	root := &cobra.Command{
		Use:     "vty [config-file]",
		Short:   "PAM-driven TTY login manager",
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE:    run,
	}
	root.SetVersionTemplate("vty {{.Version}}\n")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := defaultConfigPath
	if len(args) == 1 {
		path = args[0]
	}

	cfg, err := (config.IniSource{}).Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	loc, err := locale.Load(cfg.DataDir, cfg.Lang)
	if err != nil {
		return fmt.Errorf("loading locale: %w", err)
	}

	logger := vty.NewLogger(fmt.Sprintf("%s/vty.log", cfg.DataDir))

	screen, err := vty.NewLineScreen(cfg.ConsoleDev)
	if err != nil {
		return fmt.Errorf("opening console device %s: %w", cfg.ConsoleDev, err)
	}
	defer screen.Shutdown()

	app, err := vty.NewApp(cfg, loc, logger, screen)
	if err != nil {
		return fmt.Errorf("initializing: %w", err)
	}

	return app.Run()
}
