package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/ezrender/internal/config"
	"github.com/Faultbox/ezrender/internal/logger"
)

var errSaveAndOutput = errors.New("-save and -o are mutually exclusive")

// cmdConfig prints the effective configuration, or writes it to a file.
func cmdConfig(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	save := fs.Bool("save", false, "Write to the user config directory")
	out := fs.String("o", "", "Write to this file")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 0 {
		return errors.New("usage: ezrender config [-save | -o <file>]")
	}

	switch {
	case *save && *out != "":
		return errSaveAndOutput
	case *save:
		path, err := cfg.Save()
		if err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		logger.Debug("config saved", zap.String("path", path))
		fmt.Printf("Config saved: %s\n", path)
	case *out != "":
		if err := cfg.SaveTo(*out); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		logger.Debug("config saved", zap.String("path", *out))
		fmt.Printf("Config saved: %s\n", *out)
	default:
		return cfg.Write(os.Stdout)
	}
	return nil
}
