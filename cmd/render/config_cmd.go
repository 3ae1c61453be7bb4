package main

import (
	"context"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-render/internal/yamlutil"
)

// redacted replaces secrets in printed configs.
const redacted = "********"

// runConfig prints the effective configuration as YAML, after the config
// file, the dotenv file, the environment and flags were applied.
func runConfig(_ context.Context, args []string, env *Environment) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var common commonFlags
	addCommonFlags(fs, &common)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	cfg, err := loadConfig(&common)
	if err != nil {
		return err
	}
	shown := *cfg
	if shown.Service.Password != "" {
		shown.Service.Password = redacted
	}

	out, err := yamlutil.Marshal(&shown)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(out)
	return err
}
