// Command horse is the CLI entry point: `horse <file>` compiles and runs a
// script, and with no arguments it drops into the REPL. Flag and subcommand
// handling goes through github.com/urfave/cli/v2 rather than a hand-rolled
// os.Args switch.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/kristofer/horse/internal/compiler"
	"github.com/kristofer/horse/internal/config"
	"github.com/kristofer/horse/internal/parser"
	"github.com/kristofer/horse/internal/repl"
	"github.com/kristofer/horse/internal/rtlog"
	"github.com/kristofer/horse/internal/stdlib"
	"github.com/kristofer/horse/internal/vm"
)

func main() {
	app := &cli.App{
		Name:  "horse",
		Usage: "a small dynamic scripting language",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
			&cli.StringFlag{Name: "config", Usage: "path to a horse.yaml config file"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if c.NArg() == 0 {
				return runREPL(cfg)
			}
			return runFile(cfg, c.Args().First())
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run a script file",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					if c.NArg() == 0 {
						return cli.Exit("no file specified", 1)
					}
					return runFile(cfg, c.Args().First())
				},
			},
			{
				Name:  "repl",
				Usage: "start the interactive REPL",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					return runREPL(cfg)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		rtlog.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	rtlog.SetDebug(c.Bool("debug"))
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, errors.Wrap(err, "loading config")
	}
	cfg.Debug = c.Bool("debug") || cfg.Debug
	return cfg, nil
}

func runFile(cfg config.Config, path string) error {
	_ = cfg
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	prog, err := parser.ParseSource(string(src))
	if err != nil {
		return errors.Wrap(err, "parsing")
	}

	compiled, err := compiler.New().Compile(prog)
	if err != nil {
		return errors.Wrap(err, "compiling")
	}

	v := vm.New()
	stdlib.Bootstrap(v)

	if _, err := v.RunProgram(compiled); err != nil {
		if re, ok := err.(*vm.RaisedException); ok {
			fmt.Fprintln(os.Stderr, re.Error())
			os.Exit(1)
		}
		return err
	}
	return nil
}

func runREPL(cfg config.Config) error {
	v := vm.New()
	stdlib.Bootstrap(v)
	repl.Run(v, cfg, os.Stdin, os.Stdout)
	return nil
}
