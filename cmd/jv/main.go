// Copyright (C) 2025 Fernwood Labs. All Rights Reserved.

// Program jv validates and reformats JSON files.
//
// Usage:
//
//	jv validate FILE...
//	jv format [-c|-p] FILE
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/amterp/color"

	"github.com/fernwood/jvalue"
	"github.com/fernwood/jvalue/format"
	"github.com/fernwood/jvalue/jfile"
)

var cli struct {
	Validate validateCmd `cmd:"" help:"Check that each file is a single well-formed JSON document."`
	Format   formatCmd   `cmd:"" help:"Parse a file and print it reformatted to stdout."`
}

var (
	pathColor = color.New(color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	posColor  = color.New(color.FgYellow)
	okColor   = color.New(color.FgGreen)
)

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("jv"),
		kong.Description("Validate and reformat JSON files."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", failColor.Sprint("jv:"), err)
		os.Exit(1)
	}
}

type validateCmd struct {
	Files []string `arg:"" type:"existingfile" help:"Files to check."`
}

func (c *validateCmd) Run() error {
	failed := 0
	for _, path := range c.Files {
		if err := jfile.ValidFile(path); err != nil {
			report(path, err)
			failed++
			continue
		}
		fmt.Printf("%s: %s\n", pathColor.Sprint(path), okColor.Sprint("ok"))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files invalid", failed, len(c.Files))
	}
	return nil
}

type formatCmd struct {
	Compact bool   `short:"c" xor:"style" help:"Write compact single-line output."`
	Pretty  bool   `short:"p" xor:"style" help:"Indent four spaces and sort object keys."`
	File    string `arg:"" type:"existingfile" help:"File to format."`
}

func (c *formatCmd) Run() error {
	v, err := jfile.ParseFile(c.File)
	if err != nil {
		report(c.File, err)
		return errors.New("invalid input")
	}
	cfg := format.Default
	switch {
	case c.Compact:
		cfg = format.Compact
	case c.Pretty:
		cfg = format.Pretty
	}
	if err := format.Format(os.Stdout, v, cfg); err != nil {
		return err
	}
	if cfg.LineEnd == "" {
		fmt.Println()
	}
	return nil
}

// report prints a colorized description of err to stderr, including the
// source location and context snippet when the error carries them.
func report(path string, err error) {
	var je *jvalue.Error
	if errors.As(err, &je) && je.Line > 0 {
		fmt.Fprintf(os.Stderr, "%s %s at %s: %s\n",
			pathColor.Sprint(path+":"), failColor.Sprint(je.Code),
			posColor.Sprintf("%d:%d", je.Line, je.Column), je.Message)
		if je.Context != "" {
			fmt.Fprintf(os.Stderr, "  near %q\n", je.Context)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", pathColor.Sprint(path+":"), err)
}
