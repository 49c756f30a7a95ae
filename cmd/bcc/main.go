package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	bcc "github.com/mdc1205/bcc"
)

const (
	appName     = "bcc"
	historyFile = ".bcc_history"
	prompt      = ">> "
)

var banner = fmt.Sprintf("bcc %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type exit or quit to leave.", bcc.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	// No subcommand drops straight into the REPL.
	if len(os.Args) < 2 {
		os.Exit(cmdRepl(nil))
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(bcc.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`bcc %s

Usage:
  %s run <file.bcc>    Run a script.
  %s repl              Start the REPL.
  %s version           Print the version

`, bcc.Version, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.bcc>\n", appName)
		return 2
	}

	file := args[0]
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	if err := bcc.RunSource(file, string(src), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	// One evaluator for the whole session keeps bindings alive between
	// inputs.
	ev := bcc.NewEvaluator()

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}

		code := strings.TrimSpace(line)
		if code == "" {
			continue
		}
		if code == "exit" || code == "quit" {
			return 0
		}

		v, echo, rerr := ev.EvalSource(line)
		if rerr != nil {
			fmt.Fprintln(os.Stderr, red(bcc.WrapErrorWithName(rerr, "<repl>", line).Error()))
			ln.AppendHistory(code)
			continue
		}
		if echo {
			fmt.Println(blue(v.Format()))
		}
		ln.AppendHistory(code)
	}
}
