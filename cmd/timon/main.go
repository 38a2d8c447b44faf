package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	timon "github.com/spietras/timon-interpreter"
)

const (
	appName     = "timon"
	historyFile = ".timon_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var banner = "Timon REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit."

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) > 1 && os.Args[1] == "repl" {
		os.Exit(cmdRepl(os.Args[2:]))
	}
	os.Exit(cmdRun(os.Args[1:]))
}

func usage() {
	fmt.Fprintf(os.Stderr, `Timon interpreter

Usage:
  %s [-stage lexer|parser|execution] <file.tmn>   Run a script.
  %s repl                                         Start the REPL.

`, appName, appName)
}

func cmdRun(args []string) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	stage := fs.String("stage", "execution", "pipeline stage to stop at: lexer, parser, execution")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		usage()
		return 2
	}
	file := fs.Arg(0)

	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	switch *stage {
	case "lexer":
		out, err := timon.DumpTokens(string(src))
		fmt.Print(out)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return 1
		}
	case "parser":
		out, err := timon.DumpAST(string(src))
		fmt.Print(out)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return 1
		}
	case "execution":
		p, err := timon.NewParser(string(src))
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return 1
		}
		prog, err := p.ParseProgram()
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return 1
		}
		interp := timon.NewInterpreter(os.Stdout)
		if err := interp.Run(prog); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return 1
		}
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown -stage %q\n", appName, *stage)
		return 2
	}
	return 0
}

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

	interp := timon.NewInterpreter(os.Stdout)

	for {
		code, ok := readBalanced(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" {
			return 0
		}

		p, err := timon.NewParser(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		prog, err := p.ParseProgram()
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		if err := interp.Run(prog); err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
	return 0
}

// readBalanced accumulates lines from the user until braces balance,
// letting multi-line function/if/from bodies span several prompts.
func readBalanced(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	depth := 0
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth <= 0 {
			return b.String(), true
		}
	}
}
