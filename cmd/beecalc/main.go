package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/blakegarretson/beecalc"
)

func main() {
	log.SetFlags(0)
	var (
		inname string
		with   []string
		group  bool
		debug  bool
		prec   int
	)
	flag.StringVar(&inname, "in", "", "notebook file (default stdin if no args given)")
	flag.Func("given", "name=value variable definition (any number of times)", func(s string) error {
		if !strings.Contains(s, "=") {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, s)
		return nil
	})
	flag.IntVar(&prec, "p", 128, "precision of big-float calculations in bits")
	flag.BoolVar(&group, "group", false, "print results with digit grouping")
	flag.BoolVar(&debug, "debug", false, "log the preprocessing pipeline")
	flag.Parse()
	if prec <= 0 {
		log.Fatalf("precision (%d) must be positive", prec)
	}

	opts := []beecalc.Option{beecalc.WithPrec(uint(prec))}
	if debug {
		zl, err := zap.NewDevelopment()
		if err != nil {
			log.Fatal(err)
		}
		defer zl.Sync()
		opts = append(opts, beecalc.WithLogger(zl))
	}
	pad := beecalc.NewNotepad(opts...)
	for _, d := range with {
		if r := pad.Append(d); r.Err != nil {
			log.Fatalf("setting %s: %v", d, r.Err)
		}
	}

	show := display(group)

	if flag.NArg() > 0 {
		for _, arg := range flag.Args() {
			for _, ln := range strings.Split(arg, ";") {
				r := pad.Append(ln)
				if out := show(r); out != "" {
					fmt.Println(out)
				}
			}
		}
		return
	}

	if inname != "" && inname != "-" {
		src, err := os.ReadFile(inname)
		if err != nil {
			log.Fatal(err)
		}
		for _, r := range pad.EvalText(string(src)) {
			fmt.Printf("%-40s %s\n", r.Input, show(r))
		}
		return
	}

	repl(pad, show)
}

// display returns the result formatter. With grouping on, plain numeric
// results print with locale digit separators; everything else prints as
// the value renders itself.
func display(group bool) func(beecalc.Result) string {
	if !group {
		return beecalc.Result.Output
	}
	p := message.NewPrinter(language.English)
	return func(r beecalc.Result) string {
		if r.Err != nil || r.Value.IsEmpty() {
			return r.Output()
		}
		if i, ok := r.Value.Int(); ok {
			return p.Sprint(number.Decimal(i))
		}
		if r.Value.Kind() == beecalc.KindFloat {
			f, _ := r.Value.Float64()
			return p.Sprint(number.Decimal(f))
		}
		return r.Output()
	}
}

func repl(pad *beecalc.Notepad, show func(beecalc.Result) string) {
	rl, err := readline.New("» ")
	if err != nil {
		log.Fatal(err)
	}
	defer rl.Close()
	for {
		line, err := rl.Readline()
		switch err {
		case nil:
		case readline.ErrInterrupt:
			continue
		case io.EOF:
			return
		default:
			log.Fatal(err)
		}
		switch strings.TrimSpace(line) {
		case "quit", "exit":
			return
		case "clear":
			pad.Reset()
			continue
		}
		r := pad.Append(line)
		if r.Err != nil {
			fmt.Println(r.Err)
			continue
		}
		if out := show(r); out != "" {
			fmt.Println(out)
		}
	}
}
