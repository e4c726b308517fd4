package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/tallylang/tally"
)

func main() {
	log.SetFlags(0)
	var cmds string
	flag.StringVar(&cmds, "c", "", "evaluate a program given as an argument")
	flag.Parse()

	ctx := tally.NewContext()
	switch {
	case cmds != "":
		if err := runProgram(ctx, cmds); err != nil {
			log.Fatal(err)
		}
	case flag.NArg() > 0:
		for _, name := range flag.Args() {
			src, err := os.ReadFile(name)
			if err != nil {
				log.Fatal(err)
			}
			if err := runProgram(ctx, string(src)); err != nil {
				log.Fatalf("%s: %v", name, err)
			}
		}
	default:
		repl(ctx)
	}
}

// runProgram parses and evaluates a whole program and prints its final
// symbol table.
func runProgram(ctx *tally.Context, src string) error {
	p, err := tally.ParseString(src)
	if err != nil {
		return err
	}
	syms, err := ctx.Eval(p)
	if err != nil {
		return err
	}
	printTable(syms)
	return nil
}

// repl reads one statement per line from stdin, prints each value, and
// reports errors without terminating the session. End of input prints the
// final symbol table.
func repl(ctx *tally.Context) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		stmt, err := tally.ParseStatement(strings.NewReader(line))
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		v, err := ctx.EvalStmt(stmt)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		fmt.Println(v)
	}
	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}
	printTable(ctx.Symbols())
}

func printTable(syms map[string]tally.Value) {
	names := make([]string, 0, len(syms))
	for name := range syms {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s = %s\n", name, syms[name])
	}
}
