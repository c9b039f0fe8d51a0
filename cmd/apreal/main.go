// apreal is an interactive calculator over arbitrary-precision computable
// reals: it reads expressions from stdin, evaluates them against a shared
// Settings record, and prints the result to the configured number of
// digits (spec.md §6).
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/lukaszgryglicki/apreal"
	"github.com/lukaszgryglicki/apreal/parser"
)

// VERSION is injected by buildflags.
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "apreal"
	myApp.Usage = "arbitrary-precision computable-real REPL"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "precision",
			Value: 10,
			Usage: "fractional digits printed for each result",
		},
		cli.IntFlag{
			Name:  "timeout",
			Value: -1,
			Usage: "per-expression timeout in milliseconds, -1 to disable",
		},
		cli.IntFlag{
			Name:  "division-limit",
			Value: apreal.DefaultDivisionLimit,
			Usage: "binary precision below which a denominator is treated as zero",
		},
		cli.BoolFlag{
			Name:  "multithreaded",
			Usage: "evaluate independent operands of Add/Multiply concurrently",
		},
		cli.BoolFlag{
			Name:  "hex",
			Usage: "print results in hexadecimal",
		},
		cli.BoolFlag{
			Name:  "scientific",
			Usage: "print results in scientific notation",
		},
	}
	myApp.Action = runRepl

	if err := myApp.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func runRepl(c *cli.Context) error {
	settings := apreal.NewSettings()
	settings.SetDivisionLimit(c.Int("division-limit"))
	settings.UseMultithreading = c.Bool("multithreaded")
	if ms := c.Int("timeout"); ms >= 0 {
		settings.Timeout = time.Duration(ms) * time.Millisecond
	}

	digits := c.Int("precision")
	hex := c.Bool("hex")
	scientific := c.Bool("scientific")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024), 1<<20)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		if handled, err := handleSetCommand(line, settings, &digits); handled {
			if err != nil {
				fmt.Println("  error:", err)
			}
			continue
		}

		node, err := parser.Parse(line, settings)
		if err != nil {
			fmt.Println("  syntax error:", err)
			continue
		}

		ctx, cancel := settings.NewContext(nil)
		ctx = apreal.WithMultithreading(ctx, settings.UseMultithreading)
		out, err := apreal.ToString(ctx, node, digits, scientific, hex)
		cancel()
		if err != nil {
			fmt.Println("  error:", err)
			continue
		}
		fmt.Println("  " + out)
	}

	if err := scanner.Err(); err != nil {
		log.Println("input error:", err)
		return err
	}
	return nil
}

// handleSetCommand recognizes "set precision N", "set timeout N" (ms, -1
// disables), and "set division limit N"; it reports handled=true for any
// line starting with "set " so the caller doesn't try to parse it as an
// expression (spec.md §6).
func handleSetCommand(line string, settings *apreal.Settings, digits *int) (handled bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "set" {
		return false, nil
	}
	defer func() { handled = true }()

	switch {
	case len(fields) == 3 && fields[1] == "precision":
		n, e := strconv.Atoi(fields[2])
		if e != nil {
			return true, e
		}
		*digits = n
		return true, nil
	case len(fields) == 3 && fields[1] == "timeout":
		n, e := strconv.Atoi(fields[2])
		if e != nil {
			return true, e
		}
		if n < 0 {
			settings.Timeout = -1
		} else {
			settings.Timeout = time.Duration(n) * time.Millisecond
		}
		return true, nil
	case len(fields) == 4 && fields[1] == "division" && fields[2] == "limit":
		n, e := strconv.Atoi(fields[3])
		if e != nil {
			return true, e
		}
		settings.SetDivisionLimit(n)
		return true, nil
	default:
		return true, fmt.Errorf("unrecognized set command: %s", line)
	}
}
