// Package main provides pm-seed, a tool that writes synthetic seed files for
// trying pm on larger collections.
package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/pm/internal/seed"
)

func main() {
	fs := flag.NewFlagSet("pm-seed", flag.ContinueOnError)
	count := fs.IntP("count", "n", 1000, "Number of items to generate")
	output := fs.StringP("output", "o", "items.yaml", "Output `file` (.yaml, .yml or .json)")
	randSeed := fs.Uint64("rand", 1, "Random seed; the same seed writes the same items")
	now := fs.String("now", "", "Date items are created relative to (RFC 3339, default now)")

	err := fs.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}

		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	err = run(*count, *output, *randSeed, *now)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(count int, output string, randSeed uint64, rawNow string) error {
	if count < 0 {
		return fmt.Errorf("--count must be non-negative, got %d", count)
	}

	now := time.Now()

	if rawNow != "" {
		parsed, err := time.Parse(time.RFC3339, rawNow)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}

		now = parsed
	}

	start := time.Now()
	items := seed.Generate(count, rand.New(rand.NewPCG(randSeed, randSeed)), now)

	err := seed.Write(output, items)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d items in %s -> %s\n", len(items), time.Since(start), output)

	return nil
}
