package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/t2048/internal/board"
	"github.com/vovakirdan/t2048/internal/search"
)

var flagTimeout time.Duration

var hintCmd = &cobra.Command{
	Use:   "hint <board>",
	Short: "Print the best move for a board",
	Long: `Search a position and print the chosen direction with the expected
value of every move.

Rows are separated by '/', ';' or newlines and cells by spaces or
commas. Empty cells are 0.

Examples:
  t2048 hint "2 2 0 0/0 4 0 0/0 0 0 0/0 0 0 8"
  t2048 hint --depth 3 "0 0 0 2;0 0 0 2;0 0 0 0;0 0 0 0"`,
	Args: cobra.MinimumNArgs(1),
	Run:  runHint,
}

func init() {
	hintCmd.Flags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Give up after this long")
}

func runHint(_ *cobra.Command, args []string) {
	cfg := mustLoadConfig()

	b, err := board.Parse(strings.Join(args, "/"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts, err := cfg.SearchOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	searcher := search.New(opts)

	ctx, cancel := context.WithTimeout(context.Background(), flagTimeout)
	defer cancel()

	start := time.Now()
	dec, err := searcher.Decide(ctx, b)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching: %v\n", err)
		os.Exit(1)
	}
	took := time.Since(start)

	fmt.Println(strings.ReplaceAll(b.String(), "/", "\n"))
	fmt.Println()

	if !dec.Legal {
		fmt.Println("No move changes the board: game over.")
		return
	}

	fmt.Printf("  %-6s  %s\n", "Move", "Expected")
	fmt.Printf("  %-6s  %s\n", "----", "--------")
	for _, m := range dec.Moves {
		marker := " "
		if m.Direction == dec.Direction {
			marker = "*"
		}
		if !m.Legal {
			fmt.Printf("%s %-6s  -\n", marker, m.Direction)
			continue
		}
		fmt.Printf("%s %-6s  %.3f\n", marker, m.Direction, m.Score)
	}

	fmt.Println()
	fmt.Printf("Best: %s (depth %d, %d nodes, %s)\n", dec.Direction, searcher.Depth(), dec.Nodes, took.Round(time.Microsecond))
}
