package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/t2048/internal/registry"
)

var evaluatorsCmd = &cobra.Command{
	Use:   "evaluators",
	Short: "List board evaluators",
	Long:  `Shows the evaluators the search engine can score leaf positions with.`,
	Run:   runEvaluators,
}

func runEvaluators(cmd *cobra.Command, args []string) {
	evals := registry.List()

	if len(evals) == 0 {
		fmt.Println("No evaluators available.")
		return
	}

	fmt.Println("Available evaluators:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, e := range evals {
		if len(e.Name)+1 > maxNameLen { // Room for the default marker
			maxNameLen = len(e.Name) + 1
		}
	}

	// Print header
	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")

	for _, e := range evals {
		name := e.Name
		if name == registry.DefaultEvaluator {
			name += "*"
		}
		fmt.Printf("  %-*s  %s\n", maxNameLen, name, e.Description)
	}

	fmt.Println()
	fmt.Println("* default. Run 't2048 play --evaluator <name>' to use another.")
}
