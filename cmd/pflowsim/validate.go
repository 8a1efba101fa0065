package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/simao-eugenio/shypn-sub005/modelio"
	"github.com/simao-eugenio/shypn-sub005/validate"
)

// validateModel is named to avoid colliding with the imported package
// name validate.
func validateModel(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	outputJSON := fs.Bool("json", false, "Output results as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pflowsim validate <model.json> [options]

Validate Petri net model structure and detect potential issues: dead
transitions (no preset and no postset, not a source/sink), negative
token counts, and continuous rate expressions that fail to compile.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("model file required")
	}
	modelPath := fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return err
	}

	data, err := os.ReadFile(modelPath)
	if err != nil {
		return fmt.Errorf("read model: %w", err)
	}
	net, err := modelio.Load(data)
	if err != nil {
		return fmt.Errorf("parse model: %w", err)
	}

	report := validate.Validate(net)

	if *outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	} else {
		fmt.Printf("%s: %d places, %d transitions, %d arcs\n",
			modelPath, len(net.Places()), len(net.Transitions()), len(net.Arcs()))
		for _, e := range report.Errors {
			fmt.Printf("  ERROR   %s\n", e)
		}
		for _, w := range report.Warnings {
			fmt.Printf("  WARNING %s\n", w)
		}
		if report.OK() {
			fmt.Println("  OK")
		}
	}

	if !report.OK() {
		os.Exit(1)
	}
	return nil
}
