package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/simao-eugenio/shypn-sub005/collector"
	"github.com/simao-eugenio/shypn-sub005/conflict"
	"github.com/simao-eugenio/shypn-sub005/kernel"
	"github.com/simao-eugenio/shypn-sub005/modelio"
)

func simulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	dt := fs.Float64("dt", 0.1, "Fixed step size")
	maxSteps := fs.Int("steps", 1000, "Maximum number of steps")
	duration := fs.Float64("duration", 0, "Stop once logical time reaches this value (0 = unbounded, steps govern instead)")
	strategy := fs.String("strategy", "largest", "Conflict resolution strategy: largest, priority, random, first")
	seed := fs.Int64("seed", 1, "Random seed for stochastic transitions and the random strategy")
	idleWindow := fs.Int("idle-window", 20, "Consecutive no-op steps before run() treats the net as terminal")
	jsonlPath := fs.String("jsonl", "", "Write a JSONL event log of every step to this path")
	csvPath := fs.String("csv", "", "Write a CSV event log of every step to this path")
	sqlitePath := fs.String("sqlite", "", "Write a SQLite event log of every step to this path")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: pflowsim simulate <model.json> [options]

Run the simulation kernel over a model: the scheduler, conflict
detector, atomic executor, and RK4 continuous integrator in lockstep.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  pflowsim simulate sir.json --dt 0.1 --steps 2000 --jsonl sir.jsonl
  pflowsim simulate race.json --strategy priority --steps 1
`)
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

	ctrl, err := kernel.New(net,
		kernel.WithDt(*dt),
		kernel.WithSeed(*seed),
		kernel.WithStrategy(conflict.Strategy(*strategy)))
	if err != nil {
		return fmt.Errorf("build controller: %w", err)
	}

	sinks, closeSinks, err := openSinks(*jsonlPath, *csvPath, *sqlitePath)
	if err != nil {
		return err
	}
	defer closeSinks()
	for _, s := range sinks {
		ctrl.RegisterStepListener(s)
	}

	stderr := diagnosticWriter()

	start := time.Now()
	fired, idle, steps := 0, 0, 0
	for steps = 0; steps < *maxSteps; steps++ {
		if *duration > 0 && ctrl.Now() >= *duration {
			break
		}
		res := ctrl.Step()
		if res.Err != nil {
			fmt.Fprintf(stderr, "step %s: %v\n", humanize.Comma(int64(steps)), res.Err)
		}
		if len(res.Fired) == 0 {
			idle++
			if idle >= *idleWindow {
				break
			}
		} else {
			idle = 0
			fired += len(res.Fired)
		}
	}
	elapsed := time.Since(start)

	fmt.Fprintf(stderr, "Simulation complete\n")
	fmt.Fprintf(stderr, "  Steps:        %s\n", humanize.Comma(int64(steps)))
	fmt.Fprintf(stderr, "  Final time:   %.3f\n", ctrl.Now())
	fmt.Fprintf(stderr, "  Firings:      %s\n", humanize.Comma(int64(fired)))
	fmt.Fprintf(stderr, "  Compute time: %.3fs\n", elapsed.Seconds())
	fmt.Fprintf(stderr, "  Run id:       %s\n", ctrl.RunID())

	for _, p := range net.Places() {
		fmt.Printf("%-20s %d\n", p.ID, p.Tokens)
	}
	return nil
}

// diagnosticWriter wraps stderr for colored output only when attached
// to a real terminal, leaving piped/redirected output plain.
func diagnosticWriter() io.Writer {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return colorable.NewColorableStderr()
	}
	return os.Stderr
}

func openSinks(jsonlPath, csvPath, sqlitePath string) ([]kernel.StepListener, func(), error) {
	var sinks []kernel.StepListener
	var closers []func() error

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if jsonlPath != "" {
		f, err := os.Create(jsonlPath)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("create %s: %w", jsonlPath, err)
		}
		sink := collector.NewJSONLSink(f)
		sinks = append(sinks, sink)
		closers = append(closers, func() error { sink.Close(); return f.Close() })
	}
	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("create %s: %w", csvPath, err)
		}
		sink := collector.NewCSVSink(f)
		sinks = append(sinks, sink)
		closers = append(closers, func() error { sink.Close(); return f.Close() })
	}
	if sqlitePath != "" {
		sink, err := collector.NewSQLiteSink(sqlitePath)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, sink)
		closers = append(closers, sink.Close)
	}

	return sinks, closeAll, nil
}
