package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/dkoosis/dftjob/pkg/failure"
	"github.com/dkoosis/dftjob/pkg/mapper"
	"github.com/dkoosis/dftjob/pkg/outcome"
)

func runReconcile(args []string, _ io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("reconcile", flag.ContinueOnError)
	var g globalFlags
	dir := fs.String("dir", "", "Directory holding the retrieved files (required)")
	stderrPath := fs.String("stderr", "", "The job's captured stderr")
	all := fs.Bool("all", false, "Consider every file under --dir, not just what the host retrieves")

	cfg, log, code := setup(fs, &g, args, stderr)
	if code >= 0 {
		return code
	}
	defer func() { _ = log.Sync() }()

	if *dir == "" {
		fmt.Fprintln(stderr, "dftjob reconcile: --dir is required")
		return exitUsage
	}

	actual, err := outcome.ListDir(*dir)
	if err != nil {
		fmt.Fprintf(stderr, "dftjob reconcile: %v\n", err)
		return exitUsage
	}
	if !*all {
		listed := len(actual)
		actual = cfg.Job.Match(actual)
		log.Debug("retrieval list applied", zap.Int("listed", listed), zap.Int("retrieved", len(actual)))
	}

	var signal failure.Match
	if *stderrPath != "" {
		raw, err := os.ReadFile(*stderrPath)
		if err != nil {
			fmt.Fprintf(stderr, "dftjob reconcile: %v\n", err)
			return exitUsage
		}
		classifier, err := cfg.Classifier()
		if err != nil {
			fmt.Fprintf(stderr, "dftjob reconcile: %v\n", err)
			return exitUsage
		}
		signal = classifier.Classify(string(raw))
	}

	o := outcome.Reconcile(cfg.Job.Expected(), actual, signal, outcome.DirOpener(*dir))
	log.Info("job reconciled",
		zap.Stringer("kind", o.Kind),
		zap.Int("exit_code", o.ExitCode()),
		zap.Stringer("signal", o.Signal),
		zap.Strings("missing", o.Missing()))

	emit(cfg, stdout, mapper.FromOutcome(o))
	if o.Kind.IsFailure() {
		return exitJobFailure
	}
	return exitOK
}
