package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dkoosis/dftjob/pkg/mapper"
)

func runClassify(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	var g globalFlags
	cfg, log, code := setup(fs, &g, args, stderr)
	if code >= 0 {
		return code
	}
	defer func() { _ = log.Sync() }()

	var (
		raw []byte
		err error
	)
	switch fs.NArg() {
	case 0:
		raw, err = io.ReadAll(stdin)
	case 1:
		if fs.Arg(0) == "-" {
			raw, err = io.ReadAll(stdin)
		} else {
			raw, err = os.ReadFile(fs.Arg(0))
		}
	default:
		fmt.Fprintln(stderr, "dftjob classify: expected at most one file")
		return exitUsage
	}
	if err != nil {
		fmt.Fprintf(stderr, "dftjob classify: %v\n", err)
		return exitUsage
	}

	classifier, err := cfg.Classifier()
	if err != nil {
		fmt.Fprintf(stderr, "dftjob classify: %v\n", err)
		return exitUsage
	}
	emit(cfg, stdout, mapper.FromClassify(classifier.Classify(string(raw))))
	return exitOK
}
