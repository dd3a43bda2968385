package main

import (
	"flag"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/dftjob/pkg/manifest"
)

// manifestOutput is what the host engine needs to stage and retrieve a job.
type manifestOutput struct {
	Input    string           `yaml:"input"`
	Posinp   string           `yaml:"posinp"`
	Output   string           `yaml:"output"`
	Time     string           `yaml:"time"`
	Expected []string         `yaml:"expected"`
	Retrieve []manifest.Entry `yaml:"retrieve"`
}

func runManifest(args []string, _ io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("manifest", flag.ContinueOnError)
	var g globalFlags
	cfg, log, code := setup(fs, &g, args, stderr)
	if code >= 0 {
		return code
	}
	defer func() { _ = log.Sync() }()

	o := cfg.Job
	out := manifestOutput{
		Input:    o.InputFilename(),
		Posinp:   manifest.DefaultPosinpFilename,
		Output:   o.Output(),
		Time:     o.TimeFilename(),
		Expected: o.Expected(),
		Retrieve: o.Retrieve(),
	}
	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "dftjob manifest: %v\n", err)
		return exitUsage
	}
	if err := enc.Close(); err != nil {
		fmt.Fprintf(stderr, "dftjob manifest: %v\n", err)
		return exitUsage
	}
	return exitOK
}
