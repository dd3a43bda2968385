package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dkoosis/dftjob/pkg/inputdoc"
	"github.com/dkoosis/dftjob/pkg/lattice"
	"github.com/dkoosis/dftjob/pkg/mapper"
	"github.com/dkoosis/dftjob/pkg/structure"
)

func runPrepare(args []string, _ io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("prepare", flag.ContinueOnError)
	var g globalFlags
	structPath := fs.String("structure", "", "Structure file")
	fromPath := fs.String("from", "", "Existing input document to rewrite in canonical form (instead of --structure)")
	paramsPath := fs.String("params", "", "Solver parameters YAML")
	coerce := fs.Bool("coerce", false, "Request transformation of non-orthorhombic cells (unsupported, reports the crystal family)")
	out := fs.String("o", "", "Output path for the input document (default: input.yaml or <jobname>.yaml)")
	xyzPath := fs.String("xyz", "", "Also write the positions as an xyz file")

	cfg, log, code := setup(fs, &g, args, stderr)
	if code >= 0 {
		return code
	}
	defer func() { _ = log.Sync() }()

	input := *structPath
	if input == "" {
		input = *fromPath
	}
	var src source
	var err error
	switch {
	case *structPath != "" && *fromPath != "":
		fmt.Fprintln(stderr, "dftjob prepare: give either --structure or --from, not both")
		return exitUsage
	case *structPath != "":
		src, err = fromStructure(*structPath, *coerce)
	case *fromPath != "":
		src, err = fromInputDoc(*fromPath, *coerce)
	default:
		fmt.Fprintln(stderr, "dftjob prepare: --structure or --from is required")
		return exitUsage
	}
	if err != nil {
		if errors.Is(err, lattice.ErrGeometry) || errors.Is(err, lattice.ErrUnsupportedTransform) {
			log.Warn("structure rejected", zap.String("structure", input), zap.Error(err))
		}
		fmt.Fprintf(stderr, "dftjob prepare: %v\n", err)
		return exitUsage
	}

	params, err := loadParams(*paramsPath)
	if err != nil {
		fmt.Fprintf(stderr, "dftjob prepare: %v\n", err)
		return exitUsage
	}

	base := inputdoc.Merge(inputdoc.Merge(inputdoc.Defaults(), cfg.Solver), src.params)
	doc := inputdoc.AssembleWithBase(base, params, src.block)
	data, err := inputdoc.Marshal(doc)
	if err != nil {
		fmt.Fprintf(stderr, "dftjob prepare: %v\n", err)
		return exitUsage
	}
	fingerprint, err := inputdoc.Fingerprint(doc)
	if err != nil {
		fmt.Fprintf(stderr, "dftjob prepare: %v\n", err)
		return exitUsage
	}

	// Render the xyz file up front so a rejected cell leaves nothing on disk.
	var xyz bytes.Buffer
	if *xyzPath != "" {
		if err := structure.WriteXYZ(&xyz, src.block); err != nil {
			fmt.Fprintf(stderr, "dftjob prepare: %v\n", err)
			return exitUsage
		}
	}

	target := *out
	if target == "" {
		target = cfg.Job.InputFilename()
	}
	if target == "-" {
		_, _ = stdout.Write(data)
	} else if err := os.WriteFile(target, data, 0o644); err != nil {
		fmt.Fprintf(stderr, "dftjob prepare: %v\n", err)
		return exitUsage
	}
	if *xyzPath != "" {
		if err := os.WriteFile(*xyzPath, xyz.Bytes(), 0o644); err != nil {
			fmt.Fprintf(stderr, "dftjob prepare: %v\n", err)
			return exitUsage
		}
	}
	log.Info("input document written",
		zap.String("path", target),
		zap.String("xyz", *xyzPath),
		zap.String("fingerprint", fingerprint),
		zap.Int("atoms", len(src.block.Positions)))

	// stdout carries the document itself.
	if target == "-" {
		return exitOK
	}
	emit(cfg, stdout, mapper.FromPrepare(mapper.Prepared{
		Output:      target,
		Atoms:       len(src.block.Positions),
		Boundary:    boundary(src.block.Periodic()),
		Class:       src.class,
		Fingerprint: fingerprint,
	}))
	return exitOK
}

// source is what prepare builds an input document from.
type source struct {
	block  structure.PositionBlock
	params map[string]any
	class  string
}

func fromStructure(path string, coerce bool) (source, error) {
	s, err := loadStructure(path)
	if err != nil {
		return source{}, err
	}
	block, err := structure.Translate(s, structure.WithCoerce(coerce))
	if err != nil {
		return source{}, err
	}
	src := source{block: block}
	if s.IsPeriodic() {
		src.class = lattice.Classify(s.Cell).String()
	}
	return src, nil
}

// fromInputDoc reads an input document in either posinp shape. Its own
// parameters sit between the configured defaults and --params.
func fromInputDoc(path string, coerce bool) (source, error) {
	f, err := os.Open(path)
	if err != nil {
		return source{}, err
	}
	defer f.Close()
	doc, block, err := inputdoc.Read(f)
	if err != nil {
		return source{}, fmt.Errorf("%s: %w", path, err)
	}
	params := make(map[string]any, len(doc))
	for k, v := range doc {
		if k != inputdoc.PosinpKey {
			params[k] = v
		}
	}
	src := source{block: block, params: params}
	if cell, ok := block.UnitCell(); ok {
		if _, err := lattice.CheckOrthorhombic(cell, coerce); err != nil {
			return source{}, err
		}
		src.class = lattice.Classify(cell).String()
	}
	return src, nil
}

func loadStructure(path string) (structure.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return structure.Structure{}, err
	}
	defer f.Close()
	s, err := structure.Load(f)
	if err != nil {
		return structure.Structure{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func loadParams(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var params map[string]any
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return params, nil
}

func boundary(p [3]bool) string {
	switch p {
	case [3]bool{}:
		return "free"
	case [3]bool{true, true, true}:
		return "periodic"
	case [3]bool{true, false, true}:
		return "surface"
	default:
		return fmt.Sprintf("mixed %v", p)
	}
}
