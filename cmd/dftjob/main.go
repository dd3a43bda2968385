// dftjob prepares inputs for and reconciles outputs of plane-wave/wavelet DFT
// solver jobs run under a batch scheduler.
//
// Usage:
//
//	dftjob prepare --structure s.yaml [--params p.yaml] [--coerce] [-o input.yaml]
//	dftjob reconcile --dir retrieved/ [--stderr job.err] [--jobname name]
//	dftjob classify [stderr-file]
//	dftjob manifest [--jobname name]
//	dftjob version
//
// Output modes (auto-detected):
//
//	terminal  styled Unicode output (default when TTY)
//	llm       terse plain text (default when piped)
//	json      structured JSON for automation
//
// Exit codes: 0 success, 1 job failure (the job's 300/301/400/401 code is in
// the report), 2 usage, input or geometry errors.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dkoosis/dftjob/internal/config"
	"github.com/dkoosis/dftjob/internal/logging"
	"github.com/dkoosis/dftjob/internal/version"
	"github.com/dkoosis/dftjob/pkg/pattern"
	"github.com/dkoosis/dftjob/pkg/render"
)

const (
	exitOK         = 0
	exitJobFailure = 1
	exitUsage      = 2
)

type command struct {
	summary string
	run     func(args []string, stdin io.Reader, stdout, stderr io.Writer) int
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"prepare":   {"assemble the solver input document from a structure", runPrepare},
		"reconcile": {"decide the outcome of a finished job", runReconcile},
		"classify":  {"detect scheduler kills in stderr", runClassify},
		"manifest":  {"list staged and retrieved file names", runManifest},
		"version":   {"print build information", runVersion},
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		if len(args) == 0 {
			return exitUsage
		}
		return exitOK
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "dftjob: unknown command %q\n", args[0])
		usage(stderr)
		return exitUsage
	}
	return cmd.run(args[1:], stdin, stdout, stderr)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dftjob <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-10s %s\n", n, commands[n].summary)
	}
}

// globalFlags are shared by every command that renders a report.
type globalFlags struct {
	configPath string
	format     string
	theme      string
	jobName    string
	noColor    bool
	ci         bool
	debug      bool
}

func (g *globalFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&g.configPath, "config", "", "Config file (default: ./.dftjob.yaml, then user config dir)")
	fs.StringVar(&g.format, "format", "", "Output format: auto, terminal, llm, json")
	fs.StringVar(&g.theme, "theme", "", "Theme: default, orca, mono")
	fs.StringVar(&g.jobName, "jobname", "", "Job name; switches to <job>.yaml / log-<job>.yaml naming")
	fs.BoolVar(&g.noColor, "no-color", false, "Disable colors")
	fs.BoolVar(&g.ci, "ci", false, "CI mode (implies --no-color)")
	fs.BoolVar(&g.debug, "debug", false, "Debug logging")
}

// resolve layers the parsed flags over env and the config file.
func (g *globalFlags) resolve(fs *flag.FlagSet) (*config.ResolvedConfig, error) {
	flags := config.CliFlags{
		ConfigPath: g.configPath,
		ThemeName:  g.theme,
		Format:     g.format,
		JobName:    g.jobName,
		NoColor:    g.noColor,
		CI:         g.ci,
		Debug:      g.debug,
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "no-color":
			flags.NoColorSet = true
		case "ci":
			flags.CISet = true
		case "debug":
			flags.DebugSet = true
		}
	})
	return config.ResolveConfig(flags)
}

// setup parses args and builds the resolved config and logger.
func setup(fs *flag.FlagSet, g *globalFlags, args []string, stderr io.Writer) (*config.ResolvedConfig, *zap.Logger, int) {
	fs.SetOutput(stderr)
	g.register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, exitUsage
	}
	cfg, err := g.resolve(fs)
	if err != nil {
		fmt.Fprintf(stderr, "dftjob %s: %v\n", fs.Name(), err)
		return nil, nil, exitUsage
	}
	log := logging.New(stderr, cfg.Debug)
	if cfg.ConfigPath != "" {
		log.Debug("config loaded", zap.String("path", cfg.ConfigPath), zap.String("theme", cfg.Theme))
	}
	return cfg, log, -1
}

func emit(cfg *config.ResolvedConfig, stdout io.Writer, patterns []pattern.Pattern) {
	mode := resolveFormat(cfg.Format, stdout)
	width, _ := termSize(stdout)
	fmt.Fprint(stdout, render.ForFormat(mode, render.ThemeByName(cfg.Theme), width).Render(patterns))
}

func resolveFormat(format string, w io.Writer) string {
	if format != "" && format != "auto" {
		return format
	}
	if isTTYWriter(w) {
		return render.FormatTerminal
	}
	return render.FormatLLM
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termSize returns the terminal dimensions for w, defaulting to 80x24.
func termSize(w io.Writer) (width, height int) {
	width, height = 80, 24
	if f, ok := w.(*os.File); ok {
		if tw, th, err := term.GetSize(int(f.Fd())); err == nil {
			if tw > 0 {
				width = tw
			}
			if th > 0 {
				height = th
			}
		}
	}
	return width, height
}

func runVersion(args []string, _ io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	fmt.Fprintln(stdout, version.String())
	return exitOK
}
