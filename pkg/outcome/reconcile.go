package outcome

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/dkoosis/dftjob/pkg/document"
	"github.com/dkoosis/dftjob/pkg/failure"
)

// Opener opens a retrieved file by its name relative to the retrieved set.
type Opener func(name string) (io.ReadCloser, error)

// DirOpener opens files below dir. Names must be local (no "..", not absolute).
func DirOpener(dir string) Opener {
	return func(name string) (io.ReadCloser, error) {
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			return nil, fmt.Errorf("refusing to open %q outside %s", name, dir)
		}
		return os.Open(filepath.Join(dir, filepath.FromSlash(name)))
	}
}

// ListDir returns every regular file below dir as a slash-separated relative
// path, sorted.
func ListDir(dir string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	sort.Strings(names)
	return names, nil
}

// Reconcile decides the verdict for a finished job.
//
// A missing expected file wins over everything, with any scheduler signal
// still attached. Otherwise the first expected file is parsed; a scheduler
// signal then takes precedence over both a parse failure and a clean parse.
func Reconcile(expected, actual []string, signal failure.Match, open Opener) Outcome {
	o := Outcome{
		Expected: clone(expected),
		Actual:   clone(actual),
		Signal:   signal,
	}

	if len(missing(expected, actual)) > 0 {
		o.Kind = MissingOutputFiles
		return o
	}

	if len(expected) > 0 {
		o.Filename = expected[0]
		doc, err := parse(o.Filename, open)
		if err != nil {
			o.Err = err
			o.Kind = ParseFailure
		} else {
			o.Document = doc
		}
	}

	if k, ok := signalKind(signal); ok {
		o.Kind = k
		o.Document = nil
	}
	return o
}

func parse(name string, open Opener) (*document.Document, error) {
	if open == nil {
		return nil, fmt.Errorf("no opener for %s", name)
	}
	rc, err := open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return document.Parse(name, rc)
}

func signalKind(m failure.Match) (Kind, bool) {
	switch m.Signal {
	case failure.WallTimeExceeded:
		return WallTimeExceeded, true
	case failure.OutOfMemory:
		return OutOfMemory, true
	default:
		return Success, false
	}
}

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
