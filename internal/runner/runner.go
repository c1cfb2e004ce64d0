// Package runner drives symbol extraction over a list of blobs.
//
// A run has one of two shapes, fixed by the argument count: direct mode
// writes the records of a single blob to standard output; batch mode appends
// the records of many blobs to the calling worker's own output file in a
// shared directory. Any failure aborts the whole run.
package runner

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/mvp-joe/blobtags/internal/config"
	"github.com/mvp-joe/blobtags/internal/extract"
	"github.com/mvp-joe/blobtags/internal/pathcodec"
	"github.com/mvp-joe/blobtags/internal/serializer"
	"github.com/mvp-joe/blobtags/internal/sink"
)

// ErrUsage indicates an invocation without any blob argument.
var ErrUsage = errors.New("expected at least one argument")

// Mode is the output discipline of a run.
type Mode int

const (
	// Direct writes a single blob's records to standard output.
	Direct Mode = iota
	// Batch appends many blobs' records to <outdir>/<prefix><process id>.
	Batch
)

func (m Mode) String() string {
	if m == Batch {
		return "batch"
	}
	return "direct"
}

// Invocation is a parsed command line.
type Invocation struct {
	Mode   Mode
	OutDir string // batch mode only
	Blobs  []string
}

// ParseArgs decides the mode from the argument count: one argument is a
// blob, two or more are an output directory followed by blobs.
func ParseArgs(args []string) (Invocation, error) {
	switch len(args) {
	case 0:
		return Invocation{}, ErrUsage
	case 1:
		return Invocation{Mode: Direct, Blobs: args}, nil
	default:
		return Invocation{Mode: Batch, OutDir: args[0], Blobs: args[1:]}, nil
	}
}

// Stats summarizes a completed run.
type Stats struct {
	Blobs          int
	Records        int
	OutputPath     string // empty in direct mode
	ProcessingTime time.Duration
}

// Runner executes invocations against a resolved configuration.
type Runner struct {
	cfg      *config.Config
	format   serializer.Format
	stdout   io.Writer
	logger   *log.Logger
	verbose  bool
	progress ProgressReporter
}

// Option configures a Runner.
type Option func(*Runner)

// WithStdout sets the direct-mode destination. Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) { r.stdout = w }
}

// WithLogger sets the diagnostic logger. Defaults to the standard logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithVerbose enables per-blob diagnostics.
func WithVerbose(v bool) Option {
	return func(r *Runner) { r.verbose = v }
}

// WithProgress sets the reporter used in batch mode.
func WithProgress(p ProgressReporter) Option {
	return func(r *Runner) { r.progress = p }
}

// New creates a Runner. cfg must already have passed config.Validate.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	format, err := serializer.ParseFormat(cfg.Input.Format)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:      cfg,
		format:   format,
		stdout:   os.Stdout,
		logger:   log.Default(),
		progress: &NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run processes every blob of inv in order. The output sink is closed before
// Run returns, whether processing finished or failed.
func (r *Runner) Run(inv Invocation) (stats *Stats, err error) {
	if len(inv.Blobs) == 0 {
		return nil, ErrUsage
	}

	start := time.Now()
	stats = &Stats{}

	s, err := r.openSink(inv, stats)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	progress := r.progress
	if inv.Mode == Direct {
		progress = &NoOpProgressReporter{}
	}
	progress.OnStart(len(inv.Blobs))

	for _, blob := range inv.Blobs {
		n, err := r.ProcessBlob(s, blob)
		if err != nil {
			return nil, err
		}
		stats.Blobs++
		stats.Records += n
		progress.OnBlobProcessed(blob, n)
		if r.verbose {
			r.logger.Printf("%s: %d records", blob, n)
		}
	}

	stats.ProcessingTime = time.Since(start)
	progress.OnComplete(stats)
	return stats, nil
}

// openSink resolves the output destination. In batch mode the worker
// identity is validated before anything is opened.
func (r *Runner) openSink(inv Invocation, stats *Stats) (sink.Sink, error) {
	if inv.Mode == Direct {
		return sink.NewWriterSink(r.stdout), nil
	}

	if err := config.ValidateBatch(r.cfg); err != nil {
		return nil, err
	}
	fs, err := sink.OpenAppend(inv.OutDir, r.cfg.Output.Prefix, r.cfg.Worker.ProcessID)
	if err != nil {
		return nil, err
	}
	stats.OutputPath = fs.Name()
	if r.verbose {
		r.logger.Printf("Appending to %s", fs.Name())
	}
	return fs, nil
}

// ProcessBlob extracts one blob's records into s and returns how many were written.
func (r *Runner) ProcessBlob(s sink.Sink, blobPath string) (int, error) {
	content, err := serializer.ReadBlob(blobPath)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", blobPath, err)
	}

	file, err := serializer.Deserialize(r.format, blobPath, content, "")
	if err != nil {
		return 0, err
	}

	// The path stored by the indexer may predate renames; the blob name is authoritative.
	path, err := pathcodec.Decode(blobPath)
	if err != nil {
		return 0, err
	}

	n := 0
	for rec := range extract.Extract(file, path) {
		if err := s.Write(rec); err != nil {
			return n, fmt.Errorf("%s: %w", blobPath, err)
		}
		n++
	}
	return n, nil
}
