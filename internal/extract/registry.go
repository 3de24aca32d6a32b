package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars caps extracted text length in runes.
const DefaultMaxChars = 1_000_000

// Extractor produces text for one Kind. maxChars is a budget hint; the
// registry truncates regardless.
type Extractor interface {
	Extract(ctx context.Context, path string, maxChars int) (string, error)
}

// Options configures a Registry.
type Options struct {
	// MaxChars truncates every text. Zero means DefaultMaxChars.
	MaxChars int
	// PDF enables the portable document capability.
	PDF bool
	// ScratchDir holds temporary page files. Empty means os.TempDir().
	ScratchDir string
	Logger     *slog.Logger
}

// Registry dispatches files to extractors by Kind.
type Registry struct {
	maxChars     int
	extractors   map[Kind]Extractor
	pdfAvailable bool
	logger       *slog.Logger
}

// NewRegistry builds the registry and probes the PDF capability once.
func NewRegistry(opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxChars := opts.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	scratch := opts.ScratchDir
	if scratch == "" {
		scratch = os.TempDir()
	}

	r := &Registry{
		maxChars:   maxChars,
		extractors: make(map[Kind]Extractor, 3),
		logger:     logger,
	}
	r.Register(PlainText, textExtractor{})
	r.Register(ArchivedDocument, docxExtractor{})

	if ok, reason := probePDF(opts.PDF, scratch); ok {
		r.Register(PortableDocument, &pdfExtractor{scratch: scratch})
	} else {
		logger.Info("pdf_capability_unavailable", slog.String("reason", reason))
	}
	return r
}

// Register sets the extractor for kind. Registering a portable document
// extractor marks the PDF capability available; a nil one withdraws it.
func (r *Registry) Register(kind Kind, e Extractor) {
	r.extractors[kind] = e
	if kind == PortableDocument {
		r.pdfAvailable = e != nil
	}
}

// PDFAvailable reports the result of the startup probe.
func (r *Registry) PDFAvailable() bool {
	return r.pdfAvailable
}

// Extract returns the text of path. It never panics and never returns an
// error; failures are reported through Outcome.Reason.
func (r *Registry) Extract(ctx context.Context, path, ext string) (out Outcome) {
	kind := KindForExt(ext)
	out = Outcome{Kind: kind}

	if kind == Unsupported {
		out.Reason = ReasonUnsupportedKind
		return out
	}
	e := r.extractors[kind]
	if e == nil {
		out.Reason = ReasonCapabilityUnavailable
		return out
	}
	if err := ctx.Err(); err != nil {
		out.Reason = ReasonReadFailed
		return out
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Warn("extractor_panic",
				slog.String("path", path),
				slog.String("kind", kind.String()),
				slog.String("panic", fmt.Sprint(p)))
			out = Outcome{Kind: kind, Reason: ReasonParseFailed}
		}
	}()

	text, err := e.Extract(ctx, path, r.maxChars)
	if err != nil {
		out.Reason = ReasonParseFailed
		var f *Failure
		if errors.As(err, &f) {
			out.Reason = f.Reason
		}
		r.logger.Debug("extraction_unavailable",
			slog.String("path", path),
			slog.String("kind", kind.String()),
			slog.String("reason", out.Reason),
			slog.String("error", err.Error()))
		return out
	}

	out.Text = Truncate(text, r.maxChars)
	out.Available = true
	return out
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// collapseSpace replaces whitespace runs with one space and trims.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
