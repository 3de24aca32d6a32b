// Package extract turns supported document formats into plain text for date
// and entity matching. Extraction is best effort: every failure becomes an
// Outcome with Available false and a reason, never an error.
package extract

import "strings"

// Kind is the extraction capability of a file, resolved from its extension.
type Kind int

const (
	// Unsupported files are matched by name only.
	Unsupported Kind = iota
	// PlainText files are read as lenient UTF-8.
	PlainText
	// ArchivedDocument files are zip packages with a word/document.xml body.
	ArchivedDocument
	// PortableDocument files need the optional PDF capability.
	PortableDocument
)

// String returns the kind name used in logs and exports.
func (k Kind) String() string {
	switch k {
	case PlainText:
		return "plain_text"
	case ArchivedDocument:
		return "archived_document"
	case PortableDocument:
		return "portable_document"
	default:
		return "unsupported"
	}
}

// KindForExt maps a lowercase extension without dot to its Kind.
func KindForExt(ext string) Kind {
	switch strings.ToLower(ext) {
	case "txt", "md", "csv", "json":
		return PlainText
	case "docx":
		return ArchivedDocument
	case "pdf":
		return PortableDocument
	default:
		return Unsupported
	}
}

// Unavailable reasons.
const (
	ReasonUnsupportedKind       = "unsupported_kind"
	ReasonReadFailed            = "read_failed"
	ReasonArchiveInvalid        = "archive_invalid"
	ReasonBodyMissing           = "body_missing"
	ReasonCapabilityUnavailable = "capability_unavailable"
	ReasonParseFailed           = "parse_failed"
)

// Outcome is the result of one extraction. Text is set only when Available.
type Outcome struct {
	Text      string
	Available bool
	Kind      Kind
	Reason    string
}

// Failure is returned by extractors to report why text is unavailable.
type Failure struct {
	Reason string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Reason
	}
	return f.Reason + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }

func fail(reason string, err error) error {
	return &Failure{Reason: reason, Err: err}
}
