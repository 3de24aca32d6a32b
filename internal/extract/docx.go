package extract

import (
	"archive/zip"
	"context"
	"html"
	"io"
	"regexp"
	"strings"
)

const documentBody = "word/document.xml"

var (
	textRunRe = regexp.MustCompile(`(?is)<w:t[^>]*>(.*?)</w:t>`)
	tagRe     = regexp.MustCompile(`<[^>]+>`)
)

type docxExtractor struct{}

// Extract scrapes <w:t> text runs from the document body. No XML parse is
// attempted, so malformed markup still yields whatever runs are present.
func (docxExtractor) Extract(_ context.Context, path string, _ int) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fail(ReasonArchiveInvalid, err)
	}
	defer zr.Close()

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == documentBody {
			body = f
			break
		}
	}
	if body == nil {
		return "", fail(ReasonBodyMissing, nil)
	}

	rc, err := body.Open()
	if err != nil {
		return "", fail(ReasonArchiveInvalid, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fail(ReasonReadFailed, err)
	}

	return documentText(strings.ToValidUTF8(string(raw), "")), nil
}

// documentText joins the text runs of a document.xml body.
func documentText(xml string) string {
	matches := textRunRe.FindAllStringSubmatch(xml, -1)
	if len(matches) == 0 {
		return ""
	}
	runs := make([]string, 0, len(matches))
	for _, m := range matches {
		runs = append(runs, html.UnescapeString(tagRe.ReplaceAllString(m[1], "")))
	}
	return collapseSpace(strings.Join(runs, " "))
}
