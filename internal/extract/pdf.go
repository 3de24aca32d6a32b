package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	pageFileRe = regexp.MustCompile(`Content_page_(\d+)`)
	// A TJ array or a single string shown by Tj, ' or ".
	showTextRe = regexp.MustCompile(`(?s)\[((?:\\.|[^\]\\])*)\]\s*TJ|(\((?:\\.|[^\\)])*\))\s*(?:Tj|'|")`)
	literalRe  = regexp.MustCompile(`(?s)\((?:\\.|[^\\)])*\)`)
)

// probePDF decides once per run whether portable documents can be read.
func probePDF(enabled bool, scratch string) (bool, string) {
	if !enabled {
		return false, "disabled by configuration"
	}
	dir, err := os.MkdirTemp(scratch, "evidex-probe-")
	if err != nil {
		return false, fmt.Sprintf("scratch directory not writable: %v", err)
	}
	_ = os.RemoveAll(dir)
	return true, ""
}

type pdfExtractor struct {
	scratch string
}

// Extract dumps page content streams with pdfcpu and scrapes the literal
// text operands, page by page, until the budget is reached.
func (p *pdfExtractor) Extract(ctx context.Context, path string, maxChars int) (string, error) {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return "", fail(ReasonParseFailed, err)
	}

	outDir, err := os.MkdirTemp(p.scratch, "evidex-pdf-")
	if err != nil {
		return "", fail(ReasonCapabilityUnavailable, err)
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(path, outDir, nil, conf); err != nil {
		return "", fail(ReasonParseFailed, err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", fail(ReasonReadFailed, err)
	}
	pageFiles := make(map[int]string, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if m := pageFileRe.FindStringSubmatch(e.Name()); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				pageFiles[n] = filepath.Join(outDir, e.Name())
			}
		}
	}

	var parts []string
	total := 0
	for page := 1; page <= pdfCtx.PageCount; page++ {
		if err := ctx.Err(); err != nil {
			return "", fail(ReasonReadFailed, err)
		}
		file, ok := pageFiles[page]
		if !ok {
			continue
		}
		stream, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		if t := scrapeContentStream(string(stream)); t != "" {
			parts = append(parts, t)
			total += utf8.RuneCountInString(t)
		}
		if maxChars > 0 && total >= maxChars {
			break
		}
	}
	return collapseSpace(strings.Join(parts, " ")), nil
}

// scrapeContentStream returns the literal strings shown by a page content
// stream. Pieces of one TJ array are joined directly; separate show
// operations are separated by a space.
func scrapeContentStream(stream string) string {
	var ops []string
	for _, m := range showTextRe.FindAllStringSubmatch(stream, -1) {
		if m[1] != "" {
			var sb strings.Builder
			for _, lit := range literalRe.FindAllString(m[1], -1) {
				sb.WriteString(unescapeLiteral(lit[1 : len(lit)-1]))
			}
			ops = append(ops, sb.String())
			continue
		}
		if m[2] != "" {
			ops = append(ops, unescapeLiteral(m[2][1:len(m[2])-1]))
		}
	}
	return strings.ToValidUTF8(strings.Join(ops, " "), "")
}

// unescapeLiteral decodes backslash escapes in a PDF literal string.
func unescapeLiteral(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b', 'f':
			sb.WriteByte(' ')
		case '\n':
			// line continuation
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i:j], 8, 8)
			sb.WriteByte(byte(v))
			i = j - 1
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
