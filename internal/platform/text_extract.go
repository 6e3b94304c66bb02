package platform

import (
	"fmt"
	"regexp"
	"strings"
)

// errWrite reports a pasteboard/clipboard write that the OS API rejected.
func errWrite(kind string) error {
	return fmt.Errorf("platform: write %s: rejected by OS clipboard", kind)
}

var (
	htmlTagRe   = regexp.MustCompile(`(?s)<[^>]*>`)
	rtfControlRe = regexp.MustCompile(`\\[a-zA-Z]+-?\d*[ ]?|[{}]`)
	svgTextRe   = regexp.MustCompile(`(?s)<text[^>]*>(.*?)</text>`)
)

// stripHTML is the last-resort plain-text projection used when an adapter
// can read markup but the OS did not also hand back a plain-text variant.
func stripHTML(markup string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(markup, ""))
}

// extractRTFText strips RTF control words and groups, leaving the run of
// literal text. It is a best-effort fallback, not a full RTF parser.
func extractRTFText(rtf []byte) string {
	return strings.TrimSpace(rtfControlRe.ReplaceAllString(string(rtf), " "))
}

// extractSVGText concatenates the contents of every <text> node, used as
// the Office extracted-text fallback when no native plain-text is present.
func extractSVGText(svg []byte) string {
	matches := svgTextRe.FindAllSubmatch(svg, -1)
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		if t := strings.TrimSpace(htmlTagRe.ReplaceAllString(string(m[1]), "")); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// extractPDFText pulls the literal strings out of PDF text-showing operators
// (Tj / TJ), which covers the common case of simple, uncompressed text
// streams without pulling in a full PDF content-stream parser.
func extractPDFText(pdf []byte) string {
	var out strings.Builder
	s := string(pdf)
	for {
		start := strings.IndexByte(s, '(')
		if start < 0 {
			break
		}
		end := -1
		for i := start + 1; i < len(s); i++ {
			if s[i] == '\\' {
				i++
				continue
			}
			if s[i] == ')' {
				end = i
				break
			}
		}
		if end < 0 {
			break
		}
		literal := s[start+1 : end]
		tail := strings.TrimLeft(s[end+1:], " \t\r\n")
		if strings.HasPrefix(tail, "Tj") || strings.HasPrefix(tail, "TJ") {
			out.WriteString(strings.NewReplacer(`\(`, "(", `\)`, ")", `\\`, `\`).Replace(literal))
			out.WriteByte(' ')
		}
		s = s[end+1:]
	}
	return strings.TrimSpace(out.String())
}
