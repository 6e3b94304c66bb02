// Package classifier implements the content classifier (spec §4.C): a pure
// function from captured text to a detected kind plus structured metadata.
// It generalizes the five-detector chain the system this spec distills from
// used (url, color, email, code, text) with the four additional detectors
// the full specification requires (jwt, json, path, timestamp), each
// evaluated in a fixed priority order so the first match always wins.
package classifier

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/azure06/clipsx/internal/types"
)

// Result is the outcome of Detect.
type Result struct {
	Kind       types.DetectedKind
	Confidence float64
	Metadata   map[string]string
}

var (
	urlRe   = regexp.MustCompile(`^https?://\S+$`)
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	hexColorRe = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)
	rgbColorRe = regexp.MustCompile(`^rgba?\([^)]*\)$`)
	hslColorRe = regexp.MustCompile(`^hsla?\([^)]*\)$`)
	unixPathRe = regexp.MustCompile(`^(/|~/)\S*$`)
	winPathRe  = regexp.MustCompile(`^[A-Za-z]:\\\S*$`)
	jwtSegRe   = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// codeKeywords maps a language name to its keyword set. Matching is
// case-insensitive for sql/html/css and case-sensitive for everything else,
// per spec.
var codeKeywords = map[string][]string{
	"rust":       {"fn ", "let ", "pub ", "impl ", "use ", "mod ", "match ", "mut "},
	"python":     {"def ", "import ", "class ", "return ", "elif ", "lambda ", "self."},
	"javascript": {"function ", "const ", "let ", "var ", "=>", "export ", "import "},
	"typescript": {"interface ", "type ", "const ", "export ", "import ", ": string", ": number"},
	"go":         {"func ", "package ", "import ", "return ", "defer ", "go ", ":="},
	"java":       {"public ", "class ", "void ", "import ", "private ", "static "},
	"csharp":     {"using ", "namespace ", "public ", "class ", "void ", "var "},
	"sql":        {"select ", "insert ", "update ", "delete ", "from ", "where ", "join "},
	"html":       {"<html", "<div", "<span", "</", "<!doctype"},
	"css":        {"{", "}", "px;", "color:", "margin:", "padding:"},
	"shell":      {"#!/", "echo ", "export ", "fi", "then", "$("},
}

// structuralTokens are the language-independent tokens that add one point
// each to a code score.
var structuralTokens = []string{"{", "}", "(", ")", "[", "]", "=>", "->", "//", "/*", "*/"}

// Detect runs the fixed-priority detector chain against text.
func Detect(text string) Result {
	trimmed := strings.TrimSpace(text)

	if r, ok := detectJWT(trimmed); ok {
		return r
	}
	if r, ok := detectURL(trimmed); ok {
		return r
	}
	if r, ok := detectEmail(trimmed); ok {
		return r
	}
	if r, ok := detectColor(trimmed); ok {
		return r
	}
	if r, ok := detectJSON(trimmed); ok {
		return r
	}
	if r, ok := detectPath(trimmed); ok {
		return r
	}
	if r, ok := detectTimestamp(trimmed); ok {
		return r
	}
	if r, ok := detectCode(trimmed); ok {
		return r
	}
	return detectText(text)
}

func detectJWT(s string) (Result, bool) {
	if !strings.HasPrefix(s, "eyJ") {
		return Result{}, false
	}
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Result{}, false
	}
	for _, p := range parts {
		if p == "" || !jwtSegRe.MatchString(p) {
			return Result{}, false
		}
	}
	return Result{Kind: types.DetectedJWT, Confidence: 0.9, Metadata: map[string]string{}}, true
}

func detectURL(s string) (Result, bool) {
	if !urlRe.MatchString(s) {
		return Result{}, false
	}
	u, err := url.ParseRequestURI(s)
	if err != nil || u.Host == "" {
		return Result{}, false
	}
	return Result{
		Kind:       types.DetectedURL,
		Confidence: 0.95,
		Metadata: map[string]string{
			"domain":   u.Hostname(),
			"protocol": u.Scheme,
		},
	}, true
}

func detectEmail(s string) (Result, bool) {
	if !emailRe.MatchString(s) {
		return Result{}, false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return Result{}, false
	}
	at := strings.LastIndex(addr.Address, "@")
	domain := ""
	if at >= 0 {
		domain = addr.Address[at+1:]
	}
	return Result{
		Kind:       types.DetectedEmail,
		Confidence: 0.9,
		Metadata:   map[string]string{"email": addr.Address, "domain": domain},
	}, true
}

func detectColor(s string) (Result, bool) {
	if hexColorRe.MatchString(s) {
		return Result{
			Kind:       types.DetectedColor,
			Confidence: 0.95,
			Metadata:   map[string]string{"hex": normalizeHexColor(s), "type": "hex"},
		}, true
	}
	if rgbColorRe.MatchString(s) || hslColorRe.MatchString(s) {
		kind := "rgb"
		if hslColorRe.MatchString(s) {
			kind = "hsl"
		}
		return Result{
			Kind:       types.DetectedColor,
			Confidence: 0.85,
			Metadata:   map[string]string{"type": kind, "original": s},
		}, true
	}
	return Result{}, false
}

func normalizeHexColor(s string) string {
	body := strings.ToUpper(s[1:])
	if len(body) == 3 {
		expanded := make([]byte, 0, 6)
		for i := 0; i < 3; i++ {
			expanded = append(expanded, body[i], body[i])
		}
		return "#" + string(expanded)
	}
	if len(body) == 8 {
		body = body[:6]
	}
	return "#" + body
}

func detectJSON(s string) (Result, bool) {
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return Result{}, false
	}
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return Result{}, false
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return Result{Kind: types.DetectedJSON, Confidence: 0.9, Metadata: map[string]string{}}, true
	default:
		return Result{}, false
	}
}

func detectPath(s string) (Result, bool) {
	if strings.Contains(s, "\n") {
		return Result{}, false
	}
	if unixPathRe.MatchString(s) || winPathRe.MatchString(s) {
		return Result{Kind: types.DetectedPath, Confidence: 0.8, Metadata: map[string]string{"path": s}}, true
	}
	return Result{}, false
}

func detectTimestamp(s string) (Result, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Result{}, false
	}
	const lo, hi = 978307200, 2208988800 // seconds: 2001-01-01 .. 2040-01-01
	var t time.Time
	switch {
	case n >= lo && n < hi:
		t = time.Unix(n, 0).UTC()
	case n >= lo*1000 && n < hi*1000:
		t = time.UnixMilli(n).UTC()
	default:
		return Result{}, false
	}
	return Result{
		Kind:       types.DetectedTimestamp,
		Confidence: 0.7,
		Metadata:   map[string]string{"iso8601": t.Format(time.RFC3339)},
	}, true
}

func detectCode(s string) (Result, bool) {
	if len(s) < 20 {
		return Result{}, false
	}

	bestLang := ""
	bestScore := 0
	for lang, keywords := range codeKeywords {
		haystack := s
		if lang == "sql" || lang == "html" || lang == "css" {
			haystack = strings.ToLower(s)
			keywords = lowerAll(keywords)
		}
		matches := 0
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				matches++
			}
		}
		score := 2 * matches
		if score > bestScore {
			bestScore = score
			bestLang = lang
		}
	}

	structural := 0
	for _, tok := range structuralTokens {
		if strings.Contains(s, tok) {
			structural++
		}
	}
	total := bestScore + structural
	if total < 3 {
		return Result{}, false
	}
	if bestLang == "" {
		bestLang = "unknown"
	}
	return Result{
		Kind:       types.DetectedCode,
		Confidence: 0.6,
		Metadata:   map[string]string{"language": bestLang, "score": fmt.Sprintf("%d", total)},
	}, true
}

func lowerAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}

func detectText(original string) Result {
	lines := 1 + strings.Count(original, "\n")
	words := len(strings.Fields(original))
	return Result{
		Kind:       types.DetectedText,
		Confidence: 1,
		Metadata: map[string]string{
			"line_count": fmt.Sprintf("%d", lines),
			"word_count": fmt.Sprintf("%d", words),
		},
	}
}
