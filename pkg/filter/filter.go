// Package filter implements the per-language text filter pipeline
// (spec component C2): none/minimal/aggressive reduction, line-range
// slicing, smart truncation, long-line clamping, and dedup of repetitive
// blocks.
package filter

import (
	"regexp"
	"strings"
)

// Language is the small closed enumeration of languages the filter and
// symbol extractor dispatch on.
type Language string

const (
	LangRust    Language = "rust"
	LangTSJS    Language = "tsjs"
	LangPython  Language = "python"
	LangGo      Language = "go"
	LangJava    Language = "java"
	LangShell   Language = "shell"
	LangUnknown Language = "unknown"
)

// FromExtension maps a file extension (without the leading dot) to a
// Language tag.
func FromExtension(ext string) Language {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "rs":
		return LangRust
	case "ts", "tsx", "js", "jsx", "mjs", "cjs":
		return LangTSJS
	case "py":
		return LangPython
	case "go":
		return LangGo
	case "java":
		return LangJava
	case "sh", "bash", "zsh":
		return LangShell
	default:
		return LangUnknown
	}
}

// Level is the filter aggressiveness selector.
type Level string

const (
	LevelNone       Level = "none"
	LevelMinimal    Level = "minimal"
	LevelAggressive Level = "aggressive"
)

// Filter reduces source text according to Level and Language.
func Filter(content string, level Level, lang Language) string {
	switch level {
	case LevelNone:
		return content
	case LevelMinimal:
		return minimal(content, lang)
	case LevelAggressive:
		return aggressive(content, lang)
	default:
		return content
	}
}

var blankRunRe = regexp.MustCompile(`\n{3,}`)

func compressBlanks(s string) string {
	return blankRunRe.ReplaceAllString(s, "\n\n")
}

// blockCommentSpans returns per-language block-comment delimiter pairs, or
// ok=false for languages without block comments.
func blockCommentSpans(lang Language) (string, string, bool) {
	switch lang {
	case LangRust, LangTSJS, LangGo, LangJava:
		return "/*", "*/", true
	case LangPython:
		return `"""`, `"""`, true
	default:
		return "", "", false
	}
}

func stripBlockComments(content string, lang Language) string {
	open, close, ok := blockCommentSpans(lang)
	if !ok {
		return content
	}
	var out strings.Builder
	rest := content
	for {
		idx := strings.Index(rest, open)
		if idx < 0 {
			out.WriteString(rest)
			break
		}
		end := strings.Index(rest[idx+len(open):], close)
		if end < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:idx])
		rest = rest[idx+len(open)+end+len(close):]
	}
	return out.String()
}

func minimal(content string, lang Language) string {
	stripped := stripBlockComments(content, lang)
	return compressBlanks(stripped)
}

// topLevelDeclRe matches lines that look like a top-level declaration for the
// given language — used by aggressive mode to decide what survives.
func topLevelDeclRe(lang Language) *regexp.Regexp {
	switch lang {
	case LangRust:
		return regexp.MustCompile(`^\s*(pub\s+)?(async\s+)?(fn|struct|enum|trait|impl|type|mod|const|static)\b`)
	case LangTSJS:
		return regexp.MustCompile(`^\s*(export\s+)?(default\s+)?(async\s+)?(function|class|interface|type|enum|const|let|var)\b`)
	case LangPython:
		return regexp.MustCompile(`^\s*(class|def)\b`)
	case LangGo:
		return regexp.MustCompile(`^\s*(func|type|var|const)\b`)
	case LangJava:
		return regexp.MustCompile(`^\s*(public|private|protected|static|final|abstract)?\s*(class|interface|enum)\b`)
	default:
		return regexp.MustCompile(`^\S`)
	}
}

func aggressive(content string, lang Language) string {
	minimalText := minimal(content, lang)
	declRe := topLevelDeclRe(lang)

	lines := strings.Split(minimalText, "\n")
	var out, body []string
	depth := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isDocstringLine(trimmed, lang) {
			continue
		}
		if depth == 0 {
			if declRe.MatchString(line) {
				out = append(out, line)
				depth += strings.Count(line, "{") - strings.Count(line, "}")
				continue
			}
			continue
		}
		// Inside a declaration body: keep one-line bodies, skip the rest.
		// The line that closes the declaration is always kept.
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth > 0 {
			body = append(body, line)
			continue
		}
		depth = 0
		if len(body) == 1 {
			out = append(out, body[0])
		}
		body = body[:0]
		out = append(out, line)
	}
	return compressBlanks(strings.Join(out, "\n"))
}

func isDocstringLine(trimmed string, lang Language) bool {
	switch lang {
	case LangPython:
		return strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "'''")
	case LangRust:
		return strings.HasPrefix(trimmed, "///") || strings.HasPrefix(trimmed, "//!")
	case LangGo, LangJava, LangTSJS:
		return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "*")
	default:
		return false
	}
}

// SliceLines returns lines [from, to] 1-based inclusive. A zero value for
// either bound means "unbounded" on that side.
func SliceLines(content string, from, to int) string {
	if from <= 0 && to <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	start := 0
	if from > 0 {
		start = from - 1
	}
	end := len(lines)
	if to > 0 && to < end {
		end = to
	}
	if start >= len(lines) {
		return ""
	}
	if start > end {
		start = end
	}
	return strings.Join(lines[start:end], "\n")
}

// SmartTruncate keeps head + tail around a boundary when content exceeds
// maxLines, inserting a "… (truncated)" marker.
func SmartTruncate(content string, maxLines int, lang Language) string {
	_ = lang
	if maxLines <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) <= maxLines {
		return content
	}
	head := maxLines * 2 / 3
	if head < 1 {
		head = 1
	}
	tail := maxLines - head
	if tail < 0 {
		tail = 0
	}
	var out []string
	out = append(out, lines[:head]...)
	out = append(out, "… (truncated)")
	if tail > 0 {
		out = append(out, lines[len(lines)-tail:]...)
	}
	return strings.Join(out, "\n")
}

// LongLineClamp limits: aggressive mode clamps at 200 chars, minimal at 500.
func LongLineClamp(content string, level Level) string {
	var limit int
	switch level {
	case LevelAggressive:
		limit = 200
	case LevelMinimal:
		limit = 500
	default:
		return content
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if len(line) > limit {
			lines[i] = line[:limit] + "… (clamped)"
		}
	}
	return strings.Join(lines, "\n")
}

// DedupRepetitiveBlocks collapses runs of 3+ identical consecutive lines
// into a single line plus a count marker.
func DedupRepetitiveBlocks(content string) string {
	lines := strings.Split(content, "\n")
	var out []string
	i := 0
	for i < len(lines) {
		j := i + 1
		for j < len(lines) && lines[j] == lines[i] {
			j++
		}
		runLen := j - i
		if runLen >= 3 {
			out = append(out, lines[i])
			out = append(out, strings.TrimSpace(lines[i])[:0]+"… (repeated "+itoa(runLen-1)+" more times)")
		} else {
			out = append(out, lines[i:j]...)
		}
		i = j
	}
	return strings.Join(out, "\n")
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
