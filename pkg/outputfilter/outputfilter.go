package outputfilter

import "strings"

const (
	genericMaxLines = 20
	genericMaxChars = 120
)

// Generic caps line count and clamps line length for unrecognized output
// (spec.md §4.13 "generic").
func Generic(text string) string {
	lines := strings.Split(text, "\n")
	overflow := 0
	if len(lines) > genericMaxLines {
		overflow = len(lines) - genericMaxLines
		lines = lines[:genericMaxLines]
	}
	for i, l := range lines {
		if len(l) > genericMaxChars {
			lines[i] = l[:genericMaxChars] + "…"
		}
	}
	out := strings.Join(lines, "\n")
	if overflow > 0 {
		out += "\n" + itoa(overflow) + " more lines\n"
	}
	return out
}

// Apply auto-detects (or uses an explicit) format and compresses text
// accordingly. Verbose suppresses the filter and returns the SSH-noise-
// stripped raw text (spec.md §4.13).
func Apply(text string, explicit Format, verbose bool) string {
	cleaned := StripSSHNoise(text)
	if verbose {
		return cleaned
	}

	format := explicit
	if format == "" {
		format = Detect(cleaned)
	}

	switch format {
	case FormatPsqlTable:
		return PsqlTable(cleaned)
	case FormatPsqlSchema:
		return PsqlSchema(cleaned)
	case FormatJSONLog:
		return JSONLog(cleaned)
	case FormatHTML:
		return HTML(cleaned)
	case FormatDockerPS:
		return DockerPS(cleaned)
	case FormatDockerImgs:
		return DockerImages(cleaned)
	default:
		return Generic(cleaned)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}
