// Package outputfilter implements the per-command output filters
// (spec component C13): format auto-detection plus compressors for
// psql tables/schemas, JSON logs, HTML, and docker ps/images output.
package outputfilter

import (
	"regexp"
	"strings"
)

// Format is the detected or explicitly requested input shape.
type Format string

const (
	FormatPsqlTable  Format = "psql_table"
	FormatPsqlSchema Format = "psql_schema"
	FormatJSONLog    Format = "json_log"
	FormatHTML       Format = "html"
	FormatDockerPS   Format = "docker_ps"
	FormatDockerImgs Format = "docker_images"
	FormatGeneric    Format = "generic"
)

var (
	psqlSeparatorRe = regexp.MustCompile(`^[-+]{3,}$`)
	psqlSchemaRe    = regexp.MustCompile(`^Table "[^"]+"`)
	dockerPSHdrRe   = regexp.MustCompile(`(?i)^CONTAINER ID\s+IMAGE\s+COMMAND`)
	dockerImgHdrRe  = regexp.MustCompile(`(?i)^REPOSITORY\s+TAG\s+IMAGE ID`)
)

// Detect classifies text by pattern, per spec.md §4.13.
func Detect(text string) Format {
	lines := strings.Split(text, "\n")

	for _, l := range lines {
		if psqlSchemaRe.MatchString(strings.TrimSpace(l)) {
			return FormatPsqlSchema
		}
		if dockerPSHdrRe.MatchString(l) {
			return FormatDockerPS
		}
		if dockerImgHdrRe.MatchString(l) {
			return FormatDockerImgs
		}
	}

	for i := 0; i < len(lines)-1; i++ {
		if psqlSeparatorRe.MatchString(strings.TrimSpace(lines[i])) && i > 0 {
			return FormatPsqlTable
		}
	}

	if strings.Contains(strings.ToLower(text), "<!doctype html") || strings.Contains(strings.ToLower(text), "<html") {
		return FormatHTML
	}

	if isJSONLogMajority(lines) {
		return FormatJSONLog
	}

	return FormatGeneric
}

func isJSONLogMajority(lines []string) bool {
	nonEmpty, jsonish := 0, 0
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if t == "" {
			continue
		}
		nonEmpty++
		if strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}") {
			jsonish++
		}
	}
	if nonEmpty == 0 {
		return false
	}
	return float64(jsonish)/float64(nonEmpty) > 0.5
}

var sshNoiseRe = regexp.MustCompile(`(?m)^(Pseudo-terminal.*|Warning: Permanently added.*|Connection to .* closed\.?)\s*$`)

// StripSSHNoise removes known SSH client chatter lines from stderr text.
func StripSSHNoise(text string) string {
	return sshNoiseRe.ReplaceAllString(text, "")
}
