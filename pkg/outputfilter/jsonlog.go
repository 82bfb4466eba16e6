package outputfilter

import (
	"encoding/json"
	"fmt"
	"strings"
)

type logEntry struct {
	level   string
	message string
}

// JSONLog deduplicates identical messages per level and appends a summary
// line (spec.md §4.13 "JSON logs").
func JSONLog(text string) string {
	lines := strings.Split(text, "\n")

	type key struct{ level, message string }
	counts := make(map[key]int)
	var order []key
	levelTotals := map[string]int{}

	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			continue
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
			continue
		}
		level := classifyLevel(doc)
		message := fmt.Sprintf("%v", doc["message"])
		if doc["message"] == nil {
			if msg, ok := doc["msg"]; ok {
				message = fmt.Sprintf("%v", msg)
			}
		}

		k := key{level, message}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
		levelTotals[level]++
	}

	var out strings.Builder
	for _, k := range order {
		n := counts[k]
		if n > 1 {
			fmt.Fprintf(&out, "[%s] %s [x%d]\n", k.level, k.message, n)
		} else {
			fmt.Fprintf(&out, "[%s] %s\n", k.level, k.message)
		}
	}

	errN, warnN, infoN, otherN := 0, 0, 0, 0
	for lvl, n := range levelTotals {
		switch normalizeLevel(lvl) {
		case "error":
			errN += n
		case "warn":
			warnN += n
		case "info":
			infoN += n
		default:
			otherN += n
		}
	}
	fmt.Fprintf(&out, "Summary: %d errors, %d warnings, %d info, %d other\n", errN, warnN, infoN, otherN)
	return out.String()
}

func classifyLevel(doc map[string]any) string {
	if v, ok := doc["level"]; ok {
		return fmt.Sprintf("%v", v)
	}
	if v, ok := doc["severity"]; ok {
		return fmt.Sprintf("%v", v)
	}
	return "unknown"
}

func normalizeLevel(level string) string {
	lower := strings.ToLower(level)
	switch {
	case strings.HasPrefix(lower, "err"):
		return "error"
	case strings.HasPrefix(lower, "warn"):
		return "warn"
	case strings.HasPrefix(lower, "info"):
		return "info"
	default:
		return "other"
	}
}
