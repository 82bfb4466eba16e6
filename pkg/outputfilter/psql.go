package outputfilter

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	psqlMaxRows      = 15
	psqlCellTrunc    = 25
	psqlWideAvg      = 30.0
	psqlUUIDWidthMin = 32
)

// PsqlTable compresses a `psql` tabular result: drops UUID-width or very
// wide columns, caps rows, truncates cells (spec.md §4.13 "psql table").
func PsqlTable(text string) string {
	lines := strings.Split(text, "\n")

	sepIdx := -1
	for i, l := range lines {
		if psqlSeparatorRe.MatchString(strings.TrimSpace(l)) {
			sepIdx = i
			break
		}
	}
	if sepIdx <= 0 {
		return text
	}

	header := splitPsqlRow(lines[sepIdx-1])
	widths := columnWidths(lines[sepIdx])

	var dataRows [][]string
	for i := sepIdx + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasSuffix(trimmed, "rows)") || strings.HasSuffix(trimmed, "row)") {
			continue
		}
		dataRows = append(dataRows, splitPsqlRow(lines[i]))
	}

	keepCol := make([]bool, len(header))
	for i := range header {
		w := 0
		if i < len(widths) {
			w = widths[i]
		}
		keepCol[i] = w < psqlUUIDWidthMin && float64(w) <= psqlWideAvg
	}

	var out strings.Builder
	out.WriteString(joinKept(header, keepCol))
	out.WriteString("\n")

	shown := dataRows
	overflow := 0
	if len(shown) > psqlMaxRows {
		overflow = len(shown) - psqlMaxRows
		shown = shown[:psqlMaxRows]
	}
	for _, row := range shown {
		truncated := make([]string, len(row))
		for i, cell := range row {
			truncated[i] = truncateCell25(cell)
		}
		out.WriteString(joinKept(truncated, keepCol))
		out.WriteString("\n")
	}
	if overflow > 0 {
		fmt.Fprintf(&out, "[+%d rows]\n", overflow)
	}
	return out.String()
}

func splitPsqlRow(line string) []string {
	parts := strings.Split(line, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func columnWidths(sepLine string) []int {
	cols := strings.Split(sepLine, "+")
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(strings.TrimSpace(c))
	}
	return widths
}

func joinKept(cells []string, keep []bool) string {
	var out []string
	for i, c := range cells {
		if i < len(keep) && !keep[i] {
			continue
		}
		out = append(out, c)
	}
	return strings.Join(out, " | ")
}

func truncateCell25(cell string) string {
	if len(cell) <= psqlCellTrunc {
		return cell
	}
	return cell[:psqlCellTrunc-1] + "…"
}

var (
	psqlTableNameRe = regexp.MustCompile(`^Table "([^"]+)"`)
	psqlIndexHdrRe  = regexp.MustCompile(`(?i)^Indexes:`)
	psqlFKHdrRe     = regexp.MustCompile(`(?i)^Foreign-key constraints:`)
	psqlTrigHdrRe   = regexp.MustCompile(`(?i)^Triggers:`)
)

var typeShortenings = []struct{ from, to string }{
	{"character varying", "varchar"},
	{"timestamp with time zone", "timestamptz"},
	{"timestamp without time zone", "timestamp"},
	{"boolean", "bool"},
}

// PsqlSchema compresses a `\d tablename` psql schema dump
// (spec.md §4.13 "psql schema").
func PsqlSchema(text string) string {
	lines := strings.Split(text, "\n")
	var tableName string
	var columns []string
	var indexCount, fkCount, trigCount int
	section := ""

	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if m := psqlTableNameRe.FindStringSubmatch(trimmed); m != nil {
			tableName = m[1]
			continue
		}
		if psqlIndexHdrRe.MatchString(trimmed) {
			section = "index"
			continue
		}
		if psqlFKHdrRe.MatchString(trimmed) {
			section = "fk"
			continue
		}
		if psqlTrigHdrRe.MatchString(trimmed) {
			section = "trigger"
			continue
		}
		if trimmed == "" {
			continue
		}
		switch section {
		case "index":
			indexCount++
		case "fk":
			fkCount++
		case "trigger":
			trigCount++
		default:
			if strings.Contains(trimmed, "|") {
				columns = append(columns, shortenPsqlType(trimmed))
			}
		}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Table: %s\n", tableName)
	for _, c := range columns {
		fmt.Fprintf(&out, "  %s\n", c)
	}
	fmt.Fprintf(&out, "Indexes: %d, Foreign keys: %d, Triggers: %d\n", indexCount, fkCount, trigCount)
	return out.String()
}

func shortenPsqlType(line string) string {
	for _, ts := range typeShortenings {
		line = strings.ReplaceAll(line, ts.from, ts.to)
	}
	return line
}
