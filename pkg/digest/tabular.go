// Package digest implements the tabular and special-format digests
// (spec component C3): CSV/TSV statistical summaries plus lock-file,
// manifest, and markdown digests triggered by filename pattern.
package digest

import (
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/heAdz0r/rtk/pkg/filter"
)

const (
	tabularPreviewRowsNormal = 5
	tabularPreviewRowsCompa  = 2
	tabularMaxCellChars      = 24
	tabularAnalysisMaxRows   = 2048
	tabularAggressiveMaxRows = 512
	tabularNumericStatsLimit = 8
	tabularHeaderPreviewMax  = 9
)

// TabularDelimiter returns the CSV/TSV delimiter for an extension, or 0 if
// the extension is not tabular.
func TabularDelimiter(ext string) rune {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "csv":
		return ','
	case "tsv":
		return '\t'
	default:
		return 0
	}
}

type numericStats struct {
	count int
	sum   float64
	min   float64
	max   float64
}

func (s *numericStats) update(v float64) {
	if s.count == 0 {
		s.count, s.sum, s.min, s.max = 1, v, v, v
		return
	}
	s.count++
	s.sum += v
	s.min = math.Min(s.min, v)
	s.max = math.Max(s.max, v)
}

// BuildTabularDigest streams content through a CSV/TSV parser and renders a
// compact statistical digest (spec.md §4.3, §8 property 16).
func BuildTabularDigest(content []byte, delimiter rune, level filter.Level) (string, error) {
	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return "", fmt.Errorf("digest: read headers: %w", err)
	}
	colCount := len(headers)
	label := "CSV"
	if delimiter == '\t' {
		label = "TSV"
	}

	if colCount == 0 {
		return "Tabular digest\nRows: 0\nColumns: 0\nTip: use `rtk read <file> --level none` for exact output.\n", nil
	}

	sampleRowsTarget := tabularPreviewRowsNormal
	analysisMax := tabularAnalysisMaxRows
	includeNumeric := true
	if level == filter.LevelAggressive {
		sampleRowsTarget = tabularPreviewRowsCompa
		analysisMax = tabularAggressiveMaxRows
		includeNumeric = false
	}

	var sampleRows [][]string
	stats := make([]numericStats, colCount)
	numericCandidate := make([]bool, colCount)
	for i := range numericCandidate {
		numericCandidate[i] = true
	}

	var totalCells, emptyCells, minusOneCells, analyzed int
	for analyzed < analysisMax {
		record, rerr := reader.Read()
		if rerr != nil {
			break
		}
		analyzed++

		if len(sampleRows) < sampleRowsTarget {
			preview := make([]string, len(record))
			for i, field := range record {
				preview[i] = truncateCell(field)
			}
			sampleRows = append(sampleRows, preview)
		}

		for col := 0; col < colCount; col++ {
			totalCells++
			var field string
			if col < len(record) {
				field = strings.TrimSpace(record[col])
			}
			if field == "" {
				emptyCells++
				continue
			}
			if field == "-1" {
				minusOneCells++
				continue
			}
			if !includeNumeric || !numericCandidate[col] {
				continue
			}
			if v, perr := strconv.ParseFloat(field, 64); perr == nil {
				stats[col].update(v)
			} else {
				numericCandidate[col] = false
				stats[col] = numericStats{}
			}
		}
	}

	rowEstimate := analyzed
	if analyzed == analysisMax {
		// we only read up to analysisMax; report at-least estimate
		rowEstimate = analyzed
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Tabular digest (%s)\n", label)
	fmt.Fprintf(&out, "Rows (excluding header, approx): %d\n", rowEstimate)
	fmt.Fprintf(&out, "Columns: %d\n", colCount)
	if analyzed > 0 {
		coverage := 100.0
		if rowEstimate > analyzed {
			coverage = float64(analyzed) / float64(rowEstimate) * 100
		}
		fmt.Fprintf(&out, "Analyzed rows for stats: %d (%.2f%% sample)\n", analyzed, coverage)
	}
	if totalCells > 0 {
		fmt.Fprintf(&out, "Sampled empty cells: %d/%d (%.2f%%)\n", emptyCells, totalCells, float64(emptyCells)/float64(totalCells)*100)
		fmt.Fprintf(&out, "Sampled '-1' markers: %d/%d (%.2f%%)\n", minusOneCells, totalCells, float64(minusOneCells)/float64(totalCells)*100)
	}

	headerPreview := make([]string, 0, colCount)
	limit := colCount
	ellipsis := false
	if colCount > tabularHeaderPreviewMax {
		limit = tabularHeaderPreviewMax
		ellipsis = true
	}
	for i := 0; i < limit; i++ {
		headerPreview = append(headerPreview, fmt.Sprintf("%d:%s", i+1, truncateCell(headers[i])))
	}
	previewStr := strings.Join(headerPreview, ", ")
	if ellipsis {
		previewStr += ", …"
	}
	fmt.Fprintf(&out, "Header preview: %s\n", previewStr)

	if len(sampleRows) == 0 {
		out.WriteString("Sample rows: (none)\n")
	} else {
		fmt.Fprintf(&out, "Sample rows (first %d):\n", len(sampleRows))
		for i, row := range sampleRows {
			fmt.Fprintf(&out, "  %d. %s\n", i+1, strings.Join(row, ", "))
		}
	}

	if includeNumeric {
		var numericLines []string
		for idx, st := range stats {
			if st.count == 0 {
				continue
			}
			mean := st.sum / float64(st.count)
			colName := ""
			if idx < len(headers) {
				colName = truncateCell(headers[idx])
			}
			numericLines = append(numericLines, fmt.Sprintf("  - %s: n=%d, min=%s, max=%s, mean=%s",
				colName, st.count, formatValue(st.min), formatValue(st.max), formatValue(mean)))
			if len(numericLines) >= tabularNumericStatsLimit {
				break
			}
		}
		if len(numericLines) > 0 {
			fmt.Fprintf(&out, "Numeric stats (first %d numeric columns):\n", len(numericLines))
			for _, l := range numericLines {
				out.WriteString(l)
				out.WriteString("\n")
			}
		}
	}

	out.WriteString("Tip: use `rtk read <file> --level none --from N --to M` for exact row ranges.\n")
	return out.String(), nil
}

func formatValue(v float64) string {
	if math.Abs(v-math.Round(v)) < 1e-9 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func truncateCell(cell string) string {
	value := strings.TrimSpace(cell)
	runes := []rune(value)
	if len(runes) <= tabularMaxCellChars {
		return value
	}
	return string(runes[:tabularMaxCellChars-1]) + "…"
}
