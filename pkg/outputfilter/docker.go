package outputfilter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const dockerMaxRows = 15

// DockerPS compresses `docker ps` fixed-width output: Name/Image/Status/
// Ports, ports compacted to ≤3 numbers (spec.md §4.13 "docker ps").
func DockerPS(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return text
	}
	offsets := headerOffsets(lines[0], []string{"IMAGE", "STATUS", "PORTS", "NAMES"})

	var out strings.Builder
	var rows []string
	for _, l := range lines[1:] {
		if strings.TrimSpace(l) == "" {
			continue
		}
		image := fieldAt(l, offsets, "IMAGE")
		status := fieldAt(l, offsets, "STATUS")
		ports := compactPorts(fieldAt(l, offsets, "PORTS"))
		name := fieldAt(l, offsets, "NAMES")
		rows = append(rows, fmt.Sprintf("%s  %s  %s  %s", name, image, status, ports))
	}

	overflow := 0
	if len(rows) > dockerMaxRows {
		overflow = len(rows) - dockerMaxRows
		rows = rows[:dockerMaxRows]
	}
	out.WriteString("NAME  IMAGE  STATUS  PORTS\n")
	for _, r := range rows {
		out.WriteString(r)
		out.WriteString("\n")
	}
	if overflow > 0 {
		fmt.Fprintf(&out, "[+%d rows]\n", overflow)
	}
	return out.String()
}

var sizeRe = regexp.MustCompile(`(?i)^([\d.]+)\s*(B|KB|MB|GB)$`)

// DockerImages compresses `docker images` output: Repo/Tag/Size, with an
// aggregate total size (spec.md §4.13 "docker images").
func DockerImages(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return text
	}
	offsets := headerOffsets(lines[0], []string{"TAG", "IMAGE ID", "CREATED", "SIZE"})

	var out strings.Builder
	var rows []string
	var totalMB float64
	for _, l := range lines[1:] {
		if strings.TrimSpace(l) == "" {
			continue
		}
		repo := fieldAt(l, offsets, "REPOSITORY")
		tag := fieldAt(l, offsets, "TAG")
		size := fieldAt(l, offsets, "SIZE")
		totalMB += sizeToMB(size)
		rows = append(rows, fmt.Sprintf("%s:%s  %s", repo, tag, size))
	}

	overflow := 0
	if len(rows) > dockerMaxRows {
		overflow = len(rows) - dockerMaxRows
		rows = rows[:dockerMaxRows]
	}
	out.WriteString("REPO:TAG  SIZE\n")
	for _, r := range rows {
		out.WriteString(r)
		out.WriteString("\n")
	}
	if overflow > 0 {
		fmt.Fprintf(&out, "[+%d rows]\n", overflow)
	}
	if totalMB >= 1024 {
		fmt.Fprintf(&out, "Total size: %.2f GB\n", totalMB/1024)
	} else {
		fmt.Fprintf(&out, "Total size: %.2f MB\n", totalMB)
	}
	return out.String()
}

func sizeToMB(size string) float64 {
	m := sizeRe.FindStringSubmatch(strings.TrimSpace(size))
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	switch strings.ToUpper(m[2]) {
	case "GB":
		return v * 1024
	case "MB":
		return v
	case "KB":
		return v / 1024
	default:
		return v / (1024 * 1024)
	}
}

// headerOffsets maps each needed column name to its byte offset in the
// header line, assuming docker's fixed-width column layout.
func headerOffsets(header string, names []string) map[string]int {
	offsets := map[string]int{"REPOSITORY": 0, "NAMES": 0}
	for _, n := range names {
		if idx := strings.Index(header, n); idx >= 0 {
			offsets[n] = idx
		}
	}
	return offsets
}

func fieldAt(line string, offsets map[string]int, name string) string {
	start, ok := offsets[name]
	if !ok {
		return ""
	}
	if start >= len(line) {
		return ""
	}
	rest := line[start:]
	end := len(rest)
	if idx := strings.Index(rest, "  "); idx >= 0 {
		end = idx
	}
	return strings.TrimSpace(rest[:end])
}

var portNumRe = regexp.MustCompile(`\b(\d+)(?:/tcp|/udp)?\b`)

// ipv4Re matches bind addresses such as "0.0.0.0", whose octets are not ports.
var ipv4Re = regexp.MustCompile(`\b\d+\.\d+\.\d+\.\d+\b`)

func compactPorts(ports string) string {
	matches := portNumRe.FindAllStringSubmatch(ipv4Re.ReplaceAllString(ports, ""), -1)
	seen := make(map[string]bool)
	var nums []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			nums = append(nums, m[1])
		}
		if len(nums) >= 3 {
			break
		}
	}
	return strings.Join(nums, ",")
}
