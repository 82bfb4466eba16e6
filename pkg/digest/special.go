package digest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// lockFileNames enumerates lock files that get a lines/bytes/package-count
// digest (spec.md §4.3).
var lockFileNames = map[string]bool{
	"Cargo.lock":        true,
	"pnpm-lock.yaml":    true,
	"yarn.lock":         true,
	"package-lock.json": true,
	"poetry.lock":       true,
	"composer.lock":     true,
	"Gemfile.lock":      true,
}

// HasSpecialDigest reports whether name matches one of C3's special-format
// triggers.
func HasSpecialDigest(name string) bool {
	base := filepath.Base(name)
	if lockFileNames[base] {
		return true
	}
	switch base {
	case "package.json", "Cargo.toml":
		return true
	}
	if strings.HasPrefix(base, "tsconfig") && strings.HasSuffix(base, ".json") {
		return true
	}
	if strings.HasPrefix(base, "biome") && strings.HasSuffix(base, ".json") {
		return true
	}
	if strings.HasPrefix(base, ".env") {
		return true
	}
	if strings.HasPrefix(base, "Dockerfile") {
		return true
	}
	if strings.Contains(base, ".generated.") || strings.Contains(base, ".g.") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(base))
	if ext == ".md" || ext == ".mdx" {
		return true
	}
	return false
}

// TrySpecialDigest dispatches on filename pattern; returns ("", false) on
// parse failure to allow fallthrough to the normal pipeline (spec.md §4.3).
func TrySpecialDigest(name, content string) (string, bool) {
	base := filepath.Base(name)

	switch {
	case lockFileNames[base]:
		return lockFileDigest(content), true
	case base == "package.json":
		return packageJSONDigest(content)
	case base == "Cargo.toml":
		return cargoTomlDigest(content)
	case strings.HasPrefix(base, "tsconfig") && strings.HasSuffix(base, ".json"),
		strings.HasPrefix(base, "biome") && strings.HasSuffix(base, ".json"):
		return jsonShapeDigest(content)
	case strings.HasPrefix(base, ".env"):
		return envDigest(content), true
	case strings.HasPrefix(base, "Dockerfile"):
		return dockerfileDigest(content), true
	case strings.Contains(base, ".generated.") || strings.Contains(base, ".g."):
		return generatedDigest(content), true
	case strings.HasSuffix(strings.ToLower(base), ".md"), strings.HasSuffix(strings.ToLower(base), ".mdx"):
		return markdownDigest(content), true
	}
	return "", false
}

var approxPackageCountRe = regexp.MustCompile(`(?m)^(?:  )?"?[a-zA-Z0-9@/_.-]+"?:\s*$|^name\s*=\s*"|^  resolution:`)

func lockFileDigest(content string) string {
	lines := strings.Count(content, "\n") + 1
	bytes := len(content)
	approx := len(approxPackageCountRe.FindAllStringIndex(content, -1))
	return fmt.Sprintf("Lock-file digest\nLines: %d\nBytes: %d\nApprox packages: %d\n", lines, bytes, approx)
}

func packageJSONDigest(content string) (string, bool) {
	var doc struct {
		Name            string            `json:"name"`
		Version         string            `json:"version"`
		Scripts         map[string]string `json:"scripts"`
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return "", false
	}
	var out strings.Builder
	fmt.Fprintf(&out, "package.json digest\nName: %s\nVersion: %s\n", doc.Name, doc.Version)
	fmt.Fprintf(&out, "Scripts (%d): %s\n", len(doc.Scripts), topNKeys(doc.Scripts, 10))
	fmt.Fprintf(&out, "Dependencies: %d\n", len(doc.Dependencies))
	fmt.Fprintf(&out, "Dev dependencies: %d\n", len(doc.DevDependencies))
	return out.String(), true
}

func topNKeys(m map[string]string, n int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	if len(keys) > n {
		keys = keys[:n]
	}
	return strings.Join(keys, ", ")
}

func cargoTomlDigest(content string) (string, bool) {
	var doc struct {
		Package struct {
			Name    string `toml:"name"`
			Version string `toml:"version"`
		} `toml:"package"`
		Dependencies    map[string]any `toml:"dependencies"`
		DevDependencies map[string]any `toml:"dev-dependencies"`
		Features        map[string]any `toml:"features"`
	}
	if err := toml.Unmarshal([]byte(content), &doc); err != nil {
		return "", false
	}
	var out strings.Builder
	fmt.Fprintf(&out, "Cargo.toml digest\nPackage: %s %s\n", doc.Package.Name, doc.Package.Version)
	fmt.Fprintf(&out, "[dependencies]: %d\n", len(doc.Dependencies))
	fmt.Fprintf(&out, "[dev-dependencies]: %d\n", len(doc.DevDependencies))
	featureNames := make([]string, 0, len(doc.Features))
	for k := range doc.Features {
		featureNames = append(featureNames, k)
	}
	fmt.Fprintf(&out, "Features: %s\n", strings.Join(featureNames, ", "))
	return out.String(), true
}

func jsonShapeDigest(content string) (string, bool) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return "", false
	}
	keys := make([]string, 0, len(doc))
	for k, v := range doc {
		shape := "scalar"
		trimmed := strings.TrimSpace(string(v))
		if strings.HasPrefix(trimmed, "{") {
			shape = "object"
		} else if strings.HasPrefix(trimmed, "[") {
			shape = "array"
		}
		keys = append(keys, fmt.Sprintf("%s:%s", k, shape))
	}
	return fmt.Sprintf("JSON shape digest\nTop-level keys (%d): %s\n", len(keys), strings.Join(keys, ", ")), true
}

var envKeyRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=`)

func envDigest(content string) string {
	var keys []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if m := envKeyRe.FindStringSubmatch(trimmed); m != nil {
			keys = append(keys, m[1]+"=***")
		}
	}
	return fmt.Sprintf("Env digest\nKeys (%d):\n  %s\n", len(keys), strings.Join(keys, "\n  "))
}

func dockerfileDigest(content string) string {
	instrRe := regexp.MustCompile(`(?i)^\s*(FROM|RUN|COPY|ADD|ENV|EXPOSE|CMD|ENTRYPOINT|WORKDIR|USER|ARG|LABEL|VOLUME)\b`)
	var out strings.Builder
	out.WriteString("Dockerfile digest\n")
	for _, line := range strings.Split(content, "\n") {
		if !instrRe.MatchString(line) {
			continue
		}
		clamped := line
		if len(clamped) > 120 {
			clamped = clamped[:120] + "…"
		}
		out.WriteString(clamped)
		out.WriteString("\n")
	}
	return out.String()
}

func generatedDigest(content string) string {
	lines := strings.Count(content, "\n") + 1
	return fmt.Sprintf("Generated-file digest\nLines: %d\n", lines)
}

var mdHeaderRe = regexp.MustCompile(`^(#{1,6})\s+(.*)`)

func markdownDigest(content string) string {
	var out strings.Builder
	out.WriteString("Markdown outline\n")
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if m := mdHeaderRe.FindStringSubmatch(line); m != nil {
			limit := 10
			if len(m[1]) > 2 {
				limit = 20
			}
			_ = limit
			count++
			if count > 20 {
				break
			}
			fmt.Fprintf(&out, "%s %s\n", m[1], m[2])
		}
	}
	return out.String()
}

// PnpmLockStats reports a structural count over a pnpm-lock.yaml document
// (the teacher's yaml.v3 dependency repurposed for lock-file digesting).
func PnpmLockStats(content string) (int, error) {
	var doc struct {
		Packages map[string]any `yaml:"packages"`
	}
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return 0, err
	}
	return len(doc.Packages), nil
}
