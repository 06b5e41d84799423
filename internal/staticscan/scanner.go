// Package staticscan walks a directory, applies the pattern library's scan
// rules per file extension, and rolls findings up into a risk level.
package staticscan

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/agentguard/agentguard/internal/patterns"
)

// Finding is one rule match (spec.md §3).
type Finding struct {
	RuleID      string            `json:"ruleId"`
	Severity    patterns.Severity `json:"severity"`
	FilePath    string            `json:"filePath"`
	Line        int               `json:"line"`
	MatchedText string            `json:"matchedText,omitempty"`
	Category    string            `json:"category"`
}

// Result is the aggregate output of a scan (spec.md §3). The determinism
// guarantee (spec.md §8: scanning the same tree twice yields the same
// result) covers RiskLevel, RiskTags, Findings, FilesScanned, SkippedFiles,
// and Summary only. ScanID is a fresh identifier per invocation and
// Duration measures wall-clock time, so neither is part of that contract
// and both are expected to differ between runs.
type Result struct {
	ScanID       string            `json:"scanId"`
	RiskLevel    patterns.Severity `json:"riskLevel"`
	RiskTags     []string          `json:"riskTags"`
	Findings     []Finding         `json:"findings"`
	FilesScanned int               `json:"filesScanned"`
	SkippedFiles int               `json:"skippedFiles"`
	Summary      string            `json:"summary"`
	Duration     time.Duration     `json:"duration"`
}

var scannedExtensions = map[string]bool{
	"js": true, "ts": true, "jsx": true, "tsx": true, "mjs": true, "cjs": true,
	"py": true, "json": true, "yaml": true, "yml": true, "toml": true,
	"sol": true, "sh": true, "bash": true, "md": true,
}

var excludedDirs = map[string]bool{
	"node_modules": true, "dist": true, "build": true, ".git": true,
	"coverage": true, "__pycache__": true, ".venv": true, "venv": true,
}

func excludedFile(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".min.js") || strings.HasSuffix(lower, ".min.css") {
		return true
	}
	switch lower {
	case "package-lock.json", "yarn.lock", "pnpm-lock.yaml":
		return true
	}
	return false
}

const base64RescanMinLen = 80

// Scan performs a full scan of root: base64 blobs >=80 chars are decoded
// and re-scanned, and findings carry matched-text snippets.
func Scan(root string) (Result, error) {
	return scan(root, true)
}

// QuickScan performs the hot-path variant: no base64 re-scan, no snippet
// capture (spec.md §4.3).
func QuickScan(root string) (Result, error) {
	return scan(root, false)
}

func scan(root string, full bool) (Result, error) {
	start := time.Now()
	if _, err := os.Stat(root); err != nil {
		return Result{}, fmt.Errorf("SCAN_INPUT: %w", err)
	}

	var findings []Finding
	filesScanned := 0
	skipped := 0

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			skipped++
			return nil
		}
		if d.IsDir() {
			if excludedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if excludedFile(d.Name()) {
			return nil
		}
		ext := strings.TrimPrefix(filepath.Ext(d.Name()), ".")
		if !scannedExtensions[ext] {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			skipped++
			return nil
		}
		filesScanned++
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		findings = append(findings, applyRules(rel, ext, string(content), full)...)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("SCAN_WALK: %w", err)
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].FilePath != findings[j].FilePath {
			return findings[i].FilePath < findings[j].FilePath
		}
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].RuleID < findings[j].RuleID
	})

	result := Result{
		ScanID:       uuid.NewString(),
		RiskLevel:    rollupSeverity(findings),
		RiskTags:     distinctRuleIDs(findings),
		Findings:     findings,
		FilesScanned: filesScanned,
		SkippedFiles: skipped,
		Duration:     time.Since(start),
	}
	result.Summary = summarize(result)
	return result, nil
}

func applyRules(relPath, ext, content string, full bool) []Finding {
	var findings []Finding
	lines := strings.Split(content, "\n")
	for _, rule := range patterns.ScanRules {
		if !rule.AppliesToExt(ext) {
			continue
		}
		for i, line := range lines {
			if m := rule.Pattern.FindString(line); m != "" {
				f := Finding{
					RuleID:   rule.ID,
					Severity: rule.Severity,
					FilePath: relPath,
					Line:     i + 1,
					Category: rule.Category,
				}
				if full {
					f.MatchedText = m
				}
				findings = append(findings, f)
			}
		}
	}
	if full {
		findings = append(findings, base64Rescan(relPath, ext, lines)...)
	}
	return findings
}

// base64Rescan decodes base64-like tokens >=80 chars and re-applies the
// rule set against the decoded text, tagging new findings as originating
// from the parent BASE64_BLOB rule (spec.md §4.3).
func base64Rescan(relPath, ext string, lines []string) []Finding {
	var findings []Finding
	for i, line := range lines {
		for _, candidate := range patterns.Base64TokenPattern.FindAllString(line, -1) {
			if len(candidate) < base64RescanMinLen {
				continue
			}
			decoded, err := base64.StdEncoding.DecodeString(candidate)
			if err != nil {
				decoded, err = base64.RawStdEncoding.DecodeString(candidate)
				if err != nil {
					continue
				}
			}
			if !utf8.Valid(decoded) {
				continue
			}
			text := string(decoded)
			for _, rule := range patterns.ScanRules {
				if !rule.AppliesToExt(ext) {
					continue
				}
				if rule.Pattern.MatchString(text) {
					findings = append(findings, Finding{
						RuleID:      "BASE64_BLOB",
						Severity:    patterns.Max(rule.Severity, patterns.SeverityMedium),
						FilePath:    relPath,
						Line:        i + 1,
						MatchedText: rule.ID + " in decoded payload",
						Category:    "obfuscation",
					})
				}
			}
		}
	}
	return findings
}

func rollupSeverity(findings []Finding) patterns.Severity {
	max := patterns.SeverityLow
	for _, f := range findings {
		max = patterns.Max(max, f.Severity)
	}
	return max
}

func distinctRuleIDs(findings []Finding) []string {
	seen := map[string]bool{}
	var tags []string
	for _, f := range findings {
		if !seen[f.RuleID] {
			seen[f.RuleID] = true
			tags = append(tags, f.RuleID)
		}
	}
	return tags
}

func summarize(r Result) string {
	if len(r.Findings) == 0 {
		return "no findings"
	}
	byCategory := map[string]int{}
	for _, f := range r.Findings {
		byCategory[f.Category]++
	}
	cats := make([]string, 0, len(byCategory))
	for c := range byCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	parts := make([]string, 0, len(cats))
	for _, c := range cats {
		parts = append(parts, fmt.Sprintf("%s:%d", c, byCategory[c]))
	}
	return fmt.Sprintf("%d finding(s) across %d file(s) [%s]", len(r.Findings), r.FilesScanned, strings.Join(parts, ", "))
}
