package config

import (
	"fmt"
	"regexp"
	"strings"
)

// SensitivePattern represents a pattern that might indicate a hardcoded credential.
type SensitivePattern struct {
	Name        string
	Pattern     *regexp.Regexp
	Description string
}

var sensitivePatterns = []SensitivePattern{
	{
		Name:        "GitHub Token",
		Pattern:     regexp.MustCompile(`\b(gh[pousr]_[A-Za-z0-9]{36,}|github_pat_[A-Za-z0-9_]{22,})`),
		Description: "GitHub token hardcoded in config file",
	},
	{
		Name:        "Token",
		Pattern:     regexp.MustCompile(`(?i)(token|auth[_-]?token|access[_-]?token|bearer)\s*=\s*['"][A-Za-z0-9_-]{15,}['"]`),
		Description: "authentication token hardcoded in config file",
	},
}

// SensitiveDataFinding represents a detected credential.
type SensitiveDataFinding struct {
	PatternName string
	Description string
	Line        int
	Preview     string // Redacted preview of the match
}

// String renders the finding as a one-line warning.
func (f SensitiveDataFinding) String() string {
	return fmt.Sprintf("%s (line %d: %s); use GITHUB_TOKEN instead", f.Description, f.Line, f.Preview)
}

// DetectSensitiveData scans config source for hardcoded credentials.
// A line is reported at most once, for the first pattern that matches.
func DetectSensitiveData(content string) []SensitiveDataFinding {
	var findings []SensitiveDataFinding

	for lineNum, line := range strings.Split(content, "\n") {
		for _, pattern := range sensitivePatterns {
			if !pattern.Pattern.MatchString(line) {
				continue
			}
			findings = append(findings, SensitiveDataFinding{
				PatternName: pattern.Name,
				Description: pattern.Description,
				Line:        lineNum + 1,
				Preview:     redactSensitiveValue(line),
			})
			break
		}
	}

	return findings
}

// redactSensitiveValue keeps the assignment target and hides the value.
func redactSensitiveValue(line string) string {
	eqIdx := strings.Index(line, "=")
	if eqIdx == -1 {
		return "[REDACTED]"
	}
	return strings.TrimSpace(line[:eqIdx]) + " = [REDACTED]"
}
