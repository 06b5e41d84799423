// Package patterns is the frozen regex/constant catalog consumed by the
// static scanner and the action detectors. It is the single source of
// truth for every pattern named in both components; duplicate compilation
// is fine, duplicate definitions are not.
package patterns

import "regexp"

// Severity mirrors the priority bands used across the scanner and
// detectors: >=90 critical, >=70 high, >=50 medium, else low.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// Max returns the higher of two severities.
func Max(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}

// SeverityFromPriority maps a secret-pattern priority to a Severity band
// per spec.md §4.1: >=90 critical, >=70 high, >=50 medium, else low.
func SeverityFromPriority(priority int) Severity {
	switch {
	case priority >= 90:
		return SeverityCritical
	case priority >= 70:
		return SeverityHigh
	case priority >= 50:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// SecretPattern is one entry of the priority-ordered secret catalog.
type SecretPattern struct {
	ID       string
	Pattern  *regexp.Regexp
	Priority int
}

// Severity reports the risk band for this pattern's priority.
func (p SecretPattern) Severity() Severity { return SeverityFromPriority(p.Priority) }

// SecretPatterns is the fixed-priority catalog from spec.md §4.1, ordered
// highest priority first so the first match in a linear scan is also the
// highest-priority match.
var SecretPatterns = []SecretPattern{
	{"PRIVATE_KEY_PATTERN", regexp.MustCompile(privateKeyPattern), 100},
	{"MNEMONIC_PATTERN", regexp.MustCompile(mnemonicPattern), 100},
	{"PEM_PRIVATE_KEY", regexp.MustCompile(`-----BEGIN (?:RSA |EC |OPENSSH |DSA |)PRIVATE KEY-----`), 90},
	{"AWS_SECRET_KEY", regexp.MustCompile(`(?i)aws[a-z0-9_\- ]{0,20}(?:secret|access)[a-z0-9_\- ]{0,20}[:=]\s*['"]?[A-Za-z0-9/+=]{40}['"]?`), 80},
	{"AWS_ACCESS_KEY", regexp.MustCompile(awsAccessKeyPattern), 70},
	{"GITHUB_TOKEN", regexp.MustCompile(githubTokenPattern), 70},
	{"JWT_TOKEN", regexp.MustCompile(`ey[\w-]+\.ey[\w-]+\.[\w-]+`), 60},
	{"API_SECRET_GENERIC", regexp.MustCompile(`(?i)(?:api[_-]?key|api[_-]?secret)\s*[:=]\s*['"]?[A-Za-z0-9_\-]{16,}['"]?`), 50},
	{"DB_DSN", regexp.MustCompile(`(?:postgres|mysql|mongodb)://[^\s'"]+`), 50},
	{"PASSWORD_ASSIGNMENT", regexp.MustCompile(`(?i)password\s*[:=]\s*\S+`), 40},
}

const (
	privateKeyPattern   = `0x[0-9a-fA-F]{64}`
	awsAccessKeyPattern = `AKIA[0-9A-Z]{16}`
	githubTokenPattern  = `gh[pousr]_[A-Za-z0-9_]{36,}`
)

const mnemonicPattern =`(?:\b[a-z]+(?:\s+[a-z]+){11}\b|\b[a-z]+(?:\s+[a-z]+){14}\b|\b[a-z]+(?:\s+[a-z]+){17}\b|\b[a-z]+(?:\s+[a-z]+){20}\b|\b[a-z]+(?:\s+[a-z]+){23}\b)`

// HighestSecretMatch scans text against SecretPatterns and returns the
// highest-priority match, if any.
func HighestSecretMatch(text string) (SecretPattern, string, bool) {
	best := SecretPattern{}
	bestMatch := ""
	found := false
	for _, p := range SecretPatterns {
		if m := p.Pattern.FindString(text); m != "" {
			if !found || p.Priority > best.Priority {
				best, bestMatch, found = p, m, true
			}
		}
	}
	return best, bestMatch, found
}
