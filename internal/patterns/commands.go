package patterns

import (
	"regexp"
	"strings"
)

// ForkBomb tolerates whitespace variations of the classic `:(){ :|:& };:`.
var ForkBomb = regexp.MustCompile(`:\s*\(\s*\)\s*\{\s*:\s*\|\s*:\s*&\s*\}\s*;\s*:`)

// ShellMetacharacters is the set that disqualifies a command from the
// safe-command allowlist fast path (spec.md §4.4.1 step 3).
var ShellMetacharacters = regexp.MustCompile("[;|&`$(){}]")

// DangerousSubstrings are lowercase substrings/regexes whose presence in a
// command is always critical and always blocks (spec.md §4.1).
var DangerousSubstrings = []*regexp.Regexp{
	regexp.MustCompile(`rm\s+-rf\b`),
	regexp.MustCompile(`rm\s+-fr\b`),
	regexp.MustCompile(`\bmkfs\b`),
	regexp.MustCompile(`\bdd\s+if=`),
	regexp.MustCompile(`chmod\s+777\b`),
	regexp.MustCompile(`chmod\s+-r\s+777\b`),
	regexp.MustCompile(`>\s*/dev/sda`),
	regexp.MustCompile(`mv\s+/\*`),
	regexp.MustCompile(`(?:curl|wget)[^|]*\|\s*(?:ba)?sh\b`),
}

// SafeCommandPrefixes are read-only/common-write commands allowed through
// even when exec is denied, provided the command contains no shell
// metacharacter and no sensitive-command substring (spec.md §4.4.1 step 3).
var SafeCommandPrefixes = []string{
	// read-only utilities
	"ls", "cat", "pwd", "echo", "which", "whoami", "head", "tail", "wc", "find", "grep",
	"stat", "file", "diff", "tree", "du", "df",
	// git read + common write
	"git status", "git log", "git diff", "git show", "git branch", "git remote",
	"git add", "git commit", "git push", "git pull", "git fetch", "git checkout", "git rebase",
	// package manager installs
	"npm install", "npm ci", "npm run", "pip install", "pip3 install", "yarn install",
	"pnpm install", "go get", "go build", "go test", "go vet", "go run", "go mod",
	"cargo build", "cargo test",
	// version probes
	"node --version", "python --version", "python3 --version", "go version", "git --version",
	// common build commands
	"make", "make build", "make test",
}

// SensitiveCommandPrefixes always raise SENSITIVE_DATA_ACCESS (spec.md §4.1)
// when they occur anywhere in the command line (substring match).
var SensitiveCommandPrefixes = []string{
	"cat /etc/passwd", "cat /etc/shadow", "cat ~/.ssh", "cat ~/.aws",
	"cat ~/.kube", "cat ~/.npmrc", "cat ~/.netrc",
	"printenv", "env", "set",
}

// SystemCommandPrefixes raise SYSTEM_COMMAND, medium risk.
var SystemCommandPrefixes = []string{
	"sudo", "su", "systemctl", "service", "launchctl", "kill", "killall",
	"pkill", "reboot", "shutdown", "useradd", "userdel", "passwd",
}

// NetworkCommandPrefixes raise NETWORK_COMMAND, medium risk.
var NetworkCommandPrefixes = []string{
	"curl", "wget", "nc", "netcat", "ssh", "scp", "rsync", "telnet", "ftp", "nmap",
}

// ShellInjectionIndicators raise SHELL_INJECTION_RISK when present anywhere
// in the full command string (spec.md §4.4.1 step 4).
var ShellInjectionIndicators = []*regexp.Regexp{
	regexp.MustCompile("[;&|]{1,2}"),
	regexp.MustCompile("\\$\\("),
	regexp.MustCompile("`[^`]*`"),
	regexp.MustCompile(`>\s*/`),
}

// SensitiveEnvKeySubstrings flag SENSITIVE_ENV_VAR without a severity lift
// (spec.md §4.4.1 step 4).
var SensitiveEnvKeySubstrings = []string{
	"API_KEY", "SECRET", "PASSWORD", "TOKEN", "PRIVATE", "CREDENTIAL",
}

// HasPrefixWord reports whether full equals prefix or starts with
// "prefix " (spec.md's "exact or followed by space" matching rule, used
// for safe/system/network command prefix checks).
func HasPrefixWord(full, prefix string) bool {
	if full == prefix {
		return true
	}
	return len(full) > len(prefix) && full[:len(prefix)] == prefix && full[len(prefix)] == ' '
}

// ContainsPrefixWord reports whether prefix appears in full either at the
// very start or immediately preceded by a space, matching spec.md's
// "at start or preceded by a space" rule for system/network commands.
func ContainsPrefixWord(full, prefix string) bool {
	if HasPrefixWord(full, prefix) {
		return true
	}
	search := full
	offset := 0
	for {
		i := strings.Index(search, prefix)
		if i < 0 {
			return false
		}
		abs := offset + i
		if abs > 0 && full[abs-1] == ' ' {
			end := abs + len(prefix)
			if end == len(full) || full[end] == ' ' {
				return true
			}
		}
		offset = abs + 1
		if offset >= len(full) {
			return false
		}
		search = full[offset:]
	}
}
