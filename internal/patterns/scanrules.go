package patterns

import "regexp"

// ScanRule is one row of the static-scanner rule table: an id, severity,
// an extension filter (empty means "all extensions"), and a regex that
// fires once per matching line.
type ScanRule struct {
	ID         string
	Severity   Severity
	Extensions []string // nil/empty = applies to every scanned extension
	Pattern    *regexp.Regexp
	Category   string
}

// AppliesToExt reports whether this rule's extension filter matches ext
// (ext includes no leading dot, e.g. "py", "sol").
func (r ScanRule) AppliesToExt(ext string) bool {
	if len(r.Extensions) == 0 {
		return true
	}
	for _, e := range r.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

var codeExts = []string{"js", "ts", "jsx", "tsx", "mjs", "cjs", "py"}
var shellExts = []string{"sh", "bash"}
var solExts = []string{"sol"}
var mdExts = []string{"md"}

// Base64TokenPattern matches base64-like tokens of length >=80, the
// threshold spec.md §4.3 uses to trigger a base64 re-scan.
var Base64TokenPattern = regexp.MustCompile(`[A-Za-z0-9+/=]{80,}`)

// ScanRules is the static scanner's ordered rule table (spec.md §4.1,
// ≥24 rules). Findings are applied in this order; roll-up sorts by
// file/line/rule_id afterward so table order does not affect determinism.
var ScanRules = []ScanRule{
	// --- execution risk ---
	{"SHELL_EXEC", SeverityHigh, codeExts, regexp.MustCompile(`\bchild_process\.exec\b|\bos\.exec\b|\bos\.system\b|\bsubprocess\.(?:run|Popen|call)\b`), "execution"},
	{"SHELL_PIPE_TO_SHELL", SeverityCritical, nil, regexp.MustCompile(`(?:curl|wget)[^|\n]*\|\s*(?:ba)?sh\b`), "execution"},
	{"DANGEROUS_RM", SeverityCritical, shellExts, regexp.MustCompile(`rm\s+-rf\s+[/~]`), "execution"},
	{"EVAL_CALL", SeverityHigh, codeExts, regexp.MustCompile(`\beval\s*\(`), "execution"},
	{"DYNAMIC_IMPORT", SeverityMedium, codeExts, regexp.MustCompile(`\bnew\s+Function\s*\(|\b__import__\s*\(`), "execution"},

	// --- secret reads ---
	{"SECRET_ENV_READ", SeverityMedium, codeExts, regexp.MustCompile(`process\.env\[|os\.environ\[|os\.environ\.get\(`), "secrets"},
	{"PRIVATE_KEY_PATTERN", SeverityCritical, nil, regexp.MustCompile(privateKeyPattern), "secrets"},
	{"MNEMONIC_PATTERN", SeverityCritical, nil, regexp.MustCompile(mnemonicPattern), "secrets"},
	{"AWS_ACCESS_KEY", SeverityHigh, nil, regexp.MustCompile(awsAccessKeyPattern), "secrets"},
	{"GITHUB_TOKEN", SeverityHigh, nil, regexp.MustCompile(githubTokenPattern), "secrets"},
	{"SSH_KEY_READ", SeverityHigh, nil, regexp.MustCompile(`~/\.ssh/id_(?:rsa|ed25519)`), "secrets"},
	{"CLOUD_CRED_READ", SeverityHigh, nil, regexp.MustCompile(`~/\.aws/credentials|~/\.kube/config|serviceAccountKey\.json`), "secrets"},

	// --- exfiltration ---
	{"WEBHOOK_EXFIL", SeverityHigh, nil, regexp.MustCompile(`(?i)https?://(?:[\w-]+\.)?(?:discord(?:app)?\.com|hooks\.slack\.com|webhook\.site|ngrok(?:-free)?\.(?:io|app)|requestbin\.com|pipedream\.com|beeceptor\.com|mockbin\.org)`), "exfiltration"},
	{"EXFIL_CURL_POST", SeverityHigh, shellExts, regexp.MustCompile(`curl\s+[^\n]*-d\s`), "exfiltration"},
	{"EXFIL_FETCH_CALL", SeverityMedium, codeExts, regexp.MustCompile(`\bfetch\s*\(\s*['"]https?://`), "exfiltration"},

	// --- obfuscation ---
	{"BASE64_BLOB", SeverityMedium, nil, Base64TokenPattern, "obfuscation"},
	{"HEX_BLOB", SeverityMedium, nil, regexp.MustCompile(`(?:0x)?[0-9a-fA-F]{80,}`), "obfuscation"},
	{"ATOB_EVAL_CHAIN", SeverityHigh, codeExts, regexp.MustCompile(`eval\s*\(\s*atob\s*\(|Function\s*\(\s*atob\s*\(`), "obfuscation"},
	{"ZERO_WIDTH_CHAR", SeverityHigh, nil, regexp.MustCompile("[​‌‍\ufeff‮]"), "obfuscation"},

	// --- prompt injection ---
	{"PROMPT_INJECTION_IGNORE", SeverityHigh, mdExts, regexp.MustCompile(`(?i)ignore\s+(?:all\s+)?(?:previous|prior)\s+instructions`), "prompt-injection"},
	{"PROMPT_INJECTION_SYSTEM_SPOOF", SeverityHigh, mdExts, regexp.MustCompile(`(?i)</?system>|\[system\]|###\s*system\b`), "prompt-injection"},
	{"PROMPT_INJECTION_CONCEAL", SeverityMedium, mdExts, regexp.MustCompile(`(?i)(?:do\s+not|don't|never)\s+(?:tell|reveal|mention)\s+(?:the\s+user|this)`), "prompt-injection"},

	// --- Web3 / Solidity ---
	{"DANGEROUS_SELFDESTRUCT", SeverityCritical, solExts, regexp.MustCompile(`\bselfdestruct\s*\(`), "web3"},
	{"UNLIMITED_APPROVAL", SeverityHigh, solExts, regexp.MustCompile(`type\s*\(\s*uint256\s*\)\s*\.\s*max`), "web3"},
	{"REENTRANCY_RISK", SeverityHigh, solExts, regexp.MustCompile(`\.call\{[^}]*value[^}]*\}\s*\(`), "web3"},
	{"ECRECOVER_NO_NONCE", SeverityMedium, solExts, regexp.MustCompile(`\becrecover\s*\(`), "web3"},
	{"PROXY_UPGRADE_SLOT", SeverityMedium, solExts, regexp.MustCompile(`IMPLEMENTATION_SLOT`), "web3"},
	{"FLASH_LOAN_ENTRYPOINT", SeverityMedium, solExts, regexp.MustCompile(`\bflashLoan\b|\bexecuteOperation\b`), "web3"},

	// --- social engineering ---
	{"SOCIAL_ENGINEERING_URGENT", SeverityLow, mdExts, regexp.MustCompile(`(?i)act\s+(?:now|immediately)|urgent\s+action\s+required`), "social-engineering"},
}
