package capability

import "testing"

func TestMatchGlob(t *testing.T) {
	cases := []struct {
		pattern, candidate string
		want               bool
	}{
		{"/project/src/**", "/project/src/a/b.go", true},
		{"/project/src/**", "/project/other.go", false},
		{"*.infura.io", "mainnet.infura.io", true},
		{"*.infura.io", "infura.io", false},
		{"*.infura.io", "evil.com", false},
		{"/tmp/*", "/tmp/foo", true},
		{"/tmp/*", "/tmp/foo/bar", false},
		{"/etc/passwd", "/etc/passwd", true},
		{"/etc/passwd", "/etc/passwd2", false},
		{"config", "config/file.json", true},
		{"**", "anything/at/all", true},
	}
	for _, c := range cases {
		if got := MatchGlob(c.pattern, c.candidate); got != c.want {
			t.Errorf("MatchGlob(%q, %q) = %v, want %v", c.pattern, c.candidate, got, c.want)
		}
	}
}

func TestMatchAllowlist(t *testing.T) {
	allow := []string{"*.infura.io", "api.example.com"}
	if !MatchAllowlist(allow, "api.example.com") {
		t.Error("expected exact host match")
	}
	if MatchAllowlist(allow, "evil.com") {
		t.Error("expected no match for untrusted host")
	}
}
