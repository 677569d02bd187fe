package wildcard_test

import (
	"testing"

	"github.com/fenwick-labs/humphrey/wildcard"
)

func TestMatchExact(t *testing.T) {
	cases := []struct {
		pattern, text string
		want          bool
	}{
		{"hello", "hello", true},
		{"hello", "hellox", false},
		{"", "", true},
		{"", "x", false},
	}
	for _, c := range cases {
		if got := wildcard.Match(c.pattern, c.text); got != c.want {
			t.Errorf("Match(%q, %q) = %v, want %v", c.pattern, c.text, got, c.want)
		}
	}
}

func TestMatchStarMatchesEverything(t *testing.T) {
	for _, s := range []string{"", "a", "abc", "*", "***"} {
		if !wildcard.Match("*", s) {
			t.Errorf("Match(\"*\", %q) = false, want true", s)
		}
	}
}

func TestMatchPrefixSuffix(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"ab", true},
		{"axb", true},
		{"axxxb", true},
		{"a", false},
		{"b", false},
		{"ba", false},
		{"xaxbx", false},
	}
	for _, c := range cases {
		if got := wildcard.Match("a*b", c.text); got != c.want {
			t.Errorf("Match(\"a*b\", %q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestMatchMultipleStars(t *testing.T) {
	if !wildcard.Match("a*c*e", "abcde") {
		t.Error("Match(\"a*c*e\", \"abcde\") = false, want true")
	}
	if wildcard.Match("a*c*e", "abcdx") {
		t.Error("Match(\"a*c*e\", \"abcdx\") = true, want false")
	}
}

func TestMatchHostAndRoutePatterns(t *testing.T) {
	if !wildcard.Match("*.example.com", "api.example.com") {
		t.Error("expected subdomain wildcard to match")
	}
	if wildcard.Match("*.example.com", "example.com") {
		t.Error("*.example.com should not match bare example.com")
	}
	if !wildcard.Match("/blog/*", "/blog/2024/post") {
		t.Error("expected route wildcard to match nested path")
	}
}

func TestMatchNoWildcardEqualsEquality(t *testing.T) {
	samples := []string{"", "a", "abc", "Host.Name"}
	for _, s := range samples {
		if !wildcard.Match(s, s) {
			t.Errorf("Match(%q, %q) should equal string equality (true)", s, s)
		}
	}
}
