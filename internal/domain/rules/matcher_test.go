package rules

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestMatchKeywordCaseInsensitive(t *testing.T) {
	rule := &Rule{ID: uuid.New(), Type: RuleTypeKeyword, Pattern: "Casino"}
	if !matchRule(rule, "cheap CASINO chips") {
		t.Fatal("expected case-insensitive keyword match")
	}
	if matchRule(rule, "playing cards") {
		t.Fatal("expected no match")
	}
}

func TestMatchRegexCaseInsensitive(t *testing.T) {
	rule := &Rule{ID: uuid.New(), Type: RuleTypeRegex, Pattern: `fr[e3]{2}\s+money`}
	if !matchRule(rule, "FREE   MONEY here") {
		t.Fatal("expected regex match")
	}
	if !matchRule(rule, "fr33 money") {
		t.Fatal("expected leet-speak regex match")
	}
}

func TestMatchMalformedStoredRegexIsSkipped(t *testing.T) {
	rule := &Rule{ID: uuid.New(), Type: RuleTypeRegex, Pattern: "[broken"}
	if matchRule(rule, "[broken") {
		t.Fatal("expected malformed regex to be treated as no match")
	}
}

func TestMatchURLAgainstLinks(t *testing.T) {
	rule := &Rule{ID: uuid.New(), Type: RuleTypeURL, Pattern: "spam.example"}
	if !matchRule(rule, "click https://spam.example/win now") {
		t.Fatal("expected URL rule to match an explicit link")
	}
	if !matchRule(rule, "click spam.example/win now") {
		t.Fatal("expected URL rule to match a scheme-less link")
	}
	if matchRule(rule, "a perfectly ordinary sentence") {
		t.Fatal("expected no match without the domain")
	}
}

func TestMatchURLIgnoresNonLinkText(t *testing.T) {
	// The pattern's letters appear, but never inside a URL-like token
	rule := &Rule{ID: uuid.New(), Type: RuleTypeURL, Pattern: "evil.co"}
	if matchRule(rule, "that was evil. company policy says no") {
		t.Fatal("expected URL rule to ignore text split across tokens")
	}
}

func TestMatchUnknownTypeIsSkipped(t *testing.T) {
	rule := &Rule{ID: uuid.New(), Type: RuleType("soundex"), Pattern: "x"}
	if matchRule(rule, "x") {
		t.Fatal("expected unknown rule type to be treated as no match")
	}
}

func TestExtractLinks(t *testing.T) {
	links := extractLinks("see HTTP://A.example and https://b.example/path?q=1 plus httpX")
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %v", links)
	}
	if links[0] != "http://a.example" {
		t.Fatalf("expected lowercased first link, got %q", links[0])
	}
	if links[1] != "https://b.example/path?q=1" {
		t.Fatalf("expected second link with path, got %q", links[1])
	}
}

func TestExtractLinksSchemelessDomains(t *testing.T) {
	links := extractLinks("try bit.ly/x or (tinyurl.com), e.g. not plainwords")
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %v", links)
	}
	if links[0] != "bit.ly/x" {
		t.Fatalf("expected shortener with path, got %q", links[0])
	}
	if links[1] != "tinyurl.com" {
		t.Fatalf("expected parenthesized domain trimmed, got %q", links[1])
	}
}

func TestMakePreviewStripsMarkupAndTruncates(t *testing.T) {
	preview := makePreview("  <b>hello</b> world  ", 280)
	if preview != "hello world" {
		t.Fatalf("expected tags stripped, got %q", preview)
	}

	long := strings.Repeat("ж", 300)
	preview = makePreview(long, 280)
	runes := []rune(preview)
	if len(runes) != 281 {
		t.Fatalf("expected 280 runes plus ellipsis, got %d", len(runes))
	}
	if runes[len(runes)-1] != '…' {
		t.Fatal("expected ellipsis suffix")
	}
}
