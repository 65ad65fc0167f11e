package rules

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// matchRule reports whether a single rule matches content. A malformed
// stored pattern never aborts evaluation: it is logged and treated as
// no match so the remaining rules still run.
func matchRule(rule *Rule, content string) bool {
	switch rule.Type {
	case RuleTypeKeyword:
		return strings.Contains(strings.ToLower(content), strings.ToLower(rule.Pattern))

	case RuleTypeRegex:
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			log.Warn().
				Err(err).
				Str("rule_id", rule.ID.String()).
				Str("pattern", rule.Pattern).
				Msg("Skipping rule with malformed regex")
			return false
		}
		return re.MatchString(content)

	case RuleTypeURL:
		pattern := strings.ToLower(rule.Pattern)
		for _, link := range extractLinks(content) {
			if strings.Contains(link, pattern) {
				return true
			}
		}
		return false

	default:
		log.Warn().
			Str("rule_id", rule.ID.String()).
			Str("type", string(rule.Type)).
			Msg("Skipping rule with unknown type")
		return false
	}
}

// bareLinkRe recognizes scheme-less URL-like tokens such as bit.ly/x
var bareLinkRe = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*\.[a-z]{2,}(/\S*)?$`)

// extractLinks returns the lowercased URL-like substrings of content:
// explicit http(s):// runs plus scheme-less domain tokens. Shorteners
// rarely bother with a scheme, so bare bit.ly/x still counts as a link.
func extractLinks(content string) []string {
	var links []string

	for _, tok := range strings.Fields(strings.ToLower(content)) {
		tok = strings.Trim(tok, `.,;:!?"'()[]<>`)
		if tok == "" {
			continue
		}
		if strings.HasPrefix(tok, "http://") || strings.HasPrefix(tok, "https://") {
			links = append(links, tok)
			continue
		}
		if bareLinkRe.MatchString(tok) {
			links = append(links, tok)
		}
	}

	return links
}

// stripTags removes anything between angle brackets. Previews carry no
// markup into the review queue.
func stripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// makePreview builds the truncated, tag-stripped queue snippet
func makePreview(content string, maxLen int) string {
	stripped := strings.TrimSpace(stripTags(content))
	runes := []rune(stripped)
	if len(runes) <= maxLen {
		return stripped
	}
	return string(runes[:maxLen]) + "…"
}
