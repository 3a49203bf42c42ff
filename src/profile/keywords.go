package profile

import (
	"regexp"
	"strings"
)

// tacticKeywords maps a catalog.Tactic string to the phrases that hint the
// subject is exposed to it, feeding SubjectProfile.TacticTags and in turn
// the Technique Selector's "+5 per matching tactic label" bonus.
var tacticKeywords = map[string][]string{
	"prompt-injection":     {"chat", "assistant", "llm", "prompt"},
	"jailbreak":            {"chat", "assistant", "llm"},
	"role-manipulation":    {"chat", "assistant", "persona", "roleplay"},
	"instruction-override": {"chat", "assistant", "instructions", "system prompt"},
	"prompt-leaking":       {"chat", "assistant", "prompt", "system prompt"},
	"delimiter-abuse":      {"chat", "assistant", "llm"},
	"command-execution":    {"automation", "device control", "command", "actuator"},
	"sql-injection":        {"sql", "database", "query", "table"},
	"exfiltration":         {"data", "pii", "customer", "record", "export"},
	"persistence":          {"automation", "device control", "scheduler"},
	"auth-bypass":          {"auth", "login", "credential", "token"},
	"denial-of-service":    {"iot", "sensor", "firmware", "resource"},
}

// subjectTypeRule is one ordered rule in the subject-type inference chain: the
// first rule whose keywords match wins.
type subjectTypeRule struct {
	subjectType SubjectType
	keywords    []string
}

// subjectTypeRules is deliberately ordered — conversational is checked
// before the broader "command-driven" bucket so an LLM-based home
// assistant doesn't get miscategorized.
var subjectTypeRules = []subjectTypeRule{
	{SubjectConversational, []string{"chat", "chatbot", "assistant", "conversation", "llm", "language model", "dialogue"}},
	{SubjectWeb, []string{"http", "web server", "rest api", "endpoint", "webapp", "website"}},
	{SubjectStorage, []string{"sql", "database", "query", "table", "postgres", "mysql", "storage engine"}},
	{SubjectIoT, []string{"iot", "sensor", "telemetry", "firmware", "embedded device"}},
	{SubjectCommandDriven, []string{"automation", "device control", "command", "actuator", "smart home"}},
}

// platformKeywords maps a platform tag to the phrases that signal it.
var platformKeywords = map[string][]string{
	"conversational": {"chat", "assistant", "llm", "dialogue"},
	"web":            {"http", "rest", "web server"},
	"command-driven": {"command", "automation", "device control"},
	"storage":        {"sql", "database", "query"},
	"iot":            {"iot", "sensor", "firmware"},
}

// domainKeywords maps a domain tag to the phrases that signal it. These are
// consulted by the Technique Selector's "+3 per matching domain label"
// scoring rule.
var domainKeywords = map[string][]string{
	"chat":       {"chat", "assistant", "conversation"},
	"assistant":  {"assistant", "helper", "agent"},
	"llm":        {"llm", "language model", "gpt", "generative"},
	"automation": {"automation", "smart home", "actuator"},
	"device":     {"device", "thermostat", "sensor", "actuator"},
	"auth":       {"auth", "login", "credential", "token"},
	"web":        {"http", "rest", "web"},
	"sql":        {"sql", "database", "query"},
	"database":   {"database", "table", "schema"},
	"storage":    {"storage", "bucket", "file system"},
	"data":       {"data", "record", "pii"},
}

// containsKeyword reports whether text contains keyword as a whole word,
// case-insensitively, where feasible; multi-word keywords (e.g. "rest api")
// fall back to a plain substring match since word-boundary matching on a
// phrase is not meaningful.
func containsKeyword(text, keyword string) bool {
	lowerText := strings.ToLower(text)
	lowerKeyword := strings.ToLower(keyword)
	if strings.Contains(lowerKeyword, " ") {
		return strings.Contains(lowerText, lowerKeyword)
	}
	pattern := `\b` + regexp.QuoteMeta(lowerKeyword) + `\b`
	matched, _ := regexp.MatchString(pattern, lowerText)
	return matched
}

// inferSubjectType applies the ordered rule chain to the combined text
// of description, skill tags, and skill examples.
func inferSubjectType(corpus string) SubjectType {
	for _, rule := range subjectTypeRules {
		for _, kw := range rule.keywords {
			if containsKeyword(corpus, kw) {
				return rule.subjectType
			}
		}
	}
	return SubjectGeneric
}

// inferTags scans corpus against a keyword dictionary and returns the
// matching dictionary keys, deduplicated, in map iteration order stabilized
// by the caller (every call site sorts its results).
func inferTags(corpus string, dict map[string][]string) []string {
	var tags []string
	for tag, keywords := range dict {
		for _, kw := range keywords {
			if containsKeyword(corpus, kw) {
				tags = append(tags, tag)
				break
			}
		}
	}
	return tags
}

// buildCorpus concatenates every piece of free text in a capability
// document into the single string the keyword matchers scan.
func buildCorpus(doc CapabilityDocument) string {
	var b strings.Builder
	b.WriteString(doc.Description)
	b.WriteString(" ")
	for _, s := range doc.Skills {
		b.WriteString(s.Description)
		b.WriteString(" ")
		for _, tag := range s.Tags {
			b.WriteString(tag)
			b.WriteString(" ")
		}
		for _, ex := range s.Examples {
			b.WriteString(ex)
			b.WriteString(" ")
		}
	}
	return b.String()
}
