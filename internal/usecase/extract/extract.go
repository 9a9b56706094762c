// Package extract turns free-text roster questions into a condition.Set.
package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/rosterdex/internal/domain/query/condition"
)

const nameChars = `[a-z][a-z .'-]*`

// nameTemplates are tried in order; the first template that matches decides.
var nameTemplates = []*regexp.Regexp{
	regexp.MustCompile(`^(?:show|get|display|give|fetch)(?: me)?(?: the)?(?: full)? (?:details|detail|info|information|profile) (?:of|for|about|on) (` + nameChars + `)$`),
	regexp.MustCompile(`^(?:(?:show|get|display|fetch)(?: me)? )?(` + nameChars + `?)(?:'s)? (?:details|detail|info|profile)$`),
	regexp.MustCompile(`^who is (` + nameChars + `)$`),
	regexp.MustCompile(`^tell me about (` + nameChars + `)$`),
	regexp.MustCompile(`^([a-z]+(?: [a-z]+){0,2})$`),
}

const (
	num   = `(\d+(?:\.\d+)?)`
	years = `\s*(?:years?|yrs?)\b`
)

type boundKind int

const (
	lowerBound boundKind = iota
	upperBound
	rangeBound
	exactBound
)

type experienceTemplate struct {
	re   *regexp.Regexp
	kind boundKind
}

// experienceTemplates are tried in order; the first match wins.
var experienceTemplates = []experienceTemplate{
	{regexp.MustCompile(`(?:more|greater|over|above|at least|minimum(?: of)?)\s+(?:than\s+)?` + num + `\s*\+?` + years), lowerBound},
	{regexp.MustCompile(`(?:less|fewer|under|below|at most|maximum(?: of)?|up to)\s+(?:than\s+)?` + num + years), upperBound},
	{regexp.MustCompile(num + `\s*\+` + years), lowerBound},
	{regexp.MustCompile(`between\s+` + num + `\s+and\s+` + num + years), rangeBound},
	{regexp.MustCompile(num + `\s*(?:-|to)\s*` + num + years), rangeBound},
	{regexp.MustCompile(num + years), exactBound},
}

var projectPattern = regexp.MustCompile(`\b(?:in|project|team|of)\s+([a-z0-9]+_[a-z0-9_]+)`)

var locationTemplates = []*regexp.Regexp{
	regexp.MustCompile(`\bbased (?:in|out of) ([a-z]+)(?:\s|$|[?.!,])`),
	regexp.MustCompile(`\b(?:in|at|from) ([a-z]+)(?:\s|$|[?.!,])`),
	regexp.MustCompile(`\b([a-z]+) (?:employees|people|team|office|staff)\b`),
}

// Normalize lower-cases text, collapses whitespace and drops trailing punctuation.
func Normalize(text string) string {
	t := strings.ToLower(strings.Join(strings.Fields(text), " "))
	return strings.TrimRight(t, "?.! ")
}

// Extract parses text into a condition set. It never fails; unmatched text
// yields an empty set.
func Extract(text string) condition.Set {
	t := Normalize(text)
	b := condition.NewBuilder()

	// Vocabulary inside a matched name is part of the name, not a condition.
	if name, rest, ok := nameCandidate(t); ok {
		b.SetName(titleCase(name))
		t = rest
	}
	applyExperience(b, t)
	for _, s := range Skills(t) {
		b.AddSkill(s)
	}
	if p, ok := Project(t); ok {
		b.SetProject(p)
	}
	if d, ok := Department(t); ok {
		b.SetDepartment(d)
	}
	if l, ok := Location(t); ok {
		b.SetLocation(l)
	}
	ApplyDeployment(b, t)

	return b.Build()
}

// ExactName returns a title-cased person name when the whole text is a
// name-shaped phrase. A bare phrase is rejected when any token is reserved
// vocabulary. An explicit request ("details of X", "who is X") is rejected
// only when every token is reserved or a token is a generic roster word, so
// names such as "Ruby Sharma" or "Austin Paul" survive.
func ExactName(text string) (string, bool) {
	candidate, _, ok := nameCandidate(Normalize(text))
	if !ok {
		return "", false
	}
	return titleCase(candidate), true
}

// bareNameTemplate is the index of the catch-all phrase template.
var bareNameTemplate = len(nameTemplates) - 1

// nameCandidate returns the lower-case name and t with the name span removed.
func nameCandidate(t string) (name, rest string, ok bool) {
	for i, re := range nameTemplates {
		m := re.FindStringSubmatchIndex(t)
		if m == nil {
			continue
		}
		candidate := strings.Trim(t[m[2]:m[3]], " .'-")
		if len(candidate) < 2 {
			return "", t, false
		}
		if i == bareNameTemplate {
			if anyToken(candidate, IsStopWord) {
				return "", t, false
			}
		} else if anyToken(candidate, isGenericStopWord) || allTokens(candidate, IsStopWord) {
			return "", t, false
		}
		return candidate, t[:m[2]] + " " + t[m[3]:], true
	}
	return "", t, false
}

func anyToken(s string, pred func(string) bool) bool {
	for _, tok := range tokens(s) {
		if pred(tok) {
			return true
		}
	}
	return false
}

func allTokens(s string, pred func(string) bool) bool {
	for _, tok := range tokens(s) {
		if !pred(tok) {
			return false
		}
	}
	return true
}

// HasExperiencePhrase reports whether any experience template matches.
func HasExperiencePhrase(text string) bool {
	t := Normalize(text)
	for _, tpl := range experienceTemplates {
		if tpl.re.MatchString(t) {
			return true
		}
	}
	return false
}

func applyExperience(b *condition.Builder, t string) {
	for _, tpl := range experienceTemplates {
		m := tpl.re.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		first, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return
		}
		switch tpl.kind {
		case lowerBound:
			b.SetExperienceMin(first)
		case upperBound:
			b.SetExperienceMax(first)
		case rangeBound:
			second, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				return
			}
			b.SetExperienceRange(first, second)
		case exactBound:
			b.SetExperienceRange(first, first)
		}
		return
	}
}

// skillsByLength is skillVocabulary with longer phrases first, so "node.js"
// claims its span before "js" can.
var skillsByLength = func() []alias {
	out := append([]alias(nil), skillVocabulary...)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].phrase) > len(out[j].phrase) })
	return out
}()

// Skills returns canonical skill tokens in order of appearance.
func Skills(text string) []string {
	t := Normalize(text)
	type found struct {
		pos, end int
		skill    string
	}
	var hits []found
	claimed := func(start, end int) bool {
		for _, h := range hits {
			if start < h.end && h.pos < end {
				return true
			}
		}
		return false
	}
	seen := make(map[string]bool)
	for _, a := range skillsByLength {
		if seen[a.canonical] {
			continue
		}
		for from := 0; from < len(t); {
			pos := indexWord(t[from:], a.phrase)
			if pos < 0 {
				break
			}
			start, end := from+pos, from+pos+len(a.phrase)
			if !claimed(start, end) {
				hits = append(hits, found{pos: start, end: end, skill: a.canonical})
				seen[a.canonical] = true
				break
			}
			from = end
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.skill
	}
	return out
}

// Project returns the upper-cased project code following in/project/team/of.
func Project(text string) (string, bool) {
	m := projectPattern.FindStringSubmatch(Normalize(text))
	if m == nil {
		return "", false
	}
	return strings.ToUpper(m[1]), true
}

// Department returns the canonical department of the first listed phrase found.
func Department(text string) (string, bool) {
	t := Normalize(text)
	for _, a := range departmentVocabulary {
		if containsWord(t, a.phrase) {
			return a.canonical, true
		}
	}
	return "", false
}

// Location returns a canonical city: vocabulary membership first, then
// templated phrases whose captured word is neither reserved vocabulary nor a
// common non-place word.
func Location(text string) (string, bool) {
	t := Normalize(text)
	for _, a := range cityVocabulary {
		if containsWord(t, a.phrase) {
			return a.canonical, true
		}
	}
	for _, re := range locationTemplates {
		for _, m := range re.FindAllStringSubmatch(t, -1) {
			if city := m[1]; len(city) >= 3 && !IsStopWord(city) && !isNonPlaceWord(city) {
				return titleCase(city), true
			}
		}
	}
	return "", false
}

// Deployment holds the four independent deployment flags.
type Deployment struct {
	Free     bool
	Billable bool
	Budgeted bool
	Support  bool
}

// Any reports whether at least one flag is set.
func (d Deployment) Any() bool { return d.Free || d.Billable || d.Budgeted || d.Support }

// DeploymentFlags evaluates each deployment phrase set independently.
func DeploymentFlags(text string) Deployment {
	t := Normalize(text)
	return Deployment{
		Free:     containsAnyWord(t, freePhrases),
		Billable: containsAnyWord(t, billablePhrases),
		Budgeted: containsAnyWord(t, budgetedPhrases),
		Support:  containsAnyWord(t, supportPhrases),
	}
}

// ApplyDeployment marks every deployment flag found in text.
func ApplyDeployment(b *condition.Builder, text string) {
	d := DeploymentFlags(text)
	if d.Free {
		b.MarkFree()
	}
	if d.Billable {
		b.MarkBillable()
	}
	if d.Budgeted {
		b.MarkBudgeted()
	}
	if d.Support {
		b.MarkSupport()
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
