// Package route classifies a roster question into a retrieval decision.
//
// Classification is a fixed-precedence cascade of pattern stages; the first
// stage that matches decides. Unmatched text is handed to a language model
// and, failing that, to a conservative combined decision.
package route

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/rosterdex/internal/domain/query/condition"
	"github.com/kailas-cloud/rosterdex/internal/domain/query/decision"
	"github.com/kailas-cloud/rosterdex/internal/domain/query/strategy"
	"github.com/kailas-cloud/rosterdex/internal/domain/query/structured"
	"github.com/kailas-cloud/rosterdex/internal/usecase/extract"
	"github.com/kailas-cloud/rosterdex/internal/usecase/synth"
)

// FallbackReason is the rationale of the conservative decision.
const FallbackReason = "no pattern matched; searching broadly"

// Completer answers a prompt with free text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// multiConditionIndicators are connector phrases that signal several criteria.
var multiConditionIndicators = []string{
	" and ", " with ", " having ", " who are ", " who have ", " who know ",
	" along with ", " as well as ", " but ",
}

var listAllPattern = regexp.MustCompile(
	`^(?:(?:list|show|get|display|give me|fetch)(?: me)? )?(?:all|every|everyone|everybody|the whole)?` +
		` ?(?:the )?(?:employees|staff|people|members|roster|resources|team members)(?: list)?$|` +
		`^(?:list|show|display) (?:all|everyone|everybody)$|^(?:all|everyone|everybody)$`)

// stage is one step of the cascade. match inspects the normalized text; build
// produces the decision once match succeeded.
type stage struct {
	name  string
	match func(text string) bool
	build func(text, raw string) decision.Decision
}

// Router runs the cascade.
type Router struct {
	completer Completer
	limit     int
	logger    *zap.Logger
	stages    []stage
}

// New creates a Router. A nil completer disables the language model stage.
// limit caps structured rows; non-positive means structured.DefaultLimit.
func New(completer Completer, limit int, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = structured.DefaultLimit
	}
	r := &Router{completer: completer, limit: limit, logger: logger}
	r.stages = r.cascade()
	return r
}

// Stages returns the cascade stage names in evaluation order.
func (r *Router) Stages() []string {
	names := make([]string, len(r.stages))
	for i, s := range r.stages {
		names[i] = s.name
	}
	return names
}

func (r *Router) cascade() []stage {
	return []stage{
		{name: "multi_condition", match: isMultiCondition, build: r.delegate},
		{name: "experience", match: extract.HasExperiencePhrase, build: r.delegate},
		{name: "list_all", match: listAllPattern.MatchString, build: r.listAll},
		{name: "single_employee", match: isExactName, build: r.singleEmployee},
		{name: "deployment_status", match: isDeployment, build: r.deployment},
		{name: "project", match: isProject, build: r.project},
		{name: "location", match: isLocation, build: r.location},
		{name: "department", match: isDepartment, build: r.department},
		{name: "skill", match: isSkill, build: r.skill},
	}
}

// Route classifies text. It never fails: a panic in any stage and every
// language model failure resolve to the fallback decision.
func (r *Router) Route(ctx context.Context, raw string) (d decision.Decision) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("router panic recovered", zap.Any("panic", rec), zap.String("query", raw))
			d = decision.Fallback(raw, r.limit, FallbackReason)
		}
	}()

	text := extract.Normalize(raw)
	for _, s := range r.stages {
		if s.match(text) {
			r.logger.Debug("route stage matched", zap.String("stage", s.name))
			return s.build(text, raw)
		}
	}
	return r.askModel(ctx, raw)
}

func isMultiCondition(text string) bool {
	padded := " " + text + " "
	for _, ind := range multiConditionIndicators {
		if strings.Contains(padded, ind) {
			return true
		}
	}
	return len(extract.Extract(text).Kinds()) >= 2
}

func isExactName(text string) bool {
	_, ok := extract.ExactName(text)
	return ok
}

func isDeployment(text string) bool { return extract.DeploymentFlags(text).Any() }

func isProject(text string) bool {
	_, ok := extract.Project(text)
	return ok
}

func isLocation(text string) bool {
	_, ok := extract.Location(text)
	return ok
}

func isDepartment(text string) bool {
	_, ok := extract.Department(text)
	return ok
}

func isSkill(text string) bool { return len(extract.Skills(text)) > 0 }

// delegate hands multi-criteria text to the extractor and synthesizer.
func (r *Router) delegate(text, raw string) decision.Decision {
	conds := extract.Extract(text)
	q := synth.Synthesize(conds, r.limit)
	return decision.New(strategy.Combined, strategy.MultiCondition, q, raw, q.Rationale(), conds)
}

func (r *Router) listAll(_, _ string) decision.Decision {
	q := structured.Open(r.limit, synth.OpenRationale)
	return decision.New(strategy.StructuredOnly, strategy.ListAll, q, "", q.Rationale(), condition.Set{})
}

func (r *Router) singleEmployee(text, _ string) decision.Decision {
	name, _ := extract.ExactName(text)
	b := condition.NewBuilder()
	b.SetName(name)
	return r.structuredOnly(strategy.SingleEmployee, b.Build())
}

func (r *Router) deployment(text, _ string) decision.Decision {
	b := condition.NewBuilder()
	extract.ApplyDeployment(b, text)
	return r.structuredOnly(strategy.DeploymentStatus, b.Build())
}

func (r *Router) project(text, _ string) decision.Decision {
	p, _ := extract.Project(text)
	b := condition.NewBuilder()
	b.SetProject(p)
	return r.structuredOnly(strategy.Project, b.Build())
}

func (r *Router) location(text, _ string) decision.Decision {
	l, _ := extract.Location(text)
	b := condition.NewBuilder()
	b.SetLocation(l)
	return r.structuredOnly(strategy.Location, b.Build())
}

func (r *Router) department(text, _ string) decision.Decision {
	d, _ := extract.Department(text)
	b := condition.NewBuilder()
	b.SetDepartment(d)
	return r.structuredOnly(strategy.Department, b.Build())
}

func (r *Router) skill(text, _ string) decision.Decision {
	skills := extract.Skills(text)
	b := condition.NewBuilder()
	for _, s := range skills {
		b.AddSkill(s)
	}
	conds := b.Build()
	q := synth.Synthesize(conds, r.limit)
	terms := fmt.Sprintf("%s skills programming development expertise", strings.Join(skills, " "))
	return decision.New(strategy.Combined, strategy.Skill, q, terms, q.Rationale(), conds)
}

func (r *Router) structuredOnly(c strategy.Category, conds condition.Set) decision.Decision {
	q := synth.Synthesize(conds, r.limit)
	return decision.New(strategy.StructuredOnly, c, q, "", q.Rationale(), conds)
}
