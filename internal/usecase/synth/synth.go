// Package synth turns a condition set into a structured store query.
package synth

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/rosterdex/internal/domain/query/condition"
	"github.com/kailas-cloud/rosterdex/internal/domain/query/structured"
	"github.com/kailas-cloud/rosterdex/internal/domain/roster"
)

// OpenRationale explains an unfiltered selection.
const OpenRationale = "no specific conditions; returning all employees"

// Synthesize builds the structured query for conds. Deployment flags form a
// disjunctive group; every other active condition is conjunctive. Experience
// bounds are left to the post-filter, so their queries defer the row cap until
// after filtering. An empty set yields an open query.
func Synthesize(conds condition.Set, limit int) structured.Query {
	q := synthesize(conds, limit)
	if conds.HasExperience() {
		return q.WithDeferredLimit()
	}
	return q
}

func synthesize(conds condition.Set, limit int) structured.Query {
	var (
		must, should []structured.Predicate
		reasons      []string
	)
	add := func(dst *[]structured.Predicate, p structured.Predicate, err error) bool {
		if err != nil {
			return false
		}
		*dst = append(*dst, p)
		return true
	}

	var statuses []string
	for _, flag := range []struct {
		on    bool
		token string
	}{
		{conds.Free(), "free"},
		{conds.Billable(), "billable"},
		{conds.Budgeted(), "budgeted"},
		{conds.Support(), "support"},
	} {
		if !flag.on {
			continue
		}
		p, err := structured.NewContains(flag.token, roster.FieldDeploymentStatus)
		if add(&should, p, err) {
			statuses = append(statuses, flag.token)
		}
	}
	if len(statuses) > 0 {
		reasons = append(reasons, "deployment status is "+strings.Join(statuses, " or "))
	}

	for _, skill := range conds.Skills() {
		p, err := structured.NewContains(skill, roster.FieldSkills, roster.FieldTechGroup)
		if add(&must, p, err) {
			reasons = append(reasons, fmt.Sprintf("skills include %q", skill))
		}
	}

	if d := conds.Department(); d != "" {
		p, err := structured.NewContains(d, roster.FieldDepartment, roster.FieldSubDepartment)
		if add(&must, p, err) {
			reasons = append(reasons, fmt.Sprintf("department is %q", d))
		}
	}

	if l := conds.Location(); l != "" {
		p, err := structured.NewContains(l, roster.FieldLocation)
		if add(&must, p, err) {
			reasons = append(reasons, fmt.Sprintf("location is %q", l))
		}
	}

	if n := conds.Name(); n != "" {
		p, err := structured.NewWholeWord(n, roster.FieldName)
		if add(&must, p, err) {
			reasons = append(reasons, fmt.Sprintf("name matches %q", n))
		}
	}

	project := conds.Project()
	if project != "" {
		reasons = append(reasons, fmt.Sprintf("assigned to project %q", project))
	}

	if conds.HasExperience() {
		reasons = append(reasons, describeExperience(conds))
	}

	if len(must) == 0 && len(should) == 0 && project == "" {
		if len(reasons) > 0 {
			return structured.Open(limit, strings.Join(reasons, " and "))
		}
		return structured.Open(limit, OpenRationale)
	}

	q, err := structured.New(must, should, project, limit, strings.Join(reasons, " and "))
	if err != nil {
		return structured.Open(limit, OpenRationale)
	}
	return q
}

func describeExperience(conds condition.Set) string {
	lo, hasLo := conds.ExperienceMin()
	hi, hasHi := conds.ExperienceMax()
	switch {
	case hasLo && hasHi && lo == hi:
		return fmt.Sprintf("experience is %g years", lo)
	case hasLo && hasHi:
		return fmt.Sprintf("experience between %g and %g years", lo, hi)
	case hasLo:
		return fmt.Sprintf("experience at least %g years", lo)
	default:
		return fmt.Sprintf("experience at most %g years", hi)
	}
}
