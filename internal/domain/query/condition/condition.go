// Package condition holds the typed filter criteria extracted from a query.
package condition

// Kind identifies one category of extracted criteria.
type Kind string

// Condition kinds.
const (
	KindDeployment Kind = "deployment"
	KindSkill      Kind = "skill"
	KindDepartment Kind = "department"
	KindLocation   Kind = "location"
	KindProject    Kind = "project"
	KindName       Kind = "name"
	KindExperience Kind = "experience"
)

// Set is an immutable bundle of extracted criteria. The zero value is empty.
type Set struct {
	free     bool
	billable bool
	budgeted bool
	support  bool

	skills     []string
	department string
	location   string
	project    string
	name       string

	expMin *float64
	expMax *float64
}

// Free reports the free-pool flag.
func (s Set) Free() bool { return s.free }

// Billable reports the billable flag.
func (s Set) Billable() bool { return s.billable }

// Budgeted reports the budgeted flag.
func (s Set) Budgeted() bool { return s.budgeted }

// Support reports the support flag.
func (s Set) Support() bool { return s.support }

// Skills returns the skill tokens in extraction order.
func (s Set) Skills() []string {
	out := make([]string, len(s.skills))
	copy(out, s.skills)
	return out
}

// Department returns the canonical department or "".
func (s Set) Department() string { return s.department }

// Location returns the canonical city or "".
func (s Set) Location() string { return s.location }

// Project returns the upper-cased project code or "".
func (s Set) Project() string { return s.project }

// Name returns the exact employee name or "".
func (s Set) Name() string { return s.name }

// ExperienceMin returns the inclusive lower bound in years.
func (s Set) ExperienceMin() (float64, bool) {
	if s.expMin == nil {
		return 0, false
	}
	return *s.expMin, true
}

// ExperienceMax returns the inclusive upper bound in years.
func (s Set) ExperienceMax() (float64, bool) {
	if s.expMax == nil {
		return 0, false
	}
	return *s.expMax, true
}

// HasExperience reports whether any experience bound is set.
func (s Set) HasExperience() bool { return s.expMin != nil || s.expMax != nil }

// HasDeployment reports whether any deployment flag is set.
func (s Set) HasDeployment() bool { return s.free || s.billable || s.budgeted || s.support }

// Kinds lists the distinct kinds present, in a fixed order.
func (s Set) Kinds() []Kind {
	var kinds []Kind
	if s.HasDeployment() {
		kinds = append(kinds, KindDeployment)
	}
	if len(s.skills) > 0 {
		kinds = append(kinds, KindSkill)
	}
	if s.department != "" {
		kinds = append(kinds, KindDepartment)
	}
	if s.location != "" {
		kinds = append(kinds, KindLocation)
	}
	if s.project != "" {
		kinds = append(kinds, KindProject)
	}
	if s.name != "" {
		kinds = append(kinds, KindName)
	}
	if s.HasExperience() {
		kinds = append(kinds, KindExperience)
	}
	return kinds
}

// IsEmpty reports whether no criteria are set.
func (s Set) IsEmpty() bool { return len(s.Kinds()) == 0 }

// Builder accumulates criteria. Every scalar field is set at most once; later
// attempts are refused and reported with a false return.
type Builder struct {
	set Set
}

// NewBuilder starts an empty builder.
func NewBuilder() *Builder { return &Builder{} }

// MarkFree sets the free-pool flag.
func (b *Builder) MarkFree() *Builder { b.set.free = true; return b }

// MarkBillable sets the billable flag.
func (b *Builder) MarkBillable() *Builder { b.set.billable = true; return b }

// MarkBudgeted sets the budgeted flag.
func (b *Builder) MarkBudgeted() *Builder { b.set.budgeted = true; return b }

// MarkSupport sets the support flag.
func (b *Builder) MarkSupport() *Builder { b.set.support = true; return b }

// AddSkill appends a skill unless it is empty or already present.
func (b *Builder) AddSkill(skill string) bool {
	if skill == "" {
		return false
	}
	for _, s := range b.set.skills {
		if s == skill {
			return false
		}
	}
	b.set.skills = append(b.set.skills, skill)
	return true
}

// SetDepartment sets the department once.
func (b *Builder) SetDepartment(v string) bool { return setOnce(&b.set.department, v) }

// SetLocation sets the location once.
func (b *Builder) SetLocation(v string) bool { return setOnce(&b.set.location, v) }

// SetProject sets the project once.
func (b *Builder) SetProject(v string) bool { return setOnce(&b.set.project, v) }

// SetName sets the exact name once.
func (b *Builder) SetName(v string) bool { return setOnce(&b.set.name, v) }

// SetExperienceMin sets the lower bound once.
func (b *Builder) SetExperienceMin(v float64) bool {
	if b.set.expMin != nil {
		return false
	}
	b.set.expMin = &v
	return true
}

// SetExperienceMax sets the upper bound once.
func (b *Builder) SetExperienceMax(v float64) bool {
	if b.set.expMax != nil {
		return false
	}
	b.set.expMax = &v
	return true
}

// SetExperienceRange sets both bounds, swapping them when given in reverse.
// Refused when either bound is already set.
func (b *Builder) SetExperienceRange(lo, hi float64) bool {
	if b.set.expMin != nil || b.set.expMax != nil {
		return false
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	b.set.expMin = &lo
	b.set.expMax = &hi
	return true
}

// HasName reports whether a name was already captured.
func (b *Builder) HasName() bool { return b.set.name != "" }

// Build returns an immutable snapshot.
func (b *Builder) Build() Set {
	s := b.set
	s.skills = append([]string(nil), b.set.skills...)
	if b.set.expMin != nil {
		v := *b.set.expMin
		s.expMin = &v
	}
	if b.set.expMax != nil {
		v := *b.set.expMax
		s.expMax = &v
	}
	return s
}

func setOnce(dst *string, v string) bool {
	if v == "" || *dst != "" {
		return false
	}
	*dst = v
	return true
}
