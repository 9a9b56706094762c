// Package roster defines the workforce entities and the field names shared by
// the structured store, the semantic index and hit attributes.
package roster

import (
	"sort"
	"strings"
)

// Employee field names.
const (
	FieldEmployeeID       = "employee_id"
	FieldName             = "name"
	FieldDepartment       = "department"
	FieldRole             = "role"
	FieldDesignation      = "designation"
	FieldSubDepartment    = "sub_department"
	FieldTechGroup        = "tech_group"
	FieldLocation         = "location"
	FieldDeploymentStatus = "deployment_status"
	FieldReportingManager = "reporting_manager"
	FieldDeliveryOwner    = "delivery_owner"
	FieldSkills           = "skills"
	FieldExperience       = "experience"
)

// Engagement field names.
const (
	FieldProjectName       = "project_name"
	FieldCustomer          = "customer"
	FieldProjectDepartment = "project_department"
	FieldProjectIndustry   = "project_industry"
	FieldProjectStatus     = "project_status"
)

// Aggregated engagement attributes on an employee row.
const (
	FieldProjects  = "projects"
	FieldCustomers = "customers"
)

// Table names.
const (
	TableEmployees = "employees"
	TableProjects  = "projects"
)

// Employee is one person on the roster.
type Employee struct {
	ID               string
	Name             string
	Department       string
	Role             string
	Designation      string
	SubDepartment    string
	TechGroup        string
	Location         string
	DeploymentStatus string
	ReportingManager string
	DeliveryOwner    string
	Skills           string
	Experience       string
	Engagements      []Engagement
}

// Engagement is an employee's assignment to a project.
type Engagement struct {
	ProjectName       string
	Customer          string
	ProjectDepartment string
	ProjectIndustry   string
	ProjectStatus     string
}

// Attributes projects the employee onto a flat field map. Empty values are omitted.
// Engagements are folded into comma-joined project and customer lists.
func (e *Employee) Attributes() map[string]string {
	attrs := make(map[string]string, 16)
	put := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			attrs[k] = v
		}
	}
	put(FieldEmployeeID, e.ID)
	put(FieldName, e.Name)
	put(FieldDepartment, e.Department)
	put(FieldRole, e.Role)
	put(FieldDesignation, e.Designation)
	put(FieldSubDepartment, e.SubDepartment)
	put(FieldTechGroup, e.TechGroup)
	put(FieldLocation, e.Location)
	put(FieldDeploymentStatus, e.DeploymentStatus)
	put(FieldReportingManager, e.ReportingManager)
	put(FieldDeliveryOwner, e.DeliveryOwner)
	put(FieldSkills, e.Skills)
	put(FieldExperience, e.Experience)

	projects := make([]string, 0, len(e.Engagements))
	customers := make([]string, 0, len(e.Engagements))
	for _, g := range e.Engagements {
		projects = appendUnique(projects, g.ProjectName)
		customers = appendUnique(customers, g.Customer)
	}
	put(FieldProjects, strings.Join(projects, ", "))
	put(FieldCustomers, strings.Join(customers, ", "))
	return attrs
}

// ProfileText renders the employee as the prose indexed for semantic search.
func (e *Employee) ProfileText() string {
	var b strings.Builder
	b.WriteString(e.Name)
	line := func(label, v string) {
		if v = strings.TrimSpace(v); v != "" {
			b.WriteString(". ")
			b.WriteString(label)
			b.WriteString(": ")
			b.WriteString(v)
		}
	}
	line("Role", e.Role)
	line("Designation", e.Designation)
	line("Department", e.Department)
	line("Sub-department", e.SubDepartment)
	line("Tech group", e.TechGroup)
	line("Location", e.Location)
	line("Deployment status", e.DeploymentStatus)
	line("Skills", e.Skills)
	line("Experience", e.Experience)

	attrs := e.Attributes()
	line("Projects", attrs[FieldProjects])
	line("Customers", attrs[FieldCustomers])
	return b.String()
}

// MetadataFields lists the attributes stored next to each semantic index entry.
func MetadataFields() []string {
	f := []string{
		FieldEmployeeID, FieldName, FieldDepartment, FieldRole, FieldDesignation,
		FieldLocation, FieldDeploymentStatus, FieldSkills, FieldExperience, FieldProjects,
	}
	sort.Strings(f)
	return f
}

func appendUnique(list []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return list
	}
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
