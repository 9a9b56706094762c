package roster

// Schema creates the roster tables. Engagements live in projects, one row per
// employee assignment.
const Schema = `
CREATE TABLE IF NOT EXISTS employees (
	employee_id       TEXT PRIMARY KEY,
	name              TEXT NOT NULL DEFAULT '',
	department        TEXT NOT NULL DEFAULT '',
	role              TEXT NOT NULL DEFAULT '',
	designation       TEXT NOT NULL DEFAULT '',
	sub_department    TEXT NOT NULL DEFAULT '',
	tech_group        TEXT NOT NULL DEFAULT '',
	location          TEXT NOT NULL DEFAULT '',
	deployment_status TEXT NOT NULL DEFAULT '',
	reporting_manager TEXT NOT NULL DEFAULT '',
	delivery_owner    TEXT NOT NULL DEFAULT '',
	skills            TEXT NOT NULL DEFAULT '',
	experience        TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS projects (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id        TEXT NOT NULL REFERENCES employees(employee_id) ON DELETE CASCADE,
	project_name       TEXT NOT NULL DEFAULT '',
	customer           TEXT NOT NULL DEFAULT '',
	project_department TEXT NOT NULL DEFAULT '',
	project_industry   TEXT NOT NULL DEFAULT '',
	project_status     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_projects_employee ON projects(employee_id);
`

// employeeColumns is the select list shared by every employee read.
var employeeColumns = []string{
	"employee_id", "name", "department", "role", "designation", "sub_department",
	"tech_group", "location", "deployment_status", "reporting_manager",
	"delivery_owner", "skills", "experience",
}
