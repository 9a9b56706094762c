// Package roster stores the workforce roster in SQLite and answers structured queries.
package roster

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kailas-cloud/rosterdex/internal/domain"
	"github.com/kailas-cloud/rosterdex/internal/domain/query/structured"
	domroster "github.com/kailas-cloud/rosterdex/internal/domain/roster"
)

// Repo implements search.StructuredStore on SQLite.
type Repo struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens the database at dsn, configures WAL and creates the schema.
func Open(dsn string, logger *zap.Logger) (*Repo, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open roster database: %w", err)
	}

	// Single connection: SQLite has one writer, WAL keeps readers unblocked.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create roster schema: %w", err)
	}

	return &Repo{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (r *Repo) Close() error {
	return r.db.Close()
}

// Ping checks the database connection.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Find executes q. Raw statements are checked before execution and rejected
// with domain.ErrUnsafeQuery unless they are a single read-only SELECT.
func (r *Repo) Find(ctx context.Context, q structured.Query) ([]domroster.Employee, error) {
	if q.IsRaw() {
		return r.findRaw(ctx, q)
	}

	query, args := buildSelect(q)
	r.logger.Debug("structured query", zap.String("sql", query), zap.Int("args", len(args)))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query employees: %w", domain.ErrStoreUnavailable, err)
	}
	employees, err := scanEmployees(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachEngagements(ctx, employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// All returns every employee with engagements, ordered by id.
func (r *Repo) All(ctx context.Context) ([]domroster.Employee, error) {
	query := "SELECT " + strings.Join(employeeColumns, ", ") + " FROM employees ORDER BY employee_id"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list employees: %w", domain.ErrStoreUnavailable, err)
	}
	employees, err := scanEmployees(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachEngagements(ctx, employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// Upsert writes employees and replaces their engagements in one transaction.
func (r *Repo) Upsert(ctx context.Context, employees []domroster.Employee) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", domain.ErrStoreUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	insert := "INSERT INTO employees (" + strings.Join(employeeColumns, ", ") + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(employeeColumns)), ", ") + ")" +
		" ON CONFLICT(employee_id) DO UPDATE SET " + updateList()

	for i := range employees {
		e := &employees[i]
		if strings.TrimSpace(e.ID) == "" {
			return fmt.Errorf("employee %d: id is required", i)
		}
		if _, err := tx.ExecContext(ctx, insert,
			e.ID, e.Name, e.Department, e.Role, e.Designation, e.SubDepartment,
			e.TechGroup, e.Location, e.DeploymentStatus, e.ReportingManager,
			e.DeliveryOwner, e.Skills, e.Experience,
		); err != nil {
			return fmt.Errorf("upsert employee %s: %w", e.ID, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE employee_id = ?", e.ID); err != nil {
			return fmt.Errorf("clear engagements %s: %w", e.ID, err)
		}
		for _, g := range e.Engagements {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO projects (employee_id, project_name, customer, project_department,
				project_industry, project_status) VALUES (?, ?, ?, ?, ?, ?)`,
				e.ID, g.ProjectName, g.Customer, g.ProjectDepartment, g.ProjectIndustry, g.ProjectStatus,
			); err != nil {
				return fmt.Errorf("insert engagement %s: %w", e.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *Repo) findRaw(ctx context.Context, q structured.Query) ([]domroster.Employee, error) {
	stmt, err := structured.CheckStatement(q.Statement())
	if err != nil {
		r.logger.Warn("rejected model statement", zap.String("sql", q.Statement()), zap.Error(err))
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, "SELECT * FROM ("+stmt+") LIMIT ?", q.Limit())
	if err != nil {
		return nil, fmt.Errorf("%w: raw query: %w", domain.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("raw query columns: %w", err)
	}

	var out []domroster.Employee
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan raw row: %w", err)
		}
		out = append(out, employeeFromColumns(cols, vals))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: raw rows: %w", domain.ErrStoreUnavailable, err)
	}
	return out, nil
}

func (r *Repo) attachEngagements(ctx context.Context, employees []domroster.Employee) error {
	if len(employees) == 0 {
		return nil
	}

	byID := make(map[string]int, len(employees))
	args := make([]any, len(employees))
	for i := range employees {
		byID[employees[i].ID] = i
		args[i] = employees[i].ID
	}

	query := `SELECT employee_id, project_name, customer, project_department, project_industry, project_status
		FROM projects WHERE employee_id IN (` +
		strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ") + `) ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: query engagements: %w", domain.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id string
		var g domroster.Engagement
		if err := rows.Scan(&id, &g.ProjectName, &g.Customer, &g.ProjectDepartment,
			&g.ProjectIndustry, &g.ProjectStatus); err != nil {
			return fmt.Errorf("scan engagement: %w", err)
		}
		if i, ok := byID[id]; ok {
			employees[i].Engagements = append(employees[i].Engagements, g)
		}
	}
	return rows.Err()
}

func scanEmployees(rows *sql.Rows) ([]domroster.Employee, error) {
	defer func() { _ = rows.Close() }()

	var out []domroster.Employee
	for rows.Next() {
		var e domroster.Employee
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Department, &e.Role, &e.Designation, &e.SubDepartment,
			&e.TechGroup, &e.Location, &e.DeploymentStatus, &e.ReportingManager,
			&e.DeliveryOwner, &e.Skills, &e.Experience,
		); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: employee rows: %w", domain.ErrStoreUnavailable, err)
	}
	return out, nil
}

// employeeFromColumns maps an arbitrary result row onto an Employee by column
// name. Unknown columns are ignored; engagement columns form one engagement.
func employeeFromColumns(cols []string, vals []any) domroster.Employee {
	var e domroster.Employee
	var g domroster.Engagement
	for i, c := range cols {
		v := stringValue(vals[i])
		switch strings.ToLower(c) {
		case domroster.FieldEmployeeID:
			e.ID = v
		case domroster.FieldName:
			e.Name = v
		case domroster.FieldDepartment:
			e.Department = v
		case domroster.FieldRole:
			e.Role = v
		case domroster.FieldDesignation:
			e.Designation = v
		case domroster.FieldSubDepartment:
			e.SubDepartment = v
		case domroster.FieldTechGroup:
			e.TechGroup = v
		case domroster.FieldLocation:
			e.Location = v
		case domroster.FieldDeploymentStatus:
			e.DeploymentStatus = v
		case domroster.FieldReportingManager:
			e.ReportingManager = v
		case domroster.FieldDeliveryOwner:
			e.DeliveryOwner = v
		case domroster.FieldSkills:
			e.Skills = v
		case domroster.FieldExperience:
			e.Experience = v
		case domroster.FieldProjectName:
			g.ProjectName = v
		case domroster.FieldCustomer:
			g.Customer = v
		case domroster.FieldProjectDepartment:
			g.ProjectDepartment = v
		case domroster.FieldProjectIndustry:
			g.ProjectIndustry = v
		case domroster.FieldProjectStatus:
			g.ProjectStatus = v
		}
	}
	if g != (domroster.Engagement{}) {
		e.Engagements = []domroster.Engagement{g}
	}
	return e
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func updateList() string {
	parts := make([]string, 0, len(employeeColumns)-1)
	for _, c := range employeeColumns[1:] {
		parts = append(parts, c+" = excluded."+c)
	}
	return strings.Join(parts, ", ")
}
