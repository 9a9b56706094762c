package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/rosterdex/internal/app"
	"github.com/kailas-cloud/rosterdex/internal/domain/query/decision"
	"github.com/kailas-cloud/rosterdex/internal/domain/roster"
	"github.com/kailas-cloud/rosterdex/internal/domain/search/request"
	rosterrepo "github.com/kailas-cloud/rosterdex/internal/repository/roster"
	"github.com/kailas-cloud/rosterdex/internal/usecase/reindex"
	searchuc "github.com/kailas-cloud/rosterdex/internal/usecase/search"
)

var errQueryRequired = errors.New("query argument is required")

func queryArg(c *cli.Context) (string, error) {
	q := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if q == "" {
		return "", errQueryRequired
	}
	return q, nil
}

func searchCommand(c *cli.Context) error {
	q, err := queryArg(c)
	if err != nil {
		return err
	}
	req, err := request.New(q, c.Int("limit"), c.Float64("min-score"))
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(c.Context, &cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	resp, err := a.Search.Search(c.Context, req)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, searchOutput(&resp))
	}
	printSearch(c.App.Writer, &resp)
	return nil
}

func routeCommand(c *cli.Context) error {
	q, err := queryArg(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	d := app.NewRouter(&cfg, logger).Route(c.Context, q)
	if c.Bool("json") {
		return writeJSON(c.App.Writer, routeOutput(d))
	}
	printRoute(c.App.Writer, d)
	return nil
}

func reindexCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(c.Context, &cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.Reindex.Run(c.Context, reindex.Options{
		BatchSize: c.Int("batch-size"),
		Recreate:  c.Bool("recreate"),
		Prune:     c.Bool("prune"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "indexed %d of %d employees (skipped %d, pruned %d, %d tokens) in %s\n",
		rep.Indexed, rep.Employees, rep.Skipped, rep.Pruned, rep.Tokens, rep.Duration.Round(time.Millisecond))
	return nil
}

func importCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	employees, err := readEmployees(c.String("file"))
	if err != nil {
		return err
	}

	repo, err := rosterrepo.Open(cfg.Roster.Path, logger)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	if err := repo.Upsert(c.Context, employees); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "imported %d employees into %s\n", len(employees), cfg.Roster.Path)
	return nil
}

// employeeRecord is the import file format.
type employeeRecord struct {
	EmployeeID       string             `json:"employee_id"`
	Name             string             `json:"name"`
	Department       string             `json:"department"`
	Role             string             `json:"role"`
	Designation      string             `json:"designation"`
	SubDepartment    string             `json:"sub_department"`
	TechGroup        string             `json:"tech_group"`
	Location         string             `json:"location"`
	DeploymentStatus string             `json:"deployment_status"`
	ReportingManager string             `json:"reporting_manager"`
	DeliveryOwner    string             `json:"delivery_owner"`
	Skills           string             `json:"skills"`
	Experience       string             `json:"experience"`
	Projects         []engagementRecord `json:"projects"`
}

type engagementRecord struct {
	ProjectName       string `json:"project_name"`
	Customer          string `json:"customer"`
	ProjectDepartment string `json:"project_department"`
	ProjectIndustry   string `json:"project_industry"`
	ProjectStatus     string `json:"project_status"`
}

func readEmployees(path string) ([]roster.Employee, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var records []employeeRecord
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	out := make([]roster.Employee, 0, len(records))
	for i, r := range records {
		if strings.TrimSpace(r.EmployeeID) == "" {
			return nil, fmt.Errorf("record %d: employee_id is required", i)
		}
		e := roster.Employee{
			ID:               r.EmployeeID,
			Name:             r.Name,
			Department:       r.Department,
			Role:             r.Role,
			Designation:      r.Designation,
			SubDepartment:    r.SubDepartment,
			TechGroup:        r.TechGroup,
			Location:         r.Location,
			DeploymentStatus: r.DeploymentStatus,
			ReportingManager: r.ReportingManager,
			DeliveryOwner:    r.DeliveryOwner,
			Skills:           r.Skills,
			Experience:       r.Experience,
		}
		for _, p := range r.Projects {
			e.Engagements = append(e.Engagements, roster.Engagement(p))
		}
		out = append(out, e)
	}
	return out, nil
}

type hitOutput struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Source     string            `json:"source"`
	Score      float64           `json:"score"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type searchResult struct {
	QueryID         string      `json:"query_id"`
	Category        string      `json:"category"`
	Strategy        string      `json:"strategy"`
	Rationale       string      `json:"rationale"`
	StructuredQuery string      `json:"structured_query"`
	Hits            []hitOutput `json:"hits"`
	Error           string      `json:"error,omitempty"`
}

func searchOutput(resp *searchuc.Response) searchResult {
	hits := make([]hitOutput, len(resp.Hits))
	for i, h := range resp.Hits {
		hits[i] = hitOutput{
			ID: h.ID(), Name: h.Name(), Source: string(h.Source()),
			Score: h.Score(), Attributes: h.Attributes(),
		}
	}
	return searchResult{
		QueryID:         resp.QueryID.String(),
		Category:        string(resp.Category),
		Strategy:        string(resp.Strategy),
		Rationale:       resp.Rationale,
		StructuredQuery: resp.StructuredQuery,
		Hits:            hits,
		Error:           resp.Error,
	}
}

type routeResult struct {
	Category        string   `json:"category"`
	Strategy        string   `json:"strategy"`
	Rationale       string   `json:"rationale"`
	StructuredQuery string   `json:"structured_query"`
	SemanticTerms   string   `json:"semantic_terms"`
	Conditions      []string `json:"conditions"`
	Fallback        bool     `json:"fallback"`
}

func routeOutput(d decision.Decision) routeResult {
	kinds := d.Conditions().Kinds()
	conds := make([]string, len(kinds))
	for i, k := range kinds {
		conds[i] = string(k)
	}
	return routeResult{
		Category:        string(d.Category()),
		Strategy:        string(d.Strategy()),
		Rationale:       d.Rationale(),
		StructuredQuery: d.Query().String(),
		SemanticTerms:   d.Terms(),
		Conditions:      conds,
		Fallback:        d.IsFallback(),
	}
}

func printSearch(w io.Writer, resp *searchuc.Response) {
	fmt.Fprintf(w, "strategy: %s (%s)\nrationale: %s\n", resp.Strategy, resp.Category, resp.Rationale)
	if resp.Error != "" {
		fmt.Fprintf(w, "error: %s\n", resp.Error)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSOURCE\tSCORE")
	for _, h := range resp.Hits {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.3f\n", h.ID(), h.Name(), h.Source(), h.Score())
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d hits (%d structured, %d semantic) in %s\n",
		resp.Counts.Total, resp.Counts.Structured, resp.Counts.Semantic, resp.Latency.Round(time.Millisecond))
}

func printRoute(w io.Writer, d decision.Decision) {
	r := routeOutput(d)
	fmt.Fprintf(w, "category:   %s\n", r.Category)
	fmt.Fprintf(w, "strategy:   %s\n", r.Strategy)
	fmt.Fprintf(w, "rationale:  %s\n", r.Rationale)
	fmt.Fprintf(w, "structured: %s\n", r.StructuredQuery)
	fmt.Fprintf(w, "terms:      %s\n", r.SemanticTerms)
	fmt.Fprintf(w, "conditions: %s\n", strings.Join(r.Conditions, ", "))
	if r.Fallback {
		fmt.Fprintln(w, "fallback:   yes")
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
