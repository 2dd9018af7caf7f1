// Package validate checks generated dashboards and rules: every PromQL
// expression must parse and may only reference known metrics.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/device-compare/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation; warnings are
// reported but do not.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// panelJSON is the subset of the dashboard JSON model walked here.
type panelJSON struct {
	Title   string      `json:"title"`
	Type    string      `json:"type"`
	Panels  []panelJSON `json:"panels"`
	Targets []struct {
		RefID string `json:"refId"`
		Expr  string `json:"expr"`
	} `json:"targets"`
}

// Dashboard validates every panel query in dash against known.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) *Result {
	res := &Result{}

	data, err := json.Marshal(dash)
	if err != nil {
		res.errorf("encoding dashboard: %v", err)
		return res
	}
	var model struct {
		Panels []panelJSON `json:"panels"`
	}
	if err := json.Unmarshal(data, &model); err != nil {
		res.errorf("decoding dashboard: %v", err)
		return res
	}

	for _, p := range model.Panels {
		if p.Type == "row" {
			for _, inner := range p.Panels {
				checkPanel(res, p.Title+"/"+inner.Title, inner, known)
			}
			continue
		}
		checkPanel(res, p.Title, p, known)
	}
	return res
}

func checkPanel(res *Result, name string, p panelJSON, known map[string]bool) {
	if p.Title == "" {
		res.warnf("panel %q has no title", name)
	}
	if len(p.Targets) == 0 {
		res.warnf("panel %q has no queries", name)
	}
	for _, t := range p.Targets {
		checkExpr(res, fmt.Sprintf("panel %q query %s", name, t.RefID), t.Expr, known)
	}
}

// Rules validates every rule expression in cr.
func Rules(cr rules.PrometheusRule, known map[string]bool) *Result {
	res := &Result{}
	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			name := r.Record
			if name == "" {
				name = r.Alert
			}
			if name == "" {
				res.errorf("group %q has a rule with neither record nor alert", g.Name)
			}
			checkExpr(res, fmt.Sprintf("rule %q", name), r.Expr, known)
		}
	}
	return res
}

func checkExpr(res *Result, where, expr string, known map[string]bool) {
	if strings.TrimSpace(expr) == "" {
		res.errorf("%s: empty expression", where)
		return
	}
	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		res.errorf("%s: %v", where, err)
		return
	}
	for _, m := range Metrics(parsed) {
		if !known[m] {
			res.errorf("%s: unknown metric %q", where, m)
		}
	}
}

// Metrics returns the metric names selected by expr, with histogram series
// suffixes stripped.
func Metrics(expr parser.Expr) []string {
	var names []string
	parser.Inspect(expr, func(node parser.Node, _ []parser.Node) error {
		if vs, ok := node.(*parser.VectorSelector); ok && vs.Name != "" {
			names = append(names, baseName(vs.Name))
		}
		return nil
	})
	return names
}

func baseName(name string) string {
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if base, ok := strings.CutSuffix(name, suffix); ok {
			return base
		}
	}
	return name
}
