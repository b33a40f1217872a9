// Package validate checks generated dashboards for PromQL syntax errors and
// references to metrics the application does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"
)

// Result collects validation findings. Errors are fatal (broken PromQL),
// warnings flag metrics not present in the known set.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation found no errors.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Dashboard validates every panel query in the dashboard against the known
// metric set.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var result Result
	for _, p := range dash.Panels {
		if p.Panel != nil {
			checkPanel(*p.Panel, known, &result)
		}
		if p.RowPanel != nil {
			for _, inner := range p.RowPanel.Panels {
				checkPanel(inner, known, &result)
			}
		}
	}
	return result
}

func checkPanel(p dashboard.Panel, known map[string]bool, result *Result) {
	title := "untitled"
	if p.Title != nil {
		title = *p.Title
	}

	for _, expr := range panelExprs(p) {
		if expr == "" {
			continue
		}
		node, err := parser.ParseExpr(expr)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("panel %q: invalid PromQL %q: %v", title, expr, err))
			continue
		}
		for _, name := range metricNames(node) {
			if !knownMetric(name, known) {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("panel %q: unknown metric %q", title, name))
			}
		}
	}
}

// panelExprs extracts query expressions through the JSON form so it works
// for any datasource query type.
func panelExprs(p dashboard.Panel) []string {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	var doc struct {
		Targets []struct {
			Expr string `json:"expr"`
		} `json:"targets"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	exprs := make([]string, 0, len(doc.Targets))
	for _, t := range doc.Targets {
		exprs = append(exprs, t.Expr)
	}
	return exprs
}

func metricNames(node parser.Node) []string {
	var names []string
	//nolint:errcheck // the walk func never returns an error
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		if vs, ok := n.(*parser.VectorSelector); ok && vs.Name != "" {
			names = append(names, vs.Name)
		}
		return nil
	})
	return names
}

// knownMetric matches the base metric for histogram series suffixes.
func knownMetric(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}
