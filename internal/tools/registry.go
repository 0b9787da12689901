// Package tools defines the catalog of corrective text transformations the
// repair loop can apply. Every tool is a pure text -> text function: total
// over arbitrary Markdown-like input, deterministic, and a strict no-op when
// its target condition is absent.
package tools

// Metric field names a tool can target. These mirror the sub-score fields of
// the quality report so that issues can be routed to the tool that repairs
// the metric they were raised against.
const (
	MetricTextSimilarity = "text_similarity"
	MetricTableStructure = "table_structure_score"
	MetricFormula        = "formula_fidelity"
	MetricStructure      = "structure_score"
)

// Spec is a static catalog entry describing one repair tool.
type Spec struct {
	// Name uniquely identifies the tool in decision requests and history.
	Name string

	// TargetMetric is the quality report sub-score this tool improves.
	TargetMetric string

	// Description is shown to the decision policy so it can reason about
	// which tool fits which issue.
	Description string

	// Apply performs the transformation. It must not panic and must return
	// its input unchanged when there is nothing to repair.
	Apply func(text string) string
}

// CatalogEntry is the wire-level view of a tool handed to the decision
// policy: just the name and the metric it targets.
type CatalogEntry struct {
	Name         string `json:"name"`
	TargetMetric string `json:"target_metric"`
	Description  string `json:"description,omitempty"`
}

// Registry is an immutable catalog of tools keyed by name. It is built once
// and injected into the repair loop at session start; there is no
// process-wide mutable registry.
type Registry struct {
	order  []string
	byName map[string]Spec
}

// NewRegistry builds a registry from the given specs. Later specs with a
// duplicate name silently replace earlier ones; the first occurrence keeps
// its position in the ordering.
func NewRegistry(specs ...Spec) *Registry {
	r := &Registry{byName: make(map[string]Spec, len(specs))}
	for _, s := range specs {
		if _, seen := r.byName[s.Name]; !seen {
			r.order = append(r.order, s.Name)
		}
		r.byName[s.Name] = s
	}
	return r
}

// Get returns the tool with the given name.
func (r *Registry) Get(name string) (Spec, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// ForMetric returns the first registered tool targeting the given metric.
func (r *Registry) ForMetric(metric string) (Spec, bool) {
	for _, name := range r.order {
		if s := r.byName[name]; s.TargetMetric == metric {
			return s, true
		}
	}
	return Spec{}, false
}

// Catalog returns the wire-level tool list for decision requests.
func (r *Registry) Catalog() []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(r.order))
	for _, name := range r.order {
		s := r.byName[name]
		entries = append(entries, CatalogEntry{
			Name:         s.Name,
			TargetMetric: s.TargetMetric,
			Description:  s.Description,
		})
	}
	return entries
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }

// Default returns the canonical four-tool catalog.
func Default() *Registry {
	return NewRegistry(
		Spec{
			Name:         "fix_heading_hierarchy",
			TargetMetric: MetricStructure,
			Description:  "rewrite heading levels from detected section numbering and repair depth jumps",
			Apply:        FixHeadingHierarchy,
		},
		Spec{
			Name:         "fix_table_structure",
			TargetMetric: MetricTableStructure,
			Description:  "equalize column counts across table rows and insert missing header separators",
			Apply:        FixTableStructure,
		},
		Spec{
			Name:         "fix_equation_blocks",
			TargetMetric: MetricFormula,
			Description:  "close unterminated display-math blocks and normalize math delimiters",
			Apply:        FixEquationBlocks,
		},
		Spec{
			Name:         "remove_artifacts",
			TargetMetric: MetricTextSimilarity,
			Description:  "strip page numbers, repeated running headers, and redundant blank lines",
			Apply:        RemoveArtifacts,
		},
	)
}
