package report

import "sort"

// Descriptor identifies one report the application can render. Ref is the
// page reference used by grants, Name the human title shown in menus, and
// Section the dashboard section the report lives in.
type Descriptor struct {
	Ref     string `json:"ref"`
	Name    string `json:"name"`
	Section string `json:"section"`
}

// Registry is the explicit catalog of renderable reports. Grants point at
// page references; only references registered here are served, so a stale
// grant can never expose a report that no longer exists.
type Registry struct {
	byRef map[string]Descriptor
}

func NewRegistry(descriptors ...Descriptor) *Registry {
	r := &Registry{byRef: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		r.byRef[d.Ref] = d
	}
	return r
}

func (r *Registry) Register(d Descriptor) {
	r.byRef[d.Ref] = d
}

func (r *Registry) Lookup(ref string) (Descriptor, bool) {
	d, ok := r.byRef[ref]
	return d, ok
}

// All returns every registered descriptor ordered by reference.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.byRef))
	for _, d := range r.byRef {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ref < out[j].Ref })
	return out
}

// DefaultRegistry carries the reports the dashboard ships with. The R_S
// family covers sales returns.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Descriptor{Ref: "R_S_ReturnsSummary", Name: "Returns Summary", Section: "Sales Returns"},
		Descriptor{Ref: "R_S_ReturnsByCustomer", Name: "Returns by Customer", Section: "Sales Returns"},
		Descriptor{Ref: "R_S_ReturnsByProduct", Name: "Returns by Product", Section: "Sales Returns"},
		Descriptor{Ref: "R_S_ReturnsTrend", Name: "Returns Trend", Section: "Sales Returns"},
	)
}
