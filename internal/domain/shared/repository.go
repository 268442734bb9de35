package shared

// Filter carries list options. Filters holds equality conditions keyed by
// column name; repositories ignore keys they do not know.
type Filter struct {
	Search   string
	OrderBy  string
	OrderDir string
	Filters  map[string]interface{}
}

// DefaultFilter orders newest first
func DefaultFilter() Filter {
	return Filter{
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Where returns a copy of f with an extra equality condition
func (f Filter) Where(key string, value interface{}) Filter {
	filters := make(map[string]interface{}, len(f.Filters)+1)
	for k, v := range f.Filters {
		filters[k] = v
	}
	filters[key] = value
	f.Filters = filters
	return f
}
