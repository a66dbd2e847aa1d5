package media

import (
	"fmt"
	"strings"
)

// FilterName is a named look applied by the filter stage. Photo and video
// handlers each render the same names in their own way.
type FilterName string

const (
	FilterNone  FilterName = "none"
	FilterMono  FilterName = "mono"
	FilterSepia FilterName = "sepia"
	FilterVivid FilterName = "vivid"
	FilterSoft  FilterName = "soft"
)

// Filters lists every supported filter in display order.
var Filters = []FilterName{FilterNone, FilterMono, FilterSepia, FilterVivid, FilterSoft}

// ParseFilter resolves a configured filter name. An empty value means none.
func ParseFilter(value string) (FilterName, error) {
	name := FilterName(strings.ToLower(strings.TrimSpace(value)))
	if name == "" {
		return FilterNone, nil
	}
	for _, f := range Filters {
		if f == name {
			return f, nil
		}
	}
	return FilterNone, fmt.Errorf("unknown filter %q", value)
}
