// Package scopetree dumps a reactive scope tree for debugging.
package scopetree

//go:generate qtc -skipLineComments -file=scopetree.qtpl

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/delaneyj/realm/reactive"
)

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

// kinds summarizes owned objects by type, e.g. " (Effect=1 Value[int]=2)".
func kinds(s *reactive.Scope) string {
	objects := s.Objects()
	if len(objects) == 0 {
		return ""
	}
	counts := map[string]int{}
	for _, obj := range objects {
		counts[typeName(obj)]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	slices.Sort(names)

	var sb strings.Builder
	sb.WriteString(" (")
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(counts[name]))
	}
	sb.WriteByte(')')
	return sb.String()
}

func contextName(s *reactive.Scope) string {
	if s.Context() == nil {
		return ""
	}
	return " context=" + typeName(s.Context())
}

func typeName(v any) string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
	return strings.TrimPrefix(name, "reactive.")
}
