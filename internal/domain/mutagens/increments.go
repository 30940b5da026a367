package mutagens

import (
	"gooze.dev/pkg/classmut/internal/match"
	m "gooze.dev/pkg/classmut/internal/model"
)

// NewRemoveIncrements deletes local variable increments (iinc).
func NewRemoveIncrements() Operator {
	return New(RemoveIncrements, "removed local variable increment", match.Increment(""),
		func(_ *m.Method, site match.Span) (m.Edit, bool) {
			return m.Edit{At: site.Start, Remove: 1}, true
		})
}
