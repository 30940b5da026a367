package match

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Slot names a value captured while matching, such as a local variable
// index or an instruction position.
type Slot string

// Captures is an immutable set of slot bindings. The zero value is empty.
type Captures struct {
	values map[Slot]int
}

// NewCaptures returns captures seeded with the given bindings.
func NewCaptures(seed map[Slot]int) Captures {
	if len(seed) == 0 {
		return Captures{}
	}

	return Captures{values: maps.Clone(seed)}
}

// Get returns the value bound to slot.
func (c Captures) Get(slot Slot) (int, bool) {
	v, ok := c.values[slot]
	return v, ok
}

// With returns a copy of c with slot bound to v.
func (c Captures) With(slot Slot, v int) Captures {
	values := make(map[Slot]int, len(c.values)+1)
	maps.Copy(values, c.values)
	values[slot] = v

	return Captures{values: values}
}

// Bind unifies slot with v: an unbound slot is bound, a bound slot must
// already hold v.
func (c Captures) Bind(slot Slot, v int) (Captures, bool) {
	if cur, ok := c.values[slot]; ok {
		return c, cur == v
	}

	return c.With(slot, v), true
}

// Len reports the number of bound slots.
func (c Captures) Len() int {
	return len(c.values)
}

func (c Captures) String() string {
	keys := slices.Sorted(maps.Keys(c.values))
	parts := make([]string, 0, len(keys))

	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, c.values[k]))
	}

	return "{" + strings.Join(parts, " ") + "}"
}
