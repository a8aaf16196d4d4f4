// Package ic defines the interaction-coordinate key and observation types
// shared by every layer of the clustering optimizer.
package ic

import (
	"fmt"
	"strings"
)

// Key identifies one interaction coordinate: a tuple of atom indices inside
// one molecule. Atoms already holds the topology's primary projection, so
// two Keys are comparable with plain equality once converted to a Go map
// key via String.
type Key struct {
	MolID uint32
	Atoms []uint32
}

// String renders a Key as "molID:(a,b,c)", used as the canonical map key
// since a slice field makes Key itself non-comparable.
func (k Key) String() string {
	parts := make([]string, len(k.Atoms))
	for i, a := range k.Atoms {
		parts[i] = fmt.Sprintf("%d", a)
	}
	return fmt.Sprintf("%d:(%s)", k.MolID, strings.Join(parts, ","))
}

// Observation is the opaque payload the objective understands: a float
// vector, a category label, or any value type the caller's objective can
// interpret. The core never inspects it.
type Observation = any
