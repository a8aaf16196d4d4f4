package codec

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ntBre/besmarts/internal/topology"
)

// atomicNumber and elementBySymbol give this dialect's SMARTS atoms the
// "[#N]" form real SMARTS uses for an atomic-number primitive.
var atomicNumber = map[string]int{
	"H": 1, "C": 6, "N": 7, "O": 8, "F": 9, "P": 15, "S": 16,
	"Cl": 17, "Br": 35, "Si": 14, "Se": 34,
}

var elementBySymbol = func() map[int]string {
	m := make(map[int]string, len(atomicNumber))
	for sym, n := range atomicNumber {
		m[n] = sym
	}
	return m
}()

// AtomPattern constrains one tuple position to a set of elements; a nil or
// empty Elements matches any element (SMARTS "[*]").
type AtomPattern struct {
	Elements []string
}

// Matches reports whether elem satisfies this atom pattern.
func (a AtomPattern) Matches(elem string) bool {
	if len(a.Elements) == 0 {
		return true
	}
	for _, e := range a.Elements {
		if e == elem {
			return true
		}
	}
	return false
}

func (a AtomPattern) bracket() string {
	if len(a.Elements) == 0 {
		return "[*]"
	}
	elems := append([]string(nil), a.Elements...)
	sort.Strings(elems)
	parts := make([]string, len(elems))
	for i, e := range elems {
		if n, ok := atomicNumber[e]; ok {
			parts[i] = "#" + strconv.Itoa(n)
		} else {
			parts[i] = e
		}
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Structure is a substructure pattern anchored on a specific IC tuple: one
// AtomPattern per primary position, plus (when derived from a real graph
// tuple) the original 0-based graph atom indices it was extracted from.
// This is the "Structure" of spec.md §2/§4 and the out-of-scope "structure
// graph" of §2 — kept intentionally minimal (element-set matching only, no
// bond-order or ring primitives) since a full SMARTS engine is explicitly
// out of this core's scope.
type Structure struct {
	Topo   topology.Topology
	Select []int // 0-based graph atom indices, len == Topo.Arity(); nil for a pure pattern with no backing graph
	Atoms  []AtomPattern
}

// Matches reports whether this structure's pattern matches the elements at
// the given 0-based graph atom tuple.
func (s Structure) Matches(g *Graph, tuple []int) bool {
	if len(tuple) != len(s.Atoms) {
		return false
	}
	for i, idx := range tuple {
		if idx < 0 || idx >= len(g.Atoms) {
			return false
		}
		if !s.Atoms[i].Matches(g.Atoms[idx].Element) {
			return false
		}
	}
	return true
}

// Specificity counts the number of non-wildcard atom positions; used to
// order candidate patterns from most general to most specific.
func (s Structure) Specificity() int {
	n := 0
	for _, a := range s.Atoms {
		if len(a.Elements) > 0 {
			n++
		}
	}
	return n
}

// RelabelSelect renumbers Select to start at 1, the convention spec.md §4.3
// specifies for a freshly inserted SPLIT child's structure.
func (s Structure) RelabelSelect() Structure {
	if s.Select == nil {
		return s
	}
	out := s
	out.Select = make([]int, len(s.Select))
	for i := range s.Select {
		out.Select[i] = i + 1
	}
	return out
}

// EncodeSMARTS renders a Structure to this dialect's SMARTS string: one
// bracket atom per tuple position, concatenated in tuple order.
func EncodeSMARTS(s Structure) (string, error) {
	var sb strings.Builder
	for _, a := range s.Atoms {
		sb.WriteString(a.bracket())
	}
	return sb.String(), nil
}

// DecodeSMARTS parses a SMARTS string produced by EncodeSMARTS back into a
// Structure of the given topology, with no backing Select (a pure
// pattern). Used by the round-trip property test of spec.md §8.
func DecodeSMARTS(smarts string, topo topology.Topology) (Structure, error) {
	var atoms []AtomPattern
	i := 0
	for i < len(smarts) {
		if smarts[i] != '[' {
			return Structure{}, fmt.Errorf("codec: expected '[' at %d in %q", i, smarts)
		}
		end := strings.IndexByte(smarts[i:], ']')
		if end < 0 {
			return Structure{}, fmt.Errorf("codec: unterminated '[' in %q", smarts)
		}
		body := smarts[i+1 : i+end]
		i += end + 1
		if body == "*" {
			atoms = append(atoms, AtomPattern{})
			continue
		}
		var elems []string
		for _, tok := range strings.Split(body, ",") {
			if strings.HasPrefix(tok, "#") {
				n, err := strconv.Atoi(tok[1:])
				if err != nil {
					return Structure{}, fmt.Errorf("codec: bad atomic number %q", tok)
				}
				sym, ok := elementBySymbol[n]
				if !ok {
					return Structure{}, fmt.Errorf("codec: unknown atomic number %d", n)
				}
				elems = append(elems, sym)
			} else {
				elems = append(elems, tok)
			}
		}
		atoms = append(atoms, AtomPattern{Elements: elems})
	}
	if len(atoms) != topo.Arity() {
		return Structure{}, fmt.Errorf("codec: smarts %q has %d atoms, want arity %d", smarts, len(atoms), topo.Arity())
	}
	return Structure{Topo: topo, Atoms: atoms}, nil
}
