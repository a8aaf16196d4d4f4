// Package codec is the reference implementation of the SMARTS/SMILES
// codec and graph primitive model spec.md puts out of scope ("specified
// only by the interfaces the core consumes"). The hierarchy, labeler and
// optimizer packages depend only on the Codec interface in codec.go; this
// file, smiles.go and pattern.go provide one concrete, deliberately small codec (a
// substructure-free SMILES subset plus an element-set SMARTS dialect) so
// the core has something real to run its end-to-end scenarios against.
// It is not a validated cheminformatics engine.
package codec

import (
	"fmt"
	"strings"
)

// Atom is one graph vertex: an element symbol and a stable 0-based index.
type Atom struct {
	Index   int
	Element string
}

// Bond is one graph edge between two atom indices. Order is 1/2/3 for
// single/double/triple.
type Bond struct {
	A, B  int
	Order int
}

// Graph is the opaque molecule graph of spec.md §3: accessed only through
// this package's decode/extend helpers, never inspected field-by-field by
// the optimizer core.
type Graph struct {
	Atoms []Atom
	Bonds []Bond
}

// neighbors returns, for each atom, its bonded neighbor indices in bond
// insertion order.
func (g *Graph) neighbors(atom int) []int {
	var out []int
	for _, b := range g.Bonds {
		if b.A == atom {
			out = append(out, b.B)
		} else if b.B == atom {
			out = append(out, b.A)
		}
	}
	return out
}

// BondBetween reports the bond order between two atoms, or 0 if unbonded.
func (g *Graph) BondBetween(a, b int) int {
	for _, bd := range g.Bonds {
		if (bd.A == a && bd.B == b) || (bd.A == b && bd.B == a) {
			return bd.Order
		}
	}
	return 0
}

// GraphAtoms returns every atom topology.Atom IC (single-element tuples).
func (g *Graph) GraphAtoms() [][]int {
	out := make([][]int, len(g.Atoms))
	for i := range g.Atoms {
		out[i] = []int{i}
	}
	return out
}

// GraphBonds returns every atom.Bond IC as (a,b) with a<b in bond order.
func (g *Graph) GraphBonds() [][]int {
	out := make([][]int, 0, len(g.Bonds))
	for _, b := range g.Bonds {
		out = append(out, []int{b.A, b.B})
	}
	return out
}

// GraphAngles returns every (a,b,c) path of length two, b the apex.
func (g *Graph) GraphAngles() [][]int {
	var out [][]int
	for center := range g.Atoms {
		ns := g.neighbors(center)
		for i := 0; i < len(ns); i++ {
			for j := i + 1; j < len(ns); j++ {
				out = append(out, []int{ns[i], center, ns[j]})
			}
		}
	}
	return out
}

// GraphTorsions returns every (a,b,c,d) path of length three.
func (g *Graph) GraphTorsions() [][]int {
	var out [][]int
	for _, b := range g.Bonds {
		for _, a := range g.neighbors(b.A) {
			if a == b.B {
				continue
			}
			for _, d := range g.neighbors(b.B) {
				if d == b.A {
					continue
				}
				out = append(out, []int{a, b.A, b.B, d})
			}
		}
	}
	return out
}

// String renders a Graph back to the SMILES dialect decode understands,
// for diagnostics only (not a faithful canonical SMILES writer).
func (g *Graph) String() string {
	var sb strings.Builder
	visited := make([]bool, len(g.Atoms))
	var walk func(i, from int)
	walk = func(i, from int) {
		visited[i] = true
		sb.WriteString(g.Atoms[i].Element)
		for _, n := range g.neighbors(i) {
			if n == from || visited[n] {
				continue
			}
			order := g.BondBetween(i, n)
			sb.WriteString("(")
			if order == 2 {
				sb.WriteString("=")
			} else if order == 3 {
				sb.WriteString("#")
			}
			walk(n, i)
			sb.WriteString(")")
		}
	}
	if len(g.Atoms) > 0 {
		walk(0, -1)
	}
	return sb.String()
}

// Errors returned by Decode.
var (
	ErrEmptySmiles = fmt.Errorf("codec: empty SMILES string")
)
