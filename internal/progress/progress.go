// Package progress renders the console progress output of spec.md §6: the
// per-macro banner, per-candidate status lines, the per-nanostep candidate
// table, and the tree of (depth, index, name, objective_report, smarts).
//
// Grounded on the teacher's own use of github.com/starkandwayne/goutils/ansi
// for every diagnostic line it prints (e.g. its MultiError rendering) and
// goutils/tree's path-addressed cursor idiom, adapted here to address tree
// nodes via internal/nodepath instead.
package progress

import (
	"fmt"
	"strings"

	"github.com/starkandwayne/goutils/ansi"

	"github.com/ntBre/besmarts/internal/acceptance"
	"github.com/ntBre/besmarts/internal/hierarchy"
)

// MacroBanner renders the per-macro header of spec.md §6: iteration
// counts, current X, parameter count, and splitter bounds.
func MacroBanner(macroIndex, microIndex int, x float64, paramCount int, bounds string) string {
	return ansi.Sprintf("@b{===} macro @g{%d}.@g{%d} @b{===} X=@y{%.6f} params=@c{%d} %s",
		macroIndex, microIndex, x, paramCount, bounds)
}

// CandidateLine renders one per-candidate scoring status line:
// "Cnd. <i>/<n> <parent> <reused?> X=<x> dX=<dx> N=<match_len> C=<Y|N> <smarts>".
func CandidateLine(i, n int, parent string, reused bool, x, dx float64, matchLen int, keep bool, smarts string) string {
	reusedFlag := "N"
	if reused {
		reusedFlag = "Y"
	}
	acceptFlag := "N"
	acceptColor := "r"
	if keep {
		acceptFlag = "Y"
		acceptColor = "g"
	}
	return ansi.Sprintf("Cnd. @w{%d}/@w{%d} %s reused=%s X=@y{%.6f} dX=@y{%.6f} N=@c{%d} C=@%s{%s} %s",
		i, n, parent, reusedFlag, x, dx, matchLen, acceptColor, acceptFlag, smarts)
}

// NanostepTable renders the filtered, sorted candidate table of one
// nanostep, marking admitted rows with "->".
func NanostepTable(sorted []acceptance.Scored, admitted map[string]bool) string {
	var sb strings.Builder
	for _, s := range sorted {
		marker := "  "
		if admitted[s.Candidate.Key.String()] {
			marker = ansi.Sprintf("@g{->}")
		}
		sb.WriteString(fmt.Sprintf("%s %-8s %-6s X=%.6f N=%d %s\n",
			marker, s.Candidate.Key.String(), s.Candidate.Operation, s.Result.X, s.Result.MatchLen, s.Candidate.Smarts))
	}
	return sb.String()
}

// NewParameterBanner and DeleteParameterBanner render the success banners
// of spec.md §6.
func NewParameterBanner(name, parent, smarts string) string {
	return ansi.Sprintf("@g{>>>>> New parameter} @w{%s} @g{under} @w{%s}: %s", name, parent, smarts)
}

func DeleteParameterBanner(name, parent string) string {
	return ansi.Sprintf("@r{>>>>> Delete parameter} @w{%s} @r{from} @w{%s}", name, parent)
}

// Reporter produces the per-leaf objective report string the tree printer
// embeds per node (spec.md §6's "objective_report").
type Reporter func(leafName string) string

// Tree pretty-prints the hierarchy as (depth, index, name, objective_report,
// smarts), one line per node, in pre-order.
func Tree(h *hierarchy.Hierarchy, report Reporter) string {
	var sb strings.Builder
	var walk func(id hierarchy.NodeID, depth, index int)
	walk = func(id hierarchy.NodeID, depth, index int) {
		n := h.Nodes[id]
		indent := strings.Repeat("  ", depth)
		sb.WriteString(ansi.Sprintf("%s@c{%d}.@c{%d} @w{%s} %s %s\n",
			indent, depth, index, n.Name, report(n.Name), h.Smarts[id]))
		for i, c := range n.Children {
			walk(c, depth+1, i)
		}
	}
	for i, r := range h.RootIDs {
		walk(r, 0, i)
	}
	return sb.String()
}
