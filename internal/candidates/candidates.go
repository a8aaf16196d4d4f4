// Package candidates implements candidate generation of spec.md §4.2:
// SPLIT candidates (new child patterns) and MERGE candidates (removal of an
// existing child), each keyed by (edit, micro_cursor, p_j) / (overlap,
// micro_cursor, child_index).
package candidates

import (
	"fmt"

	"github.com/ntBre/besmarts/internal/codec"
	"github.com/ntBre/besmarts/internal/hierarchy"
)

// Operation distinguishes the two candidate kinds of spec.md §4.2.
type Operation int

const (
	Split Operation = iota
	Merge
)

func (o Operation) String() string {
	if o == Split {
		return "SPLIT"
	}
	return "MERGE"
}

// Key is the candidate id of spec.md §4.2/§5: stable across one nanostep,
// assigned in generator order.
type Key struct {
	Edit        int
	MicroCursor int
	Seq         int
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%d/%d", k.MicroCursor, k.Edit, k.Seq)
}

// Candidate is one unscored edit proposal: a SPLIT names the new child's
// Structure/Smarts under Node, a MERGE names the existing ChildNode to
// remove from Node.
type Candidate struct {
	Key       Key
	Operation Operation
	Node      hierarchy.NodeID
	NodeName  string
	ChildNode hierarchy.NodeID
	Structure codec.Structure
	Smarts    string
	Overlap   int
}

// GenerateSplit emits one candidate per (child structure, overlap edit)
// pair, per spec.md §4.2's "each Sj is emitted ... for every edit in
// step.overlap". Each structure is relabeled to start its Select at 1 and
// encoded to SMARTS once, shared across the overlap fan-out.
func GenerateSplit(cd codec.Codec, node hierarchy.NodeID, nodeName string, microCursor int, structures []codec.Structure, overlaps []int) ([]Candidate, error) {
	var out []Candidate
	for j, sj := range structures {
		relabeled := sj.RelabelSelect()
		smarts, err := cd.SmartsEncodeStructure(relabeled)
		if err != nil {
			return nil, fmt.Errorf("candidates: encoding candidate %d under %s: %w", j, nodeName, err)
		}
		for _, edit := range overlaps {
			out = append(out, Candidate{
				Key:       Key{Edit: edit, MicroCursor: microCursor, Seq: j},
				Operation: Split,
				Node:      node,
				NodeName:  nodeName,
				Structure: relabeled,
				Smarts:    smarts,
				Overlap:   edit,
			})
		}
	}
	return out, nil
}

// GenerateMerge emits one candidate per (current child, overlap edit) pair.
func GenerateMerge(h *hierarchy.Hierarchy, node hierarchy.NodeID, nodeName string, microCursor int, overlaps []int) []Candidate {
	var out []Candidate
	for idx, child := range h.Nodes[node].Children {
		for _, edit := range overlaps {
			out = append(out, Candidate{
				Key:       Key{Edit: edit, MicroCursor: microCursor, Seq: idx},
				Operation: Merge,
				Node:      node,
				NodeName:  nodeName,
				ChildNode: child,
				Overlap:   edit,
			})
		}
	}
	return out
}
