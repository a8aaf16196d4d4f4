// Patch support: DiffNodes describes the change in hierarchy nodes between
// two checkpoints as cppforlife/go-patch Ops, and ApplyPatch replays such a
// diff. Store.Save always writes full documents; it does not consult
// config.Checkpoint.Incremental or call into this file.
package checkpoint

import (
	"fmt"

	"github.com/cppforlife/go-patch/patch"
)

// nodesDoc is the map-shaped view of a clustering's nodes go-patch
// addresses by name ("/p3"); Document.Clustering.Nodes is a list in
// the full-snapshot format, so diffing re-keys it by node name rather than
// by list index (which would shift under insertion/removal).
type nodesDoc map[string]interface{}

func toNodesDoc(nodes []NodeSnapshot) nodesDoc {
	out := make(nodesDoc, len(nodes))
	for _, n := range nodes {
		out[n.Name] = n
	}
	return out
}

func fromNodesDoc(doc nodesDoc) []NodeSnapshot {
	out := make([]NodeSnapshot, 0, len(doc))
	for _, v := range doc {
		n, ok := v.(NodeSnapshot)
		if !ok {
			continue // a value that is not a NodeSnapshot (e.g. a generic map) is skipped, not converted
		}
		out = append(out, n)
	}
	return out
}

// DiffNodes builds the go-patch ops that turn prev's node set into curr's:
// a "replace" op per added-or-changed node (a SPLIT, or any node whose
// parent/children/smarts changed), a "remove" op per node that disappeared
// (a MERGE).
func DiffNodes(prev, curr Document) (patch.Ops, error) {
	prevNodes := toNodesDoc(prev.Clustering.Nodes)
	currNodes := toNodesDoc(curr.Clustering.Nodes)

	var defs []patch.OpDefinition
	for name, v := range currNodes {
		n := v.(NodeSnapshot)
		if old, existed := prevNodes[name]; existed && nodesEqual(old.(NodeSnapshot), n) {
			continue
		}
		path, err := patch.NewPointerFromString("/" + name)
		if err != nil {
			return nil, fmt.Errorf("checkpoint: building patch path for %s: %w", name, err)
		}
		value := v
		defs = append(defs, patch.OpDefinition{Type: "replace", Path: &path, Value: &value})
	}
	for name := range prevNodes {
		if _, ok := currNodes[name]; ok {
			continue
		}
		path, err := patch.NewPointerFromString("/" + name)
		if err != nil {
			return nil, fmt.Errorf("checkpoint: building removal path for %s: %w", name, err)
		}
		defs = append(defs, patch.OpDefinition{Type: "remove", Path: &path})
	}

	return patch.NewOpsFromDefinitions(defs)
}

func nodesEqual(a, b NodeSnapshot) bool {
	if a.ID != b.ID || a.Parent != b.Parent || a.Smarts != b.Smarts || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if a.Children[i] != b.Children[i] {
			return false
		}
	}
	return true
}

// ApplyPatch replays ops against prev's node set and returns a Document
// carrying curr's dataset/strategy sections (those are small and always
// stored in full) with the patched node set in place of prev's.
func ApplyPatch(prev Document, currDatasetAndStrategy Document, ops patch.Ops) (Document, error) {
	prevNodes := toNodesDoc(prev.Clustering.Nodes)

	patched, err := ops.Apply(prevNodes)
	if err != nil {
		return Document{}, fmt.Errorf("checkpoint: applying patch: %w", err)
	}
	result, ok := patched.(nodesDoc)
	if !ok {
		m, ok := patched.(map[string]interface{})
		if !ok {
			return Document{}, fmt.Errorf("checkpoint: unexpected patched document shape %T", patched)
		}
		result = nodesDoc(m)
	}

	out := currDatasetAndStrategy
	out.Version = CurrentVersion
	out.Clustering = ClusteringSnapshot{
		GroupPrefix: prev.Clustering.GroupPrefix,
		RootIDs:     currDatasetAndStrategy.Clustering.RootIDs,
		Nodes:       fromNodesDoc(result),
	}
	return out, nil
}
