package checkpoint

import (
	"fmt"

	yamlv2 "gopkg.in/yaml.v2"
)

// legacyDocument is the pre-versioning checkpoint shape: no version field,
// and the clustering's group-name prefix and per-node parent id used the
// names below before the scheme settled on the v1 tags above. Decoded via
// yaml.v2 rather than yaml.v3, mirroring the teacher's own habit of
// keeping an older YAML library wired in purely to read older documents.
type legacyDocument struct {
	Dataset []DatasetEntry `yaml:"dataset"`

	Clustering struct {
		Prefix  string `yaml:"prefix"`
		RootIDs []int  `yaml:"roots"`
		Nodes   []struct {
			ID       int    `yaml:"id"`
			Name     string `yaml:"name"`
			ParentID int    `yaml:"parent_id"`
			Children []int  `yaml:"children"`
			Smarts   string `yaml:"smarts"`
		} `yaml:"nodes"`
	} `yaml:"clustering"`

	Strategy struct {
		Cursor int            `yaml:"cursor"`
		Seen   map[string]int `yaml:"seen"`
	} `yaml:"strategy"`
}

// decodeLegacy upgrades a version-0 checkpoint blob into the current
// Document shape.
func decodeLegacy(data []byte) (Document, error) {
	var legacy legacyDocument
	if err := yamlv2.Unmarshal(data, &legacy); err != nil {
		return Document{}, fmt.Errorf("checkpoint: decoding legacy document: %w", err)
	}

	nodes := make([]NodeSnapshot, len(legacy.Clustering.Nodes))
	for i, n := range legacy.Clustering.Nodes {
		nodes[i] = NodeSnapshot{
			ID:       n.ID,
			Name:     n.Name,
			Parent:   n.ParentID,
			Children: n.Children,
			Smarts:   n.Smarts,
		}
	}

	return Document{
		Version: CurrentVersion,
		Dataset: legacy.Dataset,
		Clustering: ClusteringSnapshot{
			GroupPrefix: legacy.Clustering.Prefix,
			RootIDs:     legacy.Clustering.RootIDs,
			Nodes:       nodes,
		},
		Strategy: StrategySnapshot{
			Cursor:      legacy.Strategy.Cursor,
			StepTracker: legacy.Strategy.Seen,
		},
	}, nil
}
