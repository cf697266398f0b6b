package matchengine

// MatchPathEnumerator produces the DNF expansion of a MatchTree: one
// MatchCriterion (conjunctive path) per leaf (spec.md §4.4).
type MatchPathEnumerator struct{}

// Enumerate returns one MatchCriterion per leaf of t — the cross-product
// implicit in the tree's branching, with no explicit Cartesian expansion.
// If the root is the tree's only node, the single emitted path is the
// root's own criteria_list (possibly empty).
func (MatchPathEnumerator) Enumerate(t *MatchTree) []MatchCriterion {
	leaves := t.leaves()
	paths := make([]MatchCriterion, 0, len(leaves))

	for _, leafID := range leaves {
		var path MatchCriterion
		for _, nodeID := range t.pathTo(leafID) {
			path = append(path, t.nodes[nodeID].criteriaList...)
		}
		paths = append(paths, path)
	}

	return paths
}
