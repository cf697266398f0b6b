package matchengine

import "sort"

// MatchCriterion is one DNF path through a MatchTree: the ordered list of
// leaf criterion dicts — each with exactly one of the keys "genomic" or
// "clinical" — ANDed together from root to leaf (spec.md §3, §4.4).
type MatchCriterion = []RawDoc

// matchNode is one node of a MatchTree: a plain owned record with a
// child-index list, per spec.md §9's rejection of a general graph
// library for this.
type matchNode struct {
	criteriaList []RawDoc
	isOr         bool
	children     []int
}

// MatchTree is the explicit boolean tree built from one MatchClause
// (spec.md §4.3). Node 0 is the implicit root (empty criteria, AND).
// Immutable after construction.
type MatchTree struct {
	nodes []matchNode
}

// treeBuildItem is one item of the tree builder's work queue: the
// criterion dict to process, and the id of the node it was found under.
type treeBuildItem struct {
	parent    int
	criterion RawDoc
}

// BuildMatchTree constructs a MatchTree from a MatchClause (spec.md §4.3).
func BuildMatchTree(clause []RawDoc) *MatchTree {
	t := &MatchTree{nodes: []matchNode{{criteriaList: nil, isOr: false}}}

	var stack []treeBuildItem
	for _, item := range clause {
		stack = append(stack, treeBuildItem{parent: 0, criterion: item})
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		parentID := item.parent
		parentIsOr := t.nodes[parentID].isOr

		for _, label := range sortedKeys(item.criterion) {
			value := item.criterion[label]

			switch label {
			case "and":
				for _, sub := range asList(value) {
					if d := asDoc(sub); d != nil {
						stack = append(stack, treeBuildItem{parent: parentID, criterion: d})
					}
				}

			case "or":
				childID := t.addChild(parentID, true)
				for _, sub := range asList(value) {
					if d := asDoc(sub); d != nil {
						stack = append(stack, treeBuildItem{parent: childID, criterion: d})
					}
				}

			default: // "genomic" | "clinical" — a leaf predicate
				if parentIsOr {
					childID := t.addChild(parentID, false)
					t.nodes[childID].criteriaList = []RawDoc{item.criterion}
				} else {
					t.nodes[parentID].criteriaList = append(t.nodes[parentID].criteriaList, RawDoc{label: value})
				}
			}
		}
	}

	return t
}

// addChild appends a new node to the tree, connects parent -> new node,
// and returns the new node's id.
func (t *MatchTree) addChild(parent int, isOr bool) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, matchNode{isOr: isOr})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

// leaves returns the ids of every node with no children, in ascending
// order (deterministic — node ids are assigned in construction order).
func (t *MatchTree) leaves() []int {
	var out []int
	for id, n := range t.nodes {
		if len(n.children) == 0 {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

// pathTo returns the node ids from the root (0) to id, inclusive, in
// root-to-leaf order — the unique shortest path, since the tree has no
// back edges.
func (t *MatchTree) pathTo(id int) []int {
	parent := make(map[int]int, len(t.nodes))
	for pid, n := range t.nodes {
		for _, cid := range n.children {
			parent[cid] = pid
		}
	}
	path := []int{id}
	for cur := id; cur != 0; {
		p, ok := parent[cur]
		if !ok {
			break
		}
		path = append(path, p)
		cur = p
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
