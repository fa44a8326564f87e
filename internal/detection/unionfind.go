package detection

// unionFind is a disjoint-set forest over dense integer ids with path
// compression and union by size.
type unionFind struct {
	parent []int32
	size   []int32
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{
		parent: make([]int32, n),
		size:   make([]int32, n),
	}
	for i := range u.parent {
		u.parent[i] = int32(i)
		u.size[i] = 1
	}
	return u
}

// find returns the representative of x, compressing the path on the way.
func (u *unionFind) find(x int) int {
	root := x
	for int(u.parent[root]) != root {
		root = int(u.parent[root])
	}
	for int(u.parent[x]) != root {
		next := int(u.parent[x])
		u.parent[x] = int32(root)
		x = next
	}
	return root
}

// union joins the sets rooted at ra and rb, which must be roots, and returns
// the new root. The larger set keeps its root; ties keep ra.
func (u *unionFind) union(ra, rb int) int {
	if ra == rb {
		return ra
	}
	if u.size[ra] < u.size[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = int32(ra)
	u.size[ra] += u.size[rb]
	return ra
}

// setSize returns the size of the set rooted at root.
func (u *unionFind) setSize(root int) int {
	return int(u.size[root])
}
