package world

// AABB2D is an axis-aligned bounding box over world X/Z, inclusive on
// both ends (spec §3/§4.D; ported from
// original_source/engine/include/world/quadtree.h).
type AABB2D struct {
	XMin, ZMin, XMax, ZMax int64
}

func (b AABB2D) contains(x, z int64) bool {
	return x >= b.XMin && x <= b.XMax && z >= b.ZMin && z <= b.ZMax
}

func (b AABB2D) intersects(o AABB2D) bool {
	return !(b.XMax < o.XMin || b.XMin > o.XMax || b.ZMax < o.ZMin || b.ZMin > o.ZMax)
}

const (
	quadtreeMaxObjects = 8
	quadtreeMaxLevels  = 8
)

type quadtreeEntry struct {
	x, z   int64
	column *Column
}

// quadtreeNode is a single node of the region-query index: up to
// MAX_OBJECTS entries before it subdivides into four children, down to
// MAX_LEVELS deep.
type quadtreeNode struct {
	bounds   AABB2D
	level    int
	entries  []quadtreeEntry
	children [4]*quadtreeNode
}

func newQuadtreeNode(bounds AABB2D, level int) *quadtreeNode {
	return &quadtreeNode{bounds: bounds, level: level}
}

func (n *quadtreeNode) insert(x, z int64, col *Column) {
	if !n.bounds.contains(x, z) {
		return
	}
	if n.children[0] != nil {
		for _, child := range n.children {
			if child.bounds.contains(x, z) {
				child.insert(x, z, col)
				return
			}
		}
	}
	n.entries = append(n.entries, quadtreeEntry{x: x, z: z, column: col})
	if len(n.entries) > quadtreeMaxObjects && n.level < quadtreeMaxLevels {
		if n.children[0] == nil {
			n.subdivide()
		}
		for _, e := range n.entries {
			for _, child := range n.children {
				if child.bounds.contains(e.x, e.z) {
					child.insert(e.x, e.z, e.column)
					break
				}
			}
		}
		n.entries = nil
	}
}

func (n *quadtreeNode) remove(x, z int64) bool {
	if !n.bounds.contains(x, z) {
		return false
	}
	for i, e := range n.entries {
		if e.x == x && e.z == z {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			return true
		}
	}
	if n.children[0] != nil {
		for _, child := range n.children {
			if child.remove(x, z) {
				return true
			}
		}
	}
	return false
}

func (n *quadtreeNode) find(x, z int64) *Column {
	if !n.bounds.contains(x, z) {
		return nil
	}
	for _, e := range n.entries {
		if e.x == x && e.z == z {
			return e.column
		}
	}
	if n.children[0] != nil {
		for _, child := range n.children {
			if child.bounds.contains(x, z) {
				return child.find(x, z)
			}
		}
	}
	return nil
}

func (n *quadtreeNode) queryRegion(region AABB2D, out *[]*Column) {
	if !n.bounds.intersects(region) {
		return
	}
	for _, e := range n.entries {
		if region.contains(e.x, e.z) {
			*out = append(*out, e.column)
		}
	}
	for _, child := range n.children {
		if child != nil {
			child.queryRegion(region, out)
		}
	}
}

func (n *quadtreeNode) subdivide() {
	xMid := (n.bounds.XMin + n.bounds.XMax) / 2
	zMid := (n.bounds.ZMin + n.bounds.ZMax) / 2
	n.children[0] = newQuadtreeNode(AABB2D{n.bounds.XMin, n.bounds.ZMin, xMid, zMid}, n.level+1)
	n.children[1] = newQuadtreeNode(AABB2D{xMid + 1, n.bounds.ZMin, n.bounds.XMax, zMid}, n.level+1)
	n.children[2] = newQuadtreeNode(AABB2D{n.bounds.XMin, zMid + 1, xMid, n.bounds.ZMax}, n.level+1)
	n.children[3] = newQuadtreeNode(AABB2D{xMid + 1, zMid + 1, n.bounds.XMax, n.bounds.ZMax}, n.level+1)
}

// Quadtree is a 2D spatial index over column base coordinates (spec
// §3: "a quadtree keyed on column (X,Z)"), used by WorldManager.QueryRegion.
type Quadtree struct {
	root *quadtreeNode
}

// NewQuadtree builds an empty quadtree covering worldBounds.
func NewQuadtree(worldBounds AABB2D) *Quadtree {
	return &Quadtree{root: newQuadtreeNode(worldBounds, 0)}
}

func (q *Quadtree) Insert(x, z int64, col *Column) { q.root.insert(x, z, col) }

func (q *Quadtree) Remove(x, z int64) bool { return q.root.remove(x, z) }

func (q *Quadtree) Find(x, z int64) *Column { return q.root.find(x, z) }

func (q *Quadtree) QueryRegion(region AABB2D) []*Column {
	var out []*Column
	q.root.queryRegion(region, &out)
	return out
}
