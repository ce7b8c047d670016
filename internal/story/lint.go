package story

// DanglingRef is a choice whose target names no scene.
type DanglingRef struct {
	SceneID string
	Index   int
	Label   string
	Target  string
}

// Dangling lists every choice whose target is missing from the graph,
// in scene declaration order.
func (g *Graph) Dangling() []DanglingRef {
	var refs []DanglingRef
	for _, id := range g.order {
		for i, c := range g.scenes[id].Choices {
			if !g.Has(c.Target) {
				refs = append(refs, DanglingRef{
					SceneID: id,
					Index:   i,
					Label:   c.Label,
					Target:  c.Target,
				})
			}
		}
	}
	return refs
}

// Unreachable lists scenes that cannot be reached from any of the given
// start ids by following choices. Unknown start ids are ignored.
func (g *Graph) Unreachable(from ...string) []string {
	seen := make(map[string]bool, len(g.order))
	queue := make([]string, 0, len(from))
	for _, id := range from {
		if g.Has(id) && !seen[id] {
			seen[id] = true
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range g.scenes[id].Choices {
			if g.Has(c.Target) && !seen[c.Target] {
				seen[c.Target] = true
				queue = append(queue, c.Target)
			}
		}
	}

	var missing []string
	for _, id := range g.order {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
