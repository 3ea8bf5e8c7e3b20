package classify

// dedup is a first-occurrence-wins set of resolved URLs.
type dedup struct {
	visited map[string]bool
}

func newDedup() *dedup {
	return &dedup{visited: make(map[string]bool)}
}

// Add records url and reports whether it was new.
func (d *dedup) Add(url string) bool {
	if d.visited[url] {
		return false
	}
	d.visited[url] = true
	return true
}
