package renderer

// programEntry is one cached program and the number of passes using it.
type programEntry struct {
	res  *programResources
	refs int
}

// programCache holds GPU resources by Program.ID, reference counted across the
// passes that prepared them.
type programCache struct {
	entries map[uint64]*programEntry
}

func newProgramCache() *programCache {
	return &programCache{entries: make(map[uint64]*programEntry)}
}

// retain adds a reference to a cached program and reports whether it was cached.
func (c *programCache) retain(id uint64) bool {
	entry, ok := c.entries[id]
	if ok {
		entry.refs++
	}
	return ok
}

// add caches res with a single reference.
func (c *programCache) add(id uint64, res *programResources) {
	c.entries[id] = &programEntry{res: res, refs: 1}
}

func (c *programCache) get(id uint64) (*programResources, bool) {
	entry, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	return entry.res, true
}

// drop removes one reference. When the last one goes the entry is evicted and
// its resources are returned for the caller to release.
func (c *programCache) drop(id uint64) (*programResources, bool) {
	entry, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	entry.refs--
	if entry.refs > 0 {
		return nil, false
	}
	delete(c.entries, id)
	return entry.res, true
}

// clear evicts every entry and returns their resources.
func (c *programCache) clear() []*programResources {
	out := make([]*programResources, 0, len(c.entries))
	for id, entry := range c.entries {
		out = append(out, entry.res)
		delete(c.entries, id)
	}
	return out
}
