package crawler

// Entry is an article waiting to be crawled at a given depth
type Entry struct {
	Article string
	Depth   int
}

// Frontier is the LIFO stack of pending articles for one crawl.
// It is owned by a single traversal and needs no locking.
type Frontier struct {
	items []Entry
}

// NewFrontier creates an empty frontier
func NewFrontier() *Frontier {
	return &Frontier{
		items: make([]Entry, 0),
	}
}

// Push adds an entry on top of the stack
func (f *Frontier) Push(entry Entry) {
	f.items = append(f.items, entry)
}

// PushChildren adds the links of one article so that the first link is
// popped first, matching a recursive depth-first visit in document order
func (f *Frontier) PushChildren(links []string, depth int) {
	for i := len(links) - 1; i >= 0; i-- {
		f.Push(Entry{Article: links[i], Depth: depth})
	}
}

// Pop removes and returns the top entry.
// Returns (empty, false) when the frontier is empty.
func (f *Frontier) Pop() (Entry, bool) {
	if len(f.items) == 0 {
		return Entry{}, false
	}
	last := len(f.items) - 1
	entry := f.items[last]
	f.items = f.items[:last]
	return entry, true
}

// Size returns the number of pending entries
func (f *Frontier) Size() int {
	return len(f.items)
}
