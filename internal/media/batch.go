package media

// Batch is an ordered selection. Positions are visible to the caller and are
// preserved by every processing path.
type Batch []Item

// Clone returns a shallow copy whose backing array is independent of b.
func (b Batch) Clone() Batch {
	if b == nil {
		return nil
	}
	out := make(Batch, len(b))
	copy(out, b)
	return out
}

// Entry pairs an item with its position in the batch it was taken from.
type Entry struct {
	Index int
	Item  Item
}

// ProcessableSet is the ordered subset of a batch that needs processing.
// Indexes are strictly ascending.
type ProcessableSet []Entry

// ProcessedSet carries replacement items keyed by the same original indexes
// as the ProcessableSet it was produced from.
type ProcessedSet []Entry

// Items returns the items of the set in order.
func (s ProcessableSet) Items() []Item {
	out := make([]Item, len(s))
	for i, e := range s {
		out[i] = e.Item
	}
	return out
}

// Indexes returns the original positions covered by the set.
func (s ProcessableSet) Indexes() []int {
	out := make([]int, len(s))
	for i, e := range s {
		out[i] = e.Index
	}
	return out
}

// Unchanged treats every processable entry as already final.
func (s ProcessableSet) Unchanged() ProcessedSet {
	out := make(ProcessedSet, len(s))
	copy(out, s)
	return out
}

// Replace builds a ProcessedSet by pairing the set's indexes with items, in
// order. The caller guarantees len(items) == len(s).
func (s ProcessableSet) Replace(items []Item) ProcessedSet {
	out := make(ProcessedSet, len(s))
	for i, e := range s {
		out[i] = Entry{Index: e.Index, Item: items[i]}
	}
	return out
}
