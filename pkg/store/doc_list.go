package store

import "maps"

// DocList is an allocation-light set of document ids. The in-memory store
// keeps one per indexed value and answers predicates with set algebra.
type DocList map[uint]struct{}

func (l DocList) AddID(id uint) {
	l[id] = struct{}{}
}

func (l DocList) Merge(other DocList) {
	maps.Copy(l, other)
}

// Intersect mutates the receiver, keeping only ids present in both sets.
func (l DocList) Intersect(other DocList) {
	for id := range l {
		if _, ok := other[id]; !ok {
			delete(l, id)
		}
	}
}

func (l DocList) Exclude(other DocList) {
	for id := range other {
		delete(l, id)
	}
}

func (l DocList) Clone() DocList {
	result := make(DocList, len(l))
	maps.Copy(result, l)
	return result
}

// IntersectionCount counts shared ids without building the intersection,
// walking the smaller set.
func (l DocList) IntersectionCount(other DocList) int {
	small, large := l, other
	if len(large) < len(small) {
		small, large = large, small
	}
	count := 0
	for id := range small {
		if _, ok := large[id]; ok {
			count++
		}
	}
	return count
}
