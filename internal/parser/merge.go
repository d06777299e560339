package parser

import (
	"sort"

	"gradeledger/internal/domain"
)

// RecordIndex is an ordered, read-only index of records keyed by canonical
// registration id. It is never modified after Merge returns it, so it can be
// shared across goroutines.
type RecordIndex struct {
	ids  []string
	byID map[string]domain.StudentResult
	// source holds the zero-based pass that contributed each id.
	source map[string]int
}

// Len returns the number of records.
func (ix *RecordIndex) Len() int { return len(ix.ids) }

// Get returns the record for a canonical id.
func (ix *RecordIndex) Get(id string) (domain.StudentResult, bool) {
	r, ok := ix.byID[id]
	return r, ok
}

// Source returns the pass that contributed id, or -1 when id is absent.
func (ix *RecordIndex) Source(id string) int {
	if p, ok := ix.source[id]; ok {
		return p
	}
	return -1
}

// IDs returns the ids in sorted order.
func (ix *RecordIndex) IDs() []string {
	out := make([]string, len(ix.ids))
	copy(out, ix.ids)
	return out
}

// Records returns a copy of the records sorted by registration id.
func (ix *RecordIndex) Records() []domain.StudentResult {
	out := make([]domain.StudentResult, len(ix.ids))
	for i, id := range ix.ids {
		out[i] = ix.byID[id]
	}
	return out
}

// MergeResult is the merged output of the extraction passes.
type MergeResult struct {
	Index             *RecordIndex
	PassCounts        []int
	InvalidDiscarded  int
	DuplicatesDropped int
}

// Merge combines pass outputs in order. Each id is canonicalized and validated;
// invalid ids are discarded, and the first pass to produce an id wins. Later
// occurrences are dropped, never merged.
func Merge(passes ...[]domain.StudentResult) MergeResult {
	res := MergeResult{PassCounts: make([]int, len(passes))}
	byID := make(map[string]domain.StudentResult)
	source := make(map[string]int)

	for p, records := range passes {
		res.PassCounts[p] = len(records)
		for _, r := range records {
			id := CanonicalRegNo(r.RegistrationID)
			if !ValidRegNo(id) {
				res.InvalidDiscarded++
				continue
			}
			if _, seen := byID[id]; seen {
				res.DuplicatesDropped++
				continue
			}
			r.RegistrationID = id
			byID[id] = r
			source[id] = p
		}
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	res.Index = &RecordIndex{ids: ids, byID: byID, source: source}
	return res
}
