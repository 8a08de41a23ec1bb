package sequencer

// StreamIndex holds the two parallel mappings keyed by stream-id (spec
// §4.4): the local tail (count of entries issued on that stream, minus
// one) and the back-pointer (last global position at which the stream was
// extended). Both maps are updated together, within the allocator's single
// critical section, so external observers never see one updated without
// the other for the same grant.
//
// Not safe for concurrent use on its own — the allocator is the sole
// mutator and the sole caller of QueryLocal/QueryBack.
type StreamIndex struct {
	local map[StreamID]int64
	back  map[StreamID]int64
}

// NewStreamIndex creates an empty stream index.
func NewStreamIndex() *StreamIndex {
	return &StreamIndex{
		local: make(map[StreamID]int64),
		back:  make(map[StreamID]int64),
	}
}

// QueryLocal returns the current local tail for id, or Absent if the
// stream has never been granted a position.
func (si *StreamIndex) QueryLocal(id StreamID) int64 {
	if v, ok := si.local[id]; ok {
		return v
	}
	return Absent
}

// QueryBack returns the current back-pointer for id, or Absent if the
// stream has never been granted a position.
func (si *StreamIndex) QueryBack(id StreamID) int64 {
	if v, ok := si.back[id]; ok {
		return v
	}
	return Absent
}

// StreamCount returns the number of distinct streams the index has ever
// recorded a grant for. Intended for status/audit reporting only.
func (si *StreamIndex) StreamCount() int {
	return len(si.back)
}

// RecordBackPointer sets back[id] := max(back[id], newGlobalPos) and
// returns the previous value (or Absent if none), per spec §4.5.5 step 1.
// This update always happens for a stream touched by a grant, regardless
// of the overwrite/replexOverwrite flags.
func (si *StreamIndex) RecordBackPointer(id StreamID, newGlobalPos int64) (previous int64) {
	previous = si.QueryBack(id)

	if newGlobalPos > previous {
		si.back[id] = newGlobalPos
	} else {
		si.back[id] = previous
	}

	return previous
}

// AdvanceLocal sets local[id] := prev + n and returns the new value, per
// spec §4.5.5 step 2. Callers must only invoke this when the flag table
// says the local tail should advance.
func (si *StreamIndex) AdvanceLocal(id StreamID, n uint32) (newLocal int64) {
	prev := si.QueryLocal(id)
	newLocal = prev + int64(n)
	si.local[id] = newLocal
	return newLocal
}
