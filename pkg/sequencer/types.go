// Package sequencer implements the centralized token-issuing authority of a
// shared-log distributed store. It serializes token grants under a total
// order, maintains per-stream tail and back-pointer indices, evaluates
// optimistic transaction commits against a bounded conflict cache, and
// survives restarts via a leased range of the global tail.
package sequencer

// StreamID identifies a stream within the shared log. The wire format is
// 128-bit; callers are expected to pass a fixed-width encoding (e.g. a UUID)
// as the map key.
type StreamID = [16]byte

// Absent is the sentinel used throughout the allocator and its indices to
// mean "no value" — an empty local tail, a missing back-pointer, an aborted
// transaction's token.
const Absent int64 = -1

// TokenRequest is the external request shape from spec §6.
type TokenRequest struct {
	// NumTokens is the number of contiguous positions requested. Zero means
	// a pure read (the query path).
	NumTokens uint32

	// Streams is nil for the non-stream path (global fetch-add, no index
	// update) and non-nil (possibly empty) for the stream-aware paths. A
	// nil map and an empty map are deliberately distinct — see spec Open
	// Question (ii).
	Streams map[StreamID]struct{}

	// Overwrite and ReplexOverwrite gate local-tail advancement on the
	// grant path; see the flag table in spec §4.5.5. The combination
	// (true, true) is malformed and must never reach Handle.
	Overwrite       bool
	ReplexOverwrite bool

	// TxnResolution requests transaction-commit semantics instead of a
	// plain grant.
	TxnResolution bool
	ReadTimestamp int64
	ReadSet       map[StreamID]struct{}

	// ConflictKeys is an optional fine-grained extension to ReadSet:
	// opaque keys checked against the conflict cache in addition to the
	// whole-stream back-pointer check.
	ConflictKeys [][]byte
}

// TokenResponse is the external response shape from spec §6.
type TokenResponse struct {
	// Token is the base of the issued range, or Absent on abort. On a
	// query it is the last issued global position (T-1) when no streams
	// are given, or the highest back-pointer among the queried streams.
	Token int64

	// BackpointerMap holds, per requested stream, the back-pointer value
	// observed *before* this grant applied (Absent if none). Empty on the
	// query path and on abort.
	BackpointerMap map[StreamID]int64

	// StreamTokens holds, per stream whose local tail advanced, the
	// post-grant local tail value. On the query path it holds the current
	// local tail of every queried stream (Absent if none).
	StreamTokens map[StreamID]int64
}

// Aborted reports whether Token is Absent, which is how a transaction abort
// is signalled. A query response whose reported position is Absent (nothing
// issued yet, or none of the queried streams ever extended) also reports
// true.
func (r TokenResponse) Aborted() bool {
	return r.Token == Absent
}
