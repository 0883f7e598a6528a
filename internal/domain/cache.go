package domain

// CacheStatus is the outcome of reading the quote cache.
type CacheStatus int

const (
	// CacheAbsent means nothing has been persisted yet.
	CacheAbsent CacheStatus = iota

	// CacheHit means a quote list was read and decoded.
	CacheHit

	// CacheFailed means the slot exists but could not be read or decoded.
	// Callers treat it like CacheAbsent.
	CacheFailed
)

// String returns a human-readable name for the status.
func (s CacheStatus) String() string {
	switch s {
	case CacheAbsent:
		return "absent"
	case CacheHit:
		return "hit"
	case CacheFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CacheReadResult is returned by cache reads instead of an error,
// so the caller decides explicitly what to do with a miss or a failure.
type CacheReadResult struct {
	Status CacheStatus
	Quotes QuoteList
	Err    error
}

// CacheHitResult wraps a successfully read quote list.
func CacheHitResult(quotes QuoteList) CacheReadResult {
	return CacheReadResult{Status: CacheHit, Quotes: quotes}
}

// CacheAbsentResult reports an empty slot.
func CacheAbsentResult() CacheReadResult {
	return CacheReadResult{Status: CacheAbsent}
}

// CacheFailedResult reports an unreadable slot.
func CacheFailedResult(err error) CacheReadResult {
	return CacheReadResult{Status: CacheFailed, Err: err}
}

// Found reports whether the read produced a quote list.
func (r CacheReadResult) Found() bool {
	return r.Status == CacheHit
}

// CacheWriteResult is returned by cache writes instead of an error.
type CacheWriteResult struct {
	Err error
}

// OK reports whether the write succeeded.
func (r CacheWriteResult) OK() bool {
	return r.Err == nil
}
