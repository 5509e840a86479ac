package cache

import "time"

// Status describes an entry's freshness
type Status int

const (
	// StatusPending has no value yet and a fetch in flight
	StatusPending Status = iota
	StatusFresh
	StatusStale
	// StatusError means the last fetch failed; Value may still hold the previous result
	StatusError
)

var statusNames = [...]string{"pending", "fresh", "stale", "error"}

// String returns status name
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Entry is a point in time view of a cached query.
type Entry struct {
	Key       Key
	Value     interface{}
	HasValue  bool
	FetchedAt time.Time
	Status    Status
	// Fetching is true while a fetch for the key is in flight
	Fetching bool
	// Err is the last fetch failure
	Err error
}

type entry struct {
	key         Key
	value       interface{}
	hasValue    bool
	fetchedAt   time.Time
	staleTime   time.Duration
	invalidated bool
	fetches     int
	err         error
	// gen changes on every invalidate and set, written changes on set only
	gen     uint64
	written uint64
	// valueGen is the gen the current value was fetched or written at
	valueGen uint64
}

func (e *entry) fresh(now time.Time) bool {
	if !e.hasValue || e.invalidated || e.err != nil {
		return false
	}
	return now.Sub(e.fetchedAt) < e.staleTime
}

func (e *entry) view(now time.Time) Entry {
	ret := Entry{
		Key:       e.key,
		Value:     e.value,
		HasValue:  e.hasValue,
		FetchedAt: e.fetchedAt,
		Fetching:  e.fetches > 0,
		Err:       e.err,
	}
	switch {
	case e.err != nil:
		ret.Status = StatusError
	case !e.hasValue:
		ret.Status = StatusPending
	case e.fresh(now):
		ret.Status = StatusFresh
	default:
		ret.Status = StatusStale
	}
	return ret
}
