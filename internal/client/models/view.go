package models

import (
	"slices"
	"time"
)

// CollectionView is the hydrated snapshot of the catalog, newest first.
// It is always replaced wholesale, never patched.
type CollectionView []Variety

// NewCollectionView orders entries by CreatedAt descending (stable) and
// drops repeated ids, keeping the first occurrence.
func NewCollectionView(entries []Variety) CollectionView {
	seen := make(map[ID]struct{}, len(entries))
	view := make(CollectionView, 0, len(entries))
	for _, e := range entries {
		if e.ID != "" {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
		}
		view = append(view, e)
	}
	slices.SortStableFunc(view, func(a, b Variety) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return view
}

// Contains reports whether an entry with id is present.
func (c CollectionView) Contains(id ID) bool {
	return slices.ContainsFunc(c, func(v Variety) bool { return v.ID == id })
}

// ConnectivityStatus is the result of the startup reachability probe.
type ConnectivityStatus struct {
	Reachable bool
	Err       error
	CheckedAt time.Time
}

// Phase is the coarse state the presentation layer switches on.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseUnauthenticated
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// ViewState is one of Initializing, Unauthenticated or
// Authenticated(Session, Collection). Session is non-nil only in the
// authenticated phase.
type ViewState struct {
	Phase      Phase
	Session    *Session
	Collection CollectionView
}

func Initializing() ViewState    { return ViewState{Phase: PhaseInitializing} }
func Unauthenticated() ViewState { return ViewState{Phase: PhaseUnauthenticated} }

func Authenticated(s Session, c CollectionView) ViewState {
	return ViewState{Phase: PhaseAuthenticated, Session: &s, Collection: c}
}

func (v ViewState) IsAuthenticated() bool {
	return v.Phase == PhaseAuthenticated && v.Session != nil
}
