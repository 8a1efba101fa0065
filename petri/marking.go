package petri

// Marking is a snapshot of token counts by place id, independent of any
// live *Net. stepexec takes a Marking before attempting a commit and
// restores it verbatim on rollback.
type Marking map[string]int

// Snapshot captures the current token count of every place in the net.
func (n *Net) Snapshot() Marking {
	m := make(Marking, len(n.places))
	for id, p := range n.places {
		m[id] = p.Tokens
	}
	return m
}

// Restore writes m back onto the net's live places. Restore is a no-op
// for any id in m that no longer names a place (the place was deleted
// since the snapshot was taken).
func (n *Net) Restore(m Marking) {
	for id, tokens := range m {
		if p, ok := n.places[id]; ok {
			p.Tokens = tokens
		}
	}
}

// Reset restores every place to its InitialMarking. Calling Reset twice
// in a row is idempotent: the second call is a no-op on state.
func (n *Net) Reset() {
	for _, p := range n.places {
		p.Tokens = p.InitialMarking
	}
}

// Clone returns an independent copy of the marking.
func (m Marking) Clone() Marking {
	out := make(Marking, len(m))
	for id, tokens := range m {
		out[id] = tokens
	}
	return out
}
