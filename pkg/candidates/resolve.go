package candidates

// Resolution is the outcome of resolving a LOCATION node's scored
// candidates: either a unique winner above threshold, or the zero value
// (Resolved false, Selected nil). The zero value does not record why the
// node stayed unresolved.
type Resolution struct {
	Resolved         bool
	Selected         *Candidate
	ResolutionSource string
}

// Resolve implements spec.md §4.5's resolution rule: a LOCATION node is
// resolved when exactly one candidate has a strictly highest final score
// AND that score exceeds threshold. Ties and sub-threshold scores leave
// the node unresolved.
func Resolve(scored []*Candidate, threshold float64) Resolution {
	if len(scored) == 0 {
		return Resolution{}
	}

	best := scored[0]
	tie := false
	for _, c := range scored[1:] {
		switch {
		case c.Total > best.Total:
			best, tie = c, false
		case c.Total == best.Total:
			tie = true
		}
	}

	if tie || best.Total <= threshold {
		return Resolution{}
	}

	return Resolution{
		Resolved:         true,
		Selected:         best,
		ResolutionSource: best.topSignal(),
	}
}
