package message

// Reactions maps a reaction symbol (usually an emoji) to the set of actor IDs
// that applied it. Membership is unique; order carries no meaning.
type Reactions map[string][]string

// Has reports whether actorID has applied the given symbol.
func (r Reactions) Has(symbol, actorID string) bool {
	for _, id := range r[symbol] {
		if id == actorID {
			return true
		}
	}
	return false
}

// Count returns the number of actors that applied the given symbol.
func (r Reactions) Count(symbol string) int {
	return len(r[symbol])
}

// Toggle adds actorID to the symbol's actor set if absent and removes it if
// present. Applying Toggle twice returns the set to its original state.
// The receiver map must be non-nil.
func (r Reactions) Toggle(symbol, actorID string) {
	actors := r[symbol]
	for i, id := range actors {
		if id == actorID {
			actors = append(actors[:i], actors[i+1:]...)
			if len(actors) == 0 {
				delete(r, symbol)
			} else {
				r[symbol] = actors
			}
			return
		}
	}
	r[symbol] = append(actors, actorID)
}

func (r Reactions) clone() Reactions {
	cp := make(Reactions, len(r))
	for symbol, actors := range r {
		cp[symbol] = append([]string(nil), actors...)
	}
	return cp
}
