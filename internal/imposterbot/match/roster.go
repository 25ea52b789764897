package match

type Player struct {
	Identity
	Imposter bool `json:"imposter"`
	// Acted is reset at the start of every round
	Acted bool `json:"acted"`
}

// Roster keeps joined players in insertion order. It is not safe for concurrent use,
// the owning Session guards it.
type Roster struct {
	capacity int
	order    []int64
	players  map[int64]*Player
}

func NewRoster(capacity int) *Roster {
	return &Roster{capacity: capacity, players: map[int64]*Player{}}
}

// Add fails on a duplicate id or a full roster.
func (r *Roster) Add(identity Identity) bool {
	if r.Has(identity.UserID) || r.Full() {
		return false
	}

	r.order = append(r.order, identity.UserID)
	r.players[identity.UserID] = &Player{Identity: identity}

	return true
}

// Remove is idempotent, the second return value reports whether the player was present.
func (r *Roster) Remove(userID int64) (Player, bool) {
	p, ok := r.players[userID]
	if !ok {
		return Player{}, false
	}

	delete(r.players, userID)
	for i, id := range r.order {
		if id == userID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return *p, true
}

func (r *Roster) Has(userID int64) bool {
	_, ok := r.players[userID]
	return ok
}

func (r *Roster) Get(userID int64) (Player, bool) {
	p, ok := r.players[userID]
	if !ok {
		return Player{}, false
	}

	return *p, true
}

func (r *Roster) Len() int {
	return len(r.order)
}

func (r *Roster) Full() bool {
	return len(r.order) >= r.capacity
}

func (r *Roster) IDs() []int64 {
	ids := make([]int64, len(r.order))
	copy(ids, r.order)
	return ids
}

func (r *Roster) Players() []Player {
	players := make([]Player, 0, len(r.order))
	for _, id := range r.order {
		players = append(players, *r.players[id])
	}

	return players
}

func (r *Roster) Count() (imposters, crew int) {
	for _, p := range r.players {
		if p.Imposter {
			imposters++
		} else {
			crew++
		}
	}

	return imposters, crew
}

func (r *Roster) setImposter(userID int64) {
	if p, ok := r.players[userID]; ok {
		p.Imposter = true
	}
}

func (r *Roster) markActed(userIDs ...int64) {
	for _, id := range userIDs {
		if p, ok := r.players[id]; ok {
			p.Acted = true
		}
	}
}

func (r *Roster) resetActed() {
	for _, p := range r.players {
		p.Acted = false
	}
}
