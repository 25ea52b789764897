package match

// ImposterCount returns how many imposters a game of n players gets, 0 below MinPlayers.
func ImposterCount(n int) int {
	switch {
	case n < MinPlayers:
		return 0
	case n <= 6:
		return 1
	case n <= 9:
		return 2
	case n <= 12:
		return 3
	case n <= 15:
		return 4
	default:
		return 5
	}
}

// AssignRoles shuffles a copy of ids with Fisher-Yates and takes the imposters from the front.
func AssignRoles(ids []int64, rng Rand) []int64 {
	shuffled := make([]int64, len(ids))
	copy(shuffled, ids)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled[:ImposterCount(len(ids))]
}

func PickWord(words []string, rng Rand) string {
	if len(words) == 0 {
		return ""
	}

	return words[rng.Intn(len(words))]
}

// draw removes a uniformly chosen id from pool.
func draw(pool []int64, rng Rand) (int64, []int64) {
	idx := rng.Intn(len(pool))
	id := pool[idx]
	return id, append(pool[:idx], pool[idx+1:]...)
}
