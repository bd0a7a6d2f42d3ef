package rankingdomain

import (
	"sort"

	"github.com/google/uuid"
)

// Movement tags how a player's position changed during a simulation run.
type Movement string

const (
	MovementStatic     Movement = "static"
	MovementRise       Movement = "rise"
	MovementDrop       Movement = "drop"
	MovementPenalty    Movement = "penalty"
	MovementDefenseWin Movement = "defense_win"
)

// Simulator replays challenge outcomes against one ranking's ladder, entirely
// in memory. It is seeded from a baseline position → player mapping and never
// raises: out-of-range input degrades to a no-op so stale or partial
// baselines are tolerated. Every insert clamps its target index, so the
// sequence stays dense with positions 1..N no matter the call order.
type Simulator struct {
	order    []uuid.UUID
	baseline map[uuid.UUID]int
	movement map[uuid.UUID]Movement
}

// NewSimulator builds a simulator from a 1-based position → player baseline.
// Positions are taken in ascending order.
func NewSimulator(baseline map[int]uuid.UUID) *Simulator {
	positions := make([]int, 0, len(baseline))
	for pos := range baseline {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	s := &Simulator{
		order:    make([]uuid.UUID, 0, len(baseline)),
		baseline: make(map[uuid.UUID]int, len(baseline)),
		movement: make(map[uuid.UUID]Movement, len(baseline)),
	}
	for _, pos := range positions {
		id := baseline[pos]
		s.order = append(s.order, id)
		s.baseline[id] = pos
		s.movement[id] = MovementStatic
	}
	return s
}

// indexOf returns the 0-based index of a player in the current sequence,
// or -1 when absent.
func (s *Simulator) indexOf(id uuid.UUID) int {
	for i, v := range s.order {
		if v == id {
			return i
		}
	}
	return -1
}

func (s *Simulator) remove(idx int) {
	s.order = append(s.order[:idx], s.order[idx+1:]...)
}

// insertAt splices a player in at a 1-based position, clamped to the valid
// range of the current sequence.
func (s *Simulator) insertAt(id uuid.UUID, pos int) {
	if pos < 1 {
		pos = 1
	}
	if pos > len(s.order)+1 {
		pos = len(s.order) + 1
	}
	idx := pos - 1
	s.order = append(s.order, uuid.Nil)
	copy(s.order[idx+1:], s.order[idx:])
	s.order[idx] = id
}

// ApplyVictory moves the challenger onto the challenged player's slot and
// drops the challenged one slot below it. The target is the challenged's
// current position when present, otherwise the supplied baseline, clamped to
// [1, memberCount-1] so the loser can never fall off the bottom.
func (s *Simulator) ApplyVictory(challengerID, challengedID uuid.UUID, challengedBaselinePos int) {
	if len(s.order) < 2 {
		return
	}
	ci := s.indexOf(challengerID)
	di := s.indexOf(challengedID)
	if ci < 0 || di < 0 {
		return
	}

	target := challengedBaselinePos
	if di >= 0 {
		target = di + 1
	}
	if target < 1 {
		target = 1
	}
	if max := len(s.order) - 1; target > max {
		target = max
	}

	// Remove the higher index first so the lower one stays valid.
	if ci > di {
		s.remove(ci)
		s.remove(di)
	} else {
		s.remove(di)
		s.remove(ci)
	}

	s.insertAt(challengerID, target)
	s.insertAt(challengedID, target+1)
	s.movement[challengerID] = MovementRise
	s.movement[challengedID] = MovementDrop
}

// ApplyDefeat drops a losing challenger `distance` slots below its effective
// position, clamped to [1, memberCount].
func (s *Simulator) ApplyDefeat(challengerID uuid.UUID, challengerBaselinePos, distance, memberCount int) {
	idx := s.indexOf(challengerID)
	if idx < 0 {
		return
	}

	base := challengerBaselinePos
	if idx >= 0 {
		base = idx + 1
	}

	target := base + distance
	if target < 1 {
		target = 1
	}
	if target > memberCount {
		target = memberCount
	}

	s.remove(idx)
	s.insertAt(challengerID, target)
	s.movement[challengerID] = MovementDrop
}

// ApplyPenalty pushes a player down by positionsDown slots, bounded by the
// ladder size. Non-positive penalties are ignored.
func (s *Simulator) ApplyPenalty(playerID uuid.UUID, positionsDown, memberCount int) {
	if positionsDown <= 0 {
		return
	}
	idx := s.indexOf(playerID)
	if idx < 0 {
		return
	}

	target := idx + 1 + positionsDown
	if target > memberCount {
		target = memberCount
	}

	s.remove(idx)
	s.insertAt(playerID, target)
	s.movement[playerID] = MovementPenalty
}

// MarkDefenseWin tags a successful title defense. Drop and penalty tags are
// sticky: a defense after an already-recorded fall keeps the fall.
func (s *Simulator) MarkDefenseWin(playerID uuid.UUID) {
	current, ok := s.movement[playerID]
	if !ok {
		return
	}
	if current == MovementDrop || current == MovementPenalty {
		return
	}
	s.movement[playerID] = MovementDefenseWin
}

// Result returns the final dense 1-based position → player mapping.
func (s *Simulator) Result() map[int]uuid.UUID {
	result := make(map[int]uuid.UUID, len(s.order))
	for i, id := range s.order {
		result[i+1] = id
	}
	return result
}

// PositionOf returns a player's current 1-based position, or 0 when the
// player is unknown to the simulator.
func (s *Simulator) PositionOf(playerID uuid.UUID) int {
	return s.indexOf(playerID) + 1
}

// MovementOf returns the movement tag recorded for a player.
func (s *Simulator) MovementOf(playerID uuid.UUID) Movement {
	m, ok := s.movement[playerID]
	if !ok {
		return MovementStatic
	}
	return m
}

// Len returns the current number of players in the sequence.
func (s *Simulator) Len() int {
	return len(s.order)
}
