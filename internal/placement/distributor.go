package placement

import (
	"slices"

	"go.uber.org/zap"
)

// DistributePool splits students across the active rooms, keeping every
// class level spread evenly. Repeated student ids are skipped. The split is
// reproducible for a given seed and input order. With no active rooms the
// result is empty; with no students every active room gets an empty pool.
func (p *Planner) DistributePool(students []Student, rooms []Room, seed int64) []RoomPool {
	var active []Room
	for _, r := range rooms {
		if r.Active {
			active = append(active, r)
		}
	}
	if len(active) == 0 {
		return nil
	}
	pools := make([]RoomPool, len(active))
	for i, r := range active {
		pools[i].RoomID = r.ID
	}

	unique := p.dedupe(students)
	if len(unique) == 0 {
		return pools
	}

	n := len(active)
	targets := make([]int, n)
	for i := range targets {
		targets[i] = len(unique) / n
		if i < len(unique)%n {
			targets[i]++
		}
	}
	has := make([]map[string]bool, n)
	for i := range has {
		has[i] = make(map[string]bool)
	}
	add := func(room int, s Student) {
		pools[room].Students = append(pools[room].Students, s)
		has[room][s.ID] = true
	}

	byLevel := make(map[int][]Student)
	for _, s := range unique {
		level, _ := ClassLevel(s.ClassLabel)
		byLevel[level] = append(byLevel[level], s)
	}
	levels := make([]int, 0, len(byLevel))
	for l := range byLevel {
		levels = append(levels, l)
	}
	slices.Sort(levels)

	for _, level := range levels {
		group := byLevel[level]
		Shuffle(NewLCG(seed+int64(level)), group)

		per := len(group) / n
		next := 0
		for room := range n {
			for _, s := range group[next : next+per] {
				add(room, s)
			}
			next += per
		}
		for _, s := range group[next:] {
			room := leastFilled(pools, has, s.ID, targets, true)
			if room < 0 {
				room = leastFilled(pools, has, s.ID, targets, false)
			}
			if room < 0 {
				p.logger.Warn("student fits no room", zap.String("student_id", s.ID))
				continue
			}
			add(room, s)
		}
	}
	return pools
}

func (p *Planner) dedupe(students []Student) []Student {
	seen := make(map[string]bool, len(students))
	out := make([]Student, 0, len(students))
	for _, s := range students {
		if seen[s.ID] {
			p.logger.Warn("duplicate student skipped", zap.String("student_id", s.ID))
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out
}

// leastFilled returns the emptiest room not holding id, optionally only
// among rooms still under target. Ties go to the earlier room.
func leastFilled(pools []RoomPool, has []map[string]bool, id string, targets []int, underTarget bool) int {
	best := -1
	for i := range pools {
		if has[i][id] {
			continue
		}
		if underTarget && len(pools[i].Students) >= targets[i] {
			continue
		}
		if best < 0 || len(pools[i].Students) < len(pools[best].Students) {
			best = i
		}
	}
	return best
}
