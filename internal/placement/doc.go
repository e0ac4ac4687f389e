// Package placement assigns students to exam seats.
//
// A run distributes students over the active rooms, places each room by
// walking its seats in priority order under three constraint tiers of
// decreasing strictness, moves pinned students onto their pinned seats,
// optionally refines each room with a greedy or genetic optimizer and
// reports the outcome. Every random choice is driven by a seeded LCG, so a
// run is reproducible for the same input order and seed.
//
// Seats of a room live in a single Layout arena; the flat seat plan, the
// row/column matrix and the occupant roster are views over it.
package placement
