// Package lane implements deterministic round-robin lane assignment. A lane is
// a routing bucket computed from an item's position, independent of which
// execution context eventually runs the item.
package lane

// Assign maps a 0-based item index to a lane in [0, laneCount).
// Requires laneCount >= 1; violating this is a programming error on the
// caller's side, not a runtime condition.
func Assign(index, laneCount int) int {
	return index % laneCount
}

// Indexes returns the ordered item indexes routed to the given lane for a
// sequence of total items. The result is empty when the lane receives no items.
func Indexes(lane, laneCount, total int) []int {
	var indexes []int
	for i := lane; i < total; i += laneCount {
		indexes = append(indexes, i)
	}
	return indexes
}
