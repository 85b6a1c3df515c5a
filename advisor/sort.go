package advisor

import "sort"

// Sort orders advisors by declared priority: ordered advisors ascending
// by order value, then all unordered advisors in their original relative
// order. The sort is stable, so equal priorities keep discovery order.
// The input slice is not modified.
func Sort(advisors []*Advisor) []*Advisor {
	out := make([]*Advisor, len(advisors))
	copy(out, advisors)
	sort.SliceStable(out, func(i, j int) bool {
		oi, iOrdered := out[i].Order()
		oj, jOrdered := out[j].Order()
		switch {
		case iOrdered && jOrdered:
			return oi < oj
		case iOrdered:
			return true
		default:
			return false
		}
	})
	return out
}
