package reconcile

import "iter"

// GroupConsecutive yields each maximal run of consecutive items sharing a key.
// The input must already be ordered so that equal keys are adjacent; a key
// that reappears after a different one starts a new group.
func GroupConsecutive[T any, K comparable](seq iter.Seq[T], key func(T) K) iter.Seq2[K, []T] {
	return func(yield func(K, []T) bool) {
		var (
			current K
			group   []T
		)
		for item := range seq {
			k := key(item)
			if len(group) > 0 && k != current {
				if !yield(current, group) {
					return
				}
				group = nil
			}
			current = k
			group = append(group, item)
		}
		if len(group) > 0 {
			yield(current, group)
		}
	}
}
