package optimistic

import "slices"

func committedCreate[T any](placeholderID string, created T, id func(T) string) Result[T] {
	return Result[T]{
		State:  Committed,
		Entity: created,
		apply: func(current []T) []T {
			i := slices.IndexFunc(current, func(v T) bool { return id(v) == placeholderID })
			if i < 0 {
				return current
			}
			next := slices.Clone(current)
			next[i] = created
			return next
		},
	}
}

func rolledBackCreate[T any](placeholder T, err error, id func(T) string) Result[T] {
	placeholderID := id(placeholder)
	return Result[T]{
		State:  RolledBack,
		Entity: placeholder,
		Err:    err,
		apply: func(current []T) []T {
			return without(current, func(v T) bool { return id(v) == placeholderID })
		},
	}
}

func committedDelete[T any](removed T, ids []string, id func(T) string) Result[T] {
	return Result[T]{
		State:  Committed,
		Entity: removed,
		apply: func(current []T) []T {
			return without(current, func(v T) bool { return slices.Contains(ids, id(v)) })
		},
	}
}

// rolledBackDelete restores the entry at its original position unless the
// owner's list already holds it
func rolledBackDelete[T any](restored T, index int, ids []string, err error, id func(T) string) Result[T] {
	return Result[T]{
		State:  RolledBack,
		Entity: restored,
		Err:    err,
		apply: func(current []T) []T {
			if slices.ContainsFunc(current, func(v T) bool { return slices.Contains(ids, id(v)) }) {
				return current
			}
			return slices.Insert(slices.Clone(current), min(index, len(current)), restored)
		},
	}
}

func without[T any](list []T, drop func(T) bool) []T {
	if !slices.ContainsFunc(list, drop) {
		return list
	}
	return slices.DeleteFunc(slices.Clone(list), drop)
}

func appended[T any](list []T, v T) []T {
	next := make([]T, 0, len(list)+1)
	next = append(next, list...)
	return append(next, v)
}

func removedAt[T any](list []T, i int) []T {
	return slices.Delete(slices.Clone(list), i, i+1)
}
