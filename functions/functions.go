package functions

// Map applies f to every element of ts and returns the results.
func Map[T, U any](ts []T, f func(T) U) []U {
	us := make([]U, len(ts))
	for i := range ts {
		us[i] = f(ts[i])
	}
	return us
}

// Set is a membership set. The zero value is not usable; build one with NewSet.
type Set[T comparable] struct {
	items map[T]struct{}
	order []T
}

// NewSet builds a set from vals, dropping duplicates and keeping first-seen order.
func NewSet[T comparable](vals ...T) *Set[T] {
	s := &Set[T]{items: make(map[T]struct{}, len(vals))}
	for _, v := range vals {
		if _, ok := s.items[v]; ok {
			continue
		}
		s.items[v] = struct{}{}
		s.order = append(s.order, v)
	}
	return s
}

func (s *Set[T]) Has(v T) bool {
	_, ok := s.items[v]
	return ok
}

func (s *Set[T]) Len() int {
	return len(s.order)
}

// Values returns the members in first-seen order.
func (s *Set[T]) Values() []T {
	out := make([]T, len(s.order))
	copy(out, s.order)
	return out
}
