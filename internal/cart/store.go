package cart

// Store maps item ids to positive quantities. It is not safe for concurrent
// use; the owning session serializes access.
type Store struct {
	quantities map[string]int
	order      []string
	revision   uint64
}

func New() *Store {
	return &Store{quantities: make(map[string]int)}
}

// Increment adds one of id and returns the new quantity.
func (s *Store) Increment(id string) int {
	q, ok := s.quantities[id]
	if !ok {
		s.order = append(s.order, id)
	}
	q++
	s.quantities[id] = q
	s.revision++
	return q
}

// Decrement removes one of id. Reaching zero removes the key; decrementing
// an absent id does nothing.
func (s *Store) Decrement(id string) int {
	q, ok := s.quantities[id]
	if !ok {
		return 0
	}
	if q <= 1 {
		s.Remove(id)
		return 0
	}
	q--
	s.quantities[id] = q
	s.revision++
	return q
}

func (s *Store) Remove(id string) {
	if _, ok := s.quantities[id]; !ok {
		return
	}
	delete(s.quantities, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.revision++
}

func (s *Store) Clear() {
	if len(s.quantities) == 0 {
		return
	}
	s.quantities = make(map[string]int)
	s.order = nil
	s.revision++
}

func (s *Store) Quantity(id string) int {
	return s.quantities[id]
}

// Len is the number of distinct ids held.
func (s *Store) Len() int {
	return len(s.quantities)
}

// Total is the quantity over every held id, known to a catalog or not.
func (s *Store) Total() int {
	n := 0
	for _, q := range s.quantities {
		n += q
	}
	return n
}

// IDs returns the held ids in first-add order.
func (s *Store) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Revision changes on every mutation that alters the contents.
func (s *Store) Revision() uint64 {
	return s.revision
}
