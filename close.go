package squarelist

// Close releases the backing store and returns its bytes to the memory
// budget. The list is empty afterwards; inserting into it again allocates a
// new store.
//
// Close implements io.Closer and never fails.
func (s *SquareList[T]) Close() error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rc.ReleaseMemory(s.storeBytes(len(s.store)))
	s.store = nil
	s.maxDepth = 0
	s.size = 0
	s.columns = nil
	s.free.clear()
	return nil
}
