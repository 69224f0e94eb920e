package global

// reset clears the binding so each test starts unbound.
func reset() { slot.Store(nil) }
