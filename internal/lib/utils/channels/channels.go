package chans

// TrySend sends an object to a channel
// without blocking. Reports whether the
// object was delivered.
//
// If channel is nil, does nothing.
func TrySend[T any](ch chan<- T, s T) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- s:
		return true
	default:
		return false
	}
}

// Replace puts s into a buffered channel of size 1,
// dropping the value not yet received.
func Replace[T any](ch chan T, s T) {
	if ch == nil {
		return
	}
	for {
		if TrySend[T](ch, s) {
			return
		}
		select {
		case <-ch:
		default:
		}
	}
}
