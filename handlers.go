package wsbridge

// Handlers is the caller-supplied set of lifecycle callbacks shared by
// every connection a factory creates. All slots are optional: a missing
// slot falls back to a debug-level no-op naming the event.
//
// The set must not be mutated after being handed to a factory. Each handler
// must be safe to invoke concurrently for distinct connections; within a
// single connection the engine delivers events one at a time.
type Handlers struct {
	OnConnect func(s Session)
	OnError   func(s Session, err error)
	OnText    func(s Session, text string)
	OnBinary  func(s Session, data []byte)
	OnClose   func(s Session, code int, reason string)
}
