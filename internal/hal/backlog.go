package hal

// backlog is the durable, ordered record of every endpoint registered
// through the facade. Entries are only ever appended: unregistration is
// a runtime-only override of the live server, so a stop/start cycle
// replays the full history in registration order.
type backlog struct {
	entries []Endpoint
}

const backlogInitialCap = 4

func newBacklog() *backlog {
	return &backlog{entries: make([]Endpoint, 0, backlogInitialCap)}
}

// append records an endpoint. The backing array grows by doubling.
func (b *backlog) append(ep Endpoint) {
	b.entries = append(b.entries, ep)
}

// forEach visits entries in insertion order until the visitor returns
// false.
func (b *backlog) forEach(visit func(Endpoint) bool) {
	for _, ep := range b.entries {
		if !visit(ep) {
			return
		}
	}
}

func (b *backlog) len() int {
	return len(b.entries)
}
