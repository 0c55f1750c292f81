package catalog

type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusReserved  Status = "RESERVED" // forward-compat marker, no flow uses it yet
	StatusSold      Status = "SOLD"
)

var validNext = map[Status]map[Status]bool{
	StatusAvailable: {StatusReserved: true, StatusSold: true},
	StatusReserved:  {StatusSold: true},
	StatusSold:      {},
}

// CanTransition reports whether a listing may move from one lifecycle
// state to another. SOLD is terminal.
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
