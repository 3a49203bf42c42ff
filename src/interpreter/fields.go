package interpreter

// DecisionField is one entry in the priority-ordered scan over a parsed
// structured reply, expressed as an ordered list of (field, polarity)
// pairs rather than subclassed per-field logic. When Name is present in the
// reply as a bool, the verdict is Blocked = (value == BlockedWhen); the
// first field found in the reply, in list order, wins.
type DecisionField struct {
	Name        string
	BlockedWhen bool
}

// DefaultDecisionFields is the built-in priority order: the
// explicit blocked/rejected/flagged/error group first, then the
// success/authorized/valid group (whose "false" value also means
// blocked, i.e. BlockedWhen=false).
var DefaultDecisionFields = []DecisionField{
	{Name: "blocked", BlockedWhen: true},
	{Name: "rejected", BlockedWhen: true},
	{Name: "flagged", BlockedWhen: true},
	{Name: "error", BlockedWhen: true},
	{Name: "success", BlockedWhen: false},
	{Name: "authorized", BlockedWhen: false},
	{Name: "valid", BlockedWhen: false},
}
