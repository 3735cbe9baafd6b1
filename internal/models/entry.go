package models

// Entry represents one recorded expense in a group's ledger.
type Entry struct {
	// ID is assigned by the store at insert time. IDs are monotonically
	// increasing and never reused, so "last entry" is always defined by
	// ID ordering rather than wall-clock time.
	ID int64

	// GroupKey identifies the settlement scope (direct chat, room or
	// named group, collapsed to one opaque string by the transport).
	GroupKey string

	// ActorID is the participant who paid the expense.
	ActorID string

	// ActorLabel is the display name captured at insert time.
	ActorLabel string

	// Category is a short label chosen during the conversation flow.
	Category string

	// Amount is a strictly positive integer in whole currency units.
	Amount int64
}

// ActorBalance is an actor's net position within a group after an
// equal split: positive means the actor is owed money, negative means
// the actor owes.
type ActorBalance struct {
	ActorID    string
	ActorLabel string
	Net        float64
}

// ActorTotal is the aggregate paid by one actor in a group.
type ActorTotal struct {
	ActorLabel string
	Total      int64
}

// Transfer is one directed settlement payment from a net debtor to a
// net creditor.
type Transfer struct {
	FromID    string
	FromLabel string
	ToID      string
	ToLabel   string
	Amount    float64
}
