package models

// Action names carried by ActionTurn. The transport decodes its native
// postback payload into exactly one of these before calling the core.
const (
	ActionStartRecord    = "start_record"
	ActionSelectCategory = "select_category"
	ActionDeleteLast     = "delete_last"
	ActionDeleteByID     = "delete_by_id"
	ActionClearAll       = "clear_all"
	ActionQueryRecent    = "query_recent"
	ActionSettle         = "settle"
	ActionCancel         = "cancel"
)

// TextTurn is a free-text message from an actor.
type TextTurn struct {
	GroupKey   string
	ActorID    string
	ActorLabel string
	Text       string
}

// ActionTurn is a structured action (menu tap, postback) from an actor.
// Params carries the action's flat key/value parameters, decoded once at
// the transport boundary; the core never re-parses raw strings.
type ActionTurn struct {
	GroupKey   string
	ActorID    string
	ActorLabel string
	Action     string
	Params     map[string]string
}

// Menu names an opaque menu payload the transport should render. The
// core only decides that a menu is shown, never how it looks.
type Menu string

const (
	MenuNone     Menu = ""
	MenuMain     Menu = "main"
	MenuCategory Menu = "category"
)

// Reply is one outbound message produced by a turn. Either or both of
// Text and Menu may be set.
type Reply struct {
	Text string
	Menu Menu
}

// TextReply builds a plain text reply.
func TextReply(text string) Reply { return Reply{Text: text} }

// MenuReply builds a menu-only reply.
func MenuReply(menu Menu) Reply { return Reply{Menu: menu} }
