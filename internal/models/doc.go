// Package models defines the core domain types for tally.
//
// # Entities
//
//   - Entry: one recorded expense, immutable once written
//   - ActorBalance: an actor's net position within a group (derived)
//   - Transfer: one settlement payment instruction (derived)
//
// # Conversation types
//
//   - TextTurn / ActionTurn: the two inbound event shapes handed over by
//     the messaging transport
//   - Reply: one outbound message; a turn may yield zero or more
//
// # Design notes
//
// Entries are append-only: "editing" an expense is delete + re-insert.
// The actor's display label is captured at insert time and never
// re-resolved, so renaming a participant does not rewrite history.
// Group keys are opaque strings; the transport collapses direct chats,
// rooms and named groups into a single key before events reach the core.
package models
