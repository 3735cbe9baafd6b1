// Package bot classifies inbound conversation events into intents and
// routes them to the ledger, the settlement engine and the pending-state
// tracker. It is transport-agnostic: the messaging layer decodes its
// wire format into models.TextTurn / models.ActionTurn and renders the
// returned replies however it likes.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/kotan/tally/internal/metrics"
	"github.com/kotan/tally/internal/models"
	"github.com/kotan/tally/internal/settle"
	"github.com/kotan/tally/internal/storage"
	"github.com/kotan/tally/internal/tracker"
)

// DefaultRecentLimit caps how many entries query_recent renders.
const DefaultRecentLimit = 5

const (
	msgUnknown     = "Unrecognized command."
	msgStoreDown   = "Something went wrong saving that, please try again."
	msgNotANumber  = "Please enter a number for the amount."
	msgNotPositive = "The amount must be greater than zero, please enter it again."
)

// Bot is the command dispatcher. It owns no durable state; everything it
// mutates lives in the store or the tracker.
type Bot struct {
	store       storage.Store
	tracker     *tracker.Tracker
	metrics     *metrics.Metrics
	recentLimit int

	// turn serialization per (group, actor); see lockTurn.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Bot over the given store. recentLimit <= 0 falls back to
// DefaultRecentLimit.
func New(store storage.Store, m *metrics.Metrics, recentLimit int) *Bot {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &Bot{
		store:       store,
		tracker:     tracker.New(),
		metrics:     m,
		recentLimit: recentLimit,
		locks:       make(map[string]*sync.Mutex),
	}
}

// lockTurn serializes turns for one (group, actor) pair so a pending
// category can never be resolved by two concurrent amount turns, and
// "delete last" cannot interleave with an append for the same actor.
// Turns for different actors or groups run in parallel.
func (b *Bot) lockTurn(groupKey, actorID string) func() {
	k := groupKey + "\x00" + actorID
	b.mu.Lock()
	l, ok := b.locks[k]
	if !ok {
		l = &sync.Mutex{}
		b.locks[k] = l
	}
	b.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// HandleText processes a free-text turn. When the actor has a pending
// category the text is interpreted as the amount; otherwise the main
// menu is shown.
func (b *Bot) HandleText(ctx context.Context, turn models.TextTurn) []models.Reply {
	b.metrics.EventsTotal.WithLabelValues("text").Inc()
	unlock := b.lockTurn(turn.GroupKey, turn.ActorID)
	defer unlock()

	text := strings.TrimSpace(turn.Text)

	if strings.EqualFold(text, "cancel") {
		return b.cancel(turn.GroupKey, turn.ActorID)
	}

	category, ok := b.tracker.Pending(turn.GroupKey, turn.ActorID)
	if !ok {
		b.metrics.IntentsTotal.WithLabelValues("menu").Inc()
		return []models.Reply{models.MenuReply(models.MenuMain)}
	}

	amount, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// Stay in the awaiting state and re-prompt.
		return []models.Reply{models.TextReply(msgNotANumber)}
	}
	if amount <= 0 {
		return []models.Reply{models.TextReply(msgNotPositive)}
	}

	entry, err := b.store.Append(ctx, turn.GroupKey, turn.ActorID, turn.ActorLabel, category, amount)
	if err != nil {
		// The pending category survives a store failure so the actor
		// can just resend the amount once the store is back.
		slog.Error("append failed", "group_key", turn.GroupKey, "actor_id", turn.ActorID, "error", err)
		return []models.Reply{models.TextReply(msgStoreDown)}
	}

	b.tracker.Clear(turn.GroupKey, turn.ActorID)
	b.metrics.EntriesCreated.Inc()
	slog.Info("entry recorded",
		"group_key", turn.GroupKey,
		"actor_id", turn.ActorID,
		"entry_id", entry.ID,
		"category", entry.Category,
		"amount", entry.Amount,
	)

	return []models.Reply{
		models.TextReply(fmt.Sprintf("Recorded: %s $%d (%s)", entry.Category, entry.Amount, entry.ActorLabel)),
		models.MenuReply(models.MenuMain),
	}
}

// HandleAction processes a structured action turn.
func (b *Bot) HandleAction(ctx context.Context, turn models.ActionTurn) []models.Reply {
	b.metrics.EventsTotal.WithLabelValues("action").Inc()
	unlock := b.lockTurn(turn.GroupKey, turn.ActorID)
	defer unlock()

	switch turn.Action {
	case models.ActionStartRecord:
		b.metrics.IntentsTotal.WithLabelValues(models.ActionStartRecord).Inc()
		return []models.Reply{models.MenuReply(models.MenuCategory)}

	case models.ActionSelectCategory:
		b.metrics.IntentsTotal.WithLabelValues(models.ActionSelectCategory).Inc()
		return b.selectCategory(turn)

	case models.ActionDeleteLast:
		b.metrics.IntentsTotal.WithLabelValues(models.ActionDeleteLast).Inc()
		return b.deleteLast(ctx, turn)

	case models.ActionDeleteByID:
		b.metrics.IntentsTotal.WithLabelValues(models.ActionDeleteByID).Inc()
		return b.deleteByID(ctx, turn)

	case models.ActionClearAll:
		b.metrics.IntentsTotal.WithLabelValues(models.ActionClearAll).Inc()
		return b.clearAll(ctx, turn)

	case models.ActionQueryRecent:
		b.metrics.IntentsTotal.WithLabelValues(models.ActionQueryRecent).Inc()
		return b.queryRecent(ctx, turn)

	case models.ActionSettle:
		b.metrics.IntentsTotal.WithLabelValues(models.ActionSettle).Inc()
		return b.settle(ctx, turn)

	case models.ActionCancel:
		b.metrics.IntentsTotal.WithLabelValues(models.ActionCancel).Inc()
		return b.cancel(turn.GroupKey, turn.ActorID)

	default:
		b.metrics.IntentsTotal.WithLabelValues("unknown").Inc()
		slog.Warn("unknown action", "action", turn.Action, "group_key", turn.GroupKey, "actor_id", turn.ActorID)
		return []models.Reply{models.TextReply(msgUnknown)}
	}
}

func (b *Bot) selectCategory(turn models.ActionTurn) []models.Reply {
	category := strings.TrimSpace(turn.Params["category"])
	if category == "" {
		return []models.Reply{models.TextReply("Invalid category, please pick again.")}
	}

	replaced, hadPending := b.tracker.Select(turn.GroupKey, turn.ActorID, category)

	var replies []models.Reply
	if hadPending {
		replies = append(replies, models.TextReply(
			fmt.Sprintf("Discarded the unfinished %q entry.", replaced)))
	}
	replies = append(replies, models.TextReply(
		fmt.Sprintf("You picked %q. Enter the amount (a whole number).", category)))
	return replies
}

func (b *Bot) deleteLast(ctx context.Context, turn models.ActionTurn) []models.Reply {
	deleted, err := b.store.DeleteLast(ctx, turn.GroupKey, turn.ActorID)
	if err != nil {
		slog.Error("delete last failed", "group_key", turn.GroupKey, "actor_id", turn.ActorID, "error", err)
		return []models.Reply{models.TextReply(msgStoreDown)}
	}
	if !deleted {
		return []models.Reply{
			models.TextReply("Nothing to delete."),
			models.MenuReply(models.MenuMain),
		}
	}
	return []models.Reply{
		models.TextReply("Deleted your latest entry."),
		models.MenuReply(models.MenuMain),
	}
}

func (b *Bot) deleteByID(ctx context.Context, turn models.ActionTurn) []models.Reply {
	raw := turn.Params["id"]
	// Digits only; ParseUint rejects signs, spaces and hex noise.
	id, err := strconv.ParseUint(raw, 10, 63)
	if err != nil {
		return []models.Reply{models.TextReply("That doesn't look like an entry id.")}
	}

	deleted, err := b.store.Delete(ctx, int64(id))
	if err != nil {
		slog.Error("delete by id failed", "entry_id", id, "error", err)
		return []models.Reply{models.TextReply(msgStoreDown)}
	}
	if !deleted {
		return []models.Reply{models.TextReply(fmt.Sprintf("No entry #%d to delete.", id))}
	}
	return []models.Reply{
		models.TextReply(fmt.Sprintf("Deleted entry #%d.", id)),
		models.MenuReply(models.MenuMain),
	}
}

func (b *Bot) clearAll(ctx context.Context, turn models.ActionTurn) []models.Reply {
	if err := b.store.Clear(ctx, turn.GroupKey); err != nil {
		slog.Error("clear failed", "group_key", turn.GroupKey, "error", err)
		return []models.Reply{models.TextReply(msgStoreDown)}
	}
	slog.Info("group cleared", "group_key", turn.GroupKey, "actor_id", turn.ActorID)
	return []models.Reply{
		models.TextReply("Cleared all entries for this group."),
		models.MenuReply(models.MenuMain),
	}
}

func (b *Bot) queryRecent(ctx context.Context, turn models.ActionTurn) []models.Reply {
	entries, err := b.store.Recent(ctx, turn.GroupKey, turn.ActorID, b.recentLimit)
	if err != nil {
		slog.Error("recent query failed", "group_key", turn.GroupKey, "actor_id", turn.ActorID, "error", err)
		return []models.Reply{models.TextReply(msgStoreDown)}
	}

	if len(entries) == 0 {
		return []models.Reply{
			models.TextReply("No entries yet."),
			models.MenuReply(models.MenuMain),
		}
	}

	var sb strings.Builder
	sb.WriteString("Recent entries:")
	for _, e := range entries {
		fmt.Fprintf(&sb, "\n#%d %s - $%d", e.ID, e.Category, e.Amount)
	}
	return []models.Reply{
		models.TextReply(sb.String()),
		models.MenuReply(models.MenuMain),
	}
}

func (b *Bot) settle(ctx context.Context, turn models.ActionTurn) []models.Reply {
	totals, err := b.store.AggregateByActor(ctx, turn.GroupKey)
	if err != nil {
		slog.Error("aggregate failed", "group_key", turn.GroupKey, "error", err)
		return []models.Reply{models.TextReply(msgStoreDown)}
	}

	b.metrics.SettleRuns.Inc()

	if len(totals) == 0 {
		return []models.Reply{
			models.TextReply("No entries to settle."),
			models.MenuReply(models.MenuMain),
		}
	}

	balances := settle.EqualSplitBalances(totals)
	transfers := settle.Settle(balances)
	slog.Info("settlement computed",
		"group_key", turn.GroupKey,
		"participants", len(balances),
		"transfers", len(transfers),
	)

	return []models.Reply{
		models.TextReply(renderSettlement(balances, totals, transfers)),
		models.MenuReply(models.MenuMain),
	}
}

func (b *Bot) cancel(groupKey, actorID string) []models.Reply {
	category, ok := b.tracker.Pending(groupKey, actorID)
	b.tracker.Clear(groupKey, actorID)

	var replies []models.Reply
	if ok {
		replies = append(replies, models.TextReply(
			fmt.Sprintf("Discarded the unfinished %q entry.", category)))
	}
	replies = append(replies, models.MenuReply(models.MenuMain))
	return replies
}

// renderSettlement formats per-actor totals followed by the transfer
// plan. Balances arrive sorted by actor ID, so output is stable.
func renderSettlement(balances []models.ActorBalance, totals map[string]models.ActorTotal, transfers []models.Transfer) string {
	var sb strings.Builder
	sb.WriteString("Totals:")
	for _, bal := range balances {
		fmt.Fprintf(&sb, "\n%s paid $%d", bal.ActorLabel, totals[bal.ActorID].Total)
	}

	if len(transfers) == 0 {
		sb.WriteString("\nAll settled up!")
		return sb.String()
	}

	sb.WriteString("\nTo settle:")
	for _, tr := range transfers {
		fmt.Fprintf(&sb, "\n%s pays %s $%s", tr.FromLabel, tr.ToLabel, formatAmount(tr.Amount))
	}
	return sb.String()
}

// formatAmount trims the trailing ".00" off whole-number transfer
// amounts so the common equal-split case reads cleanly.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	return strings.TrimSuffix(s, ".00")
}
