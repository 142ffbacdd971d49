package service

import (
	"context"

	"github.com/example/campusreports/backend/internal/apperr"
	"github.com/example/campusreports/backend/internal/models"
	"github.com/example/campusreports/backend/internal/repository"
)

const (
	// GenesisComment is the comment of the entry written together with a new report.
	GenesisComment = "initial report record"
	// SystemAuthor signs the genesis entry when the reporter stayed anonymous.
	SystemAuthor = "System"
)

const (
	ledgerKindGenesis    = "genesis"
	ledgerKindTransition = "transition"
	ledgerKindNote       = "note"
)

// appendEntry is the single write path into the ledger. Callers pass the store
// bound to their unit of work so the entry commits or rolls back with it.
func appendEntry(ctx context.Context, tx repository.Store, entry *models.Update) error {
	if err := tx.Updates().Append(ctx, entry); err != nil {
		return apperr.Internal(err, "failed to append report history")
	}
	return nil
}

func ledgerKind(entry models.Update) string {
	switch {
	case entry.StatusNew == nil:
		return ledgerKindNote
	case entry.StatusOld == nil:
		return ledgerKindGenesis
	default:
		return ledgerKindTransition
	}
}

func transitionComment(from, to models.ReportStatus) string {
	return "status changed from " + string(from) + " to " + string(to)
}
