package converter

import (
	"dispatch-service/src/internal/entity"
	"dispatch-service/src/internal/model"
)

func LedgerToStatement(actorID string, balance int64, entries []entity.LedgerEntry) *model.StatementResponse {
	out := make([]model.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.LedgerEntryResponse{
			EntryType:     e.EntryType,
			Amount:        e.Amount,
			BalanceBefore: e.BalanceBefore,
			BalanceAfter:  e.BalanceAfter,
			OrderID:       e.OrderID.String,
			ReferenceType: e.ReferenceType.String,
			ReferenceID:   e.ReferenceID.String,
			Notes:         e.Notes.String,
			CreatedAt:     e.CreatedAt,
		})
	}
	return &model.StatementResponse{
		ActorID: actorID,
		Balance: balance,
		Entries: out,
	}
}
