package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"

	"github.com/google/uuid"
)

// ChangeNotifier pushes ledger change events to connected dashboard clients.
// *websocket.Hub satisfies it.
type ChangeNotifier interface {
	Notify(event websocket.Event)
}

// notifyLedgerChange publishes a change event for the dashboard. A nil hub
// means notifications are disabled and the call is a no-op.
func notifyLedgerChange(hub ChangeNotifier, companyID uuid.UUID, eventType string, entityID uuid.UUID) {
	if hub == nil {
		return
	}
	hub.Notify(websocket.Event{
		Type:      eventType,
		CompanyID: companyID.String(),
		EntityID:  entityID.String(),
	})
}

// writeAuditLog records an audit entry. Best effort: a failed write never
// fails the business operation it describes.
func writeAuditLog(ctx context.Context, repo repository.AuditRepository, userID, action, entityID, entityName string, details interface{}) {
	detailsJSON, _ := json.Marshal(details)

	entry := model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}

	if userID != "" {
		parsed, err := uuid.Parse(userID)
		if err == nil {
			entry.UserID = &parsed
		}
	}

	_ = repo.Log(ctx, &entry)
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date format (expected YYYY-MM-DD): %w", field, err)
	}
	return t, nil
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
