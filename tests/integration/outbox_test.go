package integration

import (
	"context"
	"testing"
	"time"

	"github.com/prospectly/coinledger/internal/domain"
	"github.com/prospectly/coinledger/internal/usecase"
	"github.com/prospectly/coinledger/tests/testutil"
)

func TestOutboxEventsWrittenWithStateChanges(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	cl := newCoinLedger(t, time.Hour)

	account, err := cl.walletUC.CreateAccount(ctx, "user-"+testutil.GenerateID(), 50)
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	res, err := cl.reservationUC.CreateReservation(ctx, usecase.CreateReservationInput{
		AccountID:   account.ID,
		Amount:      25,
		Kind:        domain.EntryKindSpend,
		Description: "Generate deck",
	})
	if err != nil {
		t.Fatalf("failed to create reservation: %v", err)
	}
	if err := cl.reservationUC.CompleteReservation(ctx, res.ID); err != nil {
		t.Fatalf("failed to complete reservation: %v", err)
	}

	events, err := cl.outboxRepo.GetUnpublished(ctx, 100)
	if err != nil {
		t.Fatalf("failed to read outbox: %v", err)
	}

	byType := make(map[string][]*domain.OutboxEvent)
	for _, e := range events {
		byType[e.EventType] = append(byType[e.EventType], e)
	}

	var created *domain.OutboxEvent
	for _, e := range byType[domain.EventTypeReservationCreated] {
		if e.AggregateID == res.ID {
			created = e
		}
	}
	if created == nil {
		t.Fatalf("expected a %s event for the hold", domain.EventTypeReservationCreated)
	}
	if created.AggregateType != domain.AggregateTypeReservation {
		t.Fatalf("unexpected aggregate type %s", created.AggregateType)
	}
	if created.Payload["account_id"] != account.ID {
		t.Fatalf("expected account id in payload, got %+v", created.Payload)
	}

	var completed bool
	for _, e := range byType[domain.EventTypeReservationCompleted] {
		if e.AggregateID == res.ID {
			completed = true
		}
	}
	if !completed {
		t.Fatalf("expected a %s event for the commit", domain.EventTypeReservationCompleted)
	}

	// Marking published removes the event from the drain queue.
	if err := cl.outboxRepo.MarkPublished(ctx, created.ID, time.Now().UTC()); err != nil {
		t.Fatalf("failed to mark published: %v", err)
	}

	remaining, err := cl.outboxRepo.GetUnpublished(ctx, 100)
	if err != nil {
		t.Fatalf("failed to re-read outbox: %v", err)
	}
	for _, e := range remaining {
		if e.ID == created.ID {
			t.Fatal("expected published event to leave the queue")
		}
	}
}
