package usecase

import (
	"context"
	"strings"

	"github.com/Mk9397/Expense-Splitter/internal/domain"
)

// AddParticipant appends a participant to the trip and returns its id.
// It fails with domain.ErrTripNotFound when the trip does not exist.
func (uc *LedgerUseCase) AddParticipant(ctx context.Context, tripID, name string) (string, error) {
	const op = "add_participant"

	name = strings.TrimSpace(name)
	if err := domain.ValidateParticipantName(name); err != nil {
		uc.recordError(op, err)
		return "", err
	}

	participant := domain.Participant{ID: uc.idGen.Generate(), Name: name}

	_, err := uc.mutateTrip(ctx, op, tripID, func(t *domain.Trip) (bool, error) {
		t.AddParticipant(participant)
		return true, nil
	})
	if err != nil {
		return "", err
	}

	if uc.metrics != nil {
		uc.metrics.ParticipantsAdded.Inc()
	}
	uc.logger.Debug().Str("trip_id", tripID).Str("participant_id", participant.ID).Msg("participant added")
	uc.publish(ctx, domain.EventTypeParticipantAdded, tripID, participant.ID)

	return participant.ID, nil
}

// DeleteParticipant removes a participant and drops its id from every expense's
// exclusion list. Expenses the participant paid keep the now dangling payer id.
// It returns false when the trip or participant does not exist.
func (uc *LedgerUseCase) DeleteParticipant(ctx context.Context, tripID, participantID string) (bool, error) {
	return uc.mutateBool(ctx, "delete_participant", tripID, func(t *domain.Trip) (bool, error) {
		return t.RemoveParticipant(participantID), nil
	}, domain.EventTypeParticipantRemoved, participantID)
}

// EditParticipant renames a participant.
// It returns false when the trip or participant does not exist or the name is blank.
func (uc *LedgerUseCase) EditParticipant(ctx context.Context, tripID, participantID, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if err := domain.ValidateParticipantName(name); err != nil {
		return false, nil
	}

	return uc.mutateBool(ctx, "edit_participant", tripID, func(t *domain.Trip) (bool, error) {
		return t.RenameParticipant(participantID, name), nil
	}, domain.EventTypeParticipantUpdated, participantID)
}
