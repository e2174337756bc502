package service

import (
	"context"
	"time"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/logger"
	"keyportal-backend/internal/repository"
)

type reconciliationService struct {
	eventRepo   repository.EventRepository
	keyRepo     repository.KeyRepository
	loanRepo    repository.LoanRepository
	emailSvc    EmailService
	notifyEmail string
}

func NewReconciliationService(
	eventRepo repository.EventRepository,
	keyRepo repository.KeyRepository,
	loanRepo repository.LoanRepository,
	emailSvc EmailService,
	notifyEmail string,
) ReconciliationService {
	return &reconciliationService{
		eventRepo:   eventRepo,
		keyRepo:     keyRepo,
		loanRepo:    loanRepo,
		emailSvc:    emailSvc,
		notifyEmail: notifyEmail,
	}
}

// IncomingForKeys classifies each key by its latest event: an ORDERED
// ORDER event means an extra copy is on its way, an ORDERED FLEX event
// means a re-cut generation is.
func (s *reconciliationService) IncomingForKeys(ctx context.Context, keyIDs []int32) (map[int32]IncomingKind, error) {
	latest, err := s.eventRepo.LatestForKeys(ctx, keyIDs)
	if err != nil {
		return nil, err
	}

	kinds := make(map[int32]IncomingKind, len(keyIDs))
	for _, id := range keyIDs {
		kinds[id] = IncomingNone
		e, ok := latest[id]
		if !ok || e.Status != domain.EventStatusOrdered {
			continue
		}
		switch e.Type {
		case domain.EventTypeOrder:
			kinds[id] = IncomingExtraKey
		case domain.EventTypeFlex:
			kinds[id] = IncomingFlex
		}
	}
	return kinds, nil
}

func (s *reconciliationService) MarkReceived(ctx context.Context, eventID int32, disposeKeyIDs []int32) (*ReceiveResult, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	// Receiving is one-directional and exactly-once: a repeat call must
	// not re-trigger any disposal side effect.
	if event.Status == domain.EventStatusReceived {
		return &ReceiveResult{Event: event, AlreadyReceived: true}, nil
	}

	if event.Type == domain.EventTypeOrder {
		if len(disposeKeyIDs) > 0 {
			return nil, domain.Validationf("extra-key orders have no disposal side effects")
		}
		if err := s.eventRepo.UpdateStatus(ctx, eventID, domain.EventStatusReceived); err != nil {
			return nil, err
		}
		event.Status = domain.EventStatusReceived
		return &ReceiveResult{Event: event}, nil
	}

	// Flex receive. Validate the disposal selection against the
	// incoming generation before any write happens.
	incoming, err := s.incomingGeneration(ctx, event)
	if err != nil {
		return nil, err
	}
	groups, err := s.eventGroups(ctx, event)
	if err != nil {
		return nil, err
	}
	if len(disposeKeyIDs) > 0 {
		older, err := s.keyRepo.GetByIDs(ctx, disposeKeyIDs)
		if err != nil {
			return nil, err
		}
		if len(older) != len(disposeKeyIDs) {
			return nil, domain.Validationf("disposal selection contains unknown keys")
		}
		for _, k := range older {
			if event.Covers(k.ID) {
				return nil, domain.Validationf("key %d is part of the incoming batch and cannot be disposed by it", k.ID)
			}
			if !groups[k.Group()] {
				return nil, domain.Validationf("key %d does not belong to the incoming generation's group", k.ID)
			}
			if k.FlexNumber != nil && *k.FlexNumber >= incoming {
				return nil, domain.Validationf("key %d is not an older generation than flex %d", k.ID, incoming)
			}
		}
	}

	result := &ReceiveResult{Event: event}
	seq := newSequence("flex-receive").
		add("update-event-status", func(ctx context.Context) error {
			if err := s.eventRepo.UpdateStatus(ctx, eventID, domain.EventStatusReceived); err != nil {
				return err
			}
			event.Status = domain.EventStatusReceived
			return nil
		}).
		add("dispose-superseded-keys", func(ctx context.Context) error {
			if len(disposeKeyIDs) == 0 {
				return nil
			}
			if err := s.keyRepo.SetDisposed(ctx, disposeKeyIDs, true, time.Now()); err != nil {
				return err
			}
			result.DisposedKeyIDs = disposeKeyIDs
			return nil
		}).
		add("sweep-loans", func(ctx context.Context) error {
			returned, err := s.sweepLoans(ctx, disposeKeyIDs)
			if err != nil {
				return err
			}
			result.AutoReturnedLoanIDs = returned
			return nil
		})

	if err := seq.execute(ctx); err != nil {
		return nil, err
	}

	if s.emailSvc != nil && s.notifyEmail != "" {
		for g := range groups {
			if err := s.emailSvc.SendFlexReceivedNotification(ctx, s.notifyEmail, "", g, len(disposeKeyIDs)); err != nil {
				logger.Warn("Flex received notification failed", "error", err)
			}
			break
		}
	}

	logger.Info("Flex order received", "eventID", eventID, "disposed", len(result.DisposedKeyIDs), "autoReturnedLoans", len(result.AutoReturnedLoanIDs))
	return result, nil
}

// sweepLoans closes every open loan whose keys are now all disposed.
// A disposed key sits in at most one open loan, but one batch can close
// several loans, so every affected loan gets examined.
func (s *reconciliationService) sweepLoans(ctx context.Context, disposedKeyIDs []int32) ([]int32, error) {
	affected := map[int32]*domain.Loan{}
	for _, keyID := range disposedKeyIDs {
		loan, err := s.loanRepo.GetOpenForKey(ctx, keyID)
		if err == domain.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		affected[loan.ID] = loan
	}

	var returned []int32
	now := time.Now()
	for _, loan := range affected {
		keys, err := s.keyRepo.GetByIDs(ctx, loan.KeyIDs)
		if err != nil {
			return nil, err
		}
		allDisposed := true
		for _, k := range keys {
			if !k.Disposed {
				allDisposed = false
				break
			}
		}
		if !allDisposed {
			continue
		}
		loan.ReturnedAt = &now
		if err := s.loanRepo.Update(ctx, loan); err != nil {
			return nil, err
		}
		returned = append(returned, loan.ID)
		logger.Info("Loan auto-returned, all keys disposed", "loanID", loan.ID)
	}
	return returned, nil
}

// incomingGeneration reads the flex number the event's keys were cut
// with.
func (s *reconciliationService) incomingGeneration(ctx context.Context, event *domain.KeyEvent) (int32, error) {
	keys, err := s.keyRepo.GetByIDs(ctx, event.KeyIDs)
	if err != nil {
		return 0, err
	}
	for _, k := range keys {
		if k.FlexNumber != nil {
			return *k.FlexNumber, nil
		}
	}
	return 0, domain.Validationf("flex event %d covers no keys with a flex number", event.ID)
}

func (s *reconciliationService) eventGroups(ctx context.Context, event *domain.KeyEvent) (map[domain.FlexGroup]bool, error) {
	keys, err := s.keyRepo.GetByIDs(ctx, event.KeyIDs)
	if err != nil {
		return nil, err
	}
	groups := map[domain.FlexGroup]bool{}
	for _, k := range keys {
		groups[k.Group()] = true
	}
	return groups, nil
}
