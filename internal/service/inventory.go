package service

import (
	"context"
	"time"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/logger"
	"keyportal-backend/internal/repository"
)

type inventoryService struct {
	keyRepo    repository.KeyRepository
	cardRepo   repository.CardRepository
	loanRepo   repository.LoanRepository
	eventRepo  repository.EventRepository
	undoWindow time.Duration
}

func NewInventoryService(
	keyRepo repository.KeyRepository,
	cardRepo repository.CardRepository,
	loanRepo repository.LoanRepository,
	eventRepo repository.EventRepository,
	undoWindow time.Duration,
) InventoryService {
	return &inventoryService{
		keyRepo:    keyRepo,
		cardRepo:   cardRepo,
		loanRepo:   loanRepo,
		eventRepo:  eventRepo,
		undoWindow: undoWindow,
	}
}

func (s *inventoryService) ListKeys(ctx context.Context, rentalObjectCode string, opts repository.KeyListOptions) ([]KeyWithStatus, error) {
	keys, err := s.keyRepo.ListByRentalObject(ctx, rentalObjectCode)
	if err != nil {
		return nil, err
	}

	result := make([]KeyWithStatus, 0, len(keys))
	for _, k := range keys {
		result = append(result, KeyWithStatus{Key: k})
	}

	if opts.IncludeLoans {
		open, err := s.loanRepo.ListByRentalObject(ctx, rentalObjectCode, true)
		if err != nil {
			return nil, err
		}
		for i := range result {
			for j := range open {
				if open[j].ContainsKey(result[i].ID) {
					result[i].Loan = &open[j]
					break
				}
			}
		}
	}

	if opts.IncludeEvents {
		ids := make([]int32, len(keys))
		for i, k := range keys {
			ids[i] = k.ID
		}
		latest, err := s.eventRepo.LatestForKeys(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range result {
			if e, ok := latest[result[i].ID]; ok {
				ev := e
				result[i].LatestEvent = &ev
			}
		}
	}

	if opts.IncludeKeySystem {
		systems := map[int32]*domain.KeySystem{}
		for i := range result {
			ksID := result[i].KeySystemID
			if ksID == nil {
				continue
			}
			ks, ok := systems[*ksID]
			if !ok {
				var err error
				ks, err = s.keyRepo.GetKeySystem(ctx, *ksID)
				if err != nil && err != domain.ErrNotFound {
					return nil, err
				}
				systems[*ksID] = ks
			}
			result[i].KeySystem = ks
		}
	}

	return result, nil
}

func (s *inventoryService) ListCards(ctx context.Context, rentalObjectCode string, includeLoans bool) ([]CardWithStatus, error) {
	cards, err := s.cardRepo.ListByRentalObject(ctx, rentalObjectCode)
	if err != nil {
		return nil, err
	}

	result := make([]CardWithStatus, 0, len(cards))
	for _, c := range cards {
		result = append(result, CardWithStatus{Card: c})
	}

	if includeLoans {
		open, err := s.loanRepo.ListByRentalObject(ctx, rentalObjectCode, true)
		if err != nil {
			return nil, err
		}
		for i := range result {
			for j := range open {
				if open[j].ContainsCard(result[i].ID) {
					result[i].Loan = &open[j]
					break
				}
			}
		}
	}

	return result, nil
}

func (s *inventoryService) CreateKey(ctx context.Context, key *domain.Key) error {
	if key.Name == "" {
		return domain.Validationf("key name is required")
	}
	if key.RentalObjectCode == "" {
		return domain.Validationf("rental object code is required")
	}
	return s.keyRepo.Create(ctx, key)
}

func (s *inventoryService) UpdateKey(ctx context.Context, key *domain.Key) error {
	if _, err := s.keyRepo.GetByID(ctx, key.ID); err != nil {
		return err
	}
	return s.keyRepo.Update(ctx, key)
}

func (s *inventoryService) DisposeKeys(ctx context.Context, keyIDs []int32) error {
	if len(keyIDs) == 0 {
		return domain.Validationf("no keys selected for disposal")
	}
	// Disposal does not close any loan the keys belong to; the loan
	// sweep happens only through flex reconciliation.
	if err := s.keyRepo.SetDisposed(ctx, keyIDs, true, time.Now()); err != nil {
		return err
	}
	logger.Info("Keys disposed", "count", len(keyIDs))
	return nil
}

func (s *inventoryService) UndoDisposal(ctx context.Context, keyIDs []int32) error {
	if len(keyIDs) == 0 {
		return domain.Validationf("no keys selected for undo")
	}
	keys, err := s.keyRepo.GetByIDs(ctx, keyIDs)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, k := range keys {
		if !k.Disposed {
			return domain.Preconditionf("key %d is not disposed", k.ID)
		}
		if k.DisposedOn != nil && now.Sub(*k.DisposedOn) > s.undoWindow {
			return domain.Preconditionf("undo window has passed for key %d", k.ID)
		}
	}
	if err := s.keyRepo.SetDisposed(ctx, keyIDs, false, now); err != nil {
		return err
	}
	logger.Info("Disposal undone", "count", len(keyIDs))
	return nil
}
