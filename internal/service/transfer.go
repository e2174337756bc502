package service

import (
	"context"
	"time"

	"keyportal-backend/internal/logger"
	"keyportal-backend/internal/repository"
)

type transferService struct {
	loanRepo repository.LoanRepository
	keyRepo  repository.KeyRepository
	loanSvc  LoanService
}

func NewTransferService(loanRepo repository.LoanRepository, keyRepo repository.KeyRepository, loanSvc LoanService) TransferService {
	return &transferService{
		loanRepo: loanRepo,
		keyRepo:  keyRepo,
		loanSvc:  loanSvc,
	}
}

// Detect gathers every open loan any of the requested contacts holds on
// the rental object. Each matched loan is partitioned into items that
// carry forward and disposed keys shown for audit only.
func (s *transferService) Detect(ctx context.Context, rentalObjectCode string, contactCodes []string) (*TransferDetection, error) {
	open, err := s.loanRepo.ListByRentalObject(ctx, rentalObjectCode, true)
	if err != nil {
		return nil, err
	}

	detection := &TransferDetection{}
	for _, loan := range open {
		held := false
		for _, code := range contactCodes {
			if code != "" && loan.HeldBy(code) {
				held = true
				break
			}
		}
		if !held {
			continue
		}

		tl := TransferLoan{Loan: loan, CarryCardIDs: loan.CardIDs}
		if len(loan.KeyIDs) > 0 {
			keys, err := s.keyRepo.GetByIDs(ctx, loan.KeyIDs)
			if err != nil {
				return nil, err
			}
			for _, k := range keys {
				if k.Disposed {
					tl.DisposedKeyIDs = append(tl.DisposedKeyIDs, k.ID)
				} else {
					tl.CarryKeyIDs = append(tl.CarryKeyIDs, k.ID)
				}
			}
		}
		detection.Loans = append(detection.Loans, tl)
	}

	return detection, nil
}

// Execute is the two-phase hand-over: phase 1 returns every matched
// loan in full, phase 2 opens one loan holding the requested items plus
// everything carried forward, deduplicated. A phase-1 failure aborts
// the whole operation before anything new is opened.
func (s *transferService) Execute(ctx context.Context, in OpenLoanInput) (*TransferResult, error) {
	contacts := []string{in.ContactCode}
	if in.Contact2Code != nil {
		contacts = append(contacts, *in.Contact2Code)
	}
	detection, err := s.Detect(ctx, in.RentalObjectCode, contacts)
	if err != nil {
		return nil, err
	}

	result := &TransferResult{NewCount: len(in.KeyIDs) + len(in.CardIDs)}

	keySet := toSet(in.KeyIDs)
	cardSet := toSet(in.CardIDs)
	mergedKeys := append([]int32{}, in.KeyIDs...)
	mergedCards := append([]int32{}, in.CardIDs...)
	for _, tl := range detection.Loans {
		for _, id := range tl.CarryKeyIDs {
			if !keySet[id] {
				keySet[id] = true
				mergedKeys = append(mergedKeys, id)
				result.TransferredCount++
			}
		}
		for _, id := range tl.CarryCardIDs {
			if !cardSet[id] {
				cardSet[id] = true
				mergedCards = append(mergedCards, id)
				result.TransferredCount++
			}
		}
	}

	seq := newSequence("loan-transfer").
		add("return-existing-loans", func(ctx context.Context) error {
			now := time.Now()
			for i := range detection.Loans {
				loan := detection.Loans[i].Loan
				loan.ReturnedAt = &now
				if err := s.loanRepo.Update(ctx, &loan); err != nil {
					return err
				}
				result.ClosedLoanIDs = append(result.ClosedLoanIDs, loan.ID)
			}
			return nil
		}).
		add("open-merged-loan", func(ctx context.Context) error {
			opened, err := s.loanSvc.OpenLoan(ctx, OpenLoanInput{
				RentalObjectCode: in.RentalObjectCode,
				Type:             in.Type,
				KeyIDs:           mergedKeys,
				CardIDs:          mergedCards,
				ContactCode:      in.ContactCode,
				Contact2Code:     in.Contact2Code,
				Comment:          in.Comment,
			})
			if err != nil {
				return err
			}
			result.Loan = opened.Loan
			result.ReceiptID = opened.ReceiptID
			return nil
		})

	if err := seq.execute(ctx); err != nil {
		return nil, err
	}

	logger.Info("Transfer executed", "loanID", result.Loan.ID, "new", result.NewCount, "transferred", result.TransferredCount, "closed", len(result.ClosedLoanIDs))
	return result, nil
}
