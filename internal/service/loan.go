package service

import (
	"context"
	"fmt"
	"time"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/logger"
	"keyportal-backend/internal/repository"

	"github.com/google/uuid"
)

type loanService struct {
	loanRepo    repository.LoanRepository
	keyRepo     repository.KeyRepository
	cardRepo    repository.CardRepository
	leaseRepo   repository.LeaseRepository
	contactRepo repository.ContactRepository
	receiptRepo repository.ReceiptRepository
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	keyRepo repository.KeyRepository,
	cardRepo repository.CardRepository,
	leaseRepo repository.LeaseRepository,
	contactRepo repository.ContactRepository,
	receiptRepo repository.ReceiptRepository,
) LoanService {
	return &loanService{
		loanRepo:    loanRepo,
		keyRepo:     keyRepo,
		cardRepo:    cardRepo,
		leaseRepo:   leaseRepo,
		contactRepo: contactRepo,
		receiptRepo: receiptRepo,
	}
}

func (s *loanService) OpenLoan(ctx context.Context, in OpenLoanInput) (*OpenLoanResult, error) {
	if len(in.KeyIDs) == 0 && len(in.CardIDs) == 0 {
		return nil, domain.Validationf("nothing selected to lend out")
	}
	if in.ContactCode == "" {
		return nil, domain.Validationf("contact is required")
	}
	if _, err := s.contactRepo.GetByCode(ctx, in.ContactCode); err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.Validationf("unknown contact %q", in.ContactCode)
		}
		return nil, err
	}

	lease, err := s.leaseRepo.GetByRentalObject(ctx, in.RentalObjectCode)
	if err != nil && err != domain.ErrNotFound {
		return nil, err
	}
	if lease != nil && lease.EndedBy(time.Now()) {
		return nil, domain.Preconditionf("rental agreement for %s has ended", in.RentalObjectCode)
	}

	for _, keyID := range in.KeyIDs {
		key, err := s.keyRepo.GetByID(ctx, keyID)
		if err != nil {
			return nil, err
		}
		if key.Disposed {
			return nil, domain.Preconditionf("key %d is disposed", keyID)
		}
		if _, err := s.loanRepo.GetOpenForKey(ctx, keyID); err == nil {
			return nil, domain.Preconditionf("key %d is already on loan", keyID)
		} else if err != domain.ErrNotFound {
			return nil, err
		}
	}
	for _, cardID := range in.CardIDs {
		if _, err := s.cardRepo.GetByID(ctx, cardID); err != nil {
			return nil, err
		}
		if _, err := s.loanRepo.GetOpenForCard(ctx, cardID); err == nil {
			return nil, domain.Preconditionf("card %d is already on loan", cardID)
		} else if err != domain.ErrNotFound {
			return nil, err
		}
	}

	loan := &domain.Loan{
		RentalObjectCode: in.RentalObjectCode,
		Type:             in.Type,
		ContactCode:      in.ContactCode,
		Contact2Code:     in.Contact2Code,
		KeyIDs:           in.KeyIDs,
		CardIDs:          in.CardIDs,
		CreatedAt:        time.Now(),
		Comment:          in.Comment,
	}
	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	// The receipt is supplementary: a failure here is logged and the
	// loan stands.
	receiptID := s.createReceipt(ctx, loan.ID, domain.ReceiptTypeLoan, loan.KeyIDs, loan.CardIDs)

	logger.Info("Loan opened", "loanID", loan.ID, "contact", in.ContactCode, "keys", len(in.KeyIDs), "cards", len(in.CardIDs))
	return &OpenLoanResult{Loan: loan, ReceiptID: receiptID}, nil
}

func (s *loanService) createReceipt(ctx context.Context, loanID int32, rt domain.ReceiptType, keyIDs, cardIDs []int32) string {
	receipt := &domain.LoanReceipt{
		ID:      uuid.NewString(),
		LoanID:  loanID,
		Type:    rt,
		KeyIDs:  keyIDs,
		CardIDs: cardIDs,
	}
	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		logger.Warn("Receipt creation failed, continuing without receipt", "loanID", loanID, "type", rt, "error", err)
		return ""
	}
	return receipt.ID
}

// ReturnLoan closes every loan touched by the handed-back items.
// Returning is scoped to whole loans: items of an affected loan that
// were not produced are reported missing, never left dangling in a
// half-returned loan.
func (s *loanService) ReturnLoan(ctx context.Context, in ReturnLoanInput) (*ReturnLoanOutcome, error) {
	if len(in.KeyIDs) == 0 && len(in.CardIDs) == 0 {
		return nil, domain.Validationf("nothing selected to return")
	}

	affected := map[int32]*domain.Loan{}
	for _, keyID := range in.KeyIDs {
		loan, err := s.loanRepo.GetOpenForKey(ctx, keyID)
		if err == domain.ErrNotFound {
			return nil, domain.Preconditionf("key %d is not on loan", keyID)
		}
		if err != nil {
			return nil, err
		}
		affected[loan.ID] = loan
	}
	for _, cardID := range in.CardIDs {
		loan, err := s.loanRepo.GetOpenForCard(ctx, cardID)
		if err == domain.ErrNotFound {
			return nil, domain.Preconditionf("card %d is not on loan", cardID)
		}
		if err != nil {
			return nil, err
		}
		affected[loan.ID] = loan
	}

	presentKeys := toSet(in.KeyIDs)
	presentCards := toSet(in.CardIDs)

	outcome := &ReturnLoanOutcome{}
	now := time.Now()
	for _, loan := range affected {
		for _, keyID := range loan.KeyIDs {
			if !presentKeys[keyID] {
				outcome.MissingKeyIDs = append(outcome.MissingKeyIDs, keyID)
			}
		}
		for _, cardID := range loan.CardIDs {
			if !presentCards[cardID] {
				outcome.MissingCardIDs = append(outcome.MissingCardIDs, cardID)
			}
		}

		loan.ReturnedAt = &now
		if in.AvailableFrom != nil {
			loan.AvailableFrom = in.AvailableFrom
		}
		if in.Comment != "" {
			loan.Comment = appendComment(loan.Comment, in.Comment)
		}
		if err := s.loanRepo.Update(ctx, loan); err != nil {
			return nil, err
		}
		outcome.ReturnedLoans = append(outcome.ReturnedLoans, *loan)
		logger.Info("Loan returned", "loanID", loan.ID, "missingKeys", len(outcome.MissingKeyIDs), "missingCards", len(outcome.MissingCardIDs))
	}

	// The receipt carries what the operator marked as returned, which
	// can differ from the items on the counter: "3 keys due back, 2
	// produced" stays recorded. No selection means everything produced
	// counts as returned.
	outcome.ReceiptKeyIDs = in.SelectedKeyIDs
	if outcome.ReceiptKeyIDs == nil {
		outcome.ReceiptKeyIDs = in.KeyIDs
	}
	outcome.ReceiptCardIDs = in.SelectedCardIDs
	if outcome.ReceiptCardIDs == nil {
		outcome.ReceiptCardIDs = in.CardIDs
	}
	if len(outcome.ReturnedLoans) > 0 {
		outcome.ReceiptID = s.createReceipt(ctx, outcome.ReturnedLoans[0].ID, domain.ReceiptTypeReturn, outcome.ReceiptKeyIDs, outcome.ReceiptCardIDs)
	}

	// A replacement re-bases the tenancy on what actually exists: the
	// confirmed-present items go straight back out on a fresh loan.
	if in.Replacement && len(outcome.ReturnedLoans) > 0 {
		first := outcome.ReturnedLoans[0]
		repl := &domain.Loan{
			RentalObjectCode: first.RentalObjectCode,
			Type:             first.Type,
			ContactCode:      first.ContactCode,
			Contact2Code:     first.Contact2Code,
			KeyIDs:           in.KeyIDs,
			CardIDs:          in.CardIDs,
			CreatedAt:        now,
			Comment:          fmt.Sprintf("replacement for loan %d", first.ID),
		}
		if err := s.loanRepo.Create(ctx, repl); err != nil {
			return nil, &domain.SequenceError{Step: "open-replacement-loan", Completed: []string{"return-loans"}, Err: err}
		}
		outcome.ReplacementLoan = repl
	}

	return outcome, nil
}

func (s *loanService) AcknowledgeReceipt(ctx context.Context, loanID int32) error {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return err
	}
	if loan.PickedUpAt != nil {
		return nil
	}
	now := time.Now()
	loan.PickedUpAt = &now
	return s.loanRepo.Update(ctx, loan)
}

func (s *loanService) GetLoan(ctx context.Context, loanID int32, includeCards bool) (*LoanDetails, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	details := &LoanDetails{Loan: *loan}
	if len(loan.KeyIDs) > 0 {
		details.Keys, err = s.keyRepo.GetByIDs(ctx, loan.KeyIDs)
		if err != nil {
			return nil, err
		}
	}
	if includeCards && len(loan.CardIDs) > 0 {
		details.Cards, err = s.cardRepo.GetByIDs(ctx, loan.CardIDs)
		if err != nil {
			return nil, err
		}
	}
	return details, nil
}

func (s *loanService) GetLoansForKey(ctx context.Context, keyID int32) ([]domain.Loan, error) {
	return s.loanRepo.ListForKey(ctx, keyID)
}

func (s *loanService) GetLoansForCard(ctx context.Context, cardID int32) ([]domain.Loan, error) {
	return s.loanRepo.ListForCard(ctx, cardID)
}

func (s *loanService) RemoveLoan(ctx context.Context, loanID int32) error {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return err
	}
	if loan.IsOpen() {
		return domain.Preconditionf("active loan cannot be deleted")
	}
	return s.loanRepo.Delete(ctx, loanID)
}

func toSet(ids []int32) map[int32]bool {
	set := make(map[int32]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func appendComment(existing, addition string) string {
	if existing == "" {
		return addition
	}
	return existing + "\n" + addition
}
