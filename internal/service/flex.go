package service

import (
	"context"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/logger"
	"keyportal-backend/internal/repository"
)

type flexService struct {
	keyRepo      repository.KeyRepository
	eventRepo    repository.EventRepository
	emailSvc     EmailService
	notifyEmail  string
	maxFlex      int32
	defaultCount int32
}

func NewFlexService(
	keyRepo repository.KeyRepository,
	eventRepo repository.EventRepository,
	emailSvc EmailService,
	notifyEmail string,
	maxFlex, defaultCount int32,
) FlexService {
	return &flexService{
		keyRepo:      keyRepo,
		eventRepo:    eventRepo,
		emailSvc:     emailSvc,
		notifyEmail:  notifyEmail,
		maxFlex:      maxFlex,
		defaultCount: defaultCount,
	}
}

// Plan groups the selected keys by (name, type) and reports each
// group's current flex number. Keys of one group disagreeing on their
// flex number flag the group as conflicted.
func (s *flexService) Plan(ctx context.Context, keyIDs []int32) ([]FlexGroupPlan, error) {
	if len(keyIDs) == 0 {
		return nil, domain.Validationf("no keys selected")
	}
	keys, err := s.keyRepo.GetByIDs(ctx, keyIDs)
	if err != nil {
		return nil, err
	}
	return planKeys(keys), nil
}

func planKeys(keys []domain.Key) []FlexGroupPlan {
	var order []domain.FlexGroup
	plans := map[domain.FlexGroup]*FlexGroupPlan{}
	for _, k := range keys {
		group := k.Group()
		plan, ok := plans[group]
		if !ok {
			plan = &FlexGroupPlan{Group: group, CurrentFlex: k.FlexNumber}
			plans[group] = plan
			order = append(order, group)
		} else if !flexEqual(plan.CurrentFlex, k.FlexNumber) {
			plan.Conflict = true
		}
		plan.KeyIDs = append(plan.KeyIDs, k.ID)
	}

	result := make([]FlexGroupPlan, 0, len(order))
	for _, g := range order {
		result = append(result, *plans[g])
	}
	return result
}

// Generate mass-creates the next flex generation per requested group:
// count keys with sequence numbers 1..count and flex = current+1,
// attributes copied from a sample key of the group, tagged with a
// single FLEX event in ORDERED status covering the whole batch.
// The selection must belong to the given rental object, and validation
// runs for every group before any key is written.
func (s *flexService) Generate(ctx context.Context, rentalObjectCode string, keyIDs []int32, requests []FlexGroupRequest) ([]FlexGenerationResult, error) {
	if len(requests) == 0 {
		return nil, domain.Validationf("no groups requested")
	}
	if len(keyIDs) == 0 {
		return nil, domain.Validationf("no keys selected")
	}

	keys, err := s.keyRepo.GetByIDs(ctx, keyIDs)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if k.RentalObjectCode != rentalObjectCode {
			return nil, domain.Validationf("key %d belongs to rental object %s, not %s", k.ID, k.RentalObjectCode, rentalObjectCode)
		}
	}

	planByGroup := map[domain.FlexGroup]FlexGroupPlan{}
	for _, p := range planKeys(keys) {
		planByGroup[p.Group] = p
	}
	sampleByGroup := map[domain.FlexGroup]domain.Key{}
	for _, k := range keys {
		if _, ok := sampleByGroup[k.Group()]; !ok {
			sampleByGroup[k.Group()] = k
		}
	}

	type validated struct {
		req      FlexGroupRequest
		sample   domain.Key
		nextFlex int32
		count    int32
	}
	var toCreate []validated

	for _, req := range requests {
		plan, ok := planByGroup[req.Group]
		if !ok {
			return nil, domain.Validationf("group %s/%s is not part of the selection", req.Group.Name, req.Group.Type)
		}
		if plan.Conflict {
			return nil, domain.Validationf("selected keys of %s/%s disagree on their flex number", req.Group.Name, req.Group.Type)
		}

		current := plan.CurrentFlex
		if current == nil {
			// The baseline of legacy keys is never guessed; the caller
			// has to state it before a re-cut is allowed.
			if req.Baseline == nil {
				return nil, domain.Validationf("flex number of %s/%s is unknown; a baseline is required", req.Group.Name, req.Group.Type)
			}
			current = req.Baseline
		}
		if *current >= s.maxFlex {
			return nil, domain.Validationf("%s/%s is already at the maximum flex number %d; no further re-cuts", req.Group.Name, req.Group.Type, s.maxFlex)
		}

		count := req.Count
		if count <= 0 {
			count = s.defaultCount
		}
		toCreate = append(toCreate, validated{
			req:      req,
			sample:   sampleByGroup[req.Group],
			nextFlex: *current + 1,
			count:    count,
		})
	}

	var results []FlexGenerationResult
	for _, v := range toCreate {
		res := FlexGenerationResult{Group: v.req.Group, FlexNumber: v.nextFlex}
		var batchIDs []int32
		for seq := int32(1); seq <= v.count; seq++ {
			flex := v.nextFlex
			key := &domain.Key{
				RentalObjectCode: v.sample.RentalObjectCode,
				Name:             v.sample.Name,
				Type:             v.sample.Type,
				SequenceNumber:   seq,
				FlexNumber:       &flex,
				KeySystemID:      v.sample.KeySystemID,
			}
			if err := s.keyRepo.Create(ctx, key); err != nil {
				return results, &domain.SequenceError{Step: "create-flex-keys", Err: err}
			}
			res.Keys = append(res.Keys, *key)
			batchIDs = append(batchIDs, key.ID)
		}

		event := &domain.KeyEvent{
			Type:   domain.EventTypeFlex,
			Status: domain.EventStatusOrdered,
			KeyIDs: batchIDs,
		}
		if err := s.eventRepo.Create(ctx, event); err != nil {
			// The order record is supplementary audit; the keys exist
			// either way.
			logger.Warn("Flex order event failed to record", "group", v.req.Group.Name, "error", err)
		} else {
			res.EventID = event.ID
		}

		if s.emailSvc != nil && s.notifyEmail != "" {
			if err := s.emailSvc.SendFlexOrderedNotification(ctx, s.notifyEmail, "", v.req.Group, v.count); err != nil {
				logger.Warn("Flex order notification failed", "error", err)
			}
		}

		logger.Info("Flex generation created", "group", v.req.Group.Name, "type", v.req.Group.Type, "flex", v.nextFlex, "count", v.count)
		results = append(results, res)
	}

	return results, nil
}

func (s *flexService) OrderExtraKeys(ctx context.Context, keyIDs []int32) (*domain.KeyEvent, error) {
	if len(keyIDs) == 0 {
		return nil, domain.Validationf("no keys selected")
	}
	keys, err := s.keyRepo.GetByIDs(ctx, keyIDs)
	if err != nil {
		return nil, err
	}
	if len(keys) != len(keyIDs) {
		return nil, domain.Validationf("selection contains unknown keys")
	}
	for _, k := range keys {
		if k.Disposed {
			return nil, domain.Preconditionf("key %d is disposed; order a flex re-cut instead", k.ID)
		}
	}

	event := &domain.KeyEvent{
		Type:   domain.EventTypeOrder,
		Status: domain.EventStatusOrdered,
		KeyIDs: keyIDs,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	logger.Info("Extra key order placed", "keys", len(keyIDs), "eventID", event.ID)
	return event, nil
}

func flexEqual(a, b *int32) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
