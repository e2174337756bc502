package service

import (
	"context"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/logger"
)

// The backend has no multi-object transaction primitive, so operations
// spanning several writes run as an ordered step sequence. A failed
// step stops the sequence; earlier steps stay applied and the resulting
// SequenceError names the failed step and what already completed.

type step struct {
	name string
	run  func(ctx context.Context) error
}

type sequence struct {
	name  string
	steps []step
}

func newSequence(name string) *sequence {
	return &sequence{name: name}
}

func (s *sequence) add(name string, run func(ctx context.Context) error) *sequence {
	s.steps = append(s.steps, step{name: name, run: run})
	return s
}

func (s *sequence) execute(ctx context.Context) error {
	var completed []string
	for _, st := range s.steps {
		logger.Debug("Sequence step starting", "sequence", s.name, "step", st.name)
		if err := st.run(ctx); err != nil {
			logger.Error("Sequence step failed", "sequence", s.name, "step", st.name, "completed", completed, "error", err)
			return &domain.SequenceError{Step: st.name, Completed: completed, Err: err}
		}
		completed = append(completed, st.name)
	}
	return nil
}
