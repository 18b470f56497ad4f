package tracker

import (
	"context"
	"fmt"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// GoalStatus is the result of a progress check.
type GoalStatus struct {
	HasGoal  bool
	Target   float64
	Progress float64
	Reached  bool
}

// Percent returns progress as a percentage of the target.
func (g GoalStatus) Percent() float64 {
	if g.Target <= 0 {
		if g.Reached {
			return 100
		}
		return 0
	}
	return g.Progress / g.Target * 100
}

// SetGoal replaces any existing goal with a fresh one at zero progress.
func (s *Service) SetGoal(ctx context.Context, amount float64) error {
	s.record.Goal = &model.Goal{Target: amount, Progress: 0}
	s.notify(fmt.Sprintf("Financial goal set: %s", FormatAmount(amount)))
	return s.persist(ctx)
}

// Goal returns the active goal, or nil.
func (s *Service) Goal() *model.Goal {
	if s.record.Goal == nil {
		return nil
	}
	g := *s.record.Goal
	return &g
}

// TrackGoalProgress recomputes progress as the sum of every positive
// transaction ever recorded, not only those after the goal was set. Without
// a goal it returns a status with HasGoal false and touches nothing.
func (s *Service) TrackGoalProgress(ctx context.Context) (GoalStatus, error) {
	if s.record.Goal == nil {
		return GoalStatus{}, nil
	}

	var progress float64
	for _, t := range s.record.Transactions {
		if t.IsIncome() {
			progress += t.Amount
		}
	}
	s.record.Goal.Progress = progress

	status := GoalStatus{
		HasGoal:  true,
		Target:   s.record.Goal.Target,
		Progress: progress,
		Reached:  progress >= s.record.Goal.Target,
	}
	return status, s.persist(ctx)
}
