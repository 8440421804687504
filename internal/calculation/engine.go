package calculation

import (
	"github.com/smithgotsurf/retirement-planner/internal/domain"
	"github.com/smithgotsurf/retirement-planner/internal/policy"
)

// projectionBaseYear anchors calendar years in output records: the first
// projected year (the profile's current age) falls in this year.
const projectionBaseYear = 2025

// Engine orchestrates the accumulation projector and the withdrawal
// simulator for a single country policy. It is stateless across calls: all
// per-run mutable state lives inside the call, so one Engine may be reused
// freely and two calls with identical inputs produce identical output.
type Engine struct {
	Policy policy.CountryPolicy
	Logger Logger
}

// NewEngine creates an engine bound to one country policy.
func NewEngine(p policy.CountryPolicy) *Engine {
	return &Engine{Policy: p, Logger: noopLogger{}}
}

// RunPlan executes both phases: the accumulation projection to the
// retirement boundary, then the drawdown simulation seeded by its final
// balances.
func (e *Engine) RunPlan(accounts []domain.Account, profile *domain.Profile, assumptions *domain.Assumptions, streams []domain.IncomeStream) *domain.PlanResult {
	accumulation := e.ProjectAccumulation(accounts, profile)
	retirement := e.SimulateRetirement(accounts, profile, assumptions, streams, accumulation)
	return &domain.PlanResult{
		Accumulation: accumulation,
		Retirement:   retirement,
	}
}
