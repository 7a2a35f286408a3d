package onboarding

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

// ProgressStore is the persisted, authoritative progress record.
// Advance must be safe to repeat with the same input.
type ProgressStore interface {
	Fetch(ctx context.Context, accountID string) (*Progress, error)
	Advance(ctx context.Context, accountID string, from, to Step) (*Progress, error)
}

// SelectionSource returns the persisted PMS selection, nil if none yet.
type SelectionSource interface {
	PMSSelection(ctx context.Context, accountID string) (*PMSSelection, error)
}

// Cache is a subordinate key/value store. Values written here are never
// treated as authoritative.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Clear(key string)
}

// Transition is the result of one advance.
type Transition struct {
	From     Step     `json:"from"`
	Progress Progress `json:"progress"`
	Route    Route    `json:"route"`
	// Replayed is set when the call repeated the last successful advance
	// and was answered without touching the store.
	Replayed bool `json:"replayed"`
}

type Orchestrator struct {
	routes     RouteTable
	store      ProgressStore
	selections SelectionSource
	cache      Cache
	locks      *utils.KeyedMutex
}

func NewOrchestrator(routes RouteTable, store ProgressStore, selections SelectionSource, cache Cache) *Orchestrator {
	return &Orchestrator{
		routes:     routes,
		store:      store,
		selections: selections,
		cache:      cache,
		locks:      utils.NewKeyedMutex(),
	}
}

func (o *Orchestrator) Routes() RouteTable { return o.routes }

func progressKey(accountID string) string     { return "onboarding:progress:" + accountID }
func selectionKey(accountID string) string    { return "onboarding:pms:" + accountID }
func lastAdvancedKey(accountID string) string { return "onboarding:last_advanced:" + accountID }

// Progress reads the store and overwrites the cached copy. A failed read is
// reported as ErrStaleOrMissingProgress; no step is guessed.
func (o *Orchestrator) Progress(ctx context.Context, accountID string) (*Progress, error) {
	p, err := o.store.Fetch(ctx, accountID)
	if err != nil {
		utils.Logger.WithError(err).WithField("account_id", accountID).Error("Failed to fetch onboarding progress")
		return nil, fmt.Errorf("%w: %w", ErrStaleOrMissingProgress, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: no progress record for %s", ErrStaleOrMissingProgress, accountID)
	}
	o.cache.Set(progressKey(accountID), *p)
	return p, nil
}

// Cached returns the last progress written to the cache. It is only ever
// shown alongside an error, never used to pick a route.
func (o *Orchestrator) Cached(accountID string) (*Progress, bool) {
	v, ok := o.cache.Get(progressKey(accountID))
	if !ok {
		return nil, false
	}
	p, ok := v.(Progress)
	if !ok {
		return nil, false
	}
	return &p, true
}

// Landing returns the route to show for the account's stored progress.
func (o *Orchestrator) Landing(ctx context.Context, accountID string) (Route, *Progress, error) {
	p, err := o.Progress(ctx, accountID)
	if err != nil {
		return "", nil, err
	}
	return o.routes.ResolveLandingStep(*p), p, nil
}

// Advance records that the account finished step. Calls for one account
// are serialized, and repeating the last successful advance returns the
// recorded transition instead of writing again.
func (o *Orchestrator) Advance(ctx context.Context, accountID string, step Step) (*Transition, error) {
	if !step.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedStep, string(step))
	}

	unlock := o.locks.Lock(accountID)
	defer unlock()

	log := utils.Logger.WithFields(logrus.Fields{"account_id": accountID, "step": string(step)})

	if v, ok := o.cache.Get(lastAdvancedKey(accountID)); ok {
		if last, ok := v.(Transition); ok && last.From == step {
			log.Debug("Advance already applied, replaying last transition")
			last.Replayed = true
			return &last, nil
		}
	}

	var sel PMSSelection
	if step == StepSelectPlan {
		s, err := o.selection(ctx, accountID)
		if err != nil {
			return nil, err
		}
		sel = s
	}

	dest, ok := o.routes.NextAfter(step, sel)
	if !ok {
		return nil, ErrNoNextStep
	}

	p, err := o.store.Advance(ctx, accountID, step, dest.Step)
	if err != nil {
		log.WithError(err).Warn("Advance rejected by progress store")
		return nil, err
	}
	o.cache.Set(progressKey(accountID), *p)

	t := Transition{From: step, Progress: *p, Route: dest.Route}
	if p.CurrentStep != dest.Step {
		// the store was already past this step
		t.Route = o.routes.ResolveLandingStep(*p)
	}
	o.cache.Set(lastAdvancedKey(accountID), t)
	if step == StepSelectPlan {
		o.cache.Clear(selectionKey(accountID))
	}

	log.WithField("current_step", string(p.CurrentStep)).Info("Onboarding advanced")
	return &t, nil
}

// RememberPMSSelection keeps the selection until select_plan consumes it.
func (o *Orchestrator) RememberPMSSelection(accountID string, sel PMSSelection) {
	o.cache.Set(selectionKey(accountID), sel)
}

func (o *Orchestrator) selection(ctx context.Context, accountID string) (PMSSelection, error) {
	if v, ok := o.cache.Get(selectionKey(accountID)); ok {
		if sel, ok := v.(PMSSelection); ok {
			return sel, nil
		}
	}
	if o.selections == nil {
		return PMSSelection{}, nil
	}
	sel, err := o.selections.PMSSelection(ctx, accountID)
	if err != nil {
		return PMSSelection{}, fmt.Errorf("loading pms selection: %w", err)
	}
	if sel == nil {
		return PMSSelection{}, nil
	}
	o.cache.Set(selectionKey(accountID), *sel)
	return *sel, nil
}
