package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/dtos"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/msp"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/repositories"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

const draftKeyPrefix = "msp:draft:"

// DraftCache holds the editable drafts, keyed per account and hotel.
type DraftCache interface {
	onboarding.Cache
	ClearPrefix(prefix string) int
}

// MSPService persists minimum selling prices (msp.Gateway) and keeps the
// editable draft of each hotel between requests.
type MSPService struct {
	properties repositories.PropertyRepository
	entries    repositories.MSPEntryRepository
	drafts     DraftCache
	wizard     Wizard
	locks      *utils.KeyedMutex

	now   func() time.Time
	newID func() string
}

func NewMSPService(
	properties repositories.PropertyRepository,
	entries repositories.MSPEntryRepository,
	drafts DraftCache,
	wizard Wizard,
) *MSPService {
	return &MSPService{
		properties: properties,
		entries:    entries,
		drafts:     drafts,
		wizard:     wizard,
		locks:      utils.NewKeyedMutex(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func draftKey(accountID, propertyID uuid.UUID) string {
	return draftKeyPrefix + accountID.String() + ":" + propertyID.String()
}

func entryFromModel(e *models.MSPEntry) msp.Entry {
	out := msp.Entry{
		ID:         e.ID.String(),
		PropertyID: e.PropertyID.String(),
		FromDate:   e.FromDate.Format(msp.DateLayout),
		ToDate:     e.ToDate.Format(msp.DateLayout),
		Price:      e.Price,
	}
	if e.PeriodTitle != nil {
		out.PeriodTitle = *e.PeriodTitle
	}
	return out
}

func rangeLabel(from, to string) string {
	return msp.FormatDisplay(from) + " - " + msp.FormatDisplay(to)
}

// SubmitBatch stores each entry on its own. Invalid ranges and ranges
// overlapping a saved or earlier accepted entry are reported, the rest is
// inserted.
func (s *MSPService) SubmitBatch(ctx context.Context, propertyID string, batch []msp.Entry) (*msp.BatchResult, error) {
	pid, err := uuid.Parse(propertyID)
	if err != nil {
		return nil, fmt.Errorf("invalid property id %q: %w", propertyID, err)
	}
	saved, err := s.entries.ListByPropertyID(ctx, pid)
	if err != nil {
		return nil, err
	}

	res := &msp.BatchResult{Created: []msp.Entry{}, Errors: []string{}}
	fail := func(e msp.Entry, msg string) {
		msg = fmt.Sprintf("period %s: %s", rangeLabel(e.FromDate, e.ToDate), msg)
		res.Errors = append(res.Errors, msg)
		res.Failures = append(res.Failures, msp.Failure{ClientRef: e.ClientRef, Message: msg})
	}

	for _, e := range batch {
		p := msp.Period{FromDate: e.FromDate, ToDate: e.ToDate, Price: e.Price}
		var vErr *msp.ValidationError
		if err := msp.Validate([]msp.Period{p}); errors.As(err, &vErr) {
			fail(e, vErr.Message)
			continue
		}
		from, _ := msp.ParseDate(e.FromDate)
		to, _ := msp.ParseDate(e.ToDate)

		if clash := overlapping(saved, from, to); clash != nil {
			fail(e, "overlaps the saved period "+rangeLabel(clash.FromDate.Format(msp.DateLayout), clash.ToDate.Format(msp.DateLayout)))
			continue
		}

		price, _ := msp.ParsePrice(e.Price)
		rec := &models.MSPEntry{
			ID:         uuid.New(),
			PropertyID: pid,
			FromDate:   from,
			ToDate:     to,
			Price:      fmt.Sprintf("%.2f", price),
		}
		if e.PeriodTitle != "" {
			title := e.PeriodTitle
			rec.PeriodTitle = &title
		}
		if err := s.entries.Create(ctx, rec); err != nil {
			if repositories.IsExclusionViolation(err) {
				fail(e, "overlaps another saved period")
				continue
			}
			utils.Logger.WithError(err).WithField("property_id", propertyID).Error("Failed to insert MSP entry")
			fail(e, "could not be saved")
			continue
		}

		saved = append(saved, rec)
		created := entryFromModel(rec)
		created.ClientRef = e.ClientRef
		res.Created = append(res.Created, created)
	}

	utils.Logger.WithField("property_id", propertyID).
		Infof("MSP batch: %d created, %d rejected", len(res.Created), len(res.Errors))
	return res, nil
}

func overlapping(saved []*models.MSPEntry, from, to time.Time) *models.MSPEntry {
	for _, e := range saved {
		if e.Overlaps(from, to) {
			return e
		}
	}
	return nil
}

// ownedProperty returns the hotel when it belongs to the account.
func (s *MSPService) ownedProperty(ctx context.Context, accountID uuid.UUID, propertyID string) (*models.Property, error) {
	pid, err := uuid.Parse(propertyID)
	if err != nil {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "property_id is not a valid id", err)
	}
	prop, err := s.properties.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if prop == nil || prop.AccountID != accountID {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Hotel not found", utils.ErrNotFound)
	}
	return prop, nil
}

// Batch is the HTTP form of SubmitBatch, limited to the caller's hotel.
func (s *MSPService) Batch(ctx context.Context, accountID uuid.UUID, req dtos.MSPBatchRequest) (*msp.BatchResult, error) {
	prop, err := s.ownedProperty(ctx, accountID, req.PropertyID)
	if err != nil {
		return nil, err
	}
	return s.SubmitBatch(ctx, prop.ID.String(), req.Periods)
}

// ListEntries returns the saved entries, each with the national holidays
// of the hotel's country it covers.
func (s *MSPService) ListEntries(ctx context.Context, accountID uuid.UUID, propertyID string) (*dtos.MSPEntriesResponse, error) {
	prop, err := s.ownedProperty(ctx, accountID, propertyID)
	if err != nil {
		return nil, err
	}
	saved, err := s.entries.ListByPropertyID(ctx, prop.ID)
	if err != nil {
		return nil, err
	}

	out := &dtos.MSPEntriesResponse{Entries: make([]dtos.MSPEntryResponse, 0, len(saved))}
	for _, e := range saved {
		holidays := utils.HolidaysBetween(prop.Country, e.FromDate, e.ToDate)
		if holidays == nil {
			holidays = []string{}
		}
		out.Entries = append(out.Entries, dtos.MSPEntryResponse{Entry: entryFromModel(e), Holidays: holidays})
	}
	return out, nil
}

// -----------------------------------------------------------------------
// Draft session
// -----------------------------------------------------------------------

type draftSession struct {
	prop    *models.Property
	key     string
	manager *msp.Manager
	periods []msp.Period
}

// openDraft locks the draft of the account's hotel and loads it. Saved
// entries win: on step entry they replace any cached draft, otherwise the
// cached draft is kept only while it still holds every saved entry as a
// confirmed period. Call the returned func when done.
func (s *MSPService) openDraft(ctx context.Context, accountID uuid.UUID, entering bool) (*draftSession, func(), error) {
	prop, err := s.properties.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	if prop == nil {
		return nil, nil, hotelNotFound()
	}

	key := draftKey(accountID, prop.ID)
	unlock := s.locks.Lock(key)

	loc, err := time.LoadLocation(prop.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	m := msp.NewManager(loc)
	m.Now = s.now
	m.NewID = s.newID

	saved, err := s.entries.ListByPropertyID(ctx, prop.ID)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	existing := make([]msp.Entry, 0, len(saved))
	for _, e := range saved {
		existing = append(existing, entryFromModel(e))
	}

	d := &draftSession{prop: prop, key: key, manager: m}
	if cached, ok := s.cachedDraft(key); ok && !(entering && len(existing) > 0) && holdsAll(cached, existing) {
		d.periods = cached
		return d, unlock, nil
	}
	d.periods = m.Initialize(existing)
	s.drafts.Set(key, d.periods)
	return d, unlock, nil
}

func (s *MSPService) cachedDraft(key string) ([]msp.Period, bool) {
	v, ok := s.drafts.Get(key)
	if !ok {
		return nil, false
	}
	periods, ok := v.([]msp.Period)
	return periods, ok
}

// holdsAll reports whether every saved entry is a confirmed period of the
// draft.
func holdsAll(periods []msp.Period, saved []msp.Entry) bool {
	confirmed := make(map[string]bool, len(periods))
	for _, p := range periods {
		if p.Confirmed {
			confirmed[p.ID] = true
		}
	}
	for _, e := range saved {
		if !confirmed[e.ID] {
			return false
		}
	}
	return true
}

func (s *MSPService) save(d *draftSession) *dtos.MSPDraftResponse {
	s.drafts.Set(d.key, d.periods)
	return &dtos.MSPDraftResponse{PropertyID: d.prop.ID.String(), Periods: d.periods}
}

// Draft enters the msp step: saved entries, when there are any, are
// returned verbatim and any in-progress draft is dropped.
func (s *MSPService) Draft(ctx context.Context, accountID uuid.UUID) (*dtos.MSPDraftResponse, error) {
	d, unlock, err := s.openDraft(ctx, accountID, true)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return s.save(d), nil
}

func (s *MSPService) AddPeriod(ctx context.Context, accountID uuid.UUID) (*dtos.MSPDraftResponse, error) {
	d, unlock, err := s.openDraft(ctx, accountID, false)
	if err != nil {
		return nil, err
	}
	defer unlock()
	d.periods = d.manager.AddPeriod(d.periods)
	return s.save(d), nil
}

func (s *MSPService) UpdatePeriod(ctx context.Context, accountID uuid.UUID, periodID string, field msp.Field, value string) (*dtos.MSPDraftResponse, error) {
	d, unlock, err := s.openDraft(ctx, accountID, false)
	if err != nil {
		return nil, err
	}
	defer unlock()
	periods, err := msp.UpdatePeriod(d.periods, periodID, field, value)
	if err != nil {
		return nil, err
	}
	d.periods = periods
	return s.save(d), nil
}

func (s *MSPService) RemovePeriod(ctx context.Context, accountID uuid.UUID, periodID string) (*dtos.MSPDraftResponse, error) {
	d, unlock, err := s.openDraft(ctx, accountID, false)
	if err != nil {
		return nil, err
	}
	defer unlock()
	d.periods = msp.RemovePeriod(d.periods, periodID)
	return s.save(d), nil
}

// ValidateDraft returns the draft with the first validation error, if any.
func (s *MSPService) ValidateDraft(ctx context.Context, accountID uuid.UUID) (*dtos.MSPDraftResponse, error) {
	d, unlock, err := s.openDraft(ctx, accountID, false)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return s.save(d), msp.Validate(d.periods)
}

// SubmitDraft sends the unconfirmed periods. The merged list is kept
// either way; the msp step is advanced only when nothing failed. A
// failed outcome is returned with an error wrapping
// msp.ErrPartialBatchFailure.
func (s *MSPService) SubmitDraft(ctx context.Context, accountID uuid.UUID) (*dtos.MSPSubmitResponse, error) {
	d, unlock, err := s.openDraft(ctx, accountID, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	outcome, merged, err := d.manager.Submit(ctx, s, d.prop.ID.String(), d.periods)
	if err != nil {
		return nil, err
	}
	d.periods = merged
	s.save(d)

	resp := &dtos.MSPSubmitResponse{Outcome: outcome, Periods: merged}
	if err := outcome.Err(); err != nil {
		return resp, err
	}

	t, err := s.wizard.Advance(ctx, accountID.String(), onboarding.StepMSP)
	if errors.Is(err, onboarding.ErrStepNotReached) {
		utils.Logger.WithField("account_id", accountID).Info("MSP saved before the msp step; not advancing")
		return resp, nil
	}
	if err != nil {
		return resp, err
	}
	resp.Transition = t
	if t.Progress.Completed {
		n := s.drafts.ClearPrefix(draftKeyPrefix + accountID.String() + ":")
		utils.Logger.WithField("account_id", accountID).Debugf("Onboarding complete; dropped %d MSP drafts", n)
	}
	return resp, nil
}
