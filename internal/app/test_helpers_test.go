package app

import (
	"context"
	"sort"
	"time"

	"github.com/example/storeops/internal/apperr"
	"github.com/example/storeops/internal/ctxutil"
	"github.com/example/storeops/internal/ports/secondary"
)

var t0 = time.Date(2026, 1, 15, 21, 0, 0, 0, time.UTC)

func intPtr(i int) *int { return &i }

// fixedClock returns a clock pinned to *at so tests can move time forward.
func fixedClock(at *time.Time) func() time.Time {
	return func() time.Time { return *at }
}

// ============================================================================
// Milk catalog
// ============================================================================

var _ secondary.MilkTypeRepository = (*mockMilkTypeRepository)(nil)

type mockMilkTypeRepository struct {
	types   map[string]*secondary.MilkTypeRecord
	order   []string
	listErr error
}

func newMockMilkTypeRepository() *mockMilkTypeRepository {
	return &mockMilkTypeRepository{types: make(map[string]*secondary.MilkTypeRecord)}
}

func (m *mockMilkTypeRepository) add(id, name string, displayOrder, par int, active bool) {
	m.types[id] = &secondary.MilkTypeRecord{
		ID: id, Name: name, Category: "dairy", DisplayOrder: displayOrder, Active: active, ParValue: par,
	}
	m.order = append(m.order, id)
}

func (m *mockMilkTypeRepository) Create(ctx context.Context, mt *secondary.MilkTypeRecord) error {
	for _, existing := range m.types {
		if existing.Name == mt.Name {
			return apperr.Conflict("milk type %q already exists", mt.Name)
		}
	}
	copied := *mt
	m.types[mt.ID] = &copied
	m.order = append(m.order, mt.ID)
	return nil
}

func (m *mockMilkTypeRepository) Update(ctx context.Context, mt *secondary.MilkTypeRecord) error {
	existing, ok := m.types[mt.ID]
	if !ok {
		return apperr.NotFound("milk type %s not found", mt.ID)
	}
	par, by := existing.ParValue, existing.ParUpdatedBy
	copied := *mt
	copied.ParValue, copied.ParUpdatedBy = par, by
	m.types[mt.ID] = &copied
	return nil
}

func (m *mockMilkTypeRepository) GetByID(ctx context.Context, id string) (*secondary.MilkTypeRecord, error) {
	mt, ok := m.types[id]
	if !ok {
		return nil, apperr.NotFound("milk type %s not found", id)
	}
	copied := *mt
	return &copied, nil
}

func (m *mockMilkTypeRepository) GetByName(ctx context.Context, name string) (*secondary.MilkTypeRecord, error) {
	for _, mt := range m.types {
		if mt.Name == name {
			copied := *mt
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockMilkTypeRepository) List(ctx context.Context, filters secondary.CatalogFilters) ([]*secondary.MilkTypeRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.MilkTypeRecord
	for _, id := range m.order {
		mt := m.types[id]
		if filters.ActiveOnly && !mt.Active {
			continue
		}
		copied := *mt
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (m *mockMilkTypeRepository) SetPar(ctx context.Context, id string, par int, updatedBy string) error {
	mt, ok := m.types[id]
	if !ok {
		return apperr.NotFound("milk type %s not found", id)
	}
	mt.ParValue, mt.ParUpdatedBy = par, updatedBy
	return nil
}

func (m *mockMilkTypeRepository) Reorder(ctx context.Context, ids []string) error {
	for i, id := range ids {
		mt, ok := m.types[id]
		if !ok {
			return apperr.NotFound("item %s not found", id)
		}
		mt.DisplayOrder = i + 1
	}
	return nil
}

// ============================================================================
// Milk sessions
// ============================================================================

var _ secondary.MilkSessionRepository = (*mockMilkSessionRepository)(nil)

type mockMilkSessionRepository struct {
	sessions map[string]*secondary.MilkSessionRecord
	entries  map[string][]*secondary.MilkEntryRecord
	types    *mockMilkTypeRepository
	writes   int
	// beforeApply runs just before the conditional advance, to simulate a
	// concurrent writer.
	beforeApply func()
}

func newMockMilkSessionRepository(types *mockMilkTypeRepository) *mockMilkSessionRepository {
	return &mockMilkSessionRepository{
		sessions: make(map[string]*secondary.MilkSessionRecord),
		entries:  make(map[string][]*secondary.MilkEntryRecord),
		types:    types,
	}
}

func (m *mockMilkSessionRepository) CreateWithEntries(ctx context.Context, s *secondary.MilkSessionRecord, entries []*secondary.MilkEntryRecord) error {
	for _, existing := range m.sessions {
		if existing.SessionDate == s.SessionDate {
			return apperr.Conflict("session already exists for %s", s.SessionDate)
		}
	}
	copied := *s
	m.sessions[s.ID] = &copied
	for _, e := range entries {
		ec := *e
		m.entries[s.ID] = append(m.entries[s.ID], &ec)
	}
	m.writes++
	return nil
}

func (m *mockMilkSessionRepository) GetByID(ctx context.Context, id string) (*secondary.MilkSessionRecord, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, apperr.NotFound("session %s not found", id)
	}
	copied := *s
	return &copied, nil
}

func (m *mockMilkSessionRepository) GetByDate(ctx context.Context, date string) (*secondary.MilkSessionRecord, error) {
	for _, s := range m.sessions {
		if s.SessionDate == date {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockMilkSessionRepository) List(ctx context.Context, filters secondary.MilkSessionFilters) ([]*secondary.MilkSessionRecord, int, error) {
	var all []*secondary.MilkSessionRecord
	for _, s := range m.sessions {
		if filters.Status != "" && s.Status != filters.Status {
			continue
		}
		copied := *s
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SessionDate > all[j].SessionDate })
	total := len(all)
	start := min(filters.Offset, total)
	end := min(start+filters.Limit, total)
	return all[start:end], total, nil
}

func (m *mockMilkSessionRepository) ListEntries(ctx context.Context, sessionID string) ([]*secondary.MilkEntryRecord, error) {
	out := make([]*secondary.MilkEntryRecord, 0, len(m.entries[sessionID]))
	for _, e := range m.entries[sessionID] {
		copied := *e
		if mt, ok := m.types.types[e.MilkTypeID]; ok {
			copied.MilkTypeName = mt.Name
			copied.Category = mt.Category
			copied.DisplayOrder = mt.DisplayOrder
			copied.ParValue = mt.ParValue
		}
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockMilkSessionRepository) ApplyPhase(ctx context.Context, w *secondary.PhaseWrite) error {
	if m.beforeApply != nil {
		m.beforeApply()
	}
	s, ok := m.sessions[w.SessionID]
	if !ok {
		return apperr.NotFound("session %s not found", w.SessionID)
	}
	if s.Status != w.From {
		return &secondary.StatusMismatchError{SessionID: w.SessionID, Actual: s.Status}
	}

	byType := make(map[string]*secondary.MilkEntryRecord)
	for _, e := range m.entries[w.SessionID] {
		byType[e.MilkTypeID] = e
	}
	for _, in := range w.Entries {
		if _, ok := byType[in.MilkTypeID]; !ok {
			return apperr.NotFound("entry for %s not found", in.MilkTypeID)
		}
	}
	for _, in := range w.Entries {
		e := byType[in.MilkTypeID]
		e.FrontCount, e.BackCount = in.FrontCount, in.BackCount
		e.MorningMethod, e.CurrentBackCount = in.MorningMethod, in.CurrentBackCount
		e.Delivered, e.OnOrder = in.Delivered, in.OnOrder
		e.UpdatedAt = in.UpdatedAt
	}

	s.Status = w.To
	at := w.At
	switch w.StampColumn {
	case "night_foh_saved_at":
		s.NightFOHSavedAt = &at
	case "night_boh_saved_at":
		s.NightBOHSavedAt = &at
	case "morning_saved_at":
		s.MorningSavedAt = &at
	case "on_order_saved_at":
		s.OnOrderSavedAt = &at
	}
	switch w.ActorSlot {
	case "night":
		s.NightUserID = w.ActorID
	case "morning":
		s.MorningUserID = w.ActorID
	}
	if w.CompletedAt != nil {
		s.CompletedAt = w.CompletedAt
	}
	m.writes++
	return nil
}

func (m *mockMilkSessionRepository) DeleteByDate(ctx context.Context, date string) (int64, error) {
	for id, s := range m.sessions {
		if s.SessionDate == date {
			delete(m.sessions, id)
			delete(m.entries, id)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockMilkSessionRepository) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(m.sessions))
	m.sessions = make(map[string]*secondary.MilkSessionRecord)
	m.entries = make(map[string][]*secondary.MilkEntryRecord)
	return n, nil
}

// ============================================================================
// RTD&E
// ============================================================================

var _ secondary.RTDEItemRepository = (*mockRTDEItemRepository)(nil)

type mockRTDEItemRepository struct {
	items map[string]*secondary.RTDEItemRecord
	order []string
}

func newMockRTDEItemRepository() *mockRTDEItemRepository {
	return &mockRTDEItemRepository{items: make(map[string]*secondary.RTDEItemRecord)}
}

func (m *mockRTDEItemRepository) add(id, name string, displayOrder, par int, active bool) {
	m.items[id] = &secondary.RTDEItemRecord{ID: id, Name: name, ParLevel: par, DisplayOrder: displayOrder, Active: active}
	m.order = append(m.order, id)
}

func (m *mockRTDEItemRepository) Create(ctx context.Context, it *secondary.RTDEItemRecord) error {
	for _, existing := range m.items {
		if existing.Name == it.Name {
			return apperr.Conflict("item %q already exists", it.Name)
		}
	}
	copied := *it
	m.items[it.ID] = &copied
	m.order = append(m.order, it.ID)
	return nil
}

func (m *mockRTDEItemRepository) Update(ctx context.Context, it *secondary.RTDEItemRecord) error {
	if _, ok := m.items[it.ID]; !ok {
		return apperr.NotFound("item %s not found", it.ID)
	}
	copied := *it
	m.items[it.ID] = &copied
	return nil
}

func (m *mockRTDEItemRepository) GetByID(ctx context.Context, id string) (*secondary.RTDEItemRecord, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("item %s not found", id)
	}
	copied := *it
	return &copied, nil
}

func (m *mockRTDEItemRepository) GetByName(ctx context.Context, name string) (*secondary.RTDEItemRecord, error) {
	for _, it := range m.items {
		if it.Name == name {
			copied := *it
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockRTDEItemRepository) List(ctx context.Context, filters secondary.CatalogFilters) ([]*secondary.RTDEItemRecord, error) {
	var out []*secondary.RTDEItemRecord
	for _, id := range m.order {
		it := m.items[id]
		if filters.ActiveOnly && !it.Active {
			continue
		}
		copied := *it
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (m *mockRTDEItemRepository) Reorder(ctx context.Context, ids []string) error {
	for i, id := range ids {
		it, ok := m.items[id]
		if !ok {
			return apperr.NotFound("item %s not found", id)
		}
		it.DisplayOrder = i + 1
	}
	return nil
}

var _ secondary.RTDESessionRepository = (*mockRTDESessionRepository)(nil)

type mockRTDECount struct {
	quantity int
	pulled   bool
}

type mockRTDESessionRepository struct {
	sessions    map[string]*secondary.RTDESessionRecord
	counts      map[string]map[string]*mockRTDECount
	items       *mockRTDEItemRepository
	completions []*secondary.RTDECompletion
	expiredIDs  []string
	sweepCutoff time.Time
}

func newMockRTDESessionRepository(items *mockRTDEItemRepository) *mockRTDESessionRepository {
	return &mockRTDESessionRepository{
		sessions: make(map[string]*secondary.RTDESessionRecord),
		counts:   make(map[string]map[string]*mockRTDECount),
		items:    items,
	}
}

func (m *mockRTDESessionRepository) put(s *secondary.RTDESessionRecord) {
	copied := *s
	m.sessions[s.ID] = &copied
}

func (m *mockRTDESessionRepository) deleteInProgress(userID string) {
	for id, s := range m.sessions {
		if s.UserID == userID && s.Status == "in_progress" {
			delete(m.sessions, id)
			delete(m.counts, id)
		}
	}
}

func (m *mockRTDESessionRepository) CreateReplacing(ctx context.Context, s *secondary.RTDESessionRecord) error {
	m.deleteInProgress(s.UserID)
	m.put(s)
	return nil
}

func (m *mockRTDESessionRepository) GetByID(ctx context.Context, id string) (*secondary.RTDESessionRecord, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, apperr.NotFound("session %s not found", id)
	}
	copied := *s
	return &copied, nil
}

func (m *mockRTDESessionRepository) GetLatestInProgress(ctx context.Context, userID string) (*secondary.RTDESessionRecord, error) {
	var latest *secondary.RTDESessionRecord
	for _, s := range m.sessions {
		if s.UserID != userID || s.Status != "in_progress" {
			continue
		}
		if latest == nil || s.StartedAt.After(latest.StartedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (m *mockRTDESessionRepository) MarkExpired(ctx context.Context, id string) error {
	if s, ok := m.sessions[id]; ok && s.Status == "in_progress" {
		s.Status = "expired"
		m.expiredIDs = append(m.expiredIDs, id)
	}
	return nil
}

func (m *mockRTDESessionRepository) row(sessionID, itemID string) (*mockRTDECount, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, apperr.NotFound("session %s not found", sessionID)
	}
	if s.Status != "in_progress" {
		return nil, &secondary.StatusMismatchError{SessionID: sessionID, Actual: s.Status}
	}
	if m.counts[sessionID] == nil {
		m.counts[sessionID] = make(map[string]*mockRTDECount)
	}
	c, ok := m.counts[sessionID][itemID]
	if !ok {
		c = &mockRTDECount{}
		m.counts[sessionID][itemID] = c
	}
	return c, nil
}

func (m *mockRTDESessionRepository) UpsertCount(ctx context.Context, sessionID, itemID string, quantity int, at time.Time) error {
	c, err := m.row(sessionID, itemID)
	if err != nil {
		return err
	}
	c.quantity = quantity
	return nil
}

func (m *mockRTDESessionRepository) UpsertPulled(ctx context.Context, sessionID, itemID string, pulled bool, at time.Time) error {
	c, err := m.row(sessionID, itemID)
	if err != nil {
		return err
	}
	c.pulled = pulled
	return nil
}

func (m *mockRTDESessionRepository) ListItemStates(ctx context.Context, sessionID string) ([]*secondary.RTDEItemStateRecord, error) {
	items, _ := m.items.List(ctx, secondary.CatalogFilters{ActiveOnly: true})
	out := make([]*secondary.RTDEItemStateRecord, len(items))
	for i, it := range items {
		st := &secondary.RTDEItemStateRecord{
			ItemID: it.ID, Name: it.Name, ParLevel: it.ParLevel, DisplayOrder: it.DisplayOrder,
		}
		if c, ok := m.counts[sessionID][it.ID]; ok {
			st.HasCount, st.Counted, st.IsPulled = true, c.quantity, c.pulled
		}
		out[i] = st
	}
	return out, nil
}

func (m *mockRTDESessionRepository) Complete(ctx context.Context, c *secondary.RTDECompletion) error {
	s, ok := m.sessions[c.SessionID]
	if !ok {
		return apperr.NotFound("session %s not found", c.SessionID)
	}
	if s.Status != "in_progress" {
		return &secondary.StatusMismatchError{SessionID: c.SessionID, Actual: s.Status}
	}
	delete(m.sessions, c.SessionID)
	delete(m.counts, c.SessionID)
	m.deleteInProgress(c.UserID)
	m.completions = append(m.completions, c)
	return nil
}

func (m *mockRTDESessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m.sweepCutoff = now
	var n int64
	for id, s := range m.sessions {
		if s.Status == "in_progress" && s.ExpiresAt.Before(now) {
			delete(m.sessions, id)
			delete(m.counts, id)
			n++
		}
	}
	return n, nil
}

// ============================================================================
// Activity
// ============================================================================

var _ secondary.ActivityWriter = (*mockActivityWriter)(nil)

type mockActivityWriter struct {
	events []string // tool/action/entity@actor
	err    error
}

func (m *mockActivityWriter) Record(ctx context.Context, tool, action, entityID, detail string) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, tool+"/"+action+"/"+entityID+"@"+ctxutil.ActorFromContext(ctx))
	return nil
}

var _ secondary.ActivityLogRepository = (*mockActivityLogRepository)(nil)

type mockActivityLogRepository struct {
	records    []*secondary.ActivityRecord
	lastFilter secondary.ActivityFilters
}

func (m *mockActivityLogRepository) Create(ctx context.Context, e *secondary.ActivityRecord) error {
	m.records = append(m.records, e)
	return nil
}

func (m *mockActivityLogRepository) List(ctx context.Context, filters secondary.ActivityFilters) ([]*secondary.ActivityRecord, error) {
	m.lastFilter = filters
	var out []*secondary.ActivityRecord
	for i := len(m.records) - 1; i >= 0 && (filters.Limit == 0 || len(out) < filters.Limit); i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

func (m *mockActivityLogRepository) Latest(ctx context.Context, tool, action string) (*secondary.ActivityRecord, error) {
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].Tool == tool && m.records[i].Action == action {
			return m.records[i], nil
		}
	}
	return nil, nil
}
