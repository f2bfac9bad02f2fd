package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"eventboard/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[int64]*domain.Event
	nextID int64
	err    error // if set, Create and Update return this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[int64]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	e.ID = f.nextID
	f.nextID++
	copied := *e
	f.byID[e.ID] = &copied
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetByIDAndInitiator(ctx context.Context, id, initiatorID int64) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok || e.Initiator.ID != initiatorID {
		return nil, domain.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *e
	f.byID[e.ID] = &copied
	return nil
}

func (f *fakeEventRepo) sorted() []*domain.Event {
	out := make([]*domain.Event, 0, len(f.byID))
	for _, e := range f.byID {
		copied := *e
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeEventRepo) ListByInitiator(ctx context.Context, initiatorID int64, page domain.Page) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.sorted() {
		if e.Initiator.ID == initiatorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, id := range ids {
		if e, ok := f.byID[id]; ok {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	n := 0
	for _, e := range f.byID {
		if e.Category.ID == categoryID {
			n++
		}
	}
	return n, nil
}

func (f *fakeEventRepo) SearchAdmin(ctx context.Context, q domain.AdminSearchQuery) ([]*domain.Event, error) {
	return f.sorted(), nil
}

func (f *fakeEventRepo) SearchPublished(ctx context.Context, filter domain.PublicSearchFilter) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.sorted() {
		if e.State != domain.StatePublished {
			continue
		}
		if filter.Text != "" {
			t := strings.ToLower(filter.Text)
			if !strings.Contains(strings.ToLower(e.Annotation), t) &&
				!strings.Contains(strings.ToLower(e.Description), t) {
				continue
			}
		}
		if filter.RangeStart != nil && e.EventDate.Before(*filter.RangeStart) {
			continue
		}
		if filter.RangeEnd != nil && e.EventDate.After(*filter.RangeEnd) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// fakeRequestRepo is an in-memory RequestRepository mirroring the
// transactional semantics of the real one.
type fakeRequestRepo struct {
	byID   map[int64]*domain.Request
	nextID int64
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{byID: make(map[int64]*domain.Request), nextID: 1}
}

func (f *fakeRequestRepo) confirmedCount(eventID int64) int {
	n := 0
	for _, r := range f.byID {
		if r.EventID == eventID && r.Status == domain.RequestConfirmed {
			n++
		}
	}
	return n
}

func (f *fakeRequestRepo) Create(ctx context.Context, req *domain.Request, participantLimit int) error {
	if participantLimit > 0 && f.confirmedCount(req.EventID) >= participantLimit {
		return domain.ErrConflict
	}
	req.ID = f.nextID
	f.nextID++
	copied := *req
	f.byID[req.ID] = &copied
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	if r, ok := f.byID[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRequestRepo) GetByRequesterAndEvent(ctx context.Context, requesterID, eventID int64) (*domain.Request, error) {
	for _, r := range f.byID {
		if r.RequesterID == requesterID && r.EventID == eventID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRequestRepo) ListByRequester(ctx context.Context, requesterID int64) ([]*domain.Request, error) {
	var out []*domain.Request
	for _, r := range f.byID {
		if r.RequesterID == requesterID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Request, error) {
	var out []*domain.Request
	for _, r := range f.byID {
		if r.EventID == eventID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	r, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeRequestRepo) CountConfirmed(ctx context.Context, eventID int64) (int, error) {
	return f.confirmedCount(eventID), nil
}

func (f *fakeRequestRepo) CountConfirmedByEvents(ctx context.Context, eventIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int)
	for _, id := range eventIDs {
		if n := f.confirmedCount(id); n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) BulkChangeStatus(ctx context.Context, eventID int64, participantLimit int, confirm bool, ids []int64) ([]*domain.Request, []*domain.Request, error) {
	for _, id := range ids {
		r, ok := f.byID[id]
		if !ok || r.Status != domain.RequestPending {
			return nil, nil, domain.ErrConflict
		}
	}
	var toConfirm, toReject []int64
	if confirm {
		toConfirm, toReject = domain.SplitByCapacity(ids, f.confirmedCount(eventID), participantLimit)
	} else {
		toReject = ids
	}
	var confirmed, rejected []*domain.Request
	for _, id := range toConfirm {
		f.byID[id].Status = domain.RequestConfirmed
		copied := *f.byID[id]
		confirmed = append(confirmed, &copied)
	}
	for _, id := range toReject {
		f.byID[id].Status = domain.RequestRejected
		copied := *f.byID[id]
		rejected = append(rejected, &copied)
	}
	return confirmed, rejected, nil
}

// fakeCategoryRepo is an in-memory CategoryRepository for tests.
type fakeCategoryRepo struct {
	byID   map[int64]*domain.Category
	nextID int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{byID: make(map[int64]*domain.Category), nextID: 1}
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	for _, existing := range f.byID {
		if existing.Name == c.Name {
			return domain.ErrConflict
		}
	}
	c.ID = f.nextID
	f.nextID++
	copied := *c
	f.byID[c.ID] = &copied
	return nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	if c, ok := f.byID[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	for _, c := range f.byID {
		if c.Name == name {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	if _, ok := f.byID[c.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *c
	f.byID[c.ID] = &copied
	return nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCategoryRepo) List(ctx context.Context, page domain.Page) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(f.byID))
	for _, c := range f.byID {
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID   map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[int64]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrConflict
		}
	}
	u.ID = f.nextID
	f.nextID++
	copied := *u
	f.byID[u.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, ids []int64, page domain.Page) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		copied := *u
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeLocationRepo finds or creates by exact coordinates.
type fakeLocationRepo struct {
	byCoords map[[2]float64]*domain.Location
	nextID   int64
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{byCoords: make(map[[2]float64]*domain.Location), nextID: 1}
}

func (f *fakeLocationRepo) GetOrCreate(ctx context.Context, lat, lon float64) (*domain.Location, error) {
	key := [2]float64{lat, lon}
	if l, ok := f.byCoords[key]; ok {
		copied := *l
		return &copied, nil
	}
	l := &domain.Location{ID: f.nextID, Lat: lat, Lon: lon}
	f.nextID++
	f.byCoords[key] = l
	copied := *l
	return &copied, nil
}

// fakeCommentRepo is an in-memory CommentRepository for tests.
type fakeCommentRepo struct {
	byID   map[int64]*domain.Comment
	nextID int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{byID: make(map[int64]*domain.Comment), nextID: 1}
}

func (f *fakeCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	c.ID = f.nextID
	f.nextID++
	copied := *c
	f.byID[c.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	if c, ok := f.byID[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	if _, ok := f.byID[c.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *c
	f.byID[c.ID] = &copied
	return nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCommentRepo) ListByAuthor(ctx context.Context, authorID int64, page domain.Page) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range f.byID {
		if c.AuthorID == authorID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range f.byID {
		if c.EventID == eventID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

// fakeCompilationRepo is an in-memory CompilationRepository for tests.
type fakeCompilationRepo struct {
	byID   map[int64]*domain.Compilation
	nextID int64
}

func newFakeCompilationRepo() *fakeCompilationRepo {
	return &fakeCompilationRepo{byID: make(map[int64]*domain.Compilation), nextID: 1}
}

func (f *fakeCompilationRepo) Create(ctx context.Context, c *domain.Compilation) error {
	c.ID = f.nextID
	f.nextID++
	copied := *c
	f.byID[c.ID] = &copied
	return nil
}

func (f *fakeCompilationRepo) GetByID(ctx context.Context, id int64) (*domain.Compilation, error) {
	if c, ok := f.byID[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCompilationRepo) Update(ctx context.Context, c *domain.Compilation, replaceEvents bool) error {
	stored, ok := f.byID[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if !replaceEvents {
		c.EventIDs = stored.EventIDs
	}
	copied := *c
	f.byID[c.ID] = &copied
	return nil
}

func (f *fakeCompilationRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCompilationRepo) List(ctx context.Context, pinned *bool, page domain.Page) ([]*domain.Compilation, error) {
	var out []*domain.Compilation
	for _, c := range f.byID {
		if pinned != nil && c.Pinned != *pinned {
			continue
		}
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeStatsClient records hits and serves canned view counts.
type fakeStatsClient struct {
	hits  []domain.Hit
	stats []domain.URIStats
	err   error
}

func (f *fakeStatsClient) RecordHit(ctx context.Context, hit domain.Hit) error {
	if f.err != nil {
		return f.err
	}
	f.hits = append(f.hits, hit)
	return nil
}

func (f *fakeStatsClient) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]domain.URIStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

// fakeEmailService records the moderation results it was asked to send.
type fakeEmailService struct {
	sent []*domain.ModerationResultEmailData
	err  error
}

func (f *fakeEmailService) SendModerationResult(ctx context.Context, data *domain.ModerationResultEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}
