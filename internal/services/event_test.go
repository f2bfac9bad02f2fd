package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventboard/internal/domain"
)

type eventFixture struct {
	events    *fakeEventRepo
	locations *fakeLocationRepo
	cats      *fakeCategoryRepo
	users     *fakeUserRepo
	requests  *fakeRequestRepo
	stats     *fakeStatsClient
	emails    *fakeEmailService
	svc       domain.EventService
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()
	f := &eventFixture{
		events:    newFakeEventRepo(),
		locations: newFakeLocationRepo(),
		cats:      newFakeCategoryRepo(),
		users:     newFakeUserRepo(),
		requests:  newFakeRequestRepo(),
		stats:     &fakeStatsClient{},
		emails:    &fakeEmailService{},
	}
	f.svc = NewEventService(f.events, f.locations, f.cats, f.users, f.requests, f.stats, f.emails, time.Second)
	return f
}

func (f *eventFixture) addUser(t *testing.T, name string) *domain.User {
	t.Helper()
	u := &domain.User{Email: name + "@example.com", Name: name}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *eventFixture) addCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name}
	require.NoError(t, f.cats.Create(context.Background(), c))
	return c
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }

func validNewEvent(categoryID int64) domain.NewEvent {
	date := domain.NewDateTime(time.Now().Add(72 * time.Hour))
	return domain.NewEvent{
		Annotation:  strPtr("An annotation long enough to pass the bounds"),
		Description: strPtr("A description long enough to pass the bounds"),
		Title:       strPtr("A concert"),
		EventDate:   &date,
		Category:    &categoryID,
		Location:    &domain.Location{Lat: 55.75, Lon: 37.62},
	}
}

func (f *eventFixture) addEvent(t *testing.T, initiator *domain.User, state domain.EventState, limit int, moderation bool) *domain.Event {
	t.Helper()
	cat := f.addCategory(t, "cat-for-"+initiator.Name+time.Now().Format("150405.000000000"))
	e := &domain.Event{
		Annotation:        "An annotation long enough to pass the bounds",
		Description:       "A description long enough to pass the bounds",
		Title:             "A concert",
		EventDate:         domain.NewDateTime(time.Now().Add(72 * time.Hour)),
		Category:          *cat,
		Location:          domain.Location{ID: 1, Lat: 55.75, Lon: 37.62},
		Initiator:         initiator.Short(),
		ParticipantLimit:  limit,
		RequestModeration: moderation,
		State:             state,
		CreatedOn:         domain.NewDateTime(time.Now()),
	}
	if state == domain.StatePublished {
		published := domain.NewDateTime(time.Now())
		e.PublishedOn = &published
	}
	require.NoError(t, f.events.Create(context.Background(), e))
	return e
}

func TestEventService_Create(t *testing.T) {
	f := newEventFixture(t)
	user := f.addUser(t, "alice")
	cat := f.addCategory(t, "concerts")

	event, err := f.svc.Create(context.Background(), user.ID, validNewEvent(cat.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.StatePending, event.State)
	assert.Equal(t, user.ID, event.Initiator.ID)
	assert.Equal(t, cat.ID, event.Category.ID)
	assert.True(t, event.RequestModeration)
	assert.False(t, event.Paid)
	assert.NotZero(t, event.ID)
	assert.NotZero(t, event.Location.ID)
}

func TestEventService_Create_Validation(t *testing.T) {
	f := newEventFixture(t)
	user := f.addUser(t, "alice")
	cat := f.addCategory(t, "concerts")

	t.Run("short annotation", func(t *testing.T) {
		in := validNewEvent(cat.ID)
		in.Annotation = strPtr("too short")
		_, err := f.svc.Create(context.Background(), user.ID, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing event date", func(t *testing.T) {
		in := validNewEvent(cat.ID)
		in.EventDate = nil
		_, err := f.svc.Create(context.Background(), user.ID, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("event date too soon", func(t *testing.T) {
		in := validNewEvent(cat.ID)
		soon := domain.NewDateTime(time.Now().Add(30 * time.Minute))
		in.EventDate = &soon
		_, err := f.svc.Create(context.Background(), user.ID, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("negative participant limit", func(t *testing.T) {
		in := validNewEvent(cat.ID)
		in.ParticipantLimit = intPtr(-1)
		_, err := f.svc.Create(context.Background(), user.ID, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown category", func(t *testing.T) {
		in := validNewEvent(999)
		_, err := f.svc.Create(context.Background(), user.ID, in)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.svc.Create(context.Background(), 999, validNewEvent(cat.ID))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventService_UpdateByUser(t *testing.T) {
	f := newEventFixture(t)
	user := f.addUser(t, "alice")

	t.Run("published event cannot be changed", func(t *testing.T) {
		event := f.addEvent(t, user, domain.StatePublished, 0, true)
		_, err := f.svc.UpdateByUser(context.Background(), user.ID, event.ID, domain.EventPatch{
			Title: strPtr("New title"),
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("foreign event is not found", func(t *testing.T) {
		other := f.addUser(t, "bob")
		event := f.addEvent(t, other, domain.StatePending, 0, true)
		_, err := f.svc.UpdateByUser(context.Background(), user.ID, event.ID, domain.EventPatch{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("cancel review", func(t *testing.T) {
		event := f.addEvent(t, user, domain.StatePending, 0, true)
		action := domain.ActionCancelReview
		updated, err := f.svc.UpdateByUser(context.Background(), user.ID, event.ID, domain.EventPatch{
			StateAction: &action,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StateCanceled, updated.State)
	})

	t.Run("send canceled event back to review", func(t *testing.T) {
		event := f.addEvent(t, user, domain.StateCanceled, 0, true)
		action := domain.ActionSendToReview
		updated, err := f.svc.UpdateByUser(context.Background(), user.ID, event.ID, domain.EventPatch{
			StateAction: &action,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatePending, updated.State)
	})

	t.Run("admin action rejected on user endpoint", func(t *testing.T) {
		event := f.addEvent(t, user, domain.StatePending, 0, true)
		action := domain.ActionPublish
		_, err := f.svc.UpdateByUser(context.Background(), user.ID, event.ID, domain.EventPatch{
			StateAction: &action,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestEventService_UpdateByAdmin(t *testing.T) {
	f := newEventFixture(t)
	user := f.addUser(t, "alice")

	t.Run("publish pending event", func(t *testing.T) {
		event := f.addEvent(t, user, domain.StatePending, 0, true)
		action := domain.ActionPublish
		updated, err := f.svc.UpdateByAdmin(context.Background(), event.ID, domain.EventPatch{
			StateAction: &action,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatePublished, updated.State)
		require.NotNil(t, updated.PublishedOn)
		require.Len(t, f.emails.sent, 1)
		assert.True(t, f.emails.sent[0].Published)
		assert.Equal(t, user.Email, f.emails.sent[0].Email)
	})

	t.Run("publish non-pending event fails", func(t *testing.T) {
		event := f.addEvent(t, user, domain.StateCanceled, 0, true)
		action := domain.ActionPublish
		_, err := f.svc.UpdateByAdmin(context.Background(), event.ID, domain.EventPatch{
			StateAction: &action,
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("reject pending event sends email", func(t *testing.T) {
		f := newEventFixture(t)
		user := f.addUser(t, "alice")
		event := f.addEvent(t, user, domain.StatePending, 0, true)
		action := domain.ActionReject
		updated, err := f.svc.UpdateByAdmin(context.Background(), event.ID, domain.EventPatch{
			StateAction: &action,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StateCanceled, updated.State)
		require.Len(t, f.emails.sent, 1)
		assert.False(t, f.emails.sent[0].Published)
	})

	t.Run("email failure does not fail the update", func(t *testing.T) {
		f := newEventFixture(t)
		f.emails.err = assert.AnError
		user := f.addUser(t, "alice")
		event := f.addEvent(t, user, domain.StatePending, 0, true)
		action := domain.ActionPublish
		updated, err := f.svc.UpdateByAdmin(context.Background(), event.ID, domain.EventPatch{
			StateAction: &action,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatePublished, updated.State)
	})

	t.Run("patched date inside lead window fails", func(t *testing.T) {
		event := f.addEvent(t, user, domain.StatePending, 0, true)
		soon := domain.NewDateTime(time.Now().Add(30 * time.Minute))
		_, err := f.svc.UpdateByAdmin(context.Background(), event.ID, domain.EventPatch{
			EventDate: &soon,
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestEventService_SearchPublished(t *testing.T) {
	f := newEventFixture(t)
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	full := f.addEvent(t, alice, domain.StatePublished, 1, true)
	open := f.addEvent(t, alice, domain.StatePublished, 2, true)
	f.addEvent(t, bob, domain.StatePending, 0, true)

	// Fill the first event to its limit.
	require.NoError(t, f.requests.Create(context.Background(), &domain.Request{
		EventID: full.ID, RequesterID: bob.ID, Status: domain.RequestConfirmed,
	}, full.ParticipantLimit))

	page := domain.Page{From: 0, Size: 10}

	t.Run("pending events are excluded", func(t *testing.T) {
		events, err := f.svc.SearchPublished(context.Background(), domain.PublicSearchQuery{Page: page})
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("onlyAvailable excludes full events", func(t *testing.T) {
		events, err := f.svc.SearchPublished(context.Background(), domain.PublicSearchQuery{
			OnlyAvailable: true,
			Page:          page,
		})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, open.ID, events[0].ID)
	})

	t.Run("confirmed counts are merged in", func(t *testing.T) {
		events, err := f.svc.SearchPublished(context.Background(), domain.PublicSearchQuery{Page: page})
		require.NoError(t, err)
		byID := map[int64]*domain.Event{}
		for _, e := range events {
			byID[e.ID] = e
		}
		assert.Equal(t, 1, byID[full.ID].ConfirmedRequests)
		assert.Equal(t, 0, byID[open.ID].ConfirmedRequests)
	})

	t.Run("sort by views", func(t *testing.T) {
		f.stats.stats = []domain.URIStats{
			{App: "eventboard", URI: eventURI(open.ID), Hits: 5},
		}
		events, err := f.svc.SearchPublished(context.Background(), domain.PublicSearchQuery{
			Sort: domain.SortByViews,
			Page: page,
		})
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, full.ID, events[0].ID)
		assert.Equal(t, int64(5), events[1].Views)
		f.stats.stats = nil
	})

	t.Run("stats failure degrades views to zero", func(t *testing.T) {
		f.stats.err = assert.AnError
		events, err := f.svc.SearchPublished(context.Background(), domain.PublicSearchQuery{Page: page})
		require.NoError(t, err)
		for _, e := range events {
			assert.Zero(t, e.Views)
		}
		f.stats.err = nil
	})

	t.Run("pagination applied after filtering", func(t *testing.T) {
		events, err := f.svc.SearchPublished(context.Background(), domain.PublicSearchQuery{
			Page: domain.Page{From: 1, Size: 10},
		})
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})

	t.Run("inverted range fails", func(t *testing.T) {
		start := time.Now()
		end := start.Add(-time.Hour)
		_, err := f.svc.SearchPublished(context.Background(), domain.PublicSearchQuery{
			RangeStart: &start,
			RangeEnd:   &end,
			Page:       page,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestEventService_SearchPublished_TextAndRange(t *testing.T) {
	f := newEventFixture(t)
	alice := f.addUser(t, "alice")
	page := domain.Page{From: 0, Size: 10}
	ctx := context.Background()

	jazz := f.addEvent(t, alice, domain.StatePublished, 0, true)
	jazz.Annotation = "Jazz night by the river"
	jazz.Description = "Outdoor stage with food trucks"
	require.NoError(t, f.events.Update(ctx, jazz))

	movies := f.addEvent(t, alice, domain.StatePublished, 0, true)
	movies.Annotation = "Movie marathon indoors"
	movies.Description = "Classic films all night long"
	require.NoError(t, f.events.Update(ctx, movies))

	t.Run("text matches annotation case-insensitively", func(t *testing.T) {
		events, err := f.svc.SearchPublished(ctx, domain.PublicSearchQuery{Text: "RIVER", Page: page})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, jazz.ID, events[0].ID)
	})

	t.Run("text matches description when annotation does not", func(t *testing.T) {
		events, err := f.svc.SearchPublished(ctx, domain.PublicSearchQuery{Text: "films", Page: page})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, movies.ID, events[0].ID)
	})

	t.Run("range excluding the dates hides both, covering range restores them", func(t *testing.T) {
		start := time.Now().Add(100 * time.Hour)
		end := start.Add(100 * time.Hour)
		events, err := f.svc.SearchPublished(ctx, domain.PublicSearchQuery{
			RangeStart: &start, RangeEnd: &end, Page: page,
		})
		require.NoError(t, err)
		assert.Empty(t, events)

		start = time.Now()
		end = start.Add(100 * time.Hour)
		events, err = f.svc.SearchPublished(ctx, domain.PublicSearchQuery{
			RangeStart: &start, RangeEnd: &end, Page: page,
		})
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})
}

func TestEventService_GetPublished(t *testing.T) {
	f := newEventFixture(t)
	user := f.addUser(t, "alice")
	pending := f.addEvent(t, user, domain.StatePending, 0, true)
	published := f.addEvent(t, user, domain.StatePublished, 0, true)

	_, err := f.svc.GetPublished(context.Background(), pending.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	event, err := f.svc.GetPublished(context.Background(), published.ID)
	require.NoError(t, err)
	assert.Equal(t, published.ID, event.ID)
}

func TestEventService_ChangeRequestStatuses(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, limit int, moderation bool) (*eventFixture, *domain.User, *domain.Event, []int64) {
		f := newEventFixture(t)
		owner := f.addUser(t, "owner")
		event := f.addEvent(t, owner, domain.StatePublished, limit, moderation)
		var ids []int64
		for _, name := range []string{"r1", "r2", "r3"} {
			u := f.addUser(t, name)
			req := &domain.Request{EventID: event.ID, RequesterID: u.ID, Status: domain.RequestPending}
			require.NoError(t, f.requests.Create(ctx, req, 0))
			ids = append(ids, req.ID)
		}
		return f, owner, event, ids
	}

	t.Run("overflow spills to rejected", func(t *testing.T) {
		f, owner, event, ids := setup(t, 2, true)
		result, err := f.svc.ChangeRequestStatuses(ctx, owner.ID, event.ID, domain.StatusUpdate{
			RequestIDs: ids,
			Status:     domain.RequestConfirmed,
		})
		require.NoError(t, err)
		require.Len(t, result.ConfirmedRequests, 2)
		require.Len(t, result.RejectedRequests, 1)
		assert.Equal(t, ids[0], result.ConfirmedRequests[0].ID)
		assert.Equal(t, ids[1], result.ConfirmedRequests[1].ID)
		assert.Equal(t, ids[2], result.RejectedRequests[0].ID)
	})

	t.Run("non-initiator is refused", func(t *testing.T) {
		f, _, event, ids := setup(t, 2, true)
		stranger := f.addUser(t, "stranger")
		_, err := f.svc.ChangeRequestStatuses(ctx, stranger.ID, event.ID, domain.StatusUpdate{
			RequestIDs: ids,
			Status:     domain.RequestConfirmed,
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("pending target is invalid", func(t *testing.T) {
		f, owner, event, ids := setup(t, 2, true)
		_, err := f.svc.ChangeRequestStatuses(ctx, owner.ID, event.ID, domain.StatusUpdate{
			RequestIDs: ids,
			Status:     domain.RequestPending,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("confirmation not applicable without moderation", func(t *testing.T) {
		f, owner, event, ids := setup(t, 2, false)
		_, err := f.svc.ChangeRequestStatuses(ctx, owner.ID, event.ID, domain.StatusUpdate{
			RequestIDs: ids,
			Status:     domain.RequestConfirmed,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("non-pending id fails atomically", func(t *testing.T) {
		f, owner, event, ids := setup(t, 2, true)
		require.NoError(t, f.requests.UpdateStatus(ctx, ids[1], domain.RequestCanceled))
		_, err := f.svc.ChangeRequestStatuses(ctx, owner.ID, event.ID, domain.StatusUpdate{
			RequestIDs: ids,
			Status:     domain.RequestConfirmed,
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
		first, err := f.requests.GetByID(ctx, ids[0])
		require.NoError(t, err)
		assert.Equal(t, domain.RequestPending, first.Status)
	})

	t.Run("reject sets all unconditionally", func(t *testing.T) {
		f, owner, event, ids := setup(t, 2, true)
		result, err := f.svc.ChangeRequestStatuses(ctx, owner.ID, event.ID, domain.StatusUpdate{
			RequestIDs: ids,
			Status:     domain.RequestRejected,
		})
		require.NoError(t, err)
		assert.Empty(t, result.ConfirmedRequests)
		assert.Len(t, result.RejectedRequests, 3)
	})
}
