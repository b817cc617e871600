package database

import (
	"context"
	"io"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, db *DB, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func seedItem(t *testing.T, db *DB, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	item := &models.Item{Name: name, Description: name + " description", Available: available, OwnerID: ownerID}
	require.NoError(t, db.CreateItem(context.Background(), item))
	return item
}

func TestUserCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, db, "alice", "alice@example.com")
	assert.NotZero(t, user.ID)

	got, err := db.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)

	_, err = db.GetUser(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)

	dup := &models.User{Name: "clone", Email: "alice@example.com"}
	assert.ErrorIs(t, db.CreateUser(ctx, dup), ErrEmailTaken)

	user.Name = "alice2"
	require.NoError(t, db.UpdateUser(ctx, user))
	got, err = db.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Name)

	other := seedUser(t, db, "bob", "bob@example.com")
	other.Email = "alice@example.com"
	assert.ErrorIs(t, db.UpdateUser(ctx, other), ErrEmailTaken)

	users, err := db.AllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, db.DeleteUser(ctx, other.ID))
	assert.ErrorIs(t, db.DeleteUser(ctx, other.ID), ErrNotFound)
}

func TestItemQueries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner", "owner@example.com")
	drill := seedItem(t, db, owner.ID, "Cordless Drill", true)
	seedItem(t, db, owner.ID, "Ladder", true)
	hidden := seedItem(t, db, owner.ID, "Broken drill press", false)

	t.Run("ByOwnerOrdered", func(t *testing.T) {
		items, err := db.ItemsByOwner(ctx, owner.ID, models.NewPage(0, 10))
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, drill.ID, items[0].ID)
	})

	t.Run("SearchIsCaseInsensitiveAndSkipsUnavailable", func(t *testing.T) {
		items, err := db.SearchItems(ctx, "dRiLl", models.NewPage(0, 10))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, drill.ID, items[0].ID)
	})

	t.Run("Update", func(t *testing.T) {
		hidden.Available = true
		hidden.Name = "Drill press"
		require.NoError(t, db.UpdateItem(ctx, hidden))

		items, err := db.SearchItems(ctx, "press", models.NewPage(0, 10))
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, db.DeleteItem(ctx, hidden.ID))
		_, err := db.GetItem(ctx, hidden.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBookingQueries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	owner := seedUser(t, db, "owner", "owner@example.com")
	booker := seedUser(t, db, "booker", "booker@example.com")
	item := seedItem(t, db, owner.ID, "drill", true)

	mkBooking := func(start, end time.Time, status models.BookingStatus) *models.Booking {
		b := &models.Booking{Start: start, End: end, ItemID: item.ID, BookerID: booker.ID, Status: status}
		require.NoError(t, db.CreateBooking(ctx, b))
		return b
	}

	past := mkBooking(now.Add(-3*time.Hour), now.Add(-2*time.Hour), models.StatusApproved)
	future := mkBooking(now.Add(2*time.Hour), now.Add(3*time.Hour), models.StatusApproved)
	waiting := mkBooking(now.Add(5*time.Hour), now.Add(6*time.Hour), models.StatusWaiting)

	t.Run("ByBookerNewestFirst", func(t *testing.T) {
		bookings, err := db.BookingsByBooker(ctx, booker.ID, models.NewPage(0, 10))
		require.NoError(t, err)
		require.Len(t, bookings, 3)
		assert.Equal(t, waiting.ID, bookings[0].ID)
		assert.Equal(t, past.ID, bookings[2].ID)
	})

	t.Run("ByOwnerJoinsItems", func(t *testing.T) {
		bookings, err := db.BookingsByOwner(ctx, owner.ID, models.NewPage(0, 10))
		require.NoError(t, err)
		assert.Len(t, bookings, 3)
	})

	t.Run("ApprovedOnlyOrdered", func(t *testing.T) {
		asc, err := db.ApprovedBookingsByItemAsc(ctx, item.ID)
		require.NoError(t, err)
		require.Len(t, asc, 2)
		assert.Equal(t, past.ID, asc[0].ID)

		desc, err := db.ApprovedBookingsByItemDesc(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, future.ID, desc[0].ID)
	})

	t.Run("FinishedForComments", func(t *testing.T) {
		finished, err := db.FinishedBookingsByBookerAndItem(ctx, booker.ID, item.ID, now)
		require.NoError(t, err)
		require.Len(t, finished, 1)
		assert.Equal(t, past.ID, finished[0].ID)
	})

	t.Run("DecideGuards", func(t *testing.T) {
		require.NoError(t, db.DecideBooking(ctx, waiting.ID, models.StatusApproved))

		got, err := db.GetBooking(ctx, waiting.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, got.Status)

		assert.ErrorIs(t, db.DecideBooking(ctx, waiting.ID, models.StatusRejected), ErrAlreadyDecided)
		assert.ErrorIs(t, db.DecideBooking(ctx, 404, models.StatusApproved), ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, db.DeleteBooking(ctx, waiting.ID))
		assert.ErrorIs(t, db.DeleteBooking(ctx, waiting.ID), ErrNotFound)
	})
}

func TestCommentQueries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner", "owner@example.com")
	renter := seedUser(t, db, "renter", "renter@example.com")
	item := seedItem(t, db, owner.ID, "drill", true)

	first := &models.Comment{Text: "works great", ItemID: item.ID, AuthorID: renter.ID, CreatedAt: time.Now().UTC().Add(-time.Hour)}
	second := &models.Comment{Text: "battery is weak", ItemID: item.ID, AuthorID: renter.ID, CreatedAt: time.Now().UTC()}
	require.NoError(t, db.CreateComment(ctx, first))
	require.NoError(t, db.CreateComment(ctx, second))

	comments, err := db.CommentsByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "works great", comments[0].Text)
	assert.Equal(t, "renter", comments[0].AuthorName)
}

func TestRequestQueries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	asker := seedUser(t, db, "asker", "asker@example.com")
	other := seedUser(t, db, "other", "other@example.com")

	older := &models.ItemRequest{Description: "need a drill", RequesterID: asker.ID, CreatedAt: time.Now().UTC().Add(-time.Hour)}
	newer := &models.ItemRequest{Description: "need a ladder", RequesterID: asker.ID, CreatedAt: time.Now().UTC()}
	foreign := &models.ItemRequest{Description: "need a saw", RequesterID: other.ID, CreatedAt: time.Now().UTC()}
	for _, r := range []*models.ItemRequest{older, newer, foreign} {
		require.NoError(t, db.CreateRequest(ctx, r))
	}

	t.Run("OwnNewestFirst", func(t *testing.T) {
		requests, err := db.RequestsByRequester(ctx, asker.ID)
		require.NoError(t, err)
		require.Len(t, requests, 2)
		assert.Equal(t, newer.ID, requests[0].ID)
	})

	t.Run("FromOthersExcludesOwn", func(t *testing.T) {
		requests, err := db.RequestsFromOthers(ctx, asker.ID, models.NewPage(0, 10))
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, foreign.ID, requests[0].ID)
	})

	t.Run("ItemsAnswering", func(t *testing.T) {
		item := &models.Item{Name: "drill", Description: "answers the request", Available: true, OwnerID: other.ID, RequestID: &older.ID}
		require.NoError(t, db.CreateItem(ctx, item))

		items, err := db.ItemsByRequest(ctx, older.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, item.ID, items[0].ID)
	})
}
