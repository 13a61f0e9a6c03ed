package pgstore

import (
	"context"
	"database/sql"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storedesk/storedesk-backend/internal/records"
)

func setupStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func expectNotify(mock sqlmock.Sqlmock, collection string) {
	mock.ExpectExec(regexp.QuoteMeta(`SELECT pg_notify($1, $2)`)).
		WithArgs(notifyChannel, collection).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestStore_Create(t *testing.T) {
	store, mock := setupStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO records`).
		WithArgs("customers", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectNotify(mock, "customers")
	mock.ExpectCommit()

	id, err := store.Create(context.Background(), "customers", map[string]interface{}{
		"name":      "Ada",
		"createdAt": time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Update(t *testing.T) {
	t.Run("merges partial data", func(t *testing.T) {
		store, mock := setupStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE records SET data = data || $3::jsonb`)).
			WithArgs("leads", "lead-1", `{"status":"won"}`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		expectNotify(mock, "leads")
		mock.ExpectCommit()

		err := store.Update(context.Background(), "leads", "lead-1", map[string]interface{}{"status": "won"})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing document", func(t *testing.T) {
		store, mock := setupStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE records`).
			WithArgs("leads", "missing", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := store.Update(context.Background(), "leads", "missing", map[string]interface{}{"status": "won"})
		require.Error(t, err)
		assert.ErrorIs(t, err, records.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_Delete(t *testing.T) {
	store, mock := setupStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM records`).
		WithArgs("appointments", "appt-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectNotify(mock, "appointments")
	mock.ExpectCommit()

	require.NoError(t, store.Delete(context.Background(), "appointments", "appt-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetByID(t *testing.T) {
	store, mock := setupStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT data FROM records`).
		WithArgs("customers", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"name":"Ada","totalPurchases":3}`)))
	mock.ExpectQuery(`SELECT data FROM records`).
		WithArgs("customers", "gone").
		WillReturnError(sql.ErrNoRows)

	doc, err := store.GetByID(ctx, "customers", "c1")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "c1", doc.ID)
	assert.Equal(t, "Ada", doc.Data["name"])
	assert.Equal(t, float64(3), doc.Data["totalPurchases"])

	doc, err = store.GetByID(ctx, "customers", "gone")
	require.NoError(t, err)
	assert.Nil(t, doc)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FetchOncePushesEqualityFilters(t *testing.T) {
	store, mock := setupStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, data FROM records WHERE collection = $1 AND data->>$2 = $3`)).
		WithArgs("leads", "locationId", "loc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).
			AddRow("a", []byte(`{"locationId":"loc-1","estimatedValue":100}`)).
			AddRow("b", []byte(`{"locationId":"loc-1","estimatedValue":900}`)).
			AddRow("c", []byte(`{"locationId":"loc-1"}`)))

	docs, err := store.FetchOnce(context.Background(), "leads", records.Query{
		Filters: []records.Filter{
			records.Where("locationId", records.OpEqual, "loc-1"),
			records.Where("estimatedValue", records.OpGreaterEqual, 50),
		},
		OrderBy: []records.Order{{Field: "estimatedValue", Desc: true}},
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[0].ID)
	assert.Equal(t, "a", docs[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FetchOnceWrapsErrors(t *testing.T) {
	store, mock := setupStore(t)

	mock.ExpectQuery(`SELECT id, data FROM records`).WillReturnError(sql.ErrConnDone)

	_, err := store.FetchOnce(context.Background(), "customers", records.Query{})
	var ae *records.AccessError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "list", ae.Op)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestStore_SubscribeRefetchesAfterWrite(t *testing.T) {
	store, mock := setupStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, data FROM records`).
		WithArgs("customers").
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}))

	sub, err := store.Subscribe(ctx, "customers", records.Query{})
	require.NoError(t, err)
	defer sub.Close()

	first := <-sub.Updates()
	require.NoError(t, first.Err)
	assert.Empty(t, first.Docs)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO records`).WillReturnResult(sqlmock.NewResult(0, 1))
	expectNotify(mock, "customers")
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT id, data FROM records`).
		WithArgs("customers").
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).AddRow("c1", []byte(`{"name":"Ada"}`)))

	require.NoError(t, store.CreateWithID(ctx, "customers", "c1", map[string]interface{}{"name": "Ada"}))

	select {
	case snap := <-sub.Updates():
		require.NoError(t, snap.Err)
		require.Len(t, snap.Docs, 1)
		assert.Equal(t, "c1", snap.Docs[0].ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot after write")
	}
}

type fakeListener struct {
	notifications chan *pq.Notification
	pings         atomic.Int32
	closed        atomic.Bool
}

func (f *fakeListener) NotificationChannel() <-chan *pq.Notification { return f.notifications }

func (f *fakeListener) Ping() error {
	f.pings.Add(1)
	return nil
}

func (f *fakeListener) Close() error {
	f.closed.Store(true)
	return nil
}

func TestStore_ListenerRelaysNotifications(t *testing.T) {
	store, mock := setupStore(t)
	l := &fakeListener{notifications: make(chan *pq.Notification)}
	store.attach(l, 10*time.Millisecond)

	customers, releaseCustomers := store.notifier.Listen("customers")
	defer releaseCustomers()
	leads, releaseLeads := store.notifier.Listen("leads")
	defer releaseLeads()

	l.notifications <- &pq.Notification{Channel: notifyChannel, Extra: "customers"}
	select {
	case <-customers:
	case <-time.After(time.Second):
		t.Fatal("customers not notified")
	}
	select {
	case <-leads:
		t.Fatal("leads notified for a customers change")
	default:
	}

	// a nil notification means the connection was re-established
	l.notifications <- nil
	for name, ch := range map[string]<-chan struct{}{"customers": customers, "leads": leads} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("%s not notified after reconnect", name)
		}
	}

	require.Eventually(t, func() bool { return l.pings.Load() >= 2 }, time.Second, 5*time.Millisecond)

	mock.ExpectClose()
	require.NoError(t, store.Close())
	assert.True(t, l.closed.Load())
	require.NoError(t, mock.ExpectationsWereMet())
}
