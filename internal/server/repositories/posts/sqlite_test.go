package posts

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/server/migrations"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := dbx.Open(ctx, dbx.DialectSQLite, filepath.Join(t.TempDir(), "posts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	p, err := migrations.NewProvider(dbx.DialectSQLite, db)
	require.NoError(t, err)
	_, err = p.Up(ctx)
	require.NoError(t, err)
	return db
}

func insertUser(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO "user" (username, email) VALUES (?, ?)`, name, name+"@example.com")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func strPtr(s string) *string { return &s }

func TestSQLite_CreateAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	uid := insertUser(t, db, "john")

	p, err := r.Create(ctx, &models.Post{Body: "hello", Language: strPtr("en"), UserID: uid})
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.ID)
	assert.False(t, p.Timestamp.IsZero())

	got, err := r.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Body)
	require.NotNil(t, got.Language)
	assert.Equal(t, "en", *got.Language)
	assert.Equal(t, uid, got.UserID)
	assert.WithinDuration(t, p.Timestamp, got.Timestamp, time.Millisecond)

	_, err = r.GetByID(ctx, 404)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLite_CreateRejectsLongBody(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	uid := insertUser(t, db, "john")

	_, err := r.Create(context.Background(), &models.Post{Body: strings.Repeat("x", 141), UserID: uid})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	p, err := r.Create(context.Background(), &models.Post{Body: strings.Repeat("é", 140), UserID: uid})
	require.NoError(t, err)
	assert.Equal(t, 140, len([]rune(p.Body)))
}

func TestSQLite_CheckConstraintRejectsDirectInsert(t *testing.T) {
	db := setupDB(t)
	uid := insertUser(t, db, "john")

	_, err := db.Exec(`INSERT INTO post (body, user_id) VALUES (?, ?)`, strings.Repeat("x", 141), uid)
	require.Error(t, err)
	assert.True(t, dbx.CheckViolation(err))
	assert.ErrorIs(t, translateWriteError(err), common.ErrInvalidInput)
}

func TestSQLite_CreateUnknownAuthor(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Create(context.Background(), &models.Post{Body: "orphan", UserID: 77})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLite_ListByUser(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	john := insertUser(t, db, "john")
	mary := insertUser(t, db, "mary")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, body := range []string{"first", "second", "third"} {
		_, err := r.Create(ctx, &models.Post{Body: body, UserID: john, Timestamp: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}
	_, err := r.Create(ctx, &models.Post{Body: "not john", UserID: mary, Timestamp: base.Add(time.Hour)})
	require.NoError(t, err)

	seq := r.ListByUser(ctx, john)

	var bodies []string
	for p, err := range seq {
		require.NoError(t, err)
		assert.Equal(t, john, p.UserID)
		bodies = append(bodies, p.Body)
	}
	assert.Equal(t, []string{"third", "second", "first"}, bodies)

	// a second range re-runs the query and sees new rows
	_, err = r.Create(ctx, &models.Post{Body: "fourth", UserID: john, Timestamp: base.Add(10 * time.Minute)})
	require.NoError(t, err)

	n := 0
	for _, err := range seq {
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 4, n)

	// breaking early releases the connection; the next query must not block
	for p, err := range seq {
		require.NoError(t, err)
		assert.Equal(t, "fourth", p.Body)
		break
	}
	count, err := r.CountByUser(ctx, john)
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)
}

func TestSQLite_ListByUserEmpty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	for range r.ListByUser(context.Background(), 1) {
		t.Fatal("expected no posts")
	}
}

func TestSQLite_ListRecent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	john := insertUser(t, db, "john")
	mary := insertUser(t, db, "mary")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	_, err := r.Create(ctx, &models.Post{Body: "a", UserID: john, Timestamp: base})
	require.NoError(t, err)
	_, err = r.Create(ctx, &models.Post{Body: "b", UserID: mary, Timestamp: base.Add(time.Second)})
	require.NoError(t, err)
	_, err = r.Create(ctx, &models.Post{Body: "c", UserID: john, Timestamp: base.Add(2 * time.Second)})
	require.NoError(t, err)

	got, err := r.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Body)
	assert.Equal(t, "b", got[1].Body)
}

func TestSQLite_DeletingUserCascades(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	john := insertUser(t, db, "john")

	_, err := r.Create(ctx, &models.Post{Body: "bye", UserID: john})
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM "user" WHERE id = ?`, john)
	require.NoError(t, err)

	n, err := r.CountByUser(ctx, john)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLite_ListAll(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	john := insertUser(t, db, "john")
	mary := insertUser(t, db, "mary")

	for _, uid := range []int64{mary, john, mary} {
		_, err := r.Create(ctx, &models.Post{Body: "p", UserID: uid})
		require.NoError(t, err)
	}

	var ids []int64
	for p, err := range r.ListAll(ctx) {
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)
}
