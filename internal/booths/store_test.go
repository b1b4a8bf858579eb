package booths

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockStore(t *testing.T) (sqlmock.Sqlmock, *Store) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return mock, NewStore(gdb)
}

func TestStore_SumBoothVotesCoercesText(t *testing.T) {
	mock, store := setupMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`COALESCE(SUM(CAST(NULLIF(TRIM(polled_votes), '') AS BIGINT)), 0) FROM "booth_data"."booths"`)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(4250)))

	total, err := store.SumBoothVotes(context.Background(), VotePolled)
	require.NoError(t, err)
	assert.Equal(t, int64(4250), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SumBoothVotesRejectsUnknownField(t *testing.T) {
	_, store := setupMockStore(t)

	_, err := store.SumBoothVotes(context.Background(), VoteField("booth; DROP TABLE x"))
	assert.Error(t, err)
}

func TestStore_SumAcTotalVotesPropagatesError(t *testing.T) {
	mock, store := setupMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "booth_data"."acs"`)).
		WillReturnError(errors.New("invalid input syntax for type bigint"))

	_, err := store.SumAcTotalVotes(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DistinctMappingValues(t *testing.T) {
	mock, store := setupMockStore(t)

	mock.ExpectQuery(`SELECT DISTINCT .*constituency.* FROM "booth_data"\."booth_mappings"`).
		WillReturnRows(sqlmock.NewRows([]string{"constituency"}).AddRow("181-Mahim").AddRow("182-Worli"))

	values, err := store.DistinctMappingValues(context.Background(), MappingConstituency)
	require.NoError(t, err)
	assert.Equal(t, []string{"181-Mahim", "182-Worli"}, values)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DistinctMappingValuesRejectsUnknownField(t *testing.T) {
	_, store := setupMockStore(t)

	_, err := store.DistinctMappingValues(context.Background(), MappingField("password"))
	assert.Error(t, err)
}

func TestStore_TotalsByBoothType(t *testing.T) {
	mock, store := setupMockStore(t)

	rows := sqlmock.NewRows([]string{"booth_type", "total_votes", "total_polled_votes", "total_fav_votes", "total_ubt_votes"}).
		AddRow("rural", int64(900), int64(600), int64(250), int64(200)).
		AddRow("urban", int64(1500), int64(700), int64(300), int64(310))

	mock.ExpectQuery(`SELECT booth_type, .* FROM "booth_data"\."booths" GROUP BY .*booth_type.* ORDER BY booth_type ASC`).
		WillReturnRows(rows)

	groups, err := store.TotalsByBoothType(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, BoothTypeTotals{BoothType: "rural", TotalVotes: 900, TotalPolledVotes: 600, TotalFavVotes: 250, TotalUbtVotes: 200}, groups[0])
	assert.Equal(t, "urban", groups[1].BoothType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RepresentativeBoothNotFound(t *testing.T) {
	mock, store := setupMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "booth_data"\."booths" WHERE pc = \$1 AND constituency = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booth", "constituency", "pc"}))

	_, err := store.RepresentativeBooth(context.Background(), "Thane", "148-Thane")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeleteBoothReportsMissingRow(t *testing.T) {
	mock, store := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "booth_data"\."booths" WHERE id = \$1`).
		WithArgs("7f1d3c1e-0000-4000-8000-000000000000").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err := store.DeleteBooth(context.Background(), "7f1d3c1e-0000-4000-8000-000000000000")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func boothRow(id string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "booth", "constituency", "pc", "booth_type",
		"total_votes", "polled_votes", "fav_votes", "ubt_votes", "created_at", "updated_at",
	}).AddRow(id, "12", "148-Thane", "Thane", "urban", "1200", "800", "", "", now, now)
}

func TestStore_UpdateBoothLocksRowForReadAndWrite(t *testing.T) {
	mock, store := setupMockStore(t)
	id := "7f1d3c1e-0000-4000-8000-000000000000"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "booth_data"\."booths" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(boothRow(id))
	mock.ExpectExec(`UPDATE "booth_data"\."booths" SET .*"fav_votes"=.* WHERE id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := store.UpdateBooth(context.Background(), id, func(b *Booth) error {
		b.FavVotes = "30"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, Count("30"), got.FavVotes)
	assert.Equal(t, Count("800"), got.PolledVotes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateBoothMutateErrorRollsBack(t *testing.T) {
	mock, store := setupMockStore(t)
	id := "7f1d3c1e-0000-4000-8000-000000000000"
	rejected := &ValidationError{Field: "polledVotes", Reason: "must not exceed totalVotes"}

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(boothRow(id))
	mock.ExpectRollback()

	_, err := store.UpdateBooth(context.Background(), id, func(b *Booth) error {
		return rejected
	})
	assert.ErrorIs(t, err, rejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_UpdateBoothMissingRow(t *testing.T) {
	mock, store := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := store.UpdateBooth(context.Background(), "7f1d3c1e-0000-4000-8000-000000000000", func(b *Booth) error {
		t.Fatal("mutate must not run for a missing row")
		return nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
