package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/YashwanthPb/vyaparforge-sub001/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPassNumberContinuesFromSeriesMax(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	// Numbering follows the highest issued number, not the row count, so a
	// soft-deleted pass never frees its number for a colliding reissue.
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(CAST\(SUBSTRING\(pass_number`).
		WithArgs("INWARD").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(41))

	number, err := NextPassNumber(db, models.GatePassInward)
	require.NoError(t, err)
	assert.Equal(t, "GP-IN-0042", number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextPassNumberStartsEmptySeries(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(CAST\(SUBSTRING\(pass_number`).
		WithArgs("OUTWARD").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

	number, err := NextPassNumber(db, models.GatePassOutward)
	require.NoError(t, err)
	assert.Equal(t, "GP-OUT-0001", number)
	assert.NoError(t, mock.ExpectationsWereMet())
}
