package counter

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestFormatEmployeeNumber(t *testing.T) {
	assert.Equal(t, "EMP-000001", FormatEmployeeNumber(1))
	assert.Equal(t, "EMP-123456", FormatEmployeeNumber(123456))
	assert.Equal(t, "EMP-1234567", FormatEmployeeNumber(1234567))
}

func TestRepository_GetNextValue_InsideTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO counters .* ON CONFLICT \(counter_type\) DO UPDATE .* RETURNING last_value`).
		WithArgs(TypeEmployeeNumber).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(int64(7)))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	got, err := NewRepository(gdb).WithTx(tx).GetNextValue(context.Background(), TypeEmployeeNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
