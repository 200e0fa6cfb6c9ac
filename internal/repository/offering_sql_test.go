package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The capacity check must live in the UPDATE's WHERE clause. Any read issued
// before the write would leave a window for two callers to take the last slot,
// and sqlmock fails on a query it was not told to expect.
const takeSlotSQL = `UPDATE "offerings" SET "reserved_count"=reserved_count \+ 1,"updated_at"=\$1 WHERE id = \$2 AND reserved_count < capacity`

func TestOfferingRepository_TakeSlotIsOneConditionalUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOfferingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(takeSlotSQL).
		WithArgs(sqlmock.AnyArg(), "off-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	took, err := repo.TakeSlot(context.Background(), "off-1")
	require.NoError(t, err)
	assert.True(t, took)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferingRepository_TakeSlotFullOffering(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOfferingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(takeSlotSQL).
		WithArgs(sqlmock.AnyArg(), "off-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	took, err := repo.TakeSlot(context.Background(), "off-1")
	require.NoError(t, err)
	assert.False(t, took)
	assert.NoError(t, mock.ExpectationsWereMet())
}

const returnSlotSQL = `UPDATE "offerings" SET "reserved_count"=reserved_count - 1,"updated_at"=\$1 WHERE id = \$2 AND reserved_count > 0`

func TestOfferingRepository_ReturnSlotIsOneConditionalUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOfferingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(returnSlotSQL).
		WithArgs(sqlmock.AnyArg(), "off-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	returned, err := repo.ReturnSlot(context.Background(), "off-1")
	require.NoError(t, err)
	assert.True(t, returned)
	assert.NoError(t, mock.ExpectationsWereMet())
}
