package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestDumpCapturesPgxDetails(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "orders_pkey", TableName: "orders", Message: "duplicate key value"}
	err := Wrap(CodeInternal, fmt.Errorf("insert order: %w", pgErr), "create orders")

	d := Dump(err)
	assert.Equal(t, CodeInternal, d.Code)
	assert.Equal(t, "23505", d.PGCode)
	assert.Equal(t, "orders_pkey", d.PGConstraint)
	assert.Equal(t, "orders", d.PGTable)
	assert.Len(t, d.Chain, 3)
}

func TestDumpCapturesPqDetails(t *testing.T) {
	err := fmt.Errorf("update: %w", &pq.Error{Code: "23502", Column: "order_number", Table: "orders"})

	d := Dump(err)
	assert.Equal(t, "23502", d.PGCode)
	assert.Equal(t, "order_number", d.PGColumn)
	assert.Empty(t, d.Code)
}

func TestDumpNil(t *testing.T) {
	assert.Equal(t, ErrorDump{}, Dump(nil))
}
