package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// errRow fila que falla al escanear con el error dado.
type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// rowQuerier devuelve siempre la misma fila fallida.
type rowQuerier struct{ err error }

func (q rowQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, q.err
}

func (q rowQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, q.err
}

func (q rowQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{err: q.err}
}

func TestGetByID_ClaveMalformadaEsNoEncontrada(t *testing.T) {
	ctx := context.Background()
	q := rowQuerier{err: &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}}

	part, err := NewPartRepository(q).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, part)

	company, err := NewCompanyRepository(q).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, company)

	user, err := NewUserRepository(q).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, user)

	unit, err := NewPartItemRepository(q).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, unit)
}

func TestGetByID_OtrosErroresSePropagan(t *testing.T) {
	boom := errors.New("conexión cerrada")
	_, err := NewPartRepository(rowQuerier{err: boom}).GetByID(context.Background(), "abc")
	assert.ErrorIs(t, err, boom)
}

func TestClasificacionDeErrores(t *testing.T) {
	assert.True(t, notFound(pgx.ErrNoRows))
	assert.True(t, notFound(&pgconn.PgError{Code: "22P02"}))
	assert.False(t, notFound(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isLockContention(&pgconn.PgError{Code: "55P03"}))
	assert.True(t, isLockContention(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, isLockContention(errors.New("x")))
}
