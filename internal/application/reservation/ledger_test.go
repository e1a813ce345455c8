package reservation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Repuestos-api/internal/application/reservation"
	"github.com/jhoicas/Repuestos-api/internal/domain"
	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	"github.com/jhoicas/Repuestos-api/internal/domain/repository"
	"github.com/jhoicas/Repuestos-api/internal/testhelpers"
)

var t0 = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

func reserve(t *testing.T, store *testhelpers.Store, l *reservation.Ledger, req reservation.Request) (*reservation.Result, error) {
	t.Helper()
	var res *reservation.Result
	err := store.RunQuotation(context.Background(), func(_ repository.QuotationRepository, units repository.PartItemRepository, _ repository.InvoiceRepository) error {
		var err error
		res, err = l.Reserve(context.Background(), units, req)
		return err
	})
	return res, err
}

func countByStatus(units []entity.PartItem) map[string]int {
	m := map[string]int{}
	for _, u := range units {
		m[u.Status]++
	}
	return m
}

func TestReserve_TomaLasMasAntiguasPrimero(t *testing.T) {
	store := testhelpers.NewStore()
	created := store.AddUnits("P1", 5, t0)
	l := reservation.NewLedger(zerolog.Nop())

	res, err := reserve(t, store, l, reservation.Request{Line: 1, QuotationID: "Q1", PartID: "P1", Quantity: 2})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{created[0].ID, created[1].ID}, res.UnitIDs)

	units := store.Units("P1")
	assert.Equal(t, entity.PartItemStatusReserved, units[0].Status)
	assert.Equal(t, "Q1", units[0].QuotationID)
	assert.Equal(t, entity.PartItemStatusReserved, units[1].Status)
	assert.Equal(t, entity.PartItemStatusAvailable, units[2].Status)
	assert.Empty(t, units[2].QuotationID)
}

func TestReserve_TodoONadaConStockInsuficiente(t *testing.T) {
	store := testhelpers.NewStore()
	store.AddUnits("P1", 3, t0)
	l := reservation.NewLedger(zerolog.Nop())

	_, err := reserve(t, store, l, reservation.Request{Line: 2, QuotationID: "Q1", PartID: "P1", Quantity: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var se *domain.InsufficientStockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, se.Line)
	assert.Equal(t, 5, se.Requested)
	assert.Equal(t, 3, se.Available)

	assert.Equal(t, 3, countByStatus(store.Units("P1"))[entity.PartItemStatusAvailable], "ninguna unidad cambia")
}

func TestReserve_IgnoraUnidadesNoDisponibles(t *testing.T) {
	store := testhelpers.NewStore()
	units := store.AddUnits("P1", 3, t0)
	store.SetUnitStatus(units[0].ID, entity.PartItemStatusDamaged)
	store.SetUnitStatus(units[1].ID, entity.PartItemStatusMaintenance)
	l := reservation.NewLedger(zerolog.Nop())

	res, err := reserve(t, store, l, reservation.Request{Line: 1, QuotationID: "Q1", PartID: "P1", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{units[2].ID}, res.UnitIDs)
}

func TestReserve_BackorderReservaLoDisponible(t *testing.T) {
	store := testhelpers.NewStore()
	store.AddUnits("P1", 2, t0)
	l := reservation.NewLedger(zerolog.Nop())

	res, err := reserve(t, store, l, reservation.Request{Line: 1, QuotationID: "Q1", PartID: "P1", Quantity: 5, AllowPartial: true})
	require.NoError(t, err)
	assert.Len(t, res.UnitIDs, 2)
	assert.Equal(t, 3, res.Shortfall)
}

func TestReserve_NoSuperaLoSolicitado(t *testing.T) {
	store := testhelpers.NewStore()
	store.AddUnits("P1", 6, t0)
	l := reservation.NewLedger(zerolog.Nop())

	_, err := reserve(t, store, l, reservation.Request{Line: 1, QuotationID: "Q1", PartID: "P1", Quantity: 3})
	require.NoError(t, err)
	res, err := reserve(t, store, l, reservation.Request{Line: 1, QuotationID: "Q1", PartID: "P1", Quantity: 3})
	require.NoError(t, err)

	assert.Empty(t, res.UnitIDs, "la segunda llamada no toma unidades nuevas")
	assert.Equal(t, 3, res.AlreadyReserved)
	assert.Equal(t, 3, countByStatus(store.Units("P1"))[entity.PartItemStatusReserved])
}

func TestReserve_SinDobleAsignacion(t *testing.T) {
	store := testhelpers.NewStore()
	store.AddUnits("P1", 3, t0)
	l := reservation.NewLedger(zerolog.Nop())

	_, err := reserve(t, store, l, reservation.Request{Line: 1, QuotationID: "Q1", PartID: "P1", Quantity: 2})
	require.NoError(t, err)
	_, err = reserve(t, store, l, reservation.Request{Line: 1, QuotationID: "Q2", PartID: "P1", Quantity: 2})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	owners := map[string]int{}
	for _, u := range store.Units("P1") {
		if u.Status == entity.PartItemStatusReserved {
			owners[u.QuotationID]++
		}
	}
	assert.Equal(t, map[string]int{"Q1": 2}, owners)
}

func TestReserve_ContencionSePropaga(t *testing.T) {
	store := testhelpers.NewStore()
	store.AddUnits("P1", 3, t0)
	store.InjectLockFailures(1)
	l := reservation.NewLedger(zerolog.Nop())

	_, err := reserve(t, store, l, reservation.Request{Line: 1, QuotationID: "Q1", PartID: "P1", Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrReservationContention))
}

func TestReserve_ValidaEntrada(t *testing.T) {
	store := testhelpers.NewStore()
	l := reservation.NewLedger(zerolog.Nop())

	_, err := reserve(t, store, l, reservation.Request{Line: 1, QuotationID: "Q1", PartID: "P1", Quantity: 0})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	_, err = reserve(t, store, l, reservation.Request{Line: 1, QuotationID: "", PartID: "P1", Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestReleaseYFinalize_ConservanUnidades(t *testing.T) {
	store := testhelpers.NewStore()
	units := store.AddUnits("P1", 6, t0)
	store.SetUnitStatus(units[5].ID, entity.PartItemStatusDamaged)
	l := reservation.NewLedger(zerolog.Nop())
	ctx := context.Background()

	_, err := reserve(t, store, l, reservation.Request{Line: 1, QuotationID: "Q1", PartID: "P1", Quantity: 2})
	require.NoError(t, err)
	_, err = reserve(t, store, l, reservation.Request{Line: 1, QuotationID: "Q2", PartID: "P1", Quantity: 2})
	require.NoError(t, err)

	summary, err := l.StockSummary(ctx, store.PartItems(), "P1")
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Total())
	assert.Equal(t, 4, summary.Reserved)

	err = store.RunQuotation(ctx, func(_ repository.QuotationRepository, u repository.PartItemRepository, _ repository.InvoiceRepository) error {
		n, err := l.Release(ctx, u, "Q1")
		assert.Equal(t, 2, n)
		return err
	})
	require.NoError(t, err)

	var sold []*entity.PartItem
	err = store.RunQuotation(ctx, func(_ repository.QuotationRepository, u repository.PartItemRepository, _ repository.InvoiceRepository) error {
		sold, err = l.Finalize(ctx, u, "Q2")
		return err
	})
	require.NoError(t, err)
	assert.Len(t, sold, 2)

	summary, err = l.StockSummary(ctx, store.PartItems(), "P1")
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Total(), "ninguna unidad se crea ni se destruye")
	assert.Equal(t, 3, summary.Available)
	assert.Equal(t, 0, summary.Reserved)
	assert.Equal(t, 2, summary.Sold)
	assert.Equal(t, 1, summary.Damaged)

	for _, u := range store.Units("P1") {
		assert.Equal(t, u.Claimed(), u.QuotationID != "", "quotationId presente sii reserved/sold (%s)", u.Status)
	}
}

func TestRelease_NoTocaVendidas(t *testing.T) {
	store := testhelpers.NewStore()
	store.AddUnits("P1", 2, t0)
	l := reservation.NewLedger(zerolog.Nop())
	ctx := context.Background()

	_, err := reserve(t, store, l, reservation.Request{Line: 1, QuotationID: "Q1", PartID: "P1", Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, store.RunQuotation(ctx, func(_ repository.QuotationRepository, u repository.PartItemRepository, _ repository.InvoiceRepository) error {
		_, err := l.Finalize(ctx, u, "Q1")
		return err
	}))
	require.NoError(t, store.RunQuotation(ctx, func(_ repository.QuotationRepository, u repository.PartItemRepository, _ repository.InvoiceRepository) error {
		n, err := l.Release(ctx, u, "Q1")
		assert.Zero(t, n)
		return err
	}))
	assert.Equal(t, 2, countByStatus(store.Units("P1"))[entity.PartItemStatusSold])
}

// racingUnits ejecuta between una vez, justo después de LockAvailable, para
// simular otra transacción que reserva entre el bloqueo y el Claim. Con
// skipTaken descarta lo que la otra tomó, como FOR UPDATE tras la espera.
type racingUnits struct {
	repository.PartItemRepository
	between   func()
	skipTaken bool
}

func (r *racingUnits) LockAvailable(ctx context.Context, partID string, limit int) ([]*entity.PartItem, error) {
	locked, err := r.PartItemRepository.LockAvailable(ctx, partID, limit)
	if err != nil || r.between == nil {
		return locked, err
	}
	fn := r.between
	r.between = nil
	fn()
	if !r.skipTaken {
		return locked, nil
	}
	kept := locked[:0]
	for _, u := range locked {
		cur, err := r.GetByID(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if cur.Status == entity.PartItemStatusAvailable {
			kept = append(kept, u)
		}
	}
	return kept, nil
}

func TestReserve_ClaimPerdidoEsContencion(t *testing.T) {
	store := testhelpers.NewStore()
	created := store.AddUnits("P1", 3, t0)
	l := reservation.NewLedger(zerolog.Nop())
	ctx := context.Background()

	units := &racingUnits{PartItemRepository: store.PartItems()}
	units.between = func() {
		res, err := l.Reserve(ctx, store.PartItems(), reservation.Request{Line: 1, QuotationID: "Q2", PartID: "P1", Quantity: 1})
		require.NoError(t, err)
		require.Equal(t, []string{created[0].ID}, res.UnitIDs)
	}

	_, err := l.Reserve(ctx, units, reservation.Request{Line: 1, QuotationID: "Q1", PartID: "P1", Quantity: 2})
	assert.True(t, errors.Is(err, domain.ErrReservationContention), "un Claim parcial no se reporta como éxito")

	for _, u := range store.Units("P1") {
		if u.ID == created[0].ID {
			assert.Equal(t, "Q2", u.QuotationID, "la unidad ganada por Q2 no cambia de dueño")
		}
	}
}

func TestReserve_BloqueoCortoConStockEsContencion(t *testing.T) {
	store := testhelpers.NewStore()
	created := store.AddUnits("P1", 4, t0)
	l := reservation.NewLedger(zerolog.Nop())
	ctx := context.Background()

	units := &racingUnits{PartItemRepository: store.PartItems(), skipTaken: true}
	units.between = func() {
		_, err := l.Reserve(ctx, store.PartItems(), reservation.Request{Line: 1, QuotationID: "Q2", PartID: "P1", Quantity: 1})
		require.NoError(t, err)
	}

	_, err := l.Reserve(ctx, units, reservation.Request{Line: 1, QuotationID: "Q1", PartID: "P1", Quantity: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrReservationContention))
	assert.False(t, errors.Is(err, domain.ErrInsufficientStock), "hay stock: no es faltante")

	byStatus := countByStatus(store.Units("P1"))
	assert.Equal(t, 1, byStatus[entity.PartItemStatusReserved], "Q1 no tomó nada")

	// El reintento ya no compite y toma las siguientes más antiguas.
	res, err := l.Reserve(ctx, units, reservation.Request{Line: 1, QuotationID: "Q1", PartID: "P1", Quantity: 2})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{created[1].ID, created[2].ID}, res.UnitIDs)
}
