// Package testhelpers provee un almacén en memoria con transacciones
// (snapshot + commit/rollback) que implementa los repositorios del dominio.
// Solo para tests: no hay concurrencia real entre transacciones, se serializan.
package testhelpers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Repuestos-api/internal/domain"
	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	domquote "github.com/jhoicas/Repuestos-api/internal/domain/quotation"
	"github.com/jhoicas/Repuestos-api/internal/domain/repository"
)

type state struct {
	quotations   map[string]*entity.Quotation
	items        map[string][]*entity.QuotationItem
	units        map[string]*entity.PartItem
	parts        map[string]*entity.Part
	companies    map[string]*entity.Company
	users        map[string]*entity.User
	invoices     map[string]*entity.Invoice
	invoiceItems map[string][]*entity.InvoiceItem
	quoteSeq     int
	invoiceSeq   int
}

func newState() *state {
	return &state{
		quotations:   map[string]*entity.Quotation{},
		items:        map[string][]*entity.QuotationItem{},
		units:        map[string]*entity.PartItem{},
		parts:        map[string]*entity.Part{},
		companies:    map[string]*entity.Company{},
		users:        map[string]*entity.User{},
		invoices:     map[string]*entity.Invoice{},
		invoiceItems: map[string][]*entity.InvoiceItem{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.quotations {
		cp := *v
		c.quotations[k] = &cp
	}
	for k, list := range s.items {
		for _, it := range list {
			cp := *it
			c.items[k] = append(c.items[k], &cp)
		}
	}
	for k, v := range s.units {
		cp := *v
		c.units[k] = &cp
	}
	for k, v := range s.parts {
		cp := *v
		c.parts[k] = &cp
	}
	for k, v := range s.companies {
		cp := *v
		c.companies[k] = &cp
	}
	for k, v := range s.users {
		cp := *v
		c.users[k] = &cp
	}
	for k, v := range s.invoices {
		cp := *v
		c.invoices[k] = &cp
	}
	for k, list := range s.invoiceItems {
		for _, it := range list {
			cp := *it
			cp.SerialNumbers = append([]string(nil), it.SerialNumbers...)
			c.invoiceItems[k] = append(c.invoiceItems[k], &cp)
		}
	}
	c.quoteSeq = s.quoteSeq
	c.invoiceSeq = s.invoiceSeq
	return c
}

// Store almacén en memoria. Las transacciones trabajan sobre una copia que se
// publica solo si fn no devuelve error y el contexto sigue vivo.
type Store struct {
	txMu   sync.Mutex
	dataMu sync.RWMutex
	st     *state

	lockFailures int
	commits      int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// InjectLockFailures hace que las próximas n llamadas a LockAvailable fallen
// como si el lock_timeout hubiera vencido.
func (s *Store) InjectLockFailures(n int) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.lockFailures = n
}

// Commits número de transacciones confirmadas.
func (s *Store) Commits() int {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return s.commits
}

// RunQuotation ejecuta fn en una transacción con repos atados a la copia.
func (s *Store) RunQuotation(ctx context.Context, fn func(
	quoteRepo repository.QuotationRepository,
	unitRepo repository.PartItemRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	s.dataMu.RLock()
	snapshot := s.st.clone()
	s.dataMu.RUnlock()

	b := base{store: s, tx: snapshot}
	if err := fn(&quoteRepo{b}, &unitRepo{b}, &invoiceRepo{b}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	s.dataMu.Lock()
	s.st = snapshot
	s.commits++
	s.dataMu.Unlock()
	return nil
}

// Quotations repositorio fuera de transacción.
func (s *Store) Quotations() repository.QuotationRepository { return &quoteRepo{base{store: s}} }

// PartItems repositorio fuera de transacción.
func (s *Store) PartItems() repository.PartItemRepository { return &unitRepo{base{store: s}} }

// Invoices repositorio fuera de transacción.
func (s *Store) Invoices() repository.InvoiceRepository { return &invoiceRepo{base{store: s}} }

// Parts catálogo.
func (s *Store) Parts() repository.PartRepository { return &partRepo{base{store: s}} }

// Companies directorio de empresas.
func (s *Store) Companies() repository.CompanyRepository { return &companyRepo{base{store: s}} }

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return &userRepo{base{store: s}} }

// ── Fixtures ─────────────────────────────────────────────────────────────────

// AddPart registra una parte en el catálogo.
func (s *Store) AddPart(id string, price string, listPrice string) *entity.Part {
	p := &entity.Part{ID: id, PartNumber: "PN-" + id, Name: "Parte " + id, Price: decimal.RequireFromString(price), IsActive: true}
	if listPrice != "" {
		p.ListPrice = decimal.NewNullDecimal(decimal.RequireFromString(listPrice))
	}
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.st.parts[id] = p
	return p
}

// AddUnits crea n unidades available de la parte, la primera es la más antigua.
func (s *Store) AddUnits(partID string, n int, oldest time.Time) []*entity.PartItem {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	out := make([]*entity.PartItem, 0, n)
	offset := len(s.st.units)
	for i := 0; i < n; i++ {
		u := &entity.PartItem{
			ID:        uuid.New().String(),
			PartID:    partID,
			BarCode:   fmt.Sprintf("BC-%s-%04d", partID, offset+i),
			Condition: entity.PartConditionNew,
			Status:    entity.PartItemStatusAvailable,
			AddedOn:   oldest.Add(time.Duration(i) * time.Hour),
		}
		s.st.units[u.ID] = u
		out = append(out, u)
	}
	return out
}

// SetUnitStatus fuerza el estado de una unidad (ej. damaged).
func (s *Store) SetUnitStatus(id, status string) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.st.units[id].Status = status
}

// AddCompany registra una empresa cliente.
func (s *Store) AddCompany(c *entity.Company) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.st.companies[c.ID] = c
}

// AddUser registra un usuario.
func (s *Store) AddUser(u *entity.User) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.st.users[u.ID] = u
}

// Units copia de todas las unidades de una parte.
func (s *Store) Units(partID string) []entity.PartItem {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	var out []entity.PartItem
	for _, u := range s.st.units {
		if u.PartID == partID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedOn.Before(out[j].AddedOn) })
	return out
}

// ── repos ─────────────────────────────────────────────────────────────────────

// base acceso al estado. tx != nil => dentro de transacción.
type base struct {
	store *Store
	tx    *state
}

type (
	quoteRepo   struct{ base }
	unitRepo    struct{ base }
	invoiceRepo struct{ base }
	partRepo    struct{ base }
	companyRepo struct{ base }
	userRepo    struct{ base }
)

var (
	_ repository.QuotationRepository = (*quoteRepo)(nil)
	_ repository.PartItemRepository  = (*unitRepo)(nil)
	_ repository.InvoiceRepository   = (*invoiceRepo)(nil)
	_ repository.PartRepository      = (*partRepo)(nil)
	_ repository.CompanyRepository   = (*companyRepo)(nil)
	_ repository.UserRepository      = (*userRepo)(nil)
)

func (r *base) read(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.store.dataMu.RLock()
	defer r.store.dataMu.RUnlock()
	return fn(r.store.st)
}

func (r *base) write(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	return fn(r.store.st)
}

// Quotations

func (r *quoteRepo) Create(_ context.Context, q *entity.Quotation) error {
	return r.write(func(st *state) error {
		for _, other := range st.quotations {
			if other.QuotationNumber == q.QuotationNumber {
				return domain.ErrDuplicate
			}
		}
		cp := *q
		st.quotations[q.ID] = &cp
		return nil
	})
}

func (r *quoteRepo) Update(_ context.Context, q *entity.Quotation) error {
	return r.write(func(st *state) error {
		if _, ok := st.quotations[q.ID]; !ok {
			return domain.ErrNotFound
		}
		cp := *q
		st.quotations[q.ID] = &cp
		return nil
	})
}

func (r *quoteRepo) GetByID(_ context.Context, id string) (*entity.Quotation, error) {
	var out *entity.Quotation
	err := r.read(func(st *state) error {
		if q, ok := st.quotations[id]; ok {
			cp := *q
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *quoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Quotation, error) {
	return r.GetByID(ctx, id)
}

func (r *quoteRepo) List(_ context.Context, f repository.QuotationFilter) ([]*entity.Quotation, error) {
	var out []*entity.Quotation
	err := r.read(func(st *state) error {
		for _, q := range st.quotations {
			status := q.Status
			if !f.Now.IsZero() {
				status = domquote.EffectiveStatus(q.Status, q.ValidUntil, f.Now)
			}
			if f.Status != "" && status != f.Status {
				continue
			}
			if f.CompanyID != "" && q.CompanyID != f.CompanyID {
				continue
			}
			if f.CreatedBy != "" && q.CreatedBy != f.CreatedBy {
				continue
			}
			cp := *q
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, err
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, err
}

func (r *quoteRepo) ReplaceItems(_ context.Context, quotationID string, items []*entity.QuotationItem) error {
	return r.write(func(st *state) error {
		list := make([]*entity.QuotationItem, 0, len(items))
		for _, it := range items {
			cp := *it
			list = append(list, &cp)
		}
		st.items[quotationID] = list
		return nil
	})
}

func (r *quoteRepo) UpdateItem(_ context.Context, item *entity.QuotationItem) error {
	return r.write(func(st *state) error {
		for i, it := range st.items[item.QuotationID] {
			if it.ID == item.ID {
				cp := *item
				st.items[item.QuotationID][i] = &cp
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *quoteRepo) GetItems(_ context.Context, quotationID string) ([]*entity.QuotationItem, error) {
	var out []*entity.QuotationItem
	err := r.read(func(st *state) error {
		for _, it := range st.items[quotationID] {
			cp := *it
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].LineNo < out[j].LineNo })
	return out, err
}

func (r *quoteRepo) ListExpirable(_ context.Context, now time.Time, limit int) ([]string, error) {
	var out []string
	err := r.read(func(st *state) error {
		for id, q := range st.quotations {
			if !q.IsTerminal() && q.ValidUntil.Before(now) {
				out = append(out, id)
			}
		}
		return nil
	})
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *quoteRepo) NextNumber(_ context.Context, prefix string, now time.Time) (string, error) {
	var out string
	err := r.write(func(st *state) error {
		st.quoteSeq++
		out = fmt.Sprintf("%s-%d-%06d", prefix, now.Year(), st.quoteSeq)
		return nil
	})
	return out, err
}

// Part items

func (r *base) lockFailure() bool {
	if r.store.lockFailures > 0 {
		r.store.lockFailures--
		return true
	}
	return false
}

func (r *unitRepo) Create(_ context.Context, item *entity.PartItem) error {
	return r.write(func(st *state) error {
		for _, u := range st.units {
			if u.BarCode == item.BarCode {
				return domain.ErrDuplicate
			}
		}
		cp := *item
		st.units[item.ID] = &cp
		return nil
	})
}

func (r *unitRepo) LockAvailable(_ context.Context, partID string, limit int) ([]*entity.PartItem, error) {
	r.store.dataMu.Lock()
	failed := r.lockFailure()
	r.store.dataMu.Unlock()
	if failed {
		return nil, &domain.ReservationContentionError{PartID: partID}
	}
	var out []*entity.PartItem
	err := r.read(func(st *state) error {
		for _, u := range st.units {
			if u.PartID == partID && u.Status == entity.PartItemStatusAvailable {
				cp := *u
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].AddedOn.Equal(out[j].AddedOn) {
			return out[i].ID < out[j].ID
		}
		return out[i].AddedOn.Before(out[j].AddedOn)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *unitRepo) CountAvailable(_ context.Context, partID string) (int, error) {
	n := 0
	err := r.read(func(st *state) error {
		for _, u := range st.units {
			if u.PartID == partID && u.Status == entity.PartItemStatusAvailable {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *unitRepo) CountReserved(_ context.Context, quotationID, partID string) (int, error) {
	n := 0
	err := r.read(func(st *state) error {
		for _, u := range st.units {
			if u.PartID == partID && u.QuotationID == quotationID && u.Status == entity.PartItemStatusReserved {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *unitRepo) Claim(_ context.Context, quotationID string, ids []string) (int, error) {
	n := 0
	err := r.write(func(st *state) error {
		for _, id := range ids {
			u, ok := st.units[id]
			if !ok || u.Status != entity.PartItemStatusAvailable {
				continue
			}
			u.Status = entity.PartItemStatusReserved
			u.QuotationID = quotationID
			n++
		}
		return nil
	})
	return n, err
}

func (r *unitRepo) ReleaseByQuotation(_ context.Context, quotationID string) (int, error) {
	n := 0
	err := r.write(func(st *state) error {
		for _, u := range st.units {
			if u.QuotationID == quotationID && u.Status == entity.PartItemStatusReserved {
				u.Status = entity.PartItemStatusAvailable
				u.QuotationID = ""
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *unitRepo) FinalizeByQuotation(_ context.Context, quotationID string) ([]*entity.PartItem, error) {
	var out []*entity.PartItem
	err := r.write(func(st *state) error {
		for _, u := range st.units {
			if u.QuotationID == quotationID && u.Status == entity.PartItemStatusReserved {
				u.Status = entity.PartItemStatusSold
				cp := *u
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].AddedOn.Before(out[j].AddedOn) })
	return out, err
}

func (r *unitRepo) ListByQuotation(_ context.Context, quotationID string) ([]*entity.PartItem, error) {
	var out []*entity.PartItem
	err := r.read(func(st *state) error {
		for _, u := range st.units {
			if u.QuotationID == quotationID {
				cp := *u
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].AddedOn.Before(out[j].AddedOn) })
	return out, err
}

func (r *unitRepo) StockSummary(_ context.Context, partID string) (*entity.StockSummary, error) {
	s := &entity.StockSummary{PartID: partID}
	err := r.read(func(st *state) error {
		for _, u := range st.units {
			if u.PartID != partID {
				continue
			}
			switch u.Status {
			case entity.PartItemStatusAvailable:
				s.Available++
			case entity.PartItemStatusReserved:
				s.Reserved++
			case entity.PartItemStatusSold:
				s.Sold++
			case entity.PartItemStatusDamaged:
				s.Damaged++
			case entity.PartItemStatusMaintenance:
				s.Maintenance++
			}
		}
		return nil
	})
	return s, err
}

func (r *unitRepo) GetByBarCode(_ context.Context, barCode string) (*entity.PartItem, error) {
	var out *entity.PartItem
	err := r.read(func(st *state) error {
		for _, u := range st.units {
			if u.BarCode == barCode {
				cp := *u
				out = &cp
			}
		}
		return nil
	})
	return out, err
}

func (r *unitRepo) GetByID(_ context.Context, id string) (*entity.PartItem, error) {
	var out *entity.PartItem
	err := r.read(func(st *state) error {
		if u, ok := st.units[id]; ok {
			cp := *u
			out = &cp
		}
		return nil
	})
	return out, err
}

// Invoices

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.write(func(st *state) error {
		for _, other := range st.invoices {
			if other.QuotationID == inv.QuotationID || other.InvoiceNumber == inv.InvoiceNumber {
				return domain.ErrDuplicate
			}
		}
		cp := *inv
		st.invoices[inv.ID] = &cp
		return nil
	})
}

func (r *invoiceRepo) CreateItem(_ context.Context, item *entity.InvoiceItem) error {
	return r.write(func(st *state) error {
		cp := *item
		cp.SerialNumbers = append([]string(nil), item.SerialNumbers...)
		st.invoiceItems[item.InvoiceID] = append(st.invoiceItems[item.InvoiceID], &cp)
		return nil
	})
}

func (r *invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.read(func(st *state) error {
		if inv, ok := st.invoices[id]; ok {
			cp := *inv
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *invoiceRepo) GetByQuotationID(_ context.Context, quotationID string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.read(func(st *state) error {
		for _, inv := range st.invoices {
			if inv.QuotationID == quotationID {
				cp := *inv
				out = &cp
			}
		}
		return nil
	})
	return out, err
}

func (r *invoiceRepo) GetItems(_ context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	var out []*entity.InvoiceItem
	err := r.read(func(st *state) error {
		for _, it := range st.invoiceItems[invoiceID] {
			cp := *it
			cp.SerialNumbers = append([]string(nil), it.SerialNumbers...)
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].LineNo < out[j].LineNo })
	return out, err
}

func (r *invoiceRepo) NextNumber(_ context.Context, prefix string, now time.Time) (string, error) {
	var out string
	err := r.write(func(st *state) error {
		st.invoiceSeq++
		out = fmt.Sprintf("%s-%d-%06d", prefix, now.Year(), st.invoiceSeq)
		return nil
	})
	return out, err
}

// Catálogo, directorio y usuarios

func (r *partRepo) GetByID(_ context.Context, id string) (*entity.Part, error) {
	var out *entity.Part
	err := r.read(func(st *state) error {
		if p, ok := st.parts[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *partRepo) GetByPartNumber(_ context.Context, partNumber string) (*entity.Part, error) {
	var out *entity.Part
	err := r.read(func(st *state) error {
		for _, p := range st.parts {
			if p.PartNumber == partNumber {
				cp := *p
				out = &cp
			}
		}
		return nil
	})
	return out, err
}

func (r *companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.read(func(st *state) error {
		if c, ok := st.companies[id]; ok {
			cp := *c
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	return r.write(func(st *state) error {
		for _, other := range st.users {
			if strings.EqualFold(other.Email, u.Email) {
				return domain.ErrDuplicate
			}
		}
		cp := *u
		st.users[u.ID] = &cp
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.read(func(st *state) error {
		if u, ok := st.users[id]; ok {
			cp := *u
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.read(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				cp := *u
				out = &cp
			}
		}
		return nil
	})
	return out, err
}
