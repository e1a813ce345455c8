// Package quotation orquesta el ciclo de vida de una cotización: persiste
// cabecera e ítems, valida cada transición con la máquina de estados, recalcula
// totales y reserva, libera o vende unidades de inventario en la misma
// transacción que cambia el estado.
package quotation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Repuestos-api/internal/application/dto"
	"github.com/jhoicas/Repuestos-api/internal/application/reservation"
	"github.com/jhoicas/Repuestos-api/internal/domain"
	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	domquote "github.com/jhoicas/Repuestos-api/internal/domain/quotation"
	"github.com/jhoicas/Repuestos-api/internal/domain/repository"
)

// Service servicio de cotizaciones. El actor se recibe en cada llamada.
type Service struct {
	tx        TxRunner
	quotes    repository.QuotationRepository
	units     repository.PartItemRepository
	invoices  repository.InvoiceRepository
	parts     repository.PartRepository
	companies repository.CompanyRepository
	ledger    *reservation.Ledger
	events    EventPublisher
	now       func() time.Time
	cfg       Config
	log       zerolog.Logger
}

// NewService construye el servicio.
func NewService(d Deps, cfg Config, log zerolog.Logger) *Service {
	log = log.With().Str("component", "quotation").Logger()
	s := &Service{
		tx:        d.Tx,
		quotes:    d.Quotes,
		units:     d.Units,
		invoices:  d.Invoices,
		parts:     d.Parts,
		companies: d.Companies,
		ledger:    d.Ledger,
		events:    d.Events,
		now:       d.Clock,
		cfg:       cfg.withDefaults(),
		log:       log,
	}
	if s.ledger == nil {
		s.ledger = reservation.NewLedger(log)
	}
	if s.events == nil {
		s.events = nopPublisher{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// owns el anónimo solo actúa sobre cotizaciones creadas sin sesión.
func owns(actor domquote.Actor, q *entity.Quotation) bool {
	if actor.Role == domquote.RoleAnonymous {
		return q.CreatedBy == ""
	}
	return actor.Owns(q)
}

func canView(actor domquote.Actor, q *entity.Quotation) bool {
	return actor.IsSeller() || owns(actor, q)
}

func (s *Service) guard(q *entity.Quotation, items []*entity.QuotationItem, actor domquote.Actor, now time.Time) domquote.Guard {
	return domquote.Guard{
		ItemCount:    len(items),
		HasContact:   q.HasContact(),
		OwnedByActor: owns(actor, q),
		Now:          now,
		ValidUntil:   q.ValidUntil,
	}
}

// load lee cotización e ítems; forUpdate bloquea la fila de la cabecera.
func load(ctx context.Context, quotes repository.QuotationRepository, id string, forUpdate bool) (*entity.Quotation, []*entity.QuotationItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil, fmt.Errorf("cotización %q: %w", id, domain.ErrNotFound)
	}
	get := quotes.GetByID
	if forUpdate {
		get = quotes.GetForUpdate
	}
	q, err := get(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("cargar cotización: %w", err)
	}
	if q == nil {
		return nil, nil, fmt.Errorf("cotización %s: %w", id, domain.ErrNotFound)
	}
	items, err := quotes.GetItems(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("cargar ítems: %w", err)
	}
	return q, items, nil
}

// applyCustomer resuelve empresa y contacto. El cliente con empresa queda atado
// a ella; el vendedor puede cotizar para cualquier empresa del directorio.
func (s *Service) applyCustomer(ctx context.Context, actor domquote.Actor, q *entity.Quotation, in dto.CreateQuotationRequest) error {
	q.CustomerName = in.CustomerName
	q.CustomerEmail = in.CustomerEmail
	q.CustomerPhone = in.CustomerPhone

	companyID := in.CompanyID
	if actor.Role == domquote.RoleCustomer && actor.CompanyID != "" {
		if companyID != "" && companyID != actor.CompanyID {
			return fmt.Errorf("%w: company_id: no puede cotizar a nombre de otra empresa", domain.ErrForbidden)
		}
		companyID = actor.CompanyID
	} else if companyID != "" && !actor.IsSeller() {
		return fmt.Errorf("%w: company_id: solo el vendedor vincula empresas", domain.ErrForbidden)
	}
	if companyID == "" {
		return nil
	}

	c, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return fmt.Errorf("consultar empresa: %w", err)
	}
	if c == nil {
		return fmt.Errorf("empresa %s: %w", companyID, domain.ErrNotFound)
	}
	q.CompanyID = c.ID
	if q.CustomerName == "" {
		q.CustomerName = c.ContactName
		if q.CustomerName == "" {
			q.CustomerName = c.Name
		}
	}
	if q.CustomerEmail == "" {
		q.CustomerEmail = c.Email
	}
	if q.CustomerPhone == "" {
		q.CustomerPhone = c.Phone
	}
	if q.PaymentTerms == "" {
		q.PaymentTerms = c.PaymentTerms
	}
	return nil
}

// Create persiste una cotización nueva en draft. Con Submit=true la envía en la
// misma transacción: si el envío falla no queda ni el borrador.
func (s *Service) Create(ctx context.Context, actor domquote.Actor, in dto.CreateQuotationRequest) (*dto.QuotationResponse, error) {
	if actor.Role == domquote.RoleSystem {
		return nil, fmt.Errorf("%w: el sistema no crea cotizaciones", domain.ErrForbidden)
	}
	if err := sellerOnly(actor, in.DiscountPercent, in.ShippingAmount, in.InternalNotes); err != nil {
		return nil, err
	}
	draftItems, err := s.resolveLines(ctx, actor, in.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	draft := &entity.Quotation{
		ID:              uuid.New().String(),
		DiscountPercent: in.DiscountPercent,
		ShippingAmount:  in.ShippingAmount,
		TaxRate:         s.cfg.TaxRate,
		Status:          entity.QuotationStatusDraft,
		ValidUntil:      now.AddDate(0, 0, s.cfg.ValidityDays),
		PaymentTerms:    in.PaymentTerms,
		Notes:           in.Notes,
		InternalNotes:   in.InternalNotes,
		CreatedBy:       actor.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.applyCustomer(ctx, actor, draft, in); err != nil {
		return nil, err
	}
	for _, it := range draftItems {
		it.ID = uuid.New().String()
		it.QuotationID = draft.ID
		it.CreatedAt = now
	}
	// Validación antes de tocar la base.
	if _, err := reprice(draft, draftItems); err != nil {
		return nil, err
	}

	var (
		q     *entity.Quotation
		items []*entity.QuotationItem
		ev    *entity.QuotationEvent
	)
	err = s.withRetry(ctx, "crear cotización", func() error {
		q, items, ev = cloneQuotation(draft), cloneItems(draftItems), nil
		return s.tx.RunQuotation(ctx, func(quotes repository.QuotationRepository, units repository.PartItemRepository, _ repository.InvoiceRepository) error {
			number, err := quotes.NextNumber(ctx, s.cfg.NumberPrefix, now)
			if err != nil {
				return fmt.Errorf("numerar cotización: %w", err)
			}
			q.QuotationNumber = number
			if err := quotes.Create(ctx, q); err != nil {
				return fmt.Errorf("guardar cotización: %w", err)
			}
			if err := quotes.ReplaceItems(ctx, q.ID, items); err != nil {
				return fmt.Errorf("guardar ítems: %w", err)
			}
			if !in.Submit {
				return nil
			}
			ev, err = s.apply(ctx, quotes, units, q, items, domquote.ActionSubmit, actor, now)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("quotation_id", q.ID).
		Str("number", q.QuotationNumber).
		Str("status", q.Status).
		Str("role", string(actor.Role)).
		Int("items", len(items)).
		Msg("cotización creada")
	s.publish(ctx, ev)
	return s.toResponse(q, items, actor), nil
}

// ReplaceItems reemplaza los ítems (y opcionalmente los ajustes) de una
// cotización en draft o pending y recalcula los totales.
func (s *Service) ReplaceItems(ctx context.Context, actor domquote.Actor, id string, in dto.UpdateItemsRequest) (*dto.QuotationResponse, error) {
	discount, shipping := decimalOrZero(in.DiscountPercent), decimalOrZero(in.ShippingAmount)
	if err := sellerOnly(actor, discount, shipping, ""); err != nil {
		return nil, err
	}
	newItems, err := s.resolveLines(ctx, actor, in.Items)
	if err != nil {
		return nil, err
	}

	var (
		q     *entity.Quotation
		items []*entity.QuotationItem
	)
	err = s.tx.RunQuotation(ctx, func(quotes repository.QuotationRepository, _ repository.PartItemRepository, _ repository.InvoiceRepository) error {
		var err error
		now := s.now()
		q, _, err = load(ctx, quotes, id, true)
		if err != nil {
			return err
		}
		if eff := domquote.EffectiveStatus(q.Status, q.ValidUntil, now); eff != q.Status {
			return &domain.StateConflictError{Current: eff, Requested: q.Status, Reason: "la cotización está vencida"}
		}
		if err := domquote.ItemsEditable(q.Status, actor, owns(actor, q)); err != nil {
			return err
		}
		if in.DiscountPercent != nil {
			q.DiscountPercent = *in.DiscountPercent
		}
		if in.ShippingAmount != nil {
			q.ShippingAmount = *in.ShippingAmount
		}
		items = cloneItems(newItems)
		for _, it := range items {
			it.ID = uuid.New().String()
			it.QuotationID = q.ID
			it.CreatedAt = now
		}
		if _, err := reprice(q, items); err != nil {
			return err
		}
		q.UpdatedAt = now
		if err := quotes.ReplaceItems(ctx, q.ID, items); err != nil {
			return fmt.Errorf("guardar ítems: %w", err)
		}
		if err := quotes.Update(ctx, q); err != nil {
			return fmt.Errorf("guardar cotización: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("quotation_id", q.ID).Int("items", len(items)).Msg("ítems reemplazados")
	return s.toResponse(q, items, actor), nil
}

// Submit envía un borrador: pending si lo envía un cliente, confirmed (con
// reserva de inventario) si lo envía un vendedor.
func (s *Service) Submit(ctx context.Context, actor domquote.Actor, id string) (*dto.QuotationResponse, error) {
	return s.transition(ctx, actor, id, domquote.ActionSubmit)
}

// Confirm confirma un draft o pending y reserva las unidades de cada línea.
// Si alguna línea no alcanza, nada cambia.
func (s *Service) Confirm(ctx context.Context, actor domquote.Actor, id string) (*dto.QuotationResponse, error) {
	return s.transition(ctx, actor, id, domquote.ActionConfirm)
}

// Cancel cancela y libera las reservas.
func (s *Service) Cancel(ctx context.Context, actor domquote.Actor, id string) (*dto.QuotationResponse, error) {
	return s.transition(ctx, actor, id, domquote.ActionCancel)
}

func (s *Service) transition(ctx context.Context, actor domquote.Actor, id string, action domquote.Action) (*dto.QuotationResponse, error) {
	var (
		q     *entity.Quotation
		items []*entity.QuotationItem
		ev    *entity.QuotationEvent
	)
	err := s.withRetry(ctx, string(action), func() error {
		ev = nil
		return s.tx.RunQuotation(ctx, func(quotes repository.QuotationRepository, units repository.PartItemRepository, _ repository.InvoiceRepository) error {
			var err error
			q, items, err = load(ctx, quotes, id, true)
			if err != nil {
				return err
			}
			ev, err = s.apply(ctx, quotes, units, q, items, action, actor, s.now())
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, ev)
	return s.toResponse(q, items, actor), nil
}

// apply valida la acción y aplica sus efectos dentro de la transacción abierta:
// recálculo, reserva o liberación de unidades y persistencia de la cabecera.
func (s *Service) apply(
	ctx context.Context,
	quotes repository.QuotationRepository,
	units repository.PartItemRepository,
	q *entity.Quotation,
	items []*entity.QuotationItem,
	action domquote.Action,
	actor domquote.Actor,
	now time.Time,
) (*entity.QuotationEvent, error) {
	from := q.Status
	to, err := domquote.Transition(from, action, actor, s.guard(q, items, actor, now))
	if err != nil {
		return nil, err
	}

	var evType string
	switch to {
	case entity.QuotationStatusPending:
		evType = entity.EventQuotationSubmitted
		if _, err := reprice(q, items); err != nil {
			return nil, err
		}
	case entity.QuotationStatusConfirmed:
		evType = entity.EventQuotationConfirmed
		if _, err := reprice(q, items); err != nil {
			return nil, err
		}
		if err := s.reserveAll(ctx, units, q, items); err != nil {
			return nil, err
		}
		q.ConfirmedBy = actor.UserID
		q.ConfirmedAt = timePtr(now)
	case entity.QuotationStatusCancelled, entity.QuotationStatusExpired:
		evType = entity.EventQuotationCancelled
		if to == entity.QuotationStatusExpired {
			evType = entity.EventQuotationExpired
		}
		if _, err := s.ledger.Release(ctx, units, q.ID); err != nil {
			return nil, err
		}
		if to == entity.QuotationStatusCancelled {
			q.CancelledAt = timePtr(now)
		}
	}

	q.Status = to
	q.UpdatedAt = now
	for _, it := range items {
		if err := quotes.UpdateItem(ctx, it); err != nil {
			return nil, fmt.Errorf("línea %d: guardar ítem: %w", it.LineNo, err)
		}
	}
	if err := quotes.Update(ctx, q); err != nil {
		return nil, fmt.Errorf("guardar cotización: %w", err)
	}

	s.log.Info().
		Str("quotation_id", q.ID).
		Str("number", q.QuotationNumber).
		Str("from", from).
		Str("to", to).
		Str("role", string(actor.Role)).
		Msg("transición de cotización")
	return &entity.QuotationEvent{
		Type:            evType,
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		Status:          to,
		ActorID:         actor.UserID,
		OccurredAt:      now,
	}, nil
}

// reserveAll reserva por parte la suma de sus líneas. Las partes se bloquean en
// orden de ID para que dos confirmaciones concurrentes no se crucen.
func (s *Service) reserveAll(ctx context.Context, units repository.PartItemRepository, q *entity.Quotation, items []*entity.QuotationItem) error {
	type demand struct {
		qty   int
		lines []*entity.QuotationItem
	}
	byPart := make(map[string]*demand)
	var parts []string
	for _, it := range items {
		d, ok := byPart[it.PartID]
		if !ok {
			d = &demand{}
			byPart[it.PartID] = d
			parts = append(parts, it.PartID)
		}
		d.qty += it.Quantity
		d.lines = append(d.lines, it)
	}
	sort.Strings(parts)

	for _, partID := range parts {
		d := byPart[partID]
		res, err := s.ledger.Reserve(ctx, units, reservation.Request{
			Line:         d.lines[0].LineNo,
			QuotationID:  q.ID,
			PartID:       partID,
			Quantity:     d.qty,
			AllowPartial: s.cfg.AllowBackorder,
		})
		if err != nil {
			return err
		}
		// El faltante se imputa desde la última línea hacia atrás.
		short := res.Shortfall
		for i := len(d.lines) - 1; i >= 0; i-- {
			take := min(short, d.lines[i].Quantity)
			d.lines[i].BackorderQuantity = take
			short -= take
		}
	}
	return nil
}

// ConvertToInvoice factura una cotización confirmada: vende las unidades
// reservadas y crea la factura con la foto de los ítems y sus seriales.
func (s *Service) ConvertToInvoice(ctx context.Context, actor domquote.Actor, id string) (*dto.InvoiceResponse, error) {
	var (
		q        *entity.Quotation
		inv      *entity.Invoice
		invItems []*entity.InvoiceItem
	)
	err := s.withRetry(ctx, "facturar", func() error {
		return s.tx.RunQuotation(ctx, func(quotes repository.QuotationRepository, units repository.PartItemRepository, invoices repository.InvoiceRepository) error {
			now := s.now()
			var (
				items []*entity.QuotationItem
				err   error
			)
			q, items, err = load(ctx, quotes, id, true)
			if err != nil {
				return err
			}
			to, err := domquote.Transition(q.Status, domquote.ActionInvoice, actor, s.guard(q, items, actor, now))
			if err != nil {
				return err
			}
			if _, err := reprice(q, items); err != nil {
				return err
			}
			sold, err := s.ledger.Finalize(ctx, units, q.ID)
			if err != nil {
				return err
			}
			serials := make(map[string][]string)
			for _, u := range sold {
				serials[u.PartID] = append(serials[u.PartID], u.Identifier())
			}

			number, err := invoices.NextNumber(ctx, s.cfg.InvoicePrefix, now)
			if err != nil {
				return fmt.Errorf("numerar factura: %w", err)
			}
			inv = &entity.Invoice{
				ID:             uuid.New().String(),
				InvoiceNumber:  number,
				QuotationID:    q.ID,
				CompanyID:      q.CompanyID,
				CustomerName:   q.CustomerName,
				CustomerEmail:  q.CustomerEmail,
				CustomerPhone:  q.CustomerPhone,
				Subtotal:       q.Subtotal,
				DiscountAmount: q.DiscountAmount,
				ShippingAmount: q.ShippingAmount,
				TaxAmount:      q.TaxAmount,
				TotalAmount:    q.TotalAmount,
				PaymentTerms:   q.PaymentTerms,
				Notes:          q.Notes,
				IssuedAt:       now,
				CreatedBy:      actor.UserID,
				CreatedAt:      now,
			}
			if err := invoices.Create(ctx, inv); err != nil {
				return fmt.Errorf("guardar factura: %w", err)
			}

			invItems = make([]*entity.InvoiceItem, 0, len(items))
			for _, it := range items {
				shipped := it.Quantity - it.BackorderQuantity
				pool := serials[it.PartID]
				n := min(shipped, len(pool))
				ii := &entity.InvoiceItem{
					ID:              uuid.New().String(),
					InvoiceID:       inv.ID,
					QuotationItemID: it.ID,
					LineNo:          it.LineNo,
					PartID:          it.PartID,
					Description:     it.Description,
					Quantity:        it.Quantity,
					UnitPrice:       it.UnitPrice,
					Discount:        it.Discount,
					TotalPrice:      it.TotalPrice,
					SerialNumbers:   append([]string{}, pool[:n]...),
				}
				serials[it.PartID] = pool[n:]
				if err := invoices.CreateItem(ctx, ii); err != nil {
					return fmt.Errorf("línea %d: guardar ítem de factura: %w", it.LineNo, err)
				}
				invItems = append(invItems, ii)
			}

			from := q.Status
			q.Status = to
			q.UpdatedAt = now
			if err := quotes.Update(ctx, q); err != nil {
				return fmt.Errorf("guardar cotización: %w", err)
			}
			s.log.Info().
				Str("quotation_id", q.ID).
				Str("number", q.QuotationNumber).
				Str("from", from).
				Str("to", to).
				Str("invoice", inv.InvoiceNumber).
				Int("units_sold", len(sold)).
				Msg("cotización facturada")
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &entity.QuotationEvent{
		Type:            entity.EventInvoiceCreated,
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		Status:          q.Status,
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		ActorID:         actor.UserID,
		OccurredAt:      inv.IssuedAt,
	})
	return toInvoiceResponse(inv, invItems), nil
}

// ExpireDue vence las cotizaciones no terminales cuyo validUntil ya pasó y
// libera sus reservas. Un fallo en una no detiene el resto.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	now := s.now()
	ids, err := s.quotes.ListExpirable(ctx, now, s.cfg.ExpiryBatch)
	if err != nil {
		return 0, fmt.Errorf("listar vencidas: %w", err)
	}

	var (
		expired int
		errs    []error
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		var ev *entity.QuotationEvent
		err := s.withRetry(ctx, "vencer", func() error {
			ev = nil
			return s.tx.RunQuotation(ctx, func(quotes repository.QuotationRepository, units repository.PartItemRepository, _ repository.InvoiceRepository) error {
				q, items, err := load(ctx, quotes, id, true)
				if err != nil {
					return err
				}
				if q.IsTerminal() {
					return nil
				}
				ev, err = s.apply(ctx, quotes, units, q, items, domquote.ActionExpire, domquote.System(), now)
				return err
			})
		})
		if err != nil {
			s.log.Error().Err(err).Str("quotation_id", id).Msg("no se pudo vencer la cotización")
			errs = append(errs, fmt.Errorf("cotización %s: %w", id, err))
			continue
		}
		if ev != nil {
			expired++
			s.publish(ctx, ev)
		}
	}
	return expired, errors.Join(errs...)
}

// Get devuelve la cotización con su estado efectivo.
func (s *Service) Get(ctx context.Context, actor domquote.Actor, id string) (*dto.QuotationResponse, error) {
	q, items, err := load(ctx, s.quotes, id, false)
	if err != nil {
		return nil, err
	}
	if !canView(actor, q) {
		return nil, fmt.Errorf("%w: la cotización pertenece a otro cliente", domain.ErrForbidden)
	}
	return s.toResponse(q, items, actor), nil
}

// Load devuelve entidades para los generadores de documentos, con el mismo
// control de acceso que Get. El estado ya viene ajustado al efectivo.
func (s *Service) Load(ctx context.Context, actor domquote.Actor, id string) (*entity.Quotation, []*entity.QuotationItem, error) {
	q, items, err := load(ctx, s.quotes, id, false)
	if err != nil {
		return nil, nil, err
	}
	if !canView(actor, q) {
		return nil, nil, fmt.Errorf("%w: la cotización pertenece a otro cliente", domain.ErrForbidden)
	}
	q.Status = domquote.EffectiveStatus(q.Status, q.ValidUntil, s.now())
	return q, items, nil
}

// List el vendedor ve todas; el cliente las de su empresa o las propias.
func (s *Service) List(ctx context.Context, actor domquote.Actor, in dto.QuotationListRequest) (*dto.QuotationListResponse, error) {
	in.DefaultPage()
	// Una fila extra decide HasMore sin un COUNT aparte.
	f := repository.QuotationFilter{Status: in.Status, Now: s.now(), Limit: in.Limit + 1, Offset: in.Offset}
	switch {
	case actor.IsSeller():
	case actor.Role == domquote.RoleCustomer && actor.CompanyID != "":
		f.CompanyID = actor.CompanyID
	case actor.Role == domquote.RoleCustomer && actor.UserID != "":
		f.CreatedBy = actor.UserID
	default:
		return nil, fmt.Errorf("%w: inicie sesión para listar cotizaciones", domain.ErrUnauthorized)
	}
	list, err := s.quotes.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listar cotizaciones: %w", err)
	}
	more := len(list) > in.Limit
	if more {
		list = list[:in.Limit]
	}
	out := &dto.QuotationListResponse{
		Items: make([]dto.QuotationResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, HasMore: more},
	}
	for _, q := range list {
		out.Items = append(out.Items, *s.toResponse(q, nil, actor))
	}
	return out, nil
}

// GetInvoice devuelve la factura si el actor puede ver la cotización de origen.
func (s *Service) GetInvoice(ctx context.Context, actor domquote.Actor, id string) (*dto.InvoiceResponse, error) {
	inv, items, err := s.LoadInvoice(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// LoadInvoice entidades de la factura para los generadores de documentos.
func (s *Service) LoadInvoice(ctx context.Context, actor domquote.Actor, id string) (*entity.Invoice, []*entity.InvoiceItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil, fmt.Errorf("factura %q: %w", id, domain.ErrNotFound)
	}
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("cargar factura: %w", err)
	}
	if inv == nil {
		return nil, nil, fmt.Errorf("factura %s: %w", id, domain.ErrNotFound)
	}
	if !actor.IsSeller() {
		q, err := s.quotes.GetByID(ctx, inv.QuotationID)
		if err != nil {
			return nil, nil, fmt.Errorf("cargar cotización: %w", err)
		}
		if q == nil || !canView(actor, q) {
			return nil, nil, fmt.Errorf("%w: la factura pertenece a otro cliente", domain.ErrForbidden)
		}
	}
	items, err := s.invoices.GetItems(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("cargar ítems de factura: %w", err)
	}
	return inv, items, nil
}

// Stock conteo de unidades de una parte por estado.
func (s *Service) Stock(ctx context.Context, partID string) (*dto.StockSummaryResponse, error) {
	part, err := s.parts.GetByID(ctx, partID)
	if err != nil {
		return nil, fmt.Errorf("consultar catálogo: %w", err)
	}
	if part == nil {
		return nil, fmt.Errorf("parte %s: %w", partID, domain.ErrNotFound)
	}
	sum, err := s.ledger.StockSummary(ctx, s.units, partID)
	if err != nil {
		return nil, err
	}
	return &dto.StockSummaryResponse{
		PartID:      sum.PartID,
		Available:   sum.Available,
		Reserved:    sum.Reserved,
		Sold:        sum.Sold,
		Damaged:     sum.Damaged,
		Maintenance: sum.Maintenance,
		Total:       sum.Total(),
	}, nil
}

func (s *Service) publish(ctx context.Context, ev *entity.QuotationEvent) {
	if ev == nil {
		return
	}
	if err := s.events.Publish(ctx, *ev); err != nil {
		// El cambio ya está confirmado; el evento perdido no lo revierte.
		s.log.Error().Err(err).Str("event", ev.Type).Str("quotation_id", ev.QuotationID).Msg("no se pudo publicar el evento")
	}
}
