package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
)

// row una unidad leída del CSV, aún sin resolver la parte.
type row struct {
	Line       int
	PartNumber string
	Item       entity.PartItem
}

var requiredColumns = []string{"part_number", "bar_code"}

// newReader decodifica ISO-8859-1 cuando el export viene del sistema anterior.
func newReader(r io.Reader, latin1 bool) *csv.Reader {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	return cr
}

// parseRows lee todas las filas. Los errores por fila se acumulan para
// reportarlos juntos; una fila inválida no detiene la lectura.
func parseRows(cr *csv.Reader, now time.Time) ([]row, error) {
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q", c)
		}
	}

	var (
		out  []row
		errs []error
	)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return out, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		r, err := buildRow(line, get, now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, r)
	}
	return out, errors.Join(errs...)
}

func buildRow(line int, get func(string) string, now time.Time) (row, error) {
	r := row{Line: line, PartNumber: get("part_number")}
	if r.PartNumber == "" {
		return r, fmt.Errorf("línea %d: part_number vacío", line)
	}
	it := entity.PartItem{
		BarCode:        get("bar_code"),
		SerialNumber:   get("serial_number"),
		Location:       get("location"),
		ShelveLocation: get("shelve_location"),
		SupplierID:     get("supplier_id"),
		Condition:      strings.ToLower(get("condition")),
		Status:         entity.PartItemStatusAvailable,
		AddedOn:        now,
		UpdatedAt:      now,
	}
	if it.BarCode == "" {
		return r, fmt.Errorf("línea %d: bar_code vacío", line)
	}
	if it.Condition == "" {
		it.Condition = entity.PartConditionNew
	}
	if !entity.ValidPartCondition(it.Condition) {
		return r, fmt.Errorf("línea %d: condición %q inválida", line, it.Condition)
	}
	// Una unidad dañada entra fuera de venta.
	if it.Condition == entity.PartConditionDamaged {
		it.Status = entity.PartItemStatusDamaged
	}
	if s := get("purchase_price"); s != "" {
		p, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
		if err != nil || p.IsNegative() {
			return r, fmt.Errorf("línea %d: purchase_price %q inválido", line, s)
		}
		it.PurchasePrice = decimal.NewNullDecimal(p)
	}
	if s := get("added_on"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return r, fmt.Errorf("línea %d: added_on %q inválido", line, s)
		}
		it.AddedOn = t
	}
	r.Item = it
	return r, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("formato de fecha no reconocido")
}
