package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	"github.com/jhoicas/Repuestos-api/internal/testhelpers"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestParseRows_LeeColumnasPorNombre(t *testing.T) {
	in := "bar_code,part_number,purchase_price,condition,added_on,location\n" +
		"BC-1,PN-A,\"1250,50\",used,2025-11-02,Bodega 2\n" +
		"BC-2,PN-A,,,,\n"
	rows, err := parseRows(newReader(strings.NewReader(in), false), now)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "PN-A", rows[0].PartNumber)
	assert.Equal(t, "BC-1", rows[0].Item.BarCode)
	assert.Equal(t, entity.PartConditionUsed, rows[0].Item.Condition)
	assert.Equal(t, "1250.5", rows[0].Item.PurchasePrice.Decimal.String())
	assert.Equal(t, time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC), rows[0].Item.AddedOn)
	assert.Equal(t, "Bodega 2", rows[0].Item.Location)

	assert.Equal(t, entity.PartConditionNew, rows[1].Item.Condition)
	assert.False(t, rows[1].Item.PurchasePrice.Valid)
	assert.Equal(t, now, rows[1].Item.AddedOn)
	assert.Equal(t, entity.PartItemStatusAvailable, rows[1].Item.Status)
}

func TestParseRows_AcumulaErroresPorFila(t *testing.T) {
	in := "part_number,bar_code,condition,purchase_price\n" +
		"PN-A,BC-1,rota,\n" +
		",BC-2,,\n" +
		"PN-A,BC-3,damaged,-5\n" +
		"PN-A,BC-4,damaged,\n"
	rows, err := parseRows(newReader(strings.NewReader(in), false), now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 2")
	assert.Contains(t, err.Error(), "línea 3")
	assert.Contains(t, err.Error(), "línea 4")
	require.Len(t, rows, 1)
	assert.Equal(t, entity.PartItemStatusDamaged, rows[0].Item.Status)
}

func TestParseRows_ColumnaObligatoria(t *testing.T) {
	_, err := parseRows(newReader(strings.NewReader("part_number,serial\nPN-A,1\n"), false), now)
	assert.ErrorContains(t, err, "bar_code")
}

func TestParseRows_DecodificaLatin1(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("part_number,bar_code,location\nPN-A,BC-1,Cami")
	buf.WriteByte(0xF3) // ó en ISO-8859-1
	buf.WriteString("n 3\n")

	rows, err := parseRows(newReader(&buf, true), now)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Camión 3", rows[0].Item.Location)
}

func TestImportRows(t *testing.T) {
	store := testhelpers.NewStore()
	store.AddPart("A", "100", "")
	rows := []row{
		{Line: 2, PartNumber: "PN-A", Item: entity.PartItem{BarCode: "BC-1", Condition: entity.PartConditionNew, Status: entity.PartItemStatusAvailable, AddedOn: now}},
		{Line: 3, PartNumber: "PN-A", Item: entity.PartItem{BarCode: "BC-1", Condition: entity.PartConditionNew, Status: entity.PartItemStatusAvailable, AddedOn: now}},
		{Line: 4, PartNumber: "PN-X", Item: entity.PartItem{BarCode: "BC-9", Condition: entity.PartConditionNew, Status: entity.PartItemStatusAvailable, AddedOn: now}},
	}

	res := importRows(context.Background(), rows, store.Parts(), store.PartItems())
	assert.Equal(t, 1, res.created)
	assert.Equal(t, 1, res.duplicates)
	require.Len(t, res.errs, 1)
	assert.Contains(t, res.errs[0].Error(), "línea 4")

	units := store.Units("A")
	require.Len(t, units, 1)
	assert.Equal(t, "BC-1", units[0].BarCode)
}
