// import_part_items registra unidades físicas de inventario desde un export CSV.
//
// Uso: go run ./cmd/import_part_items [-latin1] [-dry-run] inventario.csv
//
// Columnas: part_number, bar_code, serial_number, location, shelve_location,
// supplier_id, purchase_price, condition, added_on. Solo las dos primeras son
// obligatorias. Las unidades entran como available (damaged si la condición lo es).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Repuestos-api/internal/domain"
	"github.com/jhoicas/Repuestos-api/internal/domain/repository"
	"github.com/jhoicas/Repuestos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Repuestos-api/pkg/config"
	"github.com/jhoicas/Repuestos-api/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el archivo viene en ISO-8859-1")
	dryRun := flag.Bool("dry-run", false, "validar sin escribir en la base")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: import_part_items [-latin1] [-dry-run] archivo.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "import_part_items"})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := parseRows(newReader(f, *latin1), time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Msg("filas inválidas")
	}
	if *dryRun || len(rows) == 0 {
		log.Info().Int("valid", len(rows)).Bool("dry_run", *dryRun).Msg("importación finalizada")
		return
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	res := importRows(ctx, rows, postgres.NewPartRepository(pool), postgres.NewPartItemRepository(pool))
	for _, e := range res.errs {
		log.Warn().Err(e).Msg("fila omitida")
	}
	log.Info().
		Int("created", res.created).
		Int("duplicates", res.duplicates).
		Int("failed", len(res.errs)).
		Msg("importación finalizada")
}

type importResult struct {
	created    int
	duplicates int
	errs       []error
}

// importRows resuelve cada part_number contra el catálogo y crea la unidad.
// Un código de barras repetido se cuenta y se omite.
func importRows(ctx context.Context, rows []row, parts repository.PartRepository, units repository.PartItemRepository) importResult {
	var res importResult
	partIDs := make(map[string]string)
	for _, r := range rows {
		partID, ok := partIDs[r.PartNumber]
		if !ok {
			p, err := parts.GetByPartNumber(ctx, r.PartNumber)
			if err != nil {
				res.errs = append(res.errs, fmt.Errorf("línea %d: %w", r.Line, err))
				continue
			}
			if p == nil {
				res.errs = append(res.errs, fmt.Errorf("línea %d: parte %s: %w", r.Line, r.PartNumber, domain.ErrNotFound))
				continue
			}
			partID = p.ID
			partIDs[r.PartNumber] = partID
		}
		it := r.Item
		it.ID = uuid.New().String()
		it.PartID = partID
		if err := units.Create(ctx, &it); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				res.duplicates++
				continue
			}
			res.errs = append(res.errs, fmt.Errorf("línea %d: %w", r.Line, err))
			continue
		}
		res.created++
	}
	return res
}
