// seed_locations genera un script SQL para poblar ubicaciones, productos y stock por ubicación
// a partir de un CSV exportado de la tienda (sku;producto;ubicación;cantidad).
//
// Uso: go run ./cmd/seed_locations [-latin1] [-out seed/stock_seed.sql] ruta/stock.csv
// Los exports de hojas de cálculo en Windows suelen venir en ISO-8859-1: usar -latin1.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-locations-api/pkg/slug"
)

// Espacio de nombres para IDs deterministas: volver a generar el script produce los mismos IDs.
var seedNamespace = uuid.MustParse("8f0e4c1a-3b7d-4f5e-9a2c-6d1b0e7f3a94")

type stockRow struct {
	sku      string
	product  string
	location string
	quantity int64
}

func main() {
	latin1 := flag.Bool("latin1", false, "el CSV viene en ISO-8859-1")
	outPath := flag.String("out", "", "archivo de salida (por defecto seed/stock_seed.sql en la raíz del módulo)")
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Uso: seed_locations [-latin1] [-out archivo.sql] stock.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var in io.Reader = f
	if *latin1 {
		in = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	rows, err := parseRows(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	path := *outPath
	if path == "" {
		path = filepath.Join(findModuleRoot(), "seed", "stock_seed.sql")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	out, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	locations, products := writeSQL(out, rows)
	fmt.Printf("Generado %s: %d ubicaciones, %d productos, %d filas de stock\n", path, locations, products, len(rows))
}

// parseRows lee sku;producto;ubicación;cantidad. La primera fila es la cabecera.
func parseRows(r io.Reader) ([]stockRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 4

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("cabecera: %w", err)
	}
	var rows []stockRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		qty, err := strconv.ParseInt(strings.TrimSpace(rec[3]), 10, 64)
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("línea %d: cantidad inválida %q", line, rec[3])
		}
		row := stockRow{
			sku:      strings.TrimSpace(rec[0]),
			product:  strings.TrimSpace(rec[1]),
			location: strings.TrimSpace(rec[2]),
			quantity: qty,
		}
		if row.sku == "" || slug.Make(row.location) == "" {
			return nil, fmt.Errorf("línea %d: sku y ubicación son obligatorios", line)
		}
		if row.product == "" {
			row.product = row.sku
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// writeSQL escribe el script idempotente. La posición de cada ubicación por producto
// sigue el orden de aparición en el CSV.
func writeSQL(w io.Writer, rows []stockRow) (locations, products int) {
	fmt.Fprintln(w, "-- Ubicaciones, productos y stock por ubicación")
	fmt.Fprintln(w, "-- Generado por cmd/seed_locations")
	fmt.Fprintln(w)

	seenLoc := map[string]bool{}
	seenProduct := map[string]bool{}
	positions := map[string]int{}

	for _, r := range rows {
		locSlug := slug.Make(r.location)
		locID := uuid.NewSHA1(seedNamespace, []byte("location:"+locSlug)).String()
		productID := uuid.NewSHA1(seedNamespace, []byte("product:"+r.sku)).String()

		if !seenLoc[locSlug] {
			seenLoc[locSlug] = true
			locations++
			fmt.Fprintf(w, "INSERT INTO locations (id, name, slug) VALUES ('%s', '%s', '%s')\n", locID, escapeSQL(r.location), locSlug)
			fmt.Fprintln(w, "ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, updated_at = now();")
		}
		if !seenProduct[r.sku] {
			seenProduct[r.sku] = true
			products++
			fmt.Fprintf(w, "INSERT INTO products (id, sku, name, manage_stock) VALUES ('%s', '%s', '%s', true)\n", productID, escapeSQL(r.sku), escapeSQL(r.product))
			fmt.Fprintln(w, "ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, manage_stock = true, updated_at = now();")
		}

		pos := positions[r.sku]
		positions[r.sku] = pos + 1
		fmt.Fprintln(w, "INSERT INTO location_stock (product_id, location_id, quantity, position)")
		fmt.Fprintf(w, "SELECT p.id, l.id, %d, %d FROM products p, locations l WHERE p.sku = '%s' AND l.slug = '%s'\n",
			r.quantity, pos, escapeSQL(r.sku), locSlug)
		fmt.Fprintln(w, "ON CONFLICT (product_id, location_id) DO UPDATE SET quantity = EXCLUDED.quantity, position = EXCLUDED.position, updated_at = now();")
	}
	return locations, products
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
