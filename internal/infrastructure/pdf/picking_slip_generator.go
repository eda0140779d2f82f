// Package pdf genera la hoja de picking de un pedido: qué cantidad retirar de cada ubicación.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Hoja de picking + N° Pedido  │  QR del pedido       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Línea | SKU | Producto | Ubicación | Cant. | Estado  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL unidades + leyenda de faltantes                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stock-locations-api/internal/application/inventory"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarning = &props.Color{Red: 176, Green: 96, Blue: 0}
)

var _ inventory.PickingSlipGenerator = (*MarotoPickingSlipGenerator)(nil)

// MarotoPickingSlipGenerator implementa inventory.PickingSlipGenerator usando Maroto v2.
type MarotoPickingSlipGenerator struct {
	author string
}

// NewMarotoPickingSlipGenerator construye el generador; author va en los metadatos del PDF.
func NewMarotoPickingSlipGenerator(author string) *MarotoPickingSlipGenerator {
	return &MarotoPickingSlipGenerator{author: author}
}

// GeneratePickingSlip genera el PDF y devuelve sus bytes.
func (g *MarotoPickingSlipGenerator) GeneratePickingSlip(_ context.Context, slip *inventory.PickingSlip) ([]byte, error) {
	if slip == nil {
		return nil, fmt.Errorf("pdf: hoja de picking vacía")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de picking "+slip.OrderID, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(slip.Lines)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRows(slip.Lines)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título + pedido + fecha (izq) y QR con el ID del pedido (der).
func headerRow(slip *inventory.PickingSlip) core.Row {
	return row.New(28).Add(
		col.New(9).Add(
			text.New("HOJA DE PICKING", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Pedido: "+slip.OrderID, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 10,
			}),
			text.New("Generada: "+slip.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 18, Color: colorGray,
			}),
		),
		col.New(3).Add(code.NewQr(slip.OrderID, props.Rect{Percent: 90, Center: true})),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Línea", 2, align.Left),
		h("SKU", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Ubicación", 2, align.Left),
		h("Cant.", 1, align.Right),
		h("Estado", 2, align.Center),
	)
}

// tableDetailRows: una fila por (línea, ubicación).
func tableDetailRows(lines []inventory.PickingLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		status, color := "Completa", colorGray
		if !l.FullySatisfied {
			status, color = "Parcial", colorWarning
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(l.OrderLineID, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(l.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.LocationName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(formatQuantity(l.Quantity), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(2).Add(text.New(status, props.Text{Size: 8, Align: align.Center, Top: 1, Color: color})),
		))
	}
	return result
}

func footerRows(lines []inventory.PickingLine) []core.Row {
	var total int64
	partial := false
	for _, l := range lines {
		total += l.Quantity
		if !l.FullySatisfied {
			partial = true
		}
	}
	rows := []core.Row{
		row.New(8).Add(
			col.New(9).Add(text.New("TOTAL UNIDADES:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
			})),
			col.New(3).Add(text.New(formatQuantity(total), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
			})),
		),
	}
	if partial {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Hay líneas con stock faltante en ubicaciones: completar manualmente antes del despacho.",
				props.Text{Size: 7, Color: colorWarning, Top: 2}),
		)))
	}
	return rows
}

// formatQuantity inserta puntos de miles. Ej: 25000 → "25.000".
func formatQuantity(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
