// Package pdf implementa la generación del kardex de producto en PDF: el
// historial completo de asientos del libro de inventario con su balance
// corrido.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Kardex de Producto  │  Código + Fecha de emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRODUCTO: Nombre / Unidad / Balance actual / Mínimo        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Delta | Balance | Referencia | Autor │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	appledger "github.com/jhoicas/taller-api/internal/application/ledger"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 40, Blue: 40}
	colorGreen   = &props.Color{Red: 30, Green: 120, Blue: 60}
)

var _ appledger.KardexPDFGenerator = (*MarotoKardexGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoKardexGenerator implementa ledger.KardexPDFGenerator usando Maroto v2.
type MarotoKardexGenerator struct{}

// NewMarotoKardexGenerator construye el generador.
func NewMarotoKardexGenerator() *MarotoKardexGenerator { return &MarotoKardexGenerator{} }

// GenerateKardexPDF genera el PDF y devuelve sus bytes.
func (g *MarotoKardexGenerator) GenerateKardexPDF(
	_ context.Context,
	product *entity.Product,
	entries []*entity.LedgerEntry,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex de Producto", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(productRow(product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, e := range entries {
		m.AddRows(entryRow(e))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kardex: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y código + fecha (der).
func headerRow(product *entity.Product) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("KARDEX DE PRODUCTO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(product.Name, props.Text{
				Size: 10, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Código: "+product.Code, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2,
			}),
			text.New("Unidad: "+product.Unit, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// productRow: balance actual y nivel mínimo.
func productRow(product *entity.Product) core.Row {
	balanceColor := colorGreen
	if product.StockQuantity.LessThan(product.MinStockLevel) {
		balanceColor = colorRed
	}
	return row.New(10).Add(
		col.New(6).Add(
			text.New("Balance actual: "+product.StockQuantity.String(), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 2, Color: balanceColor,
			}),
		),
		col.New(6).Add(
			text.New("Nivel mínimo: "+product.MinStockLevel.String(), props.Text{
				Size: 9, Top: 2, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := func(size int, label string) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary,
		}))
	}
	return row.New(7).Add(
		header(2, "Fecha"),
		header(2, "Tipo"),
		header(2, "Delta"),
		header(2, "Balance"),
		header(2, "Referencia"),
		header(2, "Registrado por"),
	)
}

func entryRow(e *entity.LedgerEntry) core.Row {
	deltaColor := colorGreen
	if e.Delta.IsNegative() {
		deltaColor = colorRed
	}
	cell := func(size int, value string, color *props.Color) core.Col {
		return col.New(size).Add(text.New(value, props.Text{Size: 8, Color: color}))
	}
	return row.New(6).Add(
		cell(2, e.CreatedAt.Format("02/01/2006 15:04"), nil),
		cell(2, kindLabel(e.Kind), nil),
		cell(2, e.Delta.String(), deltaColor),
		cell(2, e.ResultingBalance.String(), nil),
		cell(2, e.Reference, colorGray),
		cell(2, e.CreatedBy, colorGray),
	)
}

func kindLabel(kind string) string {
	switch kind {
	case entity.LedgerKindInbound:
		return "Entrada"
	case entity.LedgerKindOutbound:
		return "Salida"
	case entity.LedgerKindSetAbsolute:
		return "Ajuste"
	default:
		return kind
	}
}
