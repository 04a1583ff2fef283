// Package pdf implementa la generación del tiquete de venta en PDF.
//
// Layout de la página A5 (medio oficio, apto para impresoras de mostrador):
//
//	┌───────────────────────────────────────────────┐
//	│  HEADER: Nombre de la tienda │ N° + Fecha     │
//	│  ───────────────────────────────────────────  │
//	│  Cliente / Cajero / Medio de pago             │
//	│  ───────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal   │
//	│  ───────────────────────────────────────────  │
//	│  Subtotal / Impuestos / Descuento / TOTAL     │
//	│  Recibido / Cambio                            │
//	│  ───────────────────────────────────────────  │
//	│  Leyenda de agradecimiento                    │
//	└───────────────────────────────────────────────┘
package pdf

import (
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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tu-usuario/pos-pro/internal/application/sales"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// esCO formatea cantidades con separador de miles al estilo colombiano.
var esCO = message.NewPrinter(language.MustParse("es-CO"))

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa sales.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// Generate genera el tiquete PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) Generate(data sales.ReceiptData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Tiquete de venta "+data.InvoiceNumber, true).
		WithAuthor(data.StoreName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(data.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(data))
	m.AddRows(cashRow(data))

	m.AddRows(line.NewRow(2))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar tiquete: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la tienda (izq) y número + fecha (der).
func headerRow(data sales.ReceiptData) core.Row {
	fecha := data.Date.Format("02/01/2006 15:04")

	return row.New(16).Add(
		col.New(7).Add(
			text.New(data.StoreName, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("Tiquete de venta", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(data.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2,
			}),
			text.New(fecha, props.Text{
				Size: 7, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// partiesRow: cliente, cajero y medio de pago en una sola franja.
func partiesRow(data sales.ReceiptData) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Cliente: %s   |   Cajero: %s",
				nonEmpty(data.CustomerName, "Consumidor final"),
				nonEmpty(data.CashierName, "—"),
			), props.Text{Size: 8, Top: 1}),
			text.New("Medio de pago: "+nonEmpty(data.PaymentMethod, "—"), props.Text{
				Size: 8, Top: 6, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 5, align.Left),
		h("P.Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea de la venta.
func tableDetailRows(items []sales.ReceiptLine) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.Name
		if it.Discount.IsPositive() {
			name = fmt.Sprintf("%s (desc. $%s)", it.Name, money(it.Discount))
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+money(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"$"+money(it.Subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(data sales.ReceiptData) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 8, Align: align.Right, Right: 1})
	}

	labels := col.New(4).Add(
		label("Subtotal:"),
		label("Impuestos:"),
		label("Descuento:"),
		text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 15,
		}),
	)
	values := col.New(4).Add(
		value("$"+money(data.Subtotal)),
		value("$"+money(data.TaxAmount)),
		value("$"+money(data.Discount)),
		text.New("$"+money(data.Total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 15,
		}),
	)

	return row.New(22).Add(col.New(4), labels, values)
}

// cashRow: efectivo recibido y cambio devuelto.
func cashRow(data sales.ReceiptData) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Recibido: $%s   |   Cambio: $%s",
				money(data.CashReceived), money(data.Change),
			), props.Text{Size: 8, Align: align.Right, Top: 2, Right: 1}),
		),
	)
}

// footerRow: leyenda de agradecimiento.
func footerRow() core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("¡Gracias por su compra!", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Center,
			Color: colorPrimary, Top: 2,
		}),
		text.New("Conserve este tiquete como soporte de su transacción.", props.Text{
			Size: 6.5, Align: align.Center, Color: colorGray, Top: 7,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea un monto con separador de miles según es-CO.
// Ej: 25000 → "25.000", 1000000 → "1.000.000"
func money(d decimal.Decimal) string {
	return esCO.Sprintf("%d", d.Round(0).IntPart())
}
