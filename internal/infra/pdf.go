package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/model"

	"github.com/go-pdf/fpdf"
)

// PDFGenerator writes receipts and session reports under a storage directory.
type PDFGenerator struct {
	dir string
}

func NewPDFGenerator(dir string) (*PDFGenerator, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("directorio de PDFs: %w", err)
	}
	return &PDFGenerator{dir: dir}, nil
}

// GenerarRecibo renders the receipt of a factura and returns the file path.
func (g *PDFGenerator) GenerarRecibo(f *model.Factura) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Recibo - Factura N° %d", f.Numero))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Fecha: "+f.CreatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Producto", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Cant.", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "P. Unit.", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Subtotal", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, d := range f.Detalles {
		nombre := d.ProductoID.String()
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		pdf.CellFormat(90, 7, nombre, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", d.Cantidad), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, d.PrecioUnitario.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, d.Subtotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(145, 7, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, f.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(145, 7, "Impuesto", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, f.Impuesto.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(145, 7, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, f.Total.StringFixed(2), "", 1, "R", false, 0, "")

	ruta := filepath.Join(g.dir, fmt.Sprintf("recibo-%d.pdf", f.Numero))
	if err := pdf.OutputFileAndClose(ruta); err != nil {
		return "", fmt.Errorf("escritura del recibo: %w", err)
	}
	return ruta, nil
}

// GenerarCierre renders the reconciliation report of a closed session.
func (g *PDFGenerator) GenerarCierre(s *model.SesionCaja, movimientos []model.MovimientoCaja) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Cierre de caja")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Sesión: "+s.ID.String())
	pdf.Ln(6)
	pdf.Cell(0, 6, "Apertura: "+s.OpenedAt.Format("2006-01-02 15:04"))
	pdf.Ln(6)
	if s.ClosedAt != nil {
		pdf.Cell(0, 6, "Cierre: "+s.ClosedAt.Format("2006-01-02 15:04"))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 7, "Tipo", "1", 0, "L", false, 0, "")
	pdf.CellFormat(105, 7, "Descripción", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, "Monto", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, m := range movimientos {
		pdf.CellFormat(40, 7, m.Tipo, "1", 0, "L", false, 0, "")
		pdf.CellFormat(105, 7, m.Descripcion, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, m.Monto.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(145, 7, "Monto inicial", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, s.MontoInicial.StringFixed(2), "", 1, "R", false, 0, "")
	if s.MontoEsperado != nil {
		pdf.CellFormat(145, 7, "Monto esperado", "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, s.MontoEsperado.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if s.MontoDeclarado != nil {
		pdf.CellFormat(145, 7, "Monto declarado", "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, s.MontoDeclarado.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if s.Diferencia != nil {
		pdf.CellFormat(145, 7, "Diferencia", "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, s.Diferencia.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if s.ClasificacionDesvio != nil {
		pdf.CellFormat(145, 7, "Clasificación", "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, *s.ClasificacionDesvio, "", 1, "R", false, 0, "")
	}

	ruta := filepath.Join(g.dir, fmt.Sprintf("cierre-%s.pdf", s.ID))
	if err := pdf.OutputFileAndClose(ruta); err != nil {
		return "", fmt.Errorf("escritura del cierre: %w", err)
	}
	return ruta, nil
}
