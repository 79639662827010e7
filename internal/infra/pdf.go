package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"blendfabrica/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerarProduccionPDF renders a production batch report and writes it under
// storagePath. Returns the absolute path of the generated file.
func GenerarProduccionPDF(p *model.Produccion, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("crear directorio pdf: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, "Parte de Produccion", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Lote "+p.ID.String(), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Batch summary
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(40, 6, "Producto:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, p.Producto.Nombre, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(40, 6, "Fecha:", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, p.CreatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")

	pdf.CellFormat(40, 6, "Unidades producidas:", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("%d", p.Cantidad), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Consumption table
	const (
		colIngrediente = 70.0
		colCantidad    = 35.0
		colCosto       = 35.0
		colSubtotal    = 40.0
	)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(colIngrediente, 7, "Ingrediente", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colCantidad, 7, "Cantidad", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colCosto, 7, "Costo unit.", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colSubtotal, 7, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, d := range p.Detalles {
		subtotal := d.Cantidad.Mul(d.CostoUnitario)
		pdf.CellFormat(colIngrediente, 6, d.Ingrediente.Nombre, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colCantidad, 6, fmt.Sprintf("%s %s", d.Cantidad.String(), d.Ingrediente.UnidadMedida), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colCosto, 6, "$"+d.CostoUnitario.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colSubtotal, 6, "$"+subtotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	// Totals
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colIngrediente+colCantidad+colCosto, 7, "Costo total del lote", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colSubtotal, 7, "$"+p.CostoTotal.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.CellFormat(colIngrediente+colCantidad+colCosto, 7, "Costo por unidad", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colSubtotal, 7, "$"+p.CostoUnitario.StringFixed(2), "1", 1, "R", false, 0, "")

	filename := fmt.Sprintf("produccion_%s.pdf", p.ID)
	fullPath := filepath.Join(storagePath, filename)
	if err := pdf.OutputFileAndClose(fullPath); err != nil {
		return "", fmt.Errorf("generar pdf: %w", err)
	}
	return fullPath, nil
}
