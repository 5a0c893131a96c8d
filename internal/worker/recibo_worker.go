package worker

import (
	"context"
	"fmt"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/infra"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReciboWorker renders the receipt PDF of a factura and mails it to the
// customer when an address was provided.
type ReciboWorker struct {
	facturas repository.FacturaRepository
	pdf      *infra.PDFGenerator
	mailer   *infra.Mailer
}

var _ Handler = (*ReciboWorker)(nil)

func NewReciboWorker(facturas repository.FacturaRepository, pdf *infra.PDFGenerator, mailer *infra.Mailer) *ReciboWorker {
	return &ReciboWorker{facturas: facturas, pdf: pdf, mailer: mailer}
}

func (w *ReciboWorker) Procesar(ctx context.Context, job Job) error {
	facturaID, err := uuid.Parse(job.ReferenciaID)
	if err != nil {
		return fmt.Errorf("referencia_id inválida: %s", job.ReferenciaID)
	}

	factura, err := w.facturas.FindByID(ctx, facturaID)
	if err != nil {
		return fmt.Errorf("factura %s: %w", facturaID, err)
	}

	ruta, err := w.pdf.GenerarRecibo(factura)
	if err != nil {
		return err
	}
	log.Info().Str("factura_id", facturaID.String()).Str("pdf", ruta).Msg("recibo generado")

	if job.Email == nil || *job.Email == "" {
		return nil
	}
	asunto := fmt.Sprintf("Recibo de su compra - Factura N° %d", factura.Numero)
	cuerpo := fmt.Sprintf("Adjuntamos el recibo de su compra por un total de %s.", factura.Total.StringFixed(2))
	if err := w.mailer.Enviar(*job.Email, asunto, cuerpo, ruta); err != nil {
		return fmt.Errorf("envío del recibo: %w", err)
	}
	return nil
}
