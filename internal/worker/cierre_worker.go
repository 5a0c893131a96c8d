package worker

import (
	"context"
	"fmt"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/infra"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CierreWorker renders the reconciliation report of a closed session and
// mails it to the configured supervision address.
type CierreWorker struct {
	cajas        repository.CajaRepository
	pdf          *infra.PDFGenerator
	mailer       *infra.Mailer
	reporteEmail string
}

var _ Handler = (*CierreWorker)(nil)

func NewCierreWorker(cajas repository.CajaRepository, pdf *infra.PDFGenerator, mailer *infra.Mailer, reporteEmail string) *CierreWorker {
	return &CierreWorker{cajas: cajas, pdf: pdf, mailer: mailer, reporteEmail: reporteEmail}
}

func (w *CierreWorker) Procesar(ctx context.Context, job Job) error {
	sesionID, err := uuid.Parse(job.ReferenciaID)
	if err != nil {
		return fmt.Errorf("referencia_id inválida: %s", job.ReferenciaID)
	}

	sesion, err := w.cajas.FindSesionByID(ctx, sesionID)
	if err != nil {
		return fmt.Errorf("sesión %s: %w", sesionID, err)
	}
	movimientos, err := w.cajas.ListMovimientos(ctx, sesionID)
	if err != nil {
		return fmt.Errorf("movimientos de %s: %w", sesionID, err)
	}

	ruta, err := w.pdf.GenerarCierre(sesion, movimientos)
	if err != nil {
		return err
	}
	log.Info().Str("sesion_id", sesionID.String()).Str("pdf", ruta).Msg("reporte de cierre generado")

	if w.reporteEmail == "" {
		return nil
	}
	asunto := "Cierre de caja " + sesionID.String()
	cuerpo := "Se adjunta el reporte de arqueo de la sesión."
	if sesion.ClasificacionDesvio != nil && *sesion.ClasificacionDesvio == "critico" {
		asunto = "[CRITICO] " + asunto
		cuerpo = "La sesión cerró con un desvío crítico. " + cuerpo
	}
	if err := w.mailer.Enviar(w.reporteEmail, asunto, cuerpo, ruta); err != nil {
		return fmt.Errorf("envío del cierre: %w", err)
	}
	return nil
}
