package service

import (
	"context"
	"errors"
	"time"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/domain"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/dto"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/model"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Deviation thresholds as a fraction of the expected balance.
var (
	umbralAdvertencia = decimal.NewFromFloat(0.01)
	umbralCritico     = decimal.NewFromFloat(0.05)
)

// CajaService manages cash register sessions. At most one session per register
// is open at any time; the expected closing balance is a pure function of the
// opening amount and the immutable movement ledger. A declared/expected
// discrepancy is classified and recorded but never blocks the close.
type CajaService interface {
	CrearCaja(ctx context.Context, nombre string, sucursalID uuid.UUID) (*model.Caja, error)
	ListarCajas(ctx context.Context) ([]model.Caja, error)

	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error)
	RegistrarMovimiento(ctx context.Context, req dto.MovimientoManualRequest) (*dto.MovimientoCajaResponse, error)
	Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error)

	ObtenerSesion(ctx context.Context, id uuid.UUID) (*dto.SesionCajaResponse, error)
	ListarSesiones(ctx context.Context, page, limit int) (*dto.SesionListResponse, error)
}

type cajaService struct {
	cajas      repository.CajaRepository
	dispatcher JobDispatcher
}

var _ CajaService = (*cajaService)(nil)

func NewCajaService(cajas repository.CajaRepository, dispatcher JobDispatcher) CajaService {
	return &cajaService{cajas: cajas, dispatcher: dispatcher}
}

func (s *cajaService) CrearCaja(ctx context.Context, nombre string, sucursalID uuid.UUID) (*model.Caja, error) {
	if nombre == "" {
		return nil, domain.Validacionf("nombre de caja requerido")
	}
	caja := &model.Caja{Nombre: nombre, SucursalID: sucursalID, Activo: true}
	if err := s.cajas.CreateCaja(ctx, caja); err != nil {
		return nil, err
	}
	return caja, nil
}

func (s *cajaService) ListarCajas(ctx context.Context) ([]model.Caja, error) {
	return s.cajas.ListCajas(ctx)
}

func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error) {
	cajaID, err := uuid.Parse(req.CajaID)
	if err != nil {
		return nil, domain.Validacionf("caja_id inválido: %s", req.CajaID)
	}
	if req.MontoInicial.IsNegative() {
		return nil, domain.Validacionf("monto_inicial negativo: %s", req.MontoInicial)
	}

	var sesion *model.SesionCaja
	err = runTx(ctx, s.cajas.DB(), func(tx *gorm.DB) error {
		// Locking the register row serializes concurrent opens.
		caja, err := s.cajas.FindCajaByIDTx(tx, cajaID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &domain.NotFoundError{Entidad: "caja", ID: req.CajaID}
			}
			return err
		}
		if !caja.Activo {
			return domain.Validacionf("caja %s inactiva", caja.Nombre)
		}

		_, err = s.cajas.FindSesionAbiertaPorCajaTx(tx, cajaID)
		switch {
		case err == nil:
			return &domain.SessionAlreadyOpenError{CajaID: cajaID}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// ok, no open session
		default:
			return err
		}

		sesion = &model.SesionCaja{
			CajaID:       cajaID,
			UsuarioID:    usuarioID,
			MontoInicial: req.MontoInicial,
			Estado:       "abierta",
			OpenedAt:     time.Now(),
		}
		return s.cajas.CreateSesionTx(tx, sesion)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("sesion_id", sesion.ID.String()).
		Str("caja_id", req.CajaID).
		Str("monto_inicial", req.MontoInicial.String()).
		Msg("sesión de caja abierta")

	resp := toSesionResponse(sesion, nil)
	return &resp, nil
}

func (s *cajaService) RegistrarMovimiento(ctx context.Context, req dto.MovimientoManualRequest) (*dto.MovimientoCajaResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, domain.Validacionf("sesion_caja_id inválido: %s", req.SesionCajaID)
	}
	if !req.Monto.IsPositive() {
		return nil, domain.Validacionf("monto debe ser positivo: %s", req.Monto)
	}

	monto := req.Monto
	if req.Tipo == "egreso_manual" {
		monto = monto.Neg()
	}

	var mov *model.MovimientoCaja
	err = runTx(ctx, s.cajas.DB(), func(tx *gorm.DB) error {
		sesion, err := s.cajas.FindSesionByIDTx(tx, sesionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &domain.NotFoundError{Entidad: "sesión de caja", ID: req.SesionCajaID}
			}
			return err
		}
		if sesion.Estado != "abierta" {
			return &domain.SessionClosedError{SesionID: sesionID}
		}

		mov = &model.MovimientoCaja{
			SesionCajaID: sesionID,
			Tipo:         req.Tipo,
			Monto:        monto,
			Descripcion:  req.Descripcion,
		}
		return s.cajas.CreateMovimientoTx(tx, mov)
	})
	if err != nil {
		return nil, err
	}

	resp := toMovimientoCajaResponse(mov)
	return &resp, nil
}

func (s *cajaService) Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error) {
	sesionID, err := uuid.Parse(req.SesionCajaID)
	if err != nil {
		return nil, domain.Validacionf("sesion_caja_id inválido: %s", req.SesionCajaID)
	}
	if req.MontoDeclarado.IsNegative() {
		return nil, domain.Validacionf("monto_declarado negativo: %s", req.MontoDeclarado)
	}

	var sesion *model.SesionCaja
	err = runTx(ctx, s.cajas.DB(), func(tx *gorm.DB) error {
		sesion, err = s.cajas.FindSesionByIDTx(tx, sesionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &domain.NotFoundError{Entidad: "sesión de caja", ID: req.SesionCajaID}
			}
			return err
		}
		if sesion.Estado != "abierta" {
			return &domain.SessionClosedError{SesionID: sesionID}
		}

		suma, err := s.cajas.SumMovimientosTx(tx, sesionID)
		if err != nil {
			return err
		}

		esperado := sesion.MontoInicial.Add(suma).Round(2)
		diferencia := req.MontoDeclarado.Sub(esperado).Round(2)
		clasificacion := clasificarDesvio(diferencia, esperado)
		ahora := time.Now()

		sesion.Estado = "cerrada"
		sesion.MontoEsperado = &esperado
		sesion.MontoDeclarado = &req.MontoDeclarado
		sesion.Diferencia = &diferencia
		sesion.ClasificacionDesvio = &clasificacion
		sesion.Observaciones = req.Observaciones
		sesion.ClosedAt = &ahora
		return s.cajas.UpdateSesionTx(tx, sesion)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("sesion_id", sesionID.String()).
		Str("esperado", sesion.MontoEsperado.String()).
		Str("declarado", req.MontoDeclarado.String()).
		Str("diferencia", sesion.Diferencia.String()).
		Str("clasificacion", *sesion.ClasificacionDesvio).
		Msg("sesión de caja cerrada")

	if s.dispatcher != nil {
		if err := s.dispatcher.DispatchCierre(ctx, sesionID); err != nil {
			log.Error().Err(err).Str("sesion_id", sesionID.String()).Msg("no se pudo encolar el reporte de cierre")
		}
	}

	return &dto.CierreCajaResponse{
		SesionCajaID:   sesionID.String(),
		MontoEsperado:  *sesion.MontoEsperado,
		MontoDeclarado: req.MontoDeclarado,
		Diferencia:     *sesion.Diferencia,
		Clasificacion:  *sesion.ClasificacionDesvio,
		Estado:         sesion.Estado,
	}, nil
}

func (s *cajaService) ObtenerSesion(ctx context.Context, id uuid.UUID) (*dto.SesionCajaResponse, error) {
	sesion, err := s.cajas.FindSesionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entidad: "sesión de caja", ID: id.String()}
		}
		return nil, err
	}
	movs, err := s.cajas.ListMovimientos(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toSesionResponse(sesion, movs)
	return &resp, nil
}

func (s *cajaService) ListarSesiones(ctx context.Context, page, limit int) (*dto.SesionListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	sesiones, total, err := s.cajas.ListSesiones(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SesionCajaResponse, 0, len(sesiones))
	for i := range sesiones {
		data = append(data, toSesionResponse(&sesiones[i], nil))
	}
	return &dto.SesionListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// clasificarDesvio buckets |diferencia| relative to the expected balance:
// "normal" up to 1%, "advertencia" up to 5%, "critico" above. A nonzero
// difference against a zero expected balance is always critico.
func clasificarDesvio(diferencia, esperado decimal.Decimal) string {
	if diferencia.IsZero() {
		return "normal"
	}
	if esperado.IsZero() {
		return "critico"
	}
	ratio := diferencia.Abs().Div(esperado.Abs())
	switch {
	case ratio.LessThanOrEqual(umbralAdvertencia):
		return "normal"
	case ratio.LessThanOrEqual(umbralCritico):
		return "advertencia"
	default:
		return "critico"
	}
}

func toSesionResponse(s *model.SesionCaja, movs []model.MovimientoCaja) dto.SesionCajaResponse {
	resp := dto.SesionCajaResponse{
		SesionCajaID:   s.ID.String(),
		CajaID:         s.CajaID.String(),
		MontoInicial:   s.MontoInicial,
		MontoDeclarado: s.MontoDeclarado,
		Diferencia:     s.Diferencia,
		Clasificacion:  s.ClasificacionDesvio,
		Estado:         s.Estado,
		Observaciones:  s.Observaciones,
		OpenedAt:       s.OpenedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if s.MontoEsperado != nil {
		resp.MontoEsperado = *s.MontoEsperado
	}
	if s.ClosedAt != nil {
		v := s.ClosedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.ClosedAt = &v
	}
	for i := range movs {
		resp.Movimientos = append(resp.Movimientos, toMovimientoCajaResponse(&movs[i]))
	}
	return resp
}

func toMovimientoCajaResponse(m *model.MovimientoCaja) dto.MovimientoCajaResponse {
	return dto.MovimientoCajaResponse{
		ID:          m.ID.String(),
		Tipo:        m.Tipo,
		Monto:       m.Monto,
		Descripcion: m.Descripcion,
		CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
