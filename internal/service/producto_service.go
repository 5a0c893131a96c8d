package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/domain"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/dto"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/model"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const precioCacheTTL = 5 * time.Minute

// ProductoService covers catalog maintenance and the public price check. The
// price check is cached in redis; any mutation of the product invalidates its
// cache entry.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	ConsultarPrecio(ctx context.Context, codigo string) (*dto.PrecioResponse, error)
}

type productoService struct {
	productos   repository.ProductoRepository
	movimientos repository.MovimientoStockRepository
	rdb         *redis.Client
}

var _ ProductoService = (*productoService)(nil)

// NewProductoService accepts a nil redis client; caching is then skipped.
func NewProductoService(productos repository.ProductoRepository, movimientos repository.MovimientoStockRepository, rdb *redis.Client) ProductoService {
	return &productoService{productos: productos, movimientos: movimientos, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if req.PrecioCosto.IsNegative() || req.PrecioVenta.IsNegative() {
		return nil, domain.Validacionf("los precios no pueden ser negativos")
	}
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, domain.Validacionf("sucursal_id inválido: %s", req.SucursalID)
	}
	var categoriaID *uuid.UUID
	if req.CategoriaID != nil {
		id, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, domain.Validacionf("categoria_id inválido: %s", *req.CategoriaID)
		}
		categoriaID = &id
	}

	if _, err := s.productos.FindByCodigo(ctx, req.Codigo); err == nil {
		return nil, domain.Validacionf("ya existe un producto con código %s", req.Codigo)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &model.Producto{
		Codigo:      req.Codigo,
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		CategoriaID: categoriaID,
		SucursalID:  sucursalID,
		PrecioCosto: req.PrecioCosto,
		PrecioVenta: req.PrecioVenta,
		StockActual: req.StockInicial,
		StockMinimo: req.StockMinimo,
		Activo:      true,
	}

	err = runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		if err := s.productos.CreateTx(tx, p); err != nil {
			return err
		}
		if req.StockInicial > 0 {
			return s.movimientos.CreateTx(tx, &model.MovimientoStock{
				ProductoID:    p.ID,
				Tipo:          "ajuste_manual",
				Cantidad:      req.StockInicial,
				StockAnterior: 0,
				StockNuevo:    req.StockInicial,
				Motivo:        "stock inicial",
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toProductoResponse(p)
	return &resp, nil
}

func (s *productoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entidad: "producto", ID: id.String()}
		}
		return nil, err
	}
	resp := toProductoResponse(p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	productos, total, err := s.productos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, toProductoResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entidad: "producto", ID: id.String()}
		}
		return nil, err
	}

	if req.Nombre != "" {
		p.Nombre = req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.CategoriaID != nil {
		catID, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, domain.Validacionf("categoria_id inválido: %s", *req.CategoriaID)
		}
		p.CategoriaID = &catID
	}
	if req.PrecioCosto != nil {
		if req.PrecioCosto.IsNegative() {
			return nil, domain.Validacionf("precio_costo negativo")
		}
		p.PrecioCosto = *req.PrecioCosto
	}
	if req.PrecioVenta != nil {
		if req.PrecioVenta.IsNegative() {
			return nil, domain.Validacionf("precio_venta negativo")
		}
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.StockMinimo != nil {
		if *req.StockMinimo < 0 {
			return nil, domain.Validacionf("stock_minimo negativo")
		}
		p.StockMinimo = *req.StockMinimo
	}

	if err := s.productos.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarPrecio(ctx, p.Codigo)

	resp := toProductoResponse(p)
	return &resp, nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.NotFoundError{Entidad: "producto", ID: id.String()}
		}
		return err
	}
	if err := s.productos.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidarPrecio(ctx, p.Codigo)
	return nil
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productos.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.NotFoundError{Entidad: "producto", ID: id.String()}
		}
		return err
	}
	return s.productos.Reactivar(ctx, id)
}

func (s *productoService) ConsultarPrecio(ctx context.Context, codigo string) (*dto.PrecioResponse, error) {
	if codigo == "" {
		return nil, domain.Validacionf("código requerido")
	}

	key := "precio:" + codigo
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var cached dto.PrecioResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	p, err := s.productos.FindByCodigo(ctx, codigo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entidad: "producto", ID: codigo}
		}
		return nil, err
	}

	resp := &dto.PrecioResponse{Codigo: p.Codigo, Nombre: p.Nombre, PrecioVenta: p.PrecioVenta}
	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, raw, precioCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("codigo", codigo).Msg("no se pudo cachear el precio")
			}
		}
	}
	return resp, nil
}

func (s *productoService) invalidarPrecio(ctx context.Context, codigo string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, "precio:"+codigo).Err(); err != nil {
		log.Warn().Err(err).Str("codigo", codigo).Msg("no se pudo invalidar el cache de precio")
	}
}

func toProductoResponse(p *model.Producto) dto.ProductoResponse {
	var categoriaID *string
	if p.CategoriaID != nil {
		v := p.CategoriaID.String()
		categoriaID = &v
	}
	return dto.ProductoResponse{
		ID:          p.ID.String(),
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		CategoriaID: categoriaID,
		SucursalID:  p.SucursalID.String(),
		PrecioCosto: p.PrecioCosto,
		PrecioVenta: p.PrecioVenta,
		StockActual: p.StockActual,
		StockMinimo: p.StockMinimo,
		Activo:      p.Activo,
	}
}
