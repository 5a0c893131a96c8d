package service

import (
	"context"
	"sync"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/dto"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/model"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. DB() returns nil so runTx executes the closure
// directly, and the Tx methods ignore the tx argument.

// ─── productos ───────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	mu        sync.Mutex
	productos map[uuid.UUID]*model.Producto
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) seed(p model.Producto) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Activo = true
	r.productos[p.ID] = &p
	return p.ID
}

func (r *stubProductoRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.productos[id].StockActual
}

func (r *stubProductoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.CreateTx(nil, p)
}

func (r *stubProductoRepo) CreateTx(tx *gorm.DB, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	return r.FindByIDForUpdate(nil, id)
}

func (r *stubProductoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.productos {
		if p.Codigo == codigo && p.Activo {
			copia := *p
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(ctx context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *p
	r.productos[p.ID] = &copia
	return nil
}

func (r *stubProductoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

func (r *stubProductoRepo) ListBajoStock(ctx context.Context) ([]model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.StockActual <= p.StockMinimo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *stubProductoRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return 0, nil
	}
	if delta < 0 && p.StockActual < -delta {
		return 0, nil
	}
	p.StockActual += delta
	return 1, nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

// ─── movimientos de stock ────────────────────────────────────────────────────

type stubMovimientoStockRepo struct {
	mu   sync.Mutex
	movs []model.MovimientoStock
}

var _ repository.MovimientoStockRepository = (*stubMovimientoStockRepo)(nil)

func newStubMovimientoStockRepo() *stubMovimientoStockRepo {
	return &stubMovimientoStockRepo{}
}

func (r *stubMovimientoStockRepo) CreateTx(tx *gorm.DB, m *model.MovimientoStock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movs = append(r.movs, *m)
	return nil
}

func (r *stubMovimientoStockRepo) ListByProducto(ctx context.Context, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoStock
	for _, m := range r.movs {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ─── facturas ────────────────────────────────────────────────────────────────

type stubFacturaRepo struct {
	mu       sync.Mutex
	facturas map[uuid.UUID]*model.Factura
	numero   int
}

var _ repository.FacturaRepository = (*stubFacturaRepo)(nil)

func newStubFacturaRepo() *stubFacturaRepo {
	return &stubFacturaRepo{facturas: make(map[uuid.UUID]*model.Factura)}
}

func (r *stubFacturaRepo) seed(f model.Factura) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.facturas[f.ID] = &f
	return f.ID
}

func (r *stubFacturaRepo) Create(ctx context.Context, tx *gorm.DB, f *model.Factura) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	for i := range f.Detalles {
		f.Detalles[i].FacturaID = f.ID
	}
	r.facturas[f.ID] = f
	return nil
}

func (r *stubFacturaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Factura, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubFacturaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Factura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.facturas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *f
	return &copia, nil
}

func (r *stubFacturaRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.numero++
	return r.numero, nil
}

func (r *stubFacturaRepo) List(ctx context.Context, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Factura
	for _, f := range r.facturas {
		out = append(out, *f)
	}
	return out, int64(len(out)), nil
}

func (r *stubFacturaRepo) DB() *gorm.DB { return nil }

// ─── compras ─────────────────────────────────────────────────────────────────

type stubCompraRepo struct {
	mu      sync.Mutex
	compras map[uuid.UUID]*model.Compra
	numero  int
}

var _ repository.CompraRepository = (*stubCompraRepo)(nil)

func newStubCompraRepo() *stubCompraRepo {
	return &stubCompraRepo{compras: make(map[uuid.UUID]*model.Compra)}
}

func (r *stubCompraRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Compra) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.compras[c.ID] = c
	return nil
}

func (r *stubCompraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.compras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	return &copia, nil
}

func (r *stubCompraRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.numero++
	return r.numero, nil
}

func (r *stubCompraRepo) List(ctx context.Context, page, limit int) ([]model.Compra, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Compra
	for _, c := range r.compras {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

// ─── devoluciones ────────────────────────────────────────────────────────────

type stubDevolucionRepo struct {
	mu           sync.Mutex
	devoluciones map[uuid.UUID]*model.Devolucion
}

var _ repository.DevolucionRepository = (*stubDevolucionRepo)(nil)

func newStubDevolucionRepo() *stubDevolucionRepo {
	return &stubDevolucionRepo{devoluciones: make(map[uuid.UUID]*model.Devolucion)}
}

func (r *stubDevolucionRepo) Create(ctx context.Context, tx *gorm.DB, d *model.Devolucion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.devoluciones[d.ID] = d
	return nil
}

func (r *stubDevolucionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Devolucion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devoluciones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *d
	return &copia, nil
}

func (r *stubDevolucionRepo) ListByFacturaTx(tx *gorm.DB, facturaID uuid.UUID) ([]model.Devolucion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Devolucion
	for _, d := range r.devoluciones {
		if d.FacturaID == facturaID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubDevolucionRepo) List(ctx context.Context, page, limit int) ([]model.Devolucion, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Devolucion
	for _, d := range r.devoluciones {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (r *stubDevolucionRepo) DB() *gorm.DB { return nil }

// ─── cajas ───────────────────────────────────────────────────────────────────

type stubCajaRepo struct {
	mu          sync.Mutex
	cajas       map[uuid.UUID]*model.Caja
	sesiones    map[uuid.UUID]*model.SesionCaja
	movimientos []model.MovimientoCaja
}

var _ repository.CajaRepository = (*stubCajaRepo)(nil)

func newStubCajaRepo() *stubCajaRepo {
	return &stubCajaRepo{
		cajas:    make(map[uuid.UUID]*model.Caja),
		sesiones: make(map[uuid.UUID]*model.SesionCaja),
	}
}

func (r *stubCajaRepo) seedCaja() uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	caja := &model.Caja{ID: uuid.New(), Nombre: "Caja 1", SucursalID: uuid.New(), Activo: true}
	r.cajas[caja.ID] = caja
	return caja.ID
}

func (r *stubCajaRepo) movimientosDe(sesionID uuid.UUID) []model.MovimientoCaja {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if m.SesionCajaID == sesionID {
			out = append(out, m)
		}
	}
	return out
}

func (r *stubCajaRepo) CreateCaja(ctx context.Context, c *model.Caja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cajas[c.ID] = c
	return nil
}

func (r *stubCajaRepo) FindCajaByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	return r.FindCajaByIDTx(nil, id)
}

func (r *stubCajaRepo) FindCajaByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Caja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cajas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	return &copia, nil
}

func (r *stubCajaRepo) ListCajas(ctx context.Context) ([]model.Caja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Caja
	for _, c := range r.cajas {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCajaRepo) CreateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.CreateSesionTx(nil, s)
}

func (r *stubCajaRepo) CreateSesionTx(tx *gorm.DB, s *model.SesionCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	copia := *s
	r.sesiones[s.ID] = &copia
	return nil
}

func (r *stubCajaRepo) FindSesionAbiertaPorCaja(ctx context.Context, cajaID uuid.UUID) (*model.SesionCaja, error) {
	return r.FindSesionAbiertaPorCajaTx(nil, cajaID)
}

func (r *stubCajaRepo) FindSesionAbiertaPorCajaTx(tx *gorm.DB, cajaID uuid.UUID) (*model.SesionCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sesiones {
		if s.CajaID == cajaID && s.Estado == "abierta" {
			copia := *s
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCajaRepo) FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	return r.FindSesionByIDTx(nil, id)
}

func (r *stubCajaRepo) FindSesionByIDTx(tx *gorm.DB, id uuid.UUID) (*model.SesionCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sesiones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *s
	return &copia, nil
}

func (r *stubCajaRepo) UpdateSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.UpdateSesionTx(nil, s)
}

func (r *stubCajaRepo) UpdateSesionTx(tx *gorm.DB, s *model.SesionCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *s
	r.sesiones[s.ID] = &copia
	return nil
}

func (r *stubCajaRepo) ListSesiones(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.SesionCaja
	for _, s := range r.sesiones {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubCajaRepo) CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error {
	return r.CreateMovimientoTx(nil, m)
}

func (r *stubCajaRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubCajaRepo) ListMovimientos(ctx context.Context, sesionCajaID uuid.UUID) ([]model.MovimientoCaja, error) {
	return r.movimientosDe(sesionCajaID), nil
}

func (r *stubCajaRepo) SumMovimientos(ctx context.Context, sesionCajaID uuid.UUID) (decimal.Decimal, error) {
	return r.SumMovimientosTx(nil, sesionCajaID)
}

func (r *stubCajaRepo) SumMovimientosTx(tx *gorm.DB, sesionCajaID uuid.UUID) (decimal.Decimal, error) {
	suma := decimal.Zero
	for _, m := range r.movimientosDe(sesionCajaID) {
		suma = suma.Add(m.Monto)
	}
	return suma, nil
}

func (r *stubCajaRepo) DB() *gorm.DB { return nil }

// ─── catálogos mínimos ───────────────────────────────────────────────────────

type stubMetodoPagoRepo struct {
	metodos map[uuid.UUID]*model.MetodoPago
}

var _ repository.MetodoPagoRepository = (*stubMetodoPagoRepo)(nil)

func newStubMetodoPagoRepo() *stubMetodoPagoRepo {
	return &stubMetodoPagoRepo{metodos: make(map[uuid.UUID]*model.MetodoPago)}
}

func (r *stubMetodoPagoRepo) seed() uuid.UUID {
	m := &model.MetodoPago{ID: uuid.New(), Nombre: "efectivo", Activo: true}
	r.metodos[m.ID] = m
	return m.ID
}

func (r *stubMetodoPagoRepo) Create(ctx context.Context, m *model.MetodoPago) error {
	r.metodos[m.ID] = m
	return nil
}

func (r *stubMetodoPagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MetodoPago, error) {
	m, ok := r.metodos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMetodoPagoRepo) List(ctx context.Context) ([]model.MetodoPago, error) {
	return nil, nil
}

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) List(ctx context.Context) ([]model.Cliente, error) { return nil, nil }

type stubProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
}

var _ repository.ProveedorRepository = (*stubProveedorRepo)(nil)

func newStubProveedorRepo() *stubProveedorRepo {
	return &stubProveedorRepo{proveedores: make(map[uuid.UUID]*model.Proveedor)}
}

func (r *stubProveedorRepo) seed() uuid.UUID {
	p := &model.Proveedor{ID: uuid.New(), RazonSocial: "Proveedor SA", Activo: true}
	r.proveedores[p.ID] = p
	return p.ID
}

func (r *stubProveedorRepo) Create(ctx context.Context, p *model.Proveedor) error {
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProveedorRepo) List(ctx context.Context) ([]model.Proveedor, error) { return nil, nil }

// ─── dispatcher ──────────────────────────────────────────────────────────────

type stubDispatcher struct {
	mu      sync.Mutex
	recibos []uuid.UUID
	cierres []uuid.UUID
}

var _ JobDispatcher = (*stubDispatcher)(nil)

func (d *stubDispatcher) DispatchRecibo(ctx context.Context, facturaID uuid.UUID, email *string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recibos = append(d.recibos, facturaID)
	return nil
}

func (d *stubDispatcher) DispatchCierre(ctx context.Context, sesionCajaID uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cierres = append(d.cierres, sesionCajaID)
	return nil
}
