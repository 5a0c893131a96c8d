package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/config"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/handler"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/infra"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/repository"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/router"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/service"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.ConnectDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo conectar a la base de datos")
	}
	rdb, err := infra.ConnectRedis(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo conectar a redis")
	}
	pdfGen, err := infra.NewPDFGenerator(cfg.PDFStoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo preparar el almacenamiento de PDFs")
	}
	mailer := infra.NewMailer(cfg)

	// Repositories
	productoRepo := repository.NewProductoRepository(db)
	movStockRepo := repository.NewMovimientoStockRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	devolucionRepo := repository.NewDevolucionRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	metodoPagoRepo := repository.NewMetodoPagoRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	sucursalRepo := repository.NewSucursalRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)

	// Services
	dispatcher := worker.NewDispatcher(rdb)
	inventarioSvc := service.NewInventarioService(productoRepo, movStockRepo)
	ventaSvc := service.NewVentaService(facturaRepo, metodoPagoRepo, clienteRepo, cajaRepo, inventarioSvc, dispatcher, cfg.IVARate)
	compraSvc := service.NewCompraService(compraRepo, proveedorRepo, cajaRepo, inventarioSvc)
	devolucionSvc := service.NewDevolucionService(devolucionRepo, facturaRepo, cajaRepo, inventarioSvc)
	cajaSvc := service.NewCajaService(cajaRepo, dispatcher)
	productoSvc := service.NewProductoService(productoRepo, movStockRepo, rdb)
	authSvc := service.NewAuthService(usuarioRepo, cfg)

	// Workers
	pool := worker.NewPool(rdb, cfg.WorkerPoolSize, map[string]worker.Handler{
		worker.JobRecibo: worker.NewReciboWorker(facturaRepo, pdfGen, mailer),
		worker.JobCierre: worker.NewCierreWorker(cajaRepo, pdfGen, mailer, cfg.ReporteEmail),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	pool.Start(ctx)

	engine := router.New(cfg, router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Productos:  handler.NewProductoHandler(productoSvc),
		Inventario: handler.NewInventarioHandler(inventarioSvc),
		Ventas:     handler.NewVentaHandler(ventaSvc),
		Compras:    handler.NewCompraHandler(compraSvc),
		Devols:     handler.NewDevolucionHandler(devolucionSvc),
		Caja:       handler.NewCajaHandler(cajaSvc),
		Catalogo:   handler.NewCatalogoHandler(clienteRepo, metodoPagoRepo, proveedorRepo, sucursalRepo, categoriaRepo),
		Health:     handler.NewHealthHandler(db, rdb),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("servidor iniciado")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("el servidor terminó con error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("apagando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado forzado del servidor")
	}
	pool.Wait()

	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("error cerrando redis")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("servidor detenido")
}
