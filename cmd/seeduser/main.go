// seeduser creates the initial administrator account against the configured
// database. Intended for first-time setup.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/config"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/dto"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/infra"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/repository"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/service"

	"github.com/rs/zerolog/log"
)

func main() {
	username := flag.String("username", "admin", "nombre de usuario")
	password := flag.String("password", "", "contraseña (obligatoria)")
	nombre := flag.String("nombre", "Administrador", "nombre completo")
	flag.Parse()

	if *password == "" {
		log.Error().Msg("la contraseña es obligatoria (-password)")
		os.Exit(1)
	}

	cfg := config.Load()
	db, err := infra.ConnectDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo conectar a la base de datos")
	}

	auth := service.NewAuthService(repository.NewUsuarioRepository(db), cfg)
	u, err := auth.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: *username,
		Password: *password,
		Nombre:   *nombre,
		Rol:      "administrador",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo crear el usuario")
	}
	log.Info().Str("id", u.ID).Str("username", u.Username).Msg("administrador creado")
}
