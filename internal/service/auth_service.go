package service

import (
	"context"
	"errors"
	"time"

	"github.com/NibsNibsXD/Ferreteria-sub001/internal/config"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/domain"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/dto"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/model"
	"github.com/NibsNibsXD/Ferreteria-sub001/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// JWTClaims travels inside both access and refresh tokens. TokenType guards
// against a refresh token being used as an access token and vice versa.
type JWTClaims struct {
	UserID     string  `json:"user_id"`
	Username   string  `json:"username"`
	Rol        string  `json:"rol"`
	SucursalID *string `json:"sucursal_id,omitempty"`
	TokenType  string  `json:"token_type"`
	jwt.RegisteredClaims
}

// AuthService handles credentials, token issuance and user management.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	usuarios repository.UsuarioRepository
	cfg      *config.Config
}

var _ AuthService = (*authService)(nil)

func NewAuthService(usuarios repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{usuarios: usuarios, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := s.usuarios.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Validacionf("credenciales inválidas")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		log.Warn().Str("username", req.Username).Msg("intento de login fallido")
		return nil, domain.Validacionf("credenciales inválidas")
	}
	return s.emitirTokens(u)
}

func (s *authService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("método de firma inesperado")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid || claims.TokenType != "refresh" {
		return nil, domain.Validacionf("refresh token inválido")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, domain.Validacionf("refresh token inválido")
	}
	u, err := s.usuarios.FindByID(ctx, userID)
	if err != nil || !u.Activo {
		return nil, domain.Validacionf("refresh token inválido")
	}
	return s.emitirTokens(u)
}

func (s *authService) emitirTokens(u *model.Usuario) (*dto.LoginResponse, error) {
	var sucursalID *string
	if u.SucursalID != nil {
		v := u.SucursalID.String()
		sucursalID = &v
	}

	expira := time.Duration(s.cfg.JWTExpirationMinutes) * time.Minute
	access, err := s.firmar(u, sucursalID, "access", expira)
	if err != nil {
		return nil, err
	}
	refresh, err := s.firmar(u, sucursalID, "refresh", time.Duration(s.cfg.JWTRefreshDays)*24*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(expira.Seconds()),
		User:         toUsuarioResponse(u),
	}, nil
}

func (s *authService) firmar(u *model.Usuario, sucursalID *string, tokenType string, ttl time.Duration) (string, error) {
	ahora := time.Now()
	claims := JWTClaims{
		UserID:     u.ID.String(),
		Username:   u.Username,
		Rol:        u.Rol,
		SucursalID: sucursalID,
		TokenType:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(ahora),
			ExpiresAt: jwt.NewNumericDate(ahora.Add(ttl)),
			Subject:   u.ID.String(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	if _, err := s.usuarios.FindByUsername(ctx, req.Username); err == nil {
		return nil, domain.Validacionf("el username %s ya existe", req.Username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var sucursalID *uuid.UUID
	if req.SucursalID != nil {
		id, err := uuid.Parse(*req.SucursalID)
		if err != nil {
			return nil, domain.Validacionf("sucursal_id inválido: %s", *req.SucursalID)
		}
		sucursalID = &id
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &model.Usuario{
		Username:     req.Username,
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		SucursalID:   sucursalID,
		Activo:       true,
	}
	if err := s.usuarios.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Info().Str("username", u.Username).Str("rol", u.Rol).Msg("usuario creado")
	resp := toUsuarioResponse(u)
	return &resp, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	u, err := s.usuarios.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entidad: "usuario", ID: id.String()}
		}
		return nil, err
	}

	if req.Nombre != "" {
		u.Nombre = req.Nombre
	}
	if req.Email != nil {
		u.Email = req.Email
	}
	if req.Rol != "" {
		u.Rol = req.Rol
	}
	if req.SucursalID != nil {
		sid, err := uuid.Parse(*req.SucursalID)
		if err != nil {
			return nil, domain.Validacionf("sucursal_id inválido: %s", *req.SucursalID)
		}
		u.SucursalID = &sid
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}

	if err := s.usuarios.Update(ctx, u); err != nil {
		return nil, err
	}
	resp := toUsuarioResponse(u)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error) {
	usuarios, err := s.usuarios.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsuarioResponse, 0, len(usuarios))
	for i := range usuarios {
		out = append(out, toUsuarioResponse(&usuarios[i]))
	}
	return out, nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uuid.UUID) error {
	if _, err := s.usuarios.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.NotFoundError{Entidad: "usuario", ID: id.String()}
		}
		return err
	}
	return s.usuarios.SoftDelete(ctx, id)
}

func toUsuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	var sucursalID *string
	if u.SucursalID != nil {
		v := u.SucursalID.String()
		sucursalID = &v
	}
	return dto.UsuarioResponse{
		ID:         u.ID.String(),
		Username:   u.Username,
		Nombre:     u.Nombre,
		Email:      u.Email,
		Rol:        u.Rol,
		SucursalID: sucursalID,
		Activo:     u.Activo,
	}
}
