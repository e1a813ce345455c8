package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Repuestos-api/internal/application/dto"
	"github.com/jhoicas/Repuestos-api/internal/domain"
	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	"github.com/jhoicas/Repuestos-api/internal/domain/repository"
	"github.com/jhoicas/Repuestos-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	jwtCfg      JWTConfig
	cost        int
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, companyRepo: companyRepo, jwtCfg: jwtCfg, cost: bcrypt.DefaultCost}
}

// WithCost cambia el costo de bcrypt (los tests usan bcrypt.MinCost).
func (uc *AuthUseCase) WithCost(cost int) *AuthUseCase {
	uc.cost = cost
	return uc
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste.
// Un cliente puede quedar vinculado a una empresa del directorio.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email", "email inválido")
	}
	if len(in.Password) < 8 {
		return nil, domain.NewValidationError("password", "mínimo 8 caracteres")
	}
	role := in.Role
	if role == "" {
		role = entity.RoleCustomer
	}
	if role != entity.RoleCustomer && role != entity.RoleSeller {
		return nil, domain.NewValidationError("role", "debe ser seller o customer")
	}
	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email %s: %w", email, domain.ErrDuplicate)
	}
	if in.CompanyID != "" {
		company, err := uc.companyRepo.GetByID(ctx, in.CompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, fmt.Errorf("empresa %s: %w", in.CompanyID, domain.ErrNotFound)
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    in.CompanyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email desconocido y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if user.Status != "active" {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrForbidden, user.Status)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
