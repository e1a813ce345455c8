package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Repuestos-api/internal/application/dto"
	"github.com/jhoicas/Repuestos-api/internal/domain"
	"github.com/jhoicas/Repuestos-api/internal/domain/entity"
	"github.com/jhoicas/Repuestos-api/internal/testhelpers"
	"github.com/jhoicas/Repuestos-api/pkg/jwt"
)

const companyID = "5d0f7a52-0d3e-4c6b-9a57-1d0d3c1b2a11"

func newUseCase(t *testing.T) (*AuthUseCase, *testhelpers.Store) {
	t.Helper()
	store := testhelpers.NewStore()
	store.AddCompany(&entity.Company{ID: companyID, Name: "Minera Andina"})
	uc := NewAuthUseCase(store.Users(), store.Companies(), JWTConfig{Secret: "s3cret", ExpMinutes: 5, Issuer: "repuestos-api"}).
		WithCost(bcrypt.MinCost)
	return uc, store
}

func TestRegisterYLogin(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Compras@Andina.test", Password: "12345678", CompanyID: companyID})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, u.Role)
	assert.Equal(t, "compras@andina.test", u.Email)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "compras@andina.test", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := jwt.Parse("s3cret", "repuestos-api", res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, companyID, claims.CompanyID)
	assert.Equal(t, entity.RoleCustomer, claims.Role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "vendedor@repuestos.test", Password: "12345678", Role: entity.RoleSeller})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "vendedor@repuestos.test", Password: "otra-clave"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@repuestos.test", Password: "12345678"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, store := newUseCase(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("12345678"), bcrypt.MinCost)
	require.NoError(t, err)
	store.AddUser(&entity.User{ID: "u-1", Email: "baja@andina.test", PasswordHash: string(hash), Role: entity.RoleCustomer, Status: "suspended"})

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "baja@andina.test", Password: "12345678"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestRegister_Validaciones(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "x@y.test", Password: "corta"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "x@y.test", Password: "12345678", Role: "admin"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "x@y.test", Password: "12345678", CompanyID: "8a3b2c1d-0000-4000-8000-000000000000"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "x@y.test", Password: "12345678"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "X@y.test", Password: "12345678"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}
