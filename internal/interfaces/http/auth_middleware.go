package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Repuestos-api/internal/application/dto"
	domquote "github.com/jhoicas/Repuestos-api/internal/domain/quotation"
	"github.com/jhoicas/Repuestos-api/pkg/jwt"
)

// Locals keys para UserID, CompanyID y Role en Fiber.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
)

// AuthMiddleware exige un Bearer Token JWT válido y carga sus claims en c.Locals.
func AuthMiddleware(jwtSecret, issuer string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		return authenticate(c, jwtSecret, issuer)
	}
}

// OptionalAuth acepta peticiones sin token (actor anónimo). Un token presente
// pero inválido sí se rechaza: no se degrada a anónimo en silencio.
func OptionalAuth(jwtSecret, issuer string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next()
		}
		return authenticate(c, jwtSecret, issuer)
	}
}

func authenticate(c *fiber.Ctx, jwtSecret, issuer string) error {
	parts := strings.SplitN(c.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
	}
	claims, err := jwt.Parse(jwtSecret, issuer, tokenString)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
	}
	c.Locals(LocalUserID, claims.UserID)
	c.Locals(LocalCompanyID, claims.CompanyID)
	c.Locals(LocalRole, claims.Role)
	return c.Next()
}

// RequireRole permite el paso solo a los roles indicados. Va después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol " + role + " sin acceso a este recurso"})
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return local(c, LocalUserID) }

// GetCompanyID devuelve el CompanyID del contexto.
func GetCompanyID(c *fiber.Ctx) string { return local(c, LocalCompanyID) }

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string { return local(c, LocalRole) }

// GetActor actor de la petición; sin token es anónimo.
func GetActor(c *fiber.Ctx) domquote.Actor {
	if GetUserID(c) == "" {
		return domquote.Anonymous()
	}
	return domquote.ActorFromClaims(GetUserID(c), GetCompanyID(c), GetRole(c))
}

func local(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}
