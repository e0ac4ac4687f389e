package middleware

import (
	"net/http"
	"sync"

	"ExamSeatPlanner/internal/auth"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var (
	enforcer     *casbin.Enforcer
	enforcerOnce sync.Once
	enforcerErr  error
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && r.act == p.act
`

// Staff may read everything under /api; admins inherit that and may mutate.
var rbacPolicies = [][]string{
	{auth.RoleStaff, "/api/*", http.MethodGet},
	{auth.RoleAdmin, "/api/*", http.MethodPost},
	{auth.RoleAdmin, "/api/*", http.MethodPut},
	{auth.RoleAdmin, "/api/*", http.MethodDelete},
}

// InitCasbinEnforcer initializes the Casbin enforcer singleton with the model
// and policies defined in code.
func InitCasbinEnforcer() (*casbin.Enforcer, error) {
	enforcerOnce.Do(func() {
		m, err := model.NewModelFromString(rbacModel)
		if err != nil {
			enforcerErr = err
			return
		}
		enf, err := casbin.NewEnforcer(m)
		if err != nil {
			enforcerErr = err
			return
		}
		for _, p := range rbacPolicies {
			if _, err := enf.AddPolicy(p[0], p[1], p[2]); err != nil {
				enforcerErr = err
				return
			}
		}
		if _, err := enf.AddGroupingPolicy(auth.RoleAdmin, auth.RoleStaff); err != nil {
			enforcerErr = err
			return
		}
		enforcer = enf
	})
	return enforcer, enforcerErr
}

// CasbinMiddleware enforces RBAC for each request. It must run after
// JWTMiddleware.
func CasbinMiddleware(enf *casbin.Enforcer, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.JWTClaims)
			if !ok || claims == nil {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Unauthorized: missing user claims"})
			}
			obj := c.Request().URL.Path
			act := c.Request().Method
			allowed, err := enf.Enforce(claims.Role, obj, act)
			if err != nil {
				logger.Error("casbin enforce failed", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "RBAC system error"})
			}
			if !allowed {
				logger.Info("casbin denied",
					zap.String("role", claims.Role),
					zap.String("path", obj),
					zap.String("method", act),
				)
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden: insufficient permissions"})
			}
			return next(c)
		}
	}
}
