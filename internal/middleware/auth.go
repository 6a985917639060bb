package middleware

import (
	"strings"

	"github.com/kataras/iris/v12"

	"github.com/hellojanelle05/AquaShopV.0/internal/auth"
	"github.com/hellojanelle05/AquaShopV.0/internal/config"
)

// 认证中间件写入 ctx.Values 的键
const (
	CtxCustomerID = "customer_id"
	CtxUsername   = "username"
	CtxIsAdmin    = "is_admin"
)

// tokenFromRequest 先取 Authorization 头（可带 Bearer 前缀），再落回 cookie
func tokenFromRequest(ctx iris.Context) string {
	token := ctx.GetHeader("Authorization")
	token = strings.TrimPrefix(token, "Bearer ")
	if token != "" {
		return token
	}
	return ctx.GetCookie("token")
}

// RequireLogin 解析 JWT 并把身份写入 ctx.Values。
// 浏览器流程未登录时跳到登录页，AJAX 请求返回 401 JSON。
// cache 可为 nil，此时每次都走签名校验。
func RequireLogin(cfg *config.JWTConfig, cache *auth.TokenCache) iris.Handler {
	return func(ctx iris.Context) {
		token := tokenFromRequest(ctx)
		if token == "" {
			reject(ctx)
			return
		}

		var claims *auth.Claims
		if cache != nil {
			if cached, ok, err := cache.Get(ctx.Request().Context(), token); err == nil && ok {
				claims = cached
			}
		}
		if claims == nil {
			parsed, err := auth.ParseToken(cfg, token)
			if err != nil {
				reject(ctx)
				return
			}
			claims = parsed
			if cache != nil {
				_ = cache.Set(ctx.Request().Context(), token, claims)
			}
		}

		ctx.Values().Set(CtxCustomerID, claims.CustomerID)
		ctx.Values().Set(CtxUsername, claims.Username)
		ctx.Values().Set(CtxIsAdmin, claims.IsAdmin)
		ctx.Next()
	}
}

// RequireAdmin 在 RequireLogin 之后使用，非管理员直接打回首页
func RequireAdmin() iris.Handler {
	return func(ctx iris.Context) {
		if !ctx.Values().GetBoolDefault(CtxIsAdmin, false) {
			if wantsJSON(ctx) {
				ctx.StopWithJSON(iris.StatusForbidden, iris.Map{"error": "admin only"})
				return
			}
			ctx.Redirect("/", iris.StatusFound)
			return
		}
		ctx.Next()
	}
}

func reject(ctx iris.Context) {
	if wantsJSON(ctx) {
		ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{"error": "login required"})
		return
	}
	ctx.Redirect("/login", iris.StatusFound)
}

func wantsJSON(ctx iris.Context) bool {
	if ctx.IsAjax() {
		return true
	}
	return strings.Contains(ctx.GetHeader("Accept"), "application/json")
}

// Identity 从 ctx.Values 重建 claims，给需要 requester 的服务调用
func Identity(ctx iris.Context) *auth.Claims {
	return &auth.Claims{
		CustomerID: ctx.Values().GetInt64Default(CtxCustomerID, 0),
		Username:   ctx.Values().GetStringDefault(CtxUsername, ""),
		IsAdmin:    ctx.Values().GetBoolDefault(CtxIsAdmin, false),
	}
}
