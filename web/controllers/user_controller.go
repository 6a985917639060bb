package controllers

import (
	"net/http"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/hellojanelle05/AquaShopV.0/internal/service"
)

// UserController 负责前台登录/注册页面与表单处理。
type UserController struct {
	customerService *service.CustomerService
}

// NewUserController 构造函数，供路由层复用同一套逻辑。
func NewUserController(customerSvc *service.CustomerService) *UserController {
	return &UserController{customerService: customerSvc}
}

// ShowLogin 渲染登录表单。
func (c *UserController) ShowLogin(ctx iris.Context) {
	if err := ctx.View("user/login.html"); err != nil {
		ctx.ContentType("text/html; charset=utf-8")
		_, _ = ctx.WriteString("<h2>Could not load the login page. Please try again later.</h2>")
	}
}

// ShowRegister 渲染注册表单。
func (c *UserController) ShowRegister(ctx iris.Context) {
	if err := ctx.View("user/register.html"); err != nil {
		ctx.ContentType("text/html; charset=utf-8")
		_, _ = ctx.WriteString("<h2>Could not load the sign-up page. Please try again later.</h2>")
	}
}

// PostLogin 处理登录表单提交，成功后写 cookie 并跳回首页。
func (c *UserController) PostLogin(ctx iris.Context) {
	email := ctx.FormValue("email")
	password := ctx.FormValue("password")

	if email == "" || password == "" {
		ctx.ContentType("text/html; charset=utf-8")
		_, _ = ctx.WriteString("<h2>Email and password are required.</h2>")
		return
	}

	token, err := c.customerService.Login(ctx.Request().Context(), email, password)
	if err != nil {
		ctx.ContentType("text/html; charset=utf-8")
		_, _ = ctx.WriteString("<h2>Login failed. Check your email and password.</h2>")
		return
	}

	ctx.SetCookie(&http.Cookie{
		Name:  "token",
		Value: token,
		Path:  "/",
	})

	ctx.Redirect("/", iris.StatusFound)
}

// PostRegister 处理注册表单提交，成功后跳转到登录页。
func (c *UserController) PostRegister(ctx iris.Context) {
	email := ctx.FormValue("email")
	username := ctx.FormValue("username")
	password := ctx.FormValue("password")

	_, err := c.customerService.Register(ctx.Request().Context(), email, username, password)
	if err != nil {
		ctx.ContentType("text/html; charset=utf-8")
		_, _ = ctx.WriteString("<h2>Sign-up failed: " + err.Error() + "</h2>")
		return
	}

	ctx.Redirect("/login", iris.StatusFound)
}

// Logout 清理 cookie 并回到首页。
func (c *UserController) Logout(ctx iris.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:    "token",
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})
	ctx.Redirect("/", iris.StatusFound)
}
