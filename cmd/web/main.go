package main

import (
	"fmt"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/sessions"
	"go.uber.org/zap"

	"github.com/hellojanelle05/AquaShopV.0/internal/config"
	"github.com/hellojanelle05/AquaShopV.0/internal/server"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load("./config")
	if err != nil {
		zap.L().Fatal("load config failed", zap.Error(err))
	}

	app := iris.New()

	// HTML 模板引擎，模板目录 web/views
	tmpl := iris.HTML("./web/views", ".html")
	tmpl.AddFunc("formatPrice", func(price float64) string {
		return fmt.Sprintf("$%.2f", price)
	})
	app.RegisterView(tmpl)

	sess := sessions.New(sessions.Config{
		Cookie:  "aquashop_session",
		Expires: 24 * time.Hour,
	})

	server.RegisterRoutes(app, cfg, sess)

	addr := cfg.Server.Addr()
	zap.L().Info("web server listening", zap.String("addr", addr))
	if err := app.Run(
		iris.Addr(addr),
		iris.WithCharset("UTF-8"),
		iris.WithoutServerError(iris.ErrServerClosed),
	); err != nil {
		zap.L().Fatal("app run failed", zap.Error(err))
	}
}
