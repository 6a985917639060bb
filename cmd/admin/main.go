package main

import (
	"github.com/kataras/iris/v12"
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
	server.RegisterAdminRoutes(app, cfg)

	addr := cfg.AdminServer.Addr()
	zap.L().Info("admin server listening", zap.String("addr", addr))
	if err := app.Run(
		iris.Addr(addr),
		iris.WithoutServerError(iris.ErrServerClosed),
	); err != nil {
		zap.L().Fatal("app run failed", zap.Error(err))
	}
}
