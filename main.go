package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/cppla/blogapi/config"
	"github.com/cppla/blogapi/routes"
	"github.com/cppla/blogapi/store"
	"github.com/cppla/blogapi/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	ctx := context.Background()
	db, err := config.InitDatabase(ctx)
	if err != nil {
		utils.Logger.Fatal("connect database", zap.Error(err))
	}
	defer func() { _ = config.CloseDatabase(context.Background()) }()

	if err := store.EnsureIndexes(ctx, db); err != nil {
		utils.Logger.Fatal("ensure indexes", zap.Error(err))
	}

	r := routes.SetupRouter(cfg, routes.Deps{
		Users:   store.NewUsers(db, cfg.BcryptCost),
		Blogs:   store.NewBlogs(db),
		Authors: store.NewAuthors(db),
		States:  utils.NewStateStore(utils.GetRedis()),
	})

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(ctx, ":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Errorf("server stopped with error: %v", err)
	}
}
