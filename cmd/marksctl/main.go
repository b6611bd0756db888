package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/KedarDamale/MarksMania/config"
	"github.com/KedarDamale/MarksMania/internal/repository"
	"github.com/KedarDamale/MarksMania/internal/service"
	"github.com/KedarDamale/MarksMania/pkg/database"
	"github.com/KedarDamale/MarksMania/pkg/jwt"
	applogger "github.com/KedarDamale/MarksMania/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("MARKS_CONFIG"))
	errAndDie(err)

	logger, err := applogger.NewLogger(&config.LogConfig{Level: "warn", Format: "console"})
	errAndDie(err)
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, "warn", logger)
	errAndDie(err)
	sqlDB, err := db.DB()
	errAndDie(err)
	defer sqlDB.Close()

	repo := repository.NewRepository(db)
	// 命令行不签发 Token，也无需黑名单
	svc := service.NewService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, logger)

	cli := commandLine{
		db:     sqlDB,
		auth:   svc.Auth,
		stats:  svc.Stats,
		out:    os.Stdout,
		logger: logger,
	}
	if err := cli.run(os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			logger.Error("命令执行失败", zap.Error(err))
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		sqlDB.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
