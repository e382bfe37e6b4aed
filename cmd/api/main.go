package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"turismo/internal/config"
	"turismo/internal/domain/model"
	"turismo/internal/handler"
	"turismo/internal/infra/db"
	"turismo/internal/infra/mail"
	"turismo/internal/infra/payment"
	infraRepo "turismo/internal/infra/repository"
	"turismo/internal/logging"
	"turismo/internal/server"
	"turismo/internal/usecase"
	"turismo/internal/validator"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Init("logs/api.log")

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//外部サービス
	gateway, err := payment.NewMercadoPagoGateway(cfg)
	if err != nil {
		log.Fatalf("mercadopago: %v", err)
	}
	notifier := mail.NewSMTPNotifier(cfg)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, txManager, userRepo, validator.New())
	productUC := usecase.NewProductUsecase(productRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(
		orderRepo, orderItemRepo, cartRepo, cartItemRepo,
		productRepo, userRepo, gateway, notifier,
	)

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC),
	}

	e := server.New(cfg, userRepo, handlers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.WithField("port", cfg.Port).Info("server starting")
	if err := server.Start(ctx, e, ":"+cfg.Port); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server: %v", err)
	}
	log.Info("server stopped")
}
