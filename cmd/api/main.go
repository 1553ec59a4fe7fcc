package main

import (
	"context"
	"log"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidTokenGenerator struct{}

func (g *uuidTokenGenerator) NewToken() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func newJWTIssuer(secret string) *jwtIssuer {
	//アクセストークン
	return &jwtIssuer{
		secret:    []byte(secret),
		accessTTL: 15 * time.Minute,
	}
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// 期限切れゲストの掃除間隔
const sweepInterval = 1 * time.Hour

func main() {
	//.envが無ければ環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.Variant{},
		&model.GuestIdentity{},
		&model.CartLine{},
		&model.Order{},
		&model.OrderLine{},
		&model.WishlistItem{},
		&model.User{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	variantRepo := infraRepo.NewVariantGormRepository(gormDB)
	guestRepo := infraRepo.NewGuestGormRepository(gormDB)
	cartLineRepo := infraRepo.NewCartLineGormRepository(gormDB)
	wishlistRepo := infraRepo.NewWishlistGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	tokenGen := &uuidTokenGenerator{}
	clock := &realClock{}
	verifier := usecase.NewBcryptPasswordVerifier()
	issuer := newJWTIssuer(cfg.JWTSecret)

	//Usecase生成
	sessionUC := usecase.NewSessionUsecase(guestRepo, txManager, tokenGen, clock)
	productUC := usecase.NewProductUsecase(productRepo, variantRepo)
	cartUC := usecase.NewCartUsecase(cartLineRepo, variantRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager, variantRepo)
	wishlistUC := usecase.NewWishlistUsecase(wishlistRepo, variantRepo, productRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo)
	authUC := usecase.NewAuthUsecase(userRepo, verifier, issuer, clock)

	//期限切れゲストの掃除（カート・ウィッシュリストごと消す）
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			n, err := sessionUC.SweepExpired(context.Background())
			if err != nil {
				log.Printf("sweep: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("sweep: deleted %d expired guests", n)
			}
		}
	}()

	//Handler生成
	e := server.New(cfg)
	sessions := handler.NewSessionResolver(sessionUC, cfg)

	server.RegisterRoutes(e, cfg, server.Handlers{
		Auth:       handler.NewAuthHandler(authUC),
		Product:    handler.NewProductHandler(productUC),
		Cart:       handler.NewCartHandler(cartUC, sessions),
		Order:      handler.NewOrderHandler(orderUC, sessions),
		Wishlist:   handler.NewWishlistHandler(wishlistUC, sessions),
		AdminOrder: handler.NewAdminOrderHandler(adminOrderUC),
	})

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := e.Start(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
