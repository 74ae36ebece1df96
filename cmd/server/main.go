package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"insee_backend/internal/app/di"
	"insee_backend/internal/app/router"
	authadapters "insee_backend/internal/feature/auth/adapters"
	authhandler "insee_backend/internal/feature/auth/transport/handler"
	authusecase "insee_backend/internal/feature/auth/usecase"
	obshandler "insee_backend/internal/feature/observations/transport/handler"
	obsusecase "insee_backend/internal/feature/observations/usecase"
	raghandler "insee_backend/internal/feature/rag/transport/handler"
	ragusecase "insee_backend/internal/feature/rag/usecase"
	serieshandler "insee_backend/internal/feature/serieslist/transport/handler"
	seriesusecase "insee_backend/internal/feature/serieslist/usecase"
	infradb "insee_backend/internal/platform/db"
	jwtmw "insee_backend/internal/platform/jwt"
	infraredis "insee_backend/internal/platform/redis"
	"insee_backend/internal/shared/ratelimiter"
)

// accessTokenTTL はアクセストークンの有効期間です。
const accessTokenTTL = 15 * time.Minute

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	ctx := context.Background()

	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// INSEE BDMクライアント（資格情報必須）
	bdmClient, err := di.NewBDMClient()
	if err != nil {
		slog.Error("failed to create INSEE client", "error", err)
		os.Exit(1)
	}

	// 回答生成クライアント（失敗時はnilで継続し、RAGは診断メッセージを返す）
	answerClient, err := di.NewAnswerClient(ctx)
	if err != nil {
		slog.Warn("answer client unavailable; RAG answers will degrade", "error", err)
		answerClient = nil
	}

	// Repository
	userRepo := authadapters.NewUserRepository(db)
	sessionRepo := di.NewSessionRepository(rdb, db)
	catalogRepo := di.NewCatalogRepository(rdb, db)

	// Usecase
	generator := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), accessTokenTTL)
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, generator, accessTokenTTL)
	obsUC := obsusecase.NewObservationsUsecase(bdmClient)
	seriesUC := seriesusecase.NewSeriesUsecase(catalogRepo)
	ragUC := ragusecase.NewRagUsecase(answerClient, obsUC, ratelimiter.NewRateLimiterFromEnv())

	// 起動時に期限切れセッションを一掃する
	if n, err := authUC.DeleteExpiredSessions(ctx); err != nil {
		slog.Warn("failed to delete expired sessions", "error", err)
	} else if n > 0 {
		slog.Info("deleted expired sessions", "count", n)
	}

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	obsH := obshandler.NewObservationsHandler(obsUC)
	seriesH := serieshandler.NewSeriesHandler(seriesUC)
	ragH := raghandler.NewRagHandler(ragUC)

	// ルータ生成
	r := router.NewRouter(authH, obsH, seriesH, ragH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}

	if err := r.Run(":8080"); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
