package router

import (
	authhandler "insee_backend/internal/feature/auth/transport/handler"
	obshandler "insee_backend/internal/feature/observations/transport/handler"
	raghandler "insee_backend/internal/feature/rag/transport/handler"
	serieshandler "insee_backend/internal/feature/serieslist/transport/handler"
	"insee_backend/internal/platform/http/handler"
	jwtmw "insee_backend/internal/platform/jwt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(authHandler *authhandler.AuthHandler, observations *obshandler.ObservationsHandler,
	series *serieshandler.SeriesHandler, rag *raghandler.RagHandler) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/v1/auth/signup", authHandler.Signup)
	// ログイン（トークンペア発行）
	r.POST("/v1/auth/login", authHandler.Login)
	// リフレッシュトークンのローテーション
	r.POST("/v1/auth/refresh", authHandler.Refresh)
	// セッション失効
	r.POST("/v1/auth/logout", authHandler.Logout)

	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth := r.Group("/v1")
	auth.Use(jwtmw.AuthRequired())
	{
		auth.GET("/series/:idbanks", observations.GetSeries)
		auth.GET("/series/:idbanks/stats", observations.GetSeriesStats)
		auth.GET("/catalog", series.List)
		auth.POST("/rag/ask", rag.Ask)
	}

	return r
}
