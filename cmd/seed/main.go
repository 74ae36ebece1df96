// カタログ初期投入用CLI。組み込みの系列リストをUPSERTします。
// INSEE APIへのアクセスは行いません。
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	serieslistadapters "insee_backend/internal/feature/serieslist/adapters"
	"insee_backend/internal/feature/serieslist/domain/entity"
	serieslistusecase "insee_backend/internal/feature/serieslist/usecase"
	infradb "insee_backend/internal/platform/db"
)

// builtinCatalog は初期投入する系列の一覧です。
// idbankはINSEE BDMの実在する識別子です。
var builtinCatalog = []entity.Series{
	{IDBank: "001688406", Title: "Indice de la production industrielle - Industrie manufacturière", Frequency: "Mensuelle", IsActive: true, SortKey: 10},
	{IDBank: "001769682", Title: "Indice des prix à la consommation - Ensemble des ménages - France - Ensemble", Frequency: "Mensuelle", IsActive: true, SortKey: 20},
	{IDBank: "001656155", Title: "Taux de chômage au sens du BIT - Ensemble - France hors Mayotte", Frequency: "Trimestrielle", IsActive: true, SortKey: 30},
	{IDBank: "000436387", Title: "Indicateur synthétique du climat des affaires - France", Frequency: "Mensuelle", IsActive: true, SortKey: 40},
	{IDBank: "010000001", Title: "Nombre de logements autorisés à la construction - France", Frequency: "Mensuelle", IsActive: true, SortKey: 50},
}

func main() {
	dryRun := flag.Bool("dry-run", false, "print the catalog without writing to the database")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	if *dryRun {
		for _, s := range builtinCatalog {
			slog.Info("would seed", "idbank", s.IDBank, "title", s.Title, "frequency", s.Frequency)
		}
		return
	}

	db := infradb.OpenDB()
	if err := db.AutoMigrate(&entity.Series{}); err != nil {
		slog.Error("failed to migrate", "error", err)
		os.Exit(1)
	}

	uc := serieslistusecase.NewSeriesUsecase(serieslistadapters.NewSeriesRepository(db))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := uc.Register(ctx, builtinCatalog); err != nil {
		slog.Error("failed to seed catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("seed ok", "count", len(builtinCatalog))
}
