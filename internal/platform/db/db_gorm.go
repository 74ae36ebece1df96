// Package db はGORMによるデータベース接続の構築を提供します。
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gmysql "gorm.io/driver/mysql"
	gpostgres "gorm.io/driver/postgres"
	gsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authadapters "insee_backend/internal/feature/auth/adapters"
	authentity "insee_backend/internal/feature/auth/domain/entity"
	seriesentity "insee_backend/internal/feature/serieslist/domain/entity"
)

// retryInterval はDB接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Config holds database connection settings.
// Driver selects the GORM driver ("mysql", "postgres" or "sqlite");
// an empty value means mysql. InstanceName takes precedence over
// Host/Port and selects the Cloud SQL Unix socket (mysql only).
type Config struct {
	Driver       string
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	InstanceName string
	Path         string // sqlite database file path
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		Driver:       os.Getenv("DB_DRIVER"),
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		Path:         os.Getenv("DB_PATH"),
	}
}

// BuildDSN はドライバーに応じたDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	switch cfg.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Europe/Paris",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port)
	case "sqlite":
		if cfg.Path != "" {
			return cfg.Path
		}
		return "insee.db"
	default: // mysql
		if cfg.InstanceName != "" {
			// Cloud SQL Unixソケット
			return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
				cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
	}
}

// Opener は1回の接続試行を表します。テストから差し替え可能にするための型です。
type Opener func(dsn string) (*gorm.DB, error)

// OpenerFor はドライバー名に対応するOpenerを返します。
func OpenerFor(driver string) Opener {
	switch driver {
	case "postgres":
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
		}
	case "sqlite":
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gsqlite.Open(dsn), &gorm.Config{})
		}
	default:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gmysql.Open(dsn), &gorm.Config{})
		}
	}
}

// ConnectWithRetry は接続に成功するまでretryInterval間隔で試行を繰り返します。
// timeoutを超えた場合は最後のエラーを返します。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(retryInterval)
	}
}

// OpenDB は環境変数の設定でデータベースを開きます。接続できない場合は終了します。
// RUN_MIGRATIONS=trueのときのみAutoMigrateを実行します。
func OpenDB() *gorm.DB {
	cfg := LoadConfigFromEnv()

	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, OpenerFor(cfg.Driver))
	if err != nil {
		log.Fatalf("DB connect failed: %v", err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（User, Session, Series）
		if err := db.AutoMigrate(
			&authentity.User{},
			&authadapters.SessionModel{},
			&seriesentity.Series{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
