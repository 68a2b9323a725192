//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"booking-orchestrator/cmd/bootstrap"
	"booking-orchestrator/cmd/bootstrap/components"
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "test"
	pgPassword = "testpass"
)

// Endpoint は公開ポートに解決済みのコンテナアドレス
type Endpoint struct {
	Host string
	Port nat.Port
}

func (e Endpoint) Addr() string {
	return e.Host + ":" + e.Port.Port()
}

// containerSpec はプロセス内で一度だけ起動する依存コンテナ
type containerSpec struct {
	label   string
	port    nat.Port
	request testcontainers.ContainerRequest
	timeout time.Duration

	once      sync.Once
	container testcontainers.Container
	err       error
}

var postgresSpec = &containerSpec{
	label:   "PostgreSQL",
	port:    "5432/tcp",
	timeout: 3 * time.Minute,
	request: testcontainers.ContainerRequest{
		Image:        "postgres:17",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     pgUser,
			"POSTGRES_PASSWORD": pgPassword,
			"POSTGRES_DB":       "postgres",
		},
		// 耐久性は不要なので書き込みを軽くする
		Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
		Cmd: []string{
			"postgres",
			"-c", "fsync=off",
			"-c", "synchronous_commit=off",
			"-c", "full_page_writes=off",
			"-c", "max_connections=200",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
			return adminDSN(Endpoint{Host: host, Port: port})
		}).WithStartupTimeout(time.Minute),
		Name:   "booking-postgres-e2e",
		Labels: map[string]string{"purpose": "booking-e2e"},
	},
}

// asynq がリマインダーと予約済み webhook を積む先
var redisSpec = &containerSpec{
	label:   "Redis",
	port:    "6379/tcp",
	timeout: 2 * time.Minute,
	request: testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		Cmd:          []string{"redis-server", "--save", "", "--appendonly", "no"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
		Name:         "booking-redis-e2e",
		Labels:       map[string]string{"purpose": "booking-e2e"},
	},
}

func (c *containerSpec) start(t *testing.T) Endpoint {
	t.Helper()

	c.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		c.container, c.err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: c.request,
			Started:          true,
			Reuse:            true,
		})
	})
	require.NoError(t, c.err, "%sコンテナの起動に失敗", c.label)

	ctx := context.Background()
	host, err := c.container.Host(ctx)
	require.NoError(t, err, "%sのホスト取得に失敗", c.label)
	port, err := c.container.MappedPort(ctx, c.port)
	require.NoError(t, err, "%sのポート取得に失敗", c.label)
	return Endpoint{Host: host, Port: port}
}

func adminDSN(pg Endpoint) string {
	return fmt.Sprintf("postgres://%s:%s@%s/postgres?sslmode=disable", pgUser, pgPassword, pg.Addr())
}

// ------------------------------------------------------------
// テストプロセスごとの環境: 専用DB + 本番と同じ fx グラフ
// ------------------------------------------------------------
func setupE2EEnvironment(t *testing.T) (*pgxpool.Pool, *gin.Engine, config.Config) {
	gin.SetMode(gin.TestMode)

	pg := postgresSpec.start(t)
	redis := redisSpec.start(t)

	cfg := config.NewTestConfig()
	cfg.DB = createDatabase(t, pg)
	cfg.Redis.Addr = redis.Addr()
	require.NoError(t, cfg.Validate())

	pool, cleanup, err := db.Connect(context.Background(), cfg.DB)
	require.NoError(t, err, "データベース接続に失敗")
	t.Cleanup(cleanup)

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	migrator, err := db.NewMigrator(pool)
	require.NoError(t, err)
	defer migrator.Close()
	require.NoError(t, migrator.Up(migrateCtx), "マイグレーションに失敗")
	require.NoError(t, dbtest.SeedReferenceData(pool), "参照データの投入に失敗")

	router := buildE2EApp(t, pool, cfg)

	slog.Info("E2E環境の準備が完了しました", "postgres", pg.Addr(), "redis", redis.Addr(), "database", cfg.DB.DBName)
	return pool, router, cfg
}

// createDatabase は並列実行でも衝突しない使い捨てDBを作り、終了時に強制削除する
func createDatabase(t *testing.T, pg Endpoint) config.DBConfig {
	t.Helper()

	name := "booking_e2e_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, adminDSN(pg))
	require.NoError(t, err, "管理者接続に失敗")
	defer admin.Close()

	// CREATE DATABASE は template1 のロック競合で失敗することがある
	var createErr error
	for attempt := range 5 {
		if _, createErr = admin.Exec(ctx, "CREATE DATABASE "+name); createErr == nil {
			break
		}
		slog.Warn("データベース作成を再試行中", "attempt", attempt+1, "error", createErr.Error())
		time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
	}
	require.NoError(t, createErr, "テスト用データベースの作成に失敗")

	t.Cleanup(func() {
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dropCancel()
		dropper, err := pgxpool.New(dropCtx, adminDSN(pg))
		if err != nil {
			slog.Warn("クリーンアップ用の接続に失敗しました", "database", name, "error", err.Error())
			return
		}
		defer dropper.Close()
		if _, err := dropper.Exec(dropCtx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("テストデータベースの削除に失敗しました", "database", name, "error", err.Error())
		}
	})

	return config.DBConfig{
		Host:         pg.Host,
		Port:         pg.Port.Port(),
		User:         pgUser,
		Password:     pgPassword,
		DBName:       name,
		SSLMode:      "disable",
		TimeZone:     "UTC",
		MaxConns:     10,
		TxMaxRetries: 3,
		TxRetryBase:  10 * time.Millisecond,
	}
}

// buildE2EApp は DB と設定だけ差し替えた API の fx グラフを起動する
func buildE2EApp(t *testing.T, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	t.Helper()

	var router *gin.Engine
	app := fx.New(
		fx.Supply(cfg, pool),
		fx.Provide(
			func() db.DBTX { return pool },
			func() bootstrap.SubConfigs {
				return bootstrap.SubConfigs{Booking: cfg.Booking, Redis: cfg.Redis, Kafka: cfg.Kafka, Webhook: cfg.Webhook}
			},
		),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		components.PersistenceModule,
		components.MessagingModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(startCtx), "fxアプリケーションの起動に失敗")
	require.NotNil(t, router)

	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := app.Stop(stopCtx); err != nil {
			slog.Warn("fxアプリケーションの停止に失敗しました", "error", err.Error())
		}
	})
	return router
}

// ------------------------------------------------------------
// スイート共通: SetupSuite で環境構築、サブテストごとにテーブルを空にする
// ------------------------------------------------------------
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	s.DB, s.Router, s.Config = setupE2EEnvironment(s.T())
}

func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "データベースのリセットに失敗")
}
