package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/shopstack/auth"
)

func main() {
	// load .env if present (ok if missing in prod)
	_ = godotenv.Load()

	cfg := auth.LoadConfig()

	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	store := auth.NewUsersRepository(db)

	notifier := auth.NewSMTPNotifier(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.MailFrom,
	)

	auther := auth.NewAuthenticator(store, cfg).
		WithNotifier(notifier)

	controller := auth.NewAuthController(auther, auth.NewCookieTransport(cfg))

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigin,
		AllowCredentials: true,
	}))

	auth.RegisterAuthRoutes(app.Group("/api/auth"), controller)

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("server: %v", err)
		}
	}()

	waitExitSignal()

	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*auth.User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

func waitExitSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
