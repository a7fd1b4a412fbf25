package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "library-backend/internal/adapter/http"
	"library-backend/internal/adapter/middleware"
	"library-backend/internal/adapter/repository/mysql"
	"library-backend/internal/adapter/ws"
	"library-backend/internal/config"
	"library-backend/internal/domain/notify"
	"library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/db"
	"library-backend/internal/infrastructure/mail"
	borrowinguc "library-backend/internal/usecase/borrowing"
	cataloguc "library-backend/internal/usecase/catalog"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	dispatcher := notify.NewDispatcher(mailer, hub)

	books := mysql.NewBookRepository(gdb)
	borrowings := mysql.NewBorrowingRepository(gdb)
	catalogRepo := mysql.NewCatalogRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	borrowUC := borrowinguc.NewUsecase(borrowings, books, uow, dispatcher).
		WithPenaltyRate(cfg.PenaltyDailyRate)
	catalogUC := cataloguc.NewUsecase(books, catalogRepo)

	h := httpadp.NewHandler()
	bh := httpadp.NewBorrowingHandler(borrowUC)
	ch := httpadp.NewCatalogHandler(catalogUC)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())
	e.Validator = httpadp.NewValidator()

	idemp := middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	// routes
	e.GET("/health", h.Health)

	e.POST("/borrowings", bh.CreateBorrowing, idemp)
	e.POST("/borrowings/:transaction_id/return", bh.ReturnBorrowing, idemp)
	e.GET("/borrowings", bh.ListBorrowings)
	e.GET("/borrowings/:transaction_id", bh.GetBorrowing)

	e.GET("/books", ch.ListBooks)
	e.GET("/books/:book_id", ch.GetBook)
	e.GET("/authors", ch.ListAuthors)
	e.GET("/categories", ch.ListCategories)
	e.GET("/libraries", ch.ListLibraries)

	e.GET("/ws/availability", func(c echo.Context) error {
		return hub.ServeWS(c.Response(), c.Request())
	})

	// background sweeps: overdue recomputation and due-soon reminders
	go func() {
		interval := time.Duration(cfg.SweepIntervalSecs) * time.Second
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			if err := borrowUC.SweepOverdue(ctx); err != nil {
				log.Printf("sweep overdue: %v", err)
			}
			if err := borrowUC.SweepDueSoon(ctx); err != nil {
				log.Printf("sweep due-soon: %v", err)
			}
			cancel()
		}
	}()

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
