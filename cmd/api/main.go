package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freelance-market/market-backend/config"
	cronjob "github.com/freelance-market/market-backend/internal/admin/cron"
	adminrepo "github.com/freelance-market/market-backend/internal/admin/repository"
	adminsvc "github.com/freelance-market/market-backend/internal/admin/service"
	"github.com/freelance-market/market-backend/internal/auth"
	authsvc "github.com/freelance-market/market-backend/internal/auth/service"
	"github.com/freelance-market/market-backend/internal/bootstrap"
	"github.com/freelance-market/market-backend/internal/email"
	"github.com/freelance-market/market-backend/internal/events"
	notifrepo "github.com/freelance-market/market-backend/internal/notifications/repository"
	notifsvc "github.com/freelance-market/market-backend/internal/notifications/service"
	ordersrepo "github.com/freelance-market/market-backend/internal/orders/repository"
	orderssvc "github.com/freelance-market/market-backend/internal/orders/service"
	projectsrepo "github.com/freelance-market/market-backend/internal/projects/repository"
	projectssvc "github.com/freelance-market/market-backend/internal/projects/service"
	"github.com/freelance-market/market-backend/internal/storage/postgres"
	"github.com/freelance-market/market-backend/internal/storage/postgres/stats"
	usersrepo "github.com/freelance-market/market-backend/internal/users/repository"
	userssvc "github.com/freelance-market/market-backend/internal/users/service"
)

const serviceName = "market-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()

	pool, err := bootstrap.OpenPool(ctx, bootstrap.PoolConfig{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		log.Fatalf("pgx pool: %v", err)
	}
	defer pool.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	bus := events.NewBus(rdb)
	issuer := auth.NewTokenIssuer(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryMin)*time.Minute)
	mailer := email.NewMailer(cfg.Email)

	userRepo := usersrepo.NewUserRepository(db)
	projectRepo := projectsrepo.NewProjectRepository(db)
	orderRepo := ordersrepo.NewOrderRepository(db)
	notifRepo := notifrepo.NewNotificationRepository(db)
	statsRepo := adminrepo.NewStatsRepository(db)
	snapshot := stats.NewSnapshotStore(pool)

	userSvc := userssvc.NewUserService(userRepo)
	projectSvc := projectssvc.NewProjectService(projectRepo)
	orderSvc := orderssvc.NewOrderService(orderRepo, projectRepo, bus)
	notifSvc := notifsvc.NewNotificationService(notifRepo, bus)
	authSvc := authsvc.NewAuthService(userRepo, issuer, mailer, bus)
	adminSvc := adminsvc.NewAdminService(statsRepo, userRepo, projectRepo, orderRepo, snapshot, bus)

	// Order events fan out to notifications for as long as the server runs.
	notifSvc.Start(ctx)

	scheduler := cronjob.NewScheduler(adminSvc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("cron: %v", err)
	}
	defer scheduler.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Cfg:         cfg,
		ServiceName: serviceName,
		Version:     cfg.App.Version,

		DB:    db,
		Pool:  pool,
		Redis: rdb,
		Bus:   bus,

		Issuer: issuer,

		Users:         userSvc,
		Projects:      projectSvc,
		Orders:        orderSvc,
		Notifications: notifSvc,
		Auth:          authSvc,
		Admin:         adminSvc,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("%s listening on :%s", serviceName, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
