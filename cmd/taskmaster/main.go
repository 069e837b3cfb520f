package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskmaster/internal/config"
	"taskmaster/internal/notify"
	"taskmaster/internal/repository"
	"taskmaster/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	var sender service.Sender
	if cfg.TelegramToken != "" {
		telegram, err := notify.NewTelegramSender(cfg.TelegramToken)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		sender = telegram
		log.Println("[info] telegram delivery enabled")
	}

	reminderSvc := service.NewReminderService(taskRepo, notifRepo, userRepo, sender)
	analyticsSvc := service.NewAnalyticsService(taskRepo, categoryRepo, userRepo, analyticsRepo)

	scheduler := service.NewSchedulerService(time.Local)

	if _, err := scheduler.ScheduleInterval(cfg.ReminderInterval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := reminderSvc.Scan(jobCtx, time.Now()); err != nil {
			log.Printf("reminder scan: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule reminder scan: %v", err)
	}

	if _, err := scheduler.ScheduleDaily(cfg.RollupTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		now := time.Now()
		// Roll up the day that just ended.
		if err := analyticsSvc.AggregateDaily(jobCtx, now.AddDate(0, 0, -1), now); err != nil {
			log.Printf("analytics rollup: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule rollup: %v", err)
	}

	scheduler.Start()
	defer scheduler.Stop()

	log.Println("Taskmaster jobs started.")
	<-ctx.Done()
	log.Println("Shutdown complete.")
}
