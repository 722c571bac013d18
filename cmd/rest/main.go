package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"community-resources-be/internal/bootstrap"
	"community-resources-be/internal/config"
	"community-resources-be/internal/server"
	"community-resources-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(tracer.Options{
		Enabled:     cfg.Infra.OtelEnabled,
		Endpoint:    cfg.Infra.OtelEndpoint,
		SampleRatio: cfg.Infra.OtelSampleRatio,
		InstanceID:  cfg.App.InstanceID,
		Environment: cfg.App.Environment,
	})
	defer shutdownTracer(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(ctx, cfg)
	defer container.Close()

	// 4. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}
	go func() {
		for _, st := range container.DatasetService.Warm(ctx) {
			if st.Error != "" {
				log.Printf("[WARN] Warm-up %s: %s", st.Category, st.Error)
				continue
			}
			log.Printf("[INFO] Warm-up %s: %d records from %s", st.Category, st.Records, st.Source)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.GetApp().ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
