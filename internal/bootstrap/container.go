package bootstrap

import (
	"context"
	"log"
	"strings"

	"community-resources-be/internal/config"
	"community-resources-be/internal/controller"
	"community-resources-be/internal/handler"
	"community-resources-be/internal/metrics"
	"community-resources-be/internal/pkg/logger"
	"community-resources-be/internal/repository/memory"
	"community-resources-be/internal/service"
	"community-resources-be/internal/websocket"
	"community-resources-be/pkg/artifact"
	"community-resources-be/pkg/chat/session"
	"community-resources-be/pkg/events"
	"community-resources-be/pkg/fetcher"

	pktNats "community-resources-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	ResourceController controller.IResourceController
	AdminController    controller.IAdminController

	// Services (exposed for main.go and resourcectl)
	DatasetService  service.IDatasetService
	ChatService     service.IChatService
	ConsumerService service.IConsumerService

	// WebSockets
	ChatWsHandler *handler.ChatWsHandler
	WebSocketHub  *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires every dependency. Redis and NATS are optional: when
// they cannot be reached the instance runs alone with file artifacts.
func NewContainer(ctx context.Context, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	transcriptLogger := logger.NewIsolatedLogger(cfg.App.TranscriptLogPath)
	m := metrics.NewMetrics()

	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		logger.NewWatermillAdapter(sysLogger, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	rdb := connectRedis(ctx, cfg.Infra.RedisURL)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	var artifacts artifact.Store
	if cfg.Resource.ArtifactDriver == "redis" && rdb != nil {
		artifacts = artifact.NewRedisStore(rdb)
		log.Printf("[INFO] Using artifact store: REDIS")
	} else {
		if cfg.Resource.ArtifactDriver == "redis" {
			log.Printf("[WARN] ARTIFACT_DRIVER=redis but Redis is unavailable, falling back to files")
		}
		fileStore, err := artifact.NewFileStore(cfg.Resource.CacheDir)
		if err != nil {
			log.Fatalf("[FATAL] Failed to open artifact directory %s: %v", cfg.Resource.CacheDir, err)
		}
		artifacts = fileStore
		log.Printf("[INFO] Using artifact store: FILE (%s)", cfg.Resource.CacheDir)
	}

	// NATS
	var (
		natsPub *pktNats.Publisher
		natsSub *pktNats.Subscriber
	)
	if cfg.Infra.NatsEnabled {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.Infra.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		} else {
			c.closers = append(c.closers, natsPub.Close)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.Infra.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
			natsSub = nil
		} else {
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(rdb, cfg.App.InstanceID, wsLogger)
	go wsHub.Run(ctx)

	// Invalidations go to connected clients and, when NATS is up, to peers.
	publishers := []events.Publisher{wsHub}
	if natsPub != nil {
		publishers = append(publishers, natsPub)
	}

	// 4. Services
	resourceFetcher := fetcher.New(fetcher.Config{
		BaseURL:  cfg.Resource.RemoteBaseURL,
		LocalDir: cfg.Resource.LocalDir,
		TTL:      cfg.Resource.CacheTTL,
		Timeout:  cfg.Resource.FetchTimeout,
	})
	datasetService := service.NewDatasetService(
		service.DatasetServiceConfig{TTL: cfg.Resource.CacheTTL, InstanceID: cfg.App.InstanceID},
		resourceFetcher,
		artifacts,
		events.NewFanout(publishers...),
		m,
		sysLogger,
	)

	if natsSub != nil {
		durable := "dataset-" + durableName(cfg.App.InstanceID)
		if err := natsSub.Subscribe(ctx, events.TypeDatasetInvalidated, durable, datasetService.HandleInvalidation); err != nil {
			log.Printf("[WARN] Failed to subscribe to dataset invalidations: %v", err)
		}
	}

	sessionManager := session.NewManager(memory.NewSessionRepository(cfg.Session.TTL))

	publisherService := service.NewPublisherService(service.TranscriptTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		service.TranscriptTopic,
		transcriptLogger,
		sysLogger,
	)

	chatService := service.NewChatService(
		sessionManager,
		datasetService,
		publisherService,
		cfg.Resource.PageSize,
		m,
		sysLogger,
	)
	resourceService := service.NewResourceService(datasetService)
	adminService := service.NewAdminService(datasetService, sysLogger, transcriptLogger, sysLogger)

	// 5. Controllers
	c.ChatController = controller.NewChatController(chatService)
	c.ResourceController = controller.NewResourceController(resourceService)
	c.AdminController = controller.NewAdminController(adminService)
	c.ChatWsHandler = handler.NewChatWsHandler(chatService, wsHub, wsLogger)
	c.WebSocketHub = wsHub

	c.DatasetService = datasetService
	c.ChatService = chatService
	c.ConsumerService = consumerService

	c.closers = append(c.closers, func() {
		_ = sysLogger.Sync()
		_ = transcriptLogger.Sync()
	})
	return c
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func connectRedis(ctx context.Context, url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: url,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v (running without Redis)", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// durableName makes an instance id safe for a JetStream consumer name.
func durableName(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '/', '\\':
			return '_'
		}
		return r
	}, id)
}
