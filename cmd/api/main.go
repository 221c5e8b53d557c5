package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-chms/internal/common/api"
	"go-chms/internal/config"
	"go-chms/internal/connectors"
	"go-chms/internal/database"
	"go-chms/internal/features/audit"
	"go-chms/internal/features/auth"
	"go-chms/internal/features/automation"
	"go-chms/internal/features/church"
	cron_feature "go-chms/internal/features/cron"
	"go-chms/internal/features/donation"
	"go-chms/internal/features/email"
	"go-chms/internal/features/member"
	"go-chms/internal/features/notification"
	"go-chms/internal/features/prayer"
	"go-chms/internal/features/realtime"
	"go-chms/internal/features/sermon"
	"go-chms/internal/features/system"
	"go-chms/internal/features/user"
	"go-chms/internal/features/visitor"
	"go-chms/internal/logger"
	"go-chms/internal/middleware"
	"go-chms/pkg/utils"

	_ "go-chms/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// NewAccountingConnector builds the external ledger connection from config.
// The connection is established lazily at startup; a missing DSN only logs a
// warning so local development does not require a SQL database.
func NewAccountingConnector(lc fx.Lifecycle, cfg *config.Config, zlog *zap.Logger) connectors.AccountingConnector {
	conn := connectors.NewAccountingConnector(cfg.AccountingDriver, cfg.AccountingDSN)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.AccountingDSN == "" {
				zlog.Warn("accounting DSN not configured, donation sync disabled")
				return nil
			}
			if err := conn.Connect(ctx); err != nil {
				zlog.Error("failed to connect to accounting database", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return conn.Close()
		},
	})
	return conn
}

// RegisterStageHandler wires the member service into the action executor
// after both exist; done here because the member service also fires triggers
// into the engine.
func RegisterStageHandler(executor automation.ActionExecutor, memberService member.MemberService) {
	executor.Register(automation.ActionUpdateStage, automation.UpdateStageHandler(memberService))
}

// @title           Church Management API
// @version         1.0
// @description     Multi-tenant church management backend with rule-based automations and realtime updates.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database & external connections
			database.NewDatabase,
			NewAccountingConnector,

			// Realtime hub
			realtime.NewHub,

			// Initialize Repositories
			audit.NewAuditRepository,
			church.NewChurchRepository,
			user.NewUserRepository,
			member.NewMemberRepository,
			visitor.NewVisitorRepository,
			prayer.NewPrayerRepository,
			donation.NewDonationRepository,
			sermon.NewSermonRepository,
			notification.NewNotificationRepository,
			email.NewEmailRepository,
			automation.NewAutomationRepository,
			automation.NewExecutionRepository,
			automation.NewApprovalRepository,
			automation.NewFollowUpRepository,
			cron_feature.NewCronRepository,

			// Initialize Services
			audit.NewAuditService,
			auth.NewAuthService,
			church.NewChurchService,
			user.NewUserService,
			email.NewEmailService,
			notification.NewNotificationService,
			automation.NewActionExecutor,
			automation.NewAutomationService,
			member.NewMemberService,
			visitor.NewVisitorService,
			prayer.NewPrayerService,
			donation.NewDonationService,
			sermon.NewSermonService,
			cron_feature.NewCronService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(s email.EmailService) automation.EmailSender { return s },
			func(s notification.NotificationService) automation.Notifier { return s },
			func(s automation.AutomationService) member.AutomationTrigger { return s },
			func(s automation.AutomationService) visitor.AutomationTrigger { return s },
			func(s automation.AutomationService) prayer.AutomationTrigger { return s },
			func(s automation.AutomationService) donation.AutomationTrigger { return s },
			func(s automation.AutomationService) sermon.AutomationTrigger { return s },
			func(s automation.AutomationService) cron_feature.AutomationTrigger { return s },
			func(s donation.DonationService) cron_feature.DonationSyncer { return s },

			// Initialize Controllers
			auth.NewAuthController,
			church.NewChurchController,
			user.NewUserController,
			member.NewMemberController,
			visitor.NewVisitorController,
			prayer.NewPrayerController,
			donation.NewDonationController,
			sermon.NewSermonController,
			notification.NewNotificationController,
			automation.NewAutomationController,
			realtime.NewRealtimeController,
			audit.NewAuditController,
			cron_feature.NewCronController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(church.NewChurchApi),
			AsRoute(user.NewUserApi),
			AsRoute(member.NewMemberApi),
			AsRoute(visitor.NewVisitorApi),
			AsRoute(prayer.NewPrayerApi),
			AsRoute(donation.NewDonationApi),
			AsRoute(sermon.NewSermonApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(automation.NewAutomationApi),
			AsRoute(realtime.NewRealtimeApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(cron_feature.NewCronApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterStageHandler,
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, cronService cron_feature.CronService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return cronService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return cronService.StopScheduler()
					},
				})
			},
		),
	)

	app.Run()
}
