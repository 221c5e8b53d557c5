package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	common_models "go-chms/internal/common/models"
	"go-chms/internal/config"
	"go-chms/internal/database"
	"go-chms/internal/features/automation"
	"go-chms/internal/features/church"
	"go-chms/internal/features/member"
	"go-chms/internal/features/user"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
)

// Seeds a demo church with an admin login, a handful of members and a
// welcome-email automation rule. Intended for local development only.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	app := fx.New(
		fx.Provide(
			func() *config.Config { return cfg },
			database.NewDatabase,
			church.NewChurchRepository,
			user.NewUserRepository,
			member.NewMemberRepository,
			automation.NewAutomationRepository,
		),
		fx.Invoke(seed),
	)

	app.Run()
}

func seed(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	churchRepo church.ChurchRepository,
	userRepo user.UserRepository,
	memberRepo member.MemberRepository,
	ruleRepo automation.AutomationRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				runSeed(churchRepo, userRepo, memberRepo, ruleRepo)
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
	})
}

var firstNames = []string{"James", "Mary", "John", "Grace", "David", "Ruth", "Samuel", "Esther", "Peter", "Hannah"}
var lastNames = []string{"Okafor", "Smith", "Kim", "Garcia", "Mensah", "Johnson", "Adeyemi", "Brown", "Santos", "Lee"}

func runSeed(
	churchRepo church.ChurchRepository,
	userRepo user.UserRepository,
	memberRepo member.MemberRepository,
	ruleRepo automation.AutomationRepository,
) {
	ctx := context.Background()

	log.Println("Starting database seeding...")

	if existing, _ := churchRepo.FindBySlug(ctx, "demo-church"); existing != nil {
		log.Println("Demo church already seeded, nothing to do")
		return
	}

	adminID := primitive.NewObjectID()
	demoChurch := &church.Church{
		ID:        primitive.NewObjectID(),
		Name:      "Demo Community Church",
		Slug:      "demo-church",
		Timezone:  "America/New_York",
		Plan:      "free",
		OwnerID:   adminID,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := churchRepo.Create(ctx, demoChurch); err != nil {
		log.Fatalf("Failed to create demo church: %v", err)
	}

	admin := &common_models.User{
		ID:       adminID,
		ChurchID: demoChurch.ID,
		Username: "admin",
		Password: "admin",
		Email:    "admin@demo.church",
		Role:     common_models.RoleChurchAdmin,
		Status:   "active",
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Println("Created demo church with admin/admin login")

	stages := []common_models.LifecycleStage{
		common_models.StageVisitor,
		common_models.StageRegular,
		common_models.StageMember,
		common_models.StageLeader,
	}
	for i := 0; i < 25; i++ {
		first := firstNames[rand.Intn(len(firstNames))]
		last := lastNames[rand.Intn(len(lastNames))]
		m := &member.Member{
			ChurchID:  demoChurch.ID,
			FirstName: first,
			LastName:  last,
			Email:     fmt.Sprintf("%s.%s%d@example.com", first, last, i),
			Stage:     stages[rand.Intn(len(stages))],
		}
		if err := memberRepo.Create(ctx, m); err != nil {
			log.Printf("Failed to create member: %v", err)
		}
	}
	log.Println("Seeded 25 members")

	welcomeRule := &automation.AutomationRule{
		ChurchID:       demoChurch.ID,
		Name:           "Welcome new members",
		TriggerType:    automation.TriggerMemberRegistered,
		Active:         true,
		BypassApproval: true,
		Conditions:     []automation.RuleCondition{},
		Actions: []automation.RuleAction{
			{
				Type: automation.ActionSendEmail,
				Config: map[string]interface{}{
					"subject": "Welcome to Demo Community Church, {{first_name}}!",
					"body":    "Hi {{first_name}}, we are glad you joined us.",
				},
			},
		},
	}
	if err := ruleRepo.Create(ctx, welcomeRule); err != nil {
		log.Printf("Failed to create welcome rule: %v", err)
	}

	log.Println("Seeding complete")
}
