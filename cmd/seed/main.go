// File: cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"meditation-platform/internal/config"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/infra/auth"
	pg "meditation-platform/internal/infra/db/postgres"
	"meditation-platform/internal/infra/logging"
	"meditation-platform/internal/usecase"
)

const demoUserID = "demo-user"

type seedSession struct {
	Title    string
	Guide    string
	Minutes  int
	Premium  bool
	Featured bool
	Tags     []string
}

var catalog = []struct {
	Category model.Category
	Sessions []seedSession
}{
	{
		Category: model.Category{Name: "Sleep", Description: "Wind down and rest", Icon: "moon", Color: "#4C5FD5", SortOrder: 1},
		Sessions: []seedSession{
			{"Body Scan for Sleep", "Maya Chen", 20, false, true, []string{"sleep", "body-scan"}},
			{"Deep Rest", "Daniel Ortiz", 30, true, false, []string{"sleep"}},
		},
	},
	{
		Category: model.Category{Name: "Focus", Description: "Settle a busy mind", Icon: "target", Color: "#E08E0B", SortOrder: 2},
		Sessions: []seedSession{
			{"Five Minute Reset", "Maya Chen", 5, false, true, []string{"focus", "short"}},
			{"Breath Counting", "Sam Patel", 10, false, false, []string{"focus", "breath"}},
		},
	},
	{
		Category: model.Category{Name: "Stress", Description: "Release tension", Icon: "leaf", Color: "#2E9E6A", SortOrder: 3},
		Sessions: []seedSession{
			{"Loving Kindness", "Sam Patel", 15, true, true, []string{"stress", "compassion"}},
			{"Letting Go", "Daniel Ortiz", 12, false, false, []string{"stress"}},
		},
	},
}

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	migrate := flag.Bool("migrate", true, "apply the schema first")
	flag.Parse()

	// ---- Config ----
	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if *migrate {
		if err := pg.Migrate(ctx, pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	tm := pg.NewTxManager(pool)
	catalogUC := usecase.NewCatalogUseCase(pg.NewPostgresCategoryRepo(pool), pg.NewPostgresSessionRepo(pool), tm)
	userUC := usecase.NewUserUseCase(pg.NewPostgresUserRepo(pool), logger)

	// If categories already exist, leave the catalog alone
	existing, err := catalogUC.ListCategories(ctx)
	if err != nil {
		log.Fatalf("list categories: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d categories already present. Catalog unchanged.\n", len(existing))
	} else {
		for _, c := range catalog {
			cat, err := catalogUC.CreateCategory(ctx, &c.Category)
			if err != nil {
				log.Fatalf("create category %q: %v", c.Category.Name, err)
			}
			for _, s := range c.Sessions {
				sess, err := catalogUC.CreateSession(ctx, &model.Session{
					Title:      s.Title,
					CategoryID: cat.ID,
					GuideName:  s.Guide,
					Duration:   s.Minutes,
					IsPremium:  s.Premium,
					IsFeatured: s.Featured,
					Tags:       s.Tags,
				})
				if err != nil {
					log.Fatalf("create session %q: %v", s.Title, err)
				}
				fmt.Printf("seeded: %s / %s (%d min, id=%s)\n", cat.Name, sess.Title, sess.Duration, sess.ID)
			}
		}
	}

	user, err := userUC.Upsert(ctx, demoUserID, "demo@example.com", "Demo", "User", "")
	if err != nil {
		log.Fatalf("upsert demo user: %v", err)
	}

	sessions := auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.CookieName, false, cfg.Auth.SessionTTL)
	token, err := sessions.Issue(user.ID)
	if err != nil {
		log.Fatalf("issue session: %v", err)
	}
	fmt.Printf("demo user: %s <%s>\n", user.ID, user.Email)
	fmt.Printf("cookie:    %s=%s\n", sessions.CookieName(), token)
	fmt.Println("Seeding complete.")
}
