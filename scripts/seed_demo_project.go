// +build ignore

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Seeds a demo project with one offer of each type so the decision API can be
// exercised locally. Run with: go run scripts/seed_demo_project.go

type seedOffer struct {
	offerType string
	title     string
	desc      string
	config    string
	priority  int
}

var demoOffers = []seedOffer{
	{"discount", "Save 30% for 3 months", "Stay with us at a reduced price.", `{"percent": 30, "duration_months": 3}`, 1},
	{"pause", "Pause your subscription", "Take a break for up to 3 months.", `{"max_months": 3}`, 2},
	{"downgrade", "Move to a smaller plan", "Keep the essentials at a lower price.", `{"target_plan": "basic"}`, 3},
	{"concierge", "Talk to a specialist", "A success manager will reach out within one business day.", `{"sla_hours": 24}`, 4},
	{"feedback", "Tell us what went wrong", "Help us improve before you go.", `{}`, 5},
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("ping: %v", err)
	}

	projectID := "proj-demo"
	apiKey := os.Getenv("DEMO_API_KEY")
	if apiKey == "" {
		apiKey = "pk_test_" + uuid.New().String()
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO projects (id, name, api_key, allowed_domains, is_active)
		VALUES ($1, 'Demo Project', $2, '{}', true)
		ON CONFLICT (id) DO UPDATE SET api_key = EXCLUDED.api_key, is_active = true
	`, projectID, apiKey)
	if err != nil {
		log.Fatalf("insert project: %v", err)
	}

	for _, o := range demoOffers {
		_, err := db.ExecContext(ctx, `
			INSERT INTO retention_offers (id, project_id, offer_type, title, description, config, is_active, priority)
			VALUES ($1, $2, $3, $4, $5, $6, true, $7)
			ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description,
				config = EXCLUDED.config, is_active = true, priority = EXCLUDED.priority
		`, "off-demo-"+o.offerType, projectID, o.offerType, o.title, o.desc, o.config, o.priority)
		if err != nil {
			log.Fatalf("insert offer %s: %v", o.offerType, err)
		}
		fmt.Printf("  seeded offer: %s\n", o.offerType)
	}

	fmt.Println("Demo project seeded")
	fmt.Printf("  project_id: %s\n", projectID)
	fmt.Printf("  api_key:    %s\n", apiKey)
	fmt.Println(`Try: curl -X POST localhost:8080/v1/decide -H "X-API-Key: <key>" -d '{"user":{"id":"cust_1","monthly_recurring_revenue":600,"plan":"enterprise","tenure_days":400,"last_login_days_ago":1},"context":{"session_id":"s1","intent":"cancel"}}'`)
}
