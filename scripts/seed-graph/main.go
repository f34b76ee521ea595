// seed-graph loads a YAML fixture of humans, work items, decisions and
// edges into Postgres so the graph endpoint has something to show during
// local development.
//
// Usage: go run ./scripts/seed-graph [-truncate] <fixture.yaml>
//
// Database connection: Uses standard PG* environment variables.
//
// Flags:
//
//	-truncate  Empty the graph tables before loading (default: false)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"gopkg.in/yaml.v3"
)

type fixture struct {
	Humans []struct {
		ID          string      `yaml:"id"`
		DisplayName string      `yaml:"display_name"`
		Email       string      `yaml:"email"`
		Embedding   *[3]float64 `yaml:"embedding"`
	} `yaml:"humans"`
	WorkItems []struct {
		ID          string      `yaml:"id"`
		Type        string      `yaml:"type"`
		Service     string      `yaml:"service"`
		Severity    string      `yaml:"severity"`
		Description string      `yaml:"description"`
		CreatedAt   time.Time   `yaml:"created_at"`
		Embedding   *[3]float64 `yaml:"embedding"`
	} `yaml:"work_items"`
	Decisions []struct {
		ID             string    `yaml:"id"`
		WorkItemID     string    `yaml:"work_item_id"`
		PrimaryHumanID string    `yaml:"primary_human_id"`
		Confidence     float64   `yaml:"confidence"`
		CreatedAt      time.Time `yaml:"created_at"`
	} `yaml:"decisions"`
	Resolved []struct {
		WorkItemID string    `yaml:"work_item_id"`
		HumanID    string    `yaml:"human_id"`
		ResolvedAt time.Time `yaml:"resolved_at"`
	} `yaml:"resolved"`
	Transferred []struct {
		WorkItemID    string    `yaml:"work_item_id"`
		FromHumanID   string    `yaml:"from_human_id"`
		ToHumanID     string    `yaml:"to_human_id"`
		TransferredAt time.Time `yaml:"transferred_at"`
	} `yaml:"transferred"`
	CoWorked []struct {
		Human1ID   string    `yaml:"human1_id"`
		Human2ID   string    `yaml:"human2_id"`
		WorkItemID string    `yaml:"work_item_id"`
		WorkedAt   time.Time `yaml:"worked_at"`
	} `yaml:"co_worked"`
}

var graphTables = []string{
	"co_worked_edges",
	"transferred_edges",
	"resolved_edges",
	"decisions",
	"work_items",
	"humans",
}

func main() {
	truncate := flag.Bool("truncate", false, "Empty the graph tables before loading")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-truncate] <fixture.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read fixture: %v\n", err)
		os.Exit(1)
	}

	var fix fixture
	if err := yaml.Unmarshal(raw, &fix); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse fixture: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, buildConnString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	if *truncate {
		for _, table := range graphTables {
			if _, err := conn.Exec(ctx, "TRUNCATE "+table+" CASCADE"); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to truncate %s: %v\n", table, err)
				os.Exit(1)
			}
		}
		fmt.Println("Truncated graph tables")
	}

	if err := load(ctx, conn, &fix); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load fixture: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %d humans, %d work items, %d decisions, %d edges\n",
		len(fix.Humans), len(fix.WorkItems), len(fix.Decisions),
		len(fix.Resolved)+len(fix.Transferred)+len(fix.CoWorked))
}

func load(ctx context.Context, conn *pgx.Conn, fix *fixture) error {
	for _, h := range fix.Humans {
		x, y, z := coords(h.Embedding)
		_, err := conn.Exec(ctx, `
			INSERT INTO humans (id, display_name, email, embedding_3d_x, embedding_3d_y, embedding_3d_z)
			VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`,
			h.ID, h.DisplayName, h.Email, x, y, z)
		if err != nil {
			return fmt.Errorf("human %s: %w", h.ID, err)
		}
	}

	for _, wi := range fix.WorkItems {
		x, y, z := coords(wi.Embedding)
		_, err := conn.Exec(ctx, `
			INSERT INTO work_items (id, type, service, severity, description, created_at,
				embedding_3d_x, embedding_3d_y, embedding_3d_z)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING`,
			wi.ID, wi.Type, wi.Service, wi.Severity, wi.Description, wi.CreatedAt, x, y, z)
		if err != nil {
			return fmt.Errorf("work item %s: %w", wi.ID, err)
		}
	}

	for _, d := range fix.Decisions {
		_, err := conn.Exec(ctx, `
			INSERT INTO decisions (id, work_item_id, primary_human_id, confidence, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING`,
			d.ID, d.WorkItemID, d.PrimaryHumanID, d.Confidence, d.CreatedAt)
		if err != nil {
			return fmt.Errorf("decision %s: %w", d.ID, err)
		}
	}

	for _, e := range fix.Resolved {
		_, err := conn.Exec(ctx, `
			INSERT INTO resolved_edges (work_item_id, human_id, resolved_at)
			VALUES ($1, $2, $3)`,
			e.WorkItemID, e.HumanID, e.ResolvedAt)
		if err != nil {
			return fmt.Errorf("resolved edge %s->%s: %w", e.WorkItemID, e.HumanID, err)
		}
	}

	for _, e := range fix.Transferred {
		_, err := conn.Exec(ctx, `
			INSERT INTO transferred_edges (work_item_id, from_human_id, to_human_id, transferred_at)
			VALUES ($1, $2, $3, $4)`,
			e.WorkItemID, e.FromHumanID, e.ToHumanID, e.TransferredAt)
		if err != nil {
			return fmt.Errorf("transferred edge %s: %w", e.WorkItemID, err)
		}
	}

	for _, e := range fix.CoWorked {
		_, err := conn.Exec(ctx, `
			INSERT INTO co_worked_edges (human1_id, human2_id, work_item_id, worked_at)
			VALUES ($1, $2, $3, $4)`,
			e.Human1ID, e.Human2ID, e.WorkItemID, e.WorkedAt)
		if err != nil {
			return fmt.Errorf("co-worked edge %s-%s: %w", e.Human1ID, e.Human2ID, err)
		}
	}

	return nil
}

func coords(embedding *[3]float64) (float64, float64, float64) {
	if embedding == nil {
		return 0, 0, 0
	}
	return embedding[0], embedding[1], embedding[2]
}

// buildConnString assembles a connection string from PG* environment
// variables with local development defaults.
func buildConnString() string {
	host := envOr("PGHOST", "localhost")
	port := envOr("PGPORT", "5432")
	user := envOr("PGUSER", "goliath")
	password := envOr("PGPASSWORD", "goliath")
	dbname := envOr("PGDATABASE", "goliath")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
