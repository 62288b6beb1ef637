package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/humanid-dev/humanid/internal/config"
	"github.com/humanid-dev/humanid/internal/db"
	"github.com/humanid-dev/humanid/internal/issuer"
	"github.com/humanid-dev/humanid/pkg/humanid"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Policy name was validated during config load
	policy, err := humanid.Lookup(cfg.Issuer.Policy)
	if err != nil {
		log.Fatalf("Failed to resolve policy: %v", err)
	}

	switch os.Args[1] {
	case "generate":
		runGenerate(cfg, policy, os.Args[2:])
	case "check":
		runCheck(cfg, policy, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage:
  humanid generate [-n count]   issue new identifiers
  humanid check <id>            validate an identifier and print its canonical form

Set DATABASE_URL to record and resolve issuances against a postgres ledger.`)
}

// newIssuer picks the ledger backend: postgres when DATABASE_URL is set,
// otherwise an in-memory ledger that lives for this invocation only.
func newIssuer(cfg *config.Config, policy *humanid.Policy) issuer.Issuer {
	if cfg.Database.URL == "" {
		return issuer.NewMemory(policy, cfg.Issuer.Length)
	}

	database, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.HealthCheck(database); err != nil {
		log.Fatalf("Database health check failed: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return issuer.NewStore(database, policy, cfg.Issuer.Length)
}

func runGenerate(cfg *config.Config, policy *humanid.Policy, args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	count := fs.Int("n", 1, "number of identifiers to issue")
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}

	iss := newIssuer(cfg, policy)
	ctx := context.Background()

	for i := 0; i < *count; i++ {
		id, err := iss.Issue(ctx)
		if err != nil {
			log.Fatalf("Failed to issue identifier: %v", err)
		}
		fmt.Println(id)
	}
}

func runCheck(cfg *config.Config, policy *humanid.Policy, args []string) {
	if len(args) != 1 {
		usage()
		os.Exit(2)
	}

	id, err := policy.Parse(args[0])
	if err != nil {
		log.Fatalf("Invalid identifier: %v", err)
	}
	fmt.Println(id)

	// With a ledger configured, also report issuance status
	if cfg.Database.URL == "" {
		return
	}

	iss := newIssuer(cfg, policy)
	record, err := iss.Lookup(context.Background(), id.String())
	if errors.Is(err, issuer.ErrNotIssued) {
		log.Fatalf("Identifier %s is valid but was not issued here", id)
	}
	if err != nil {
		log.Fatalf("Failed to look up identifier: %v", err)
	}

	fmt.Printf("issued %s status=%s\n", record.CreatedAt.Format("2006-01-02"), record.Status)
}
