package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"sqlfleet/pkg/config"
	"sqlfleet/pkg/db"
	"sqlfleet/pkg/discovery"
	"sqlfleet/pkg/model"
	"sqlfleet/pkg/mssql"
	"sqlfleet/pkg/report"
	"sqlfleet/pkg/run"
	"sqlfleet/pkg/version"
)

const browserTimeout = 5 * time.Second

func main() {
	defaultUser := os.Getenv("SQLFLEET_USER")
	defaultPassword := os.Getenv("SQLFLEET_PASSWORD")

	configPath := flag.String("config", "sqlfleet.ini", "config file path (optional)")
	targetsPath := flag.String("targets", "", "target list file, one host per line")
	host := flag.String("host", "", "assess a single host instead of a target list")
	domain := flag.String("domain", "", "domain suffix appended to bare hostnames")
	concurrency := flag.Int("concurrency", 0, "max targets assessed in parallel (0: config default)")
	timeout := flag.Duration("timeout", 0, "per-query timeout (0: config default)")
	out := flag.String("out", "", "CSV report path (default from config)")
	sqlUser := flag.String("user", defaultUser, "SQL login (empty: integrated auth, env SQLFLEET_USER)")
	sqlPassword := flag.String("password", defaultPassword, "SQL password (env SQLFLEET_PASSWORD)")
	useConsul := flag.Bool("consul", false, "discover targets from the Consul catalog (requires build tag consul)")
	consulService := flag.String("consul-service", "", "Consul service name (default from config)")
	showVersion := flag.Bool("v", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		log.Printf("sqlfleet version=%s", version.Build)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *domain != "" {
		cfg.Domain = *domain
	}
	if *concurrency > 0 {
		cfg.Concurrency = *concurrency
	}
	if *timeout > 0 {
		cfg.QueryTimeout = *timeout
	}
	if *out != "" {
		cfg.OutputCSV = *out
	}
	if *sqlUser != "" {
		cfg.User = *sqlUser
	}
	if *sqlPassword != "" {
		cfg.Password = *sqlPassword
	}
	if *consulService != "" {
		cfg.ConsulService = *consulService
	}

	targets, err := loadTargets(cfg, *targetsPath, *host, *useConsul)
	if err != nil {
		log.Fatalf("target list failed: %v", err)
	}
	if len(targets) == 0 {
		log.Fatal("no targets to assess (flag --targets, --host or --consul)")
	}

	provider := mssql.NewProvider(mssql.Config{
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		QueryTimeout:    cfg.QueryTimeout,
		TrustServerCert: cfg.TrustServerCert,
	})
	defer provider.Close()

	orch := run.NewOrchestrator(provider, run.Options{
		Concurrency: cfg.Concurrency,
		Resolver: func(ctx context.Context, t model.Target) []string {
			return mssql.ResolveInstances(ctx, t.FQDN(), browserTimeout)
		},
	})

	log.Printf("sqlfleet version=%s assessing %d targets", version.Build, len(targets))
	started := time.Now().UTC()
	reports, failed := orch.Run(context.Background(), targets)
	assessment := report.NewRun(reports, len(targets), failed, started, time.Now().UTC())

	if err := report.WriteCSVFile(cfg.OutputCSV, assessment); err != nil {
		log.Printf("report export failed: %v", err)
	} else {
		log.Printf("report written to %s", cfg.OutputCSV)
	}
	report.PrintSummary(os.Stdout, assessment)

	if cfg.MySQLDSN != "" {
		warehouse, err := db.InitDSN(cfg.MySQLDSN, "", "", "", "", "")
		if err != nil {
			log.Printf("warehouse connect failed: %v", err)
		} else if err := db.SaveRun(warehouse, assessment); err != nil {
			log.Printf("warehouse save failed: %v", err)
		}
	}

	if len(assessment.Reports) == 0 {
		log.Printf("no target produced a report")
		os.Exit(1)
	}
}

func loadTargets(cfg *config.Config, targetsPath, host string, useConsul bool) ([]model.Target, error) {
	switch {
	case useConsul:
		return discovery.ConsulTargets(cfg.ConsulAddr, cfg.ConsulService, cfg.Domain)
	case host != "":
		return []model.Target{{Host: host, Domain: cfg.Domain}}, nil
	case targetsPath != "":
		return config.LoadTargetsFile(targetsPath, cfg.Domain)
	}
	return nil, nil
}
