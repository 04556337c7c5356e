package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"sqlfleet/pkg/api"
	"sqlfleet/pkg/config"
	"sqlfleet/pkg/db"
	"sqlfleet/pkg/model"
	"sqlfleet/pkg/mssql"
	"sqlfleet/pkg/report"
	"sqlfleet/pkg/run"
	"sqlfleet/pkg/store"
	"sqlfleet/pkg/version"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	token := flag.String("token", "", "bootstrap auth token (optional)")
	storeType := flag.String("store", "memory", "run cache backend: memory|sqlite")
	sqlitePath := flag.String("sqlite-path", "/var/lib/sqlfleet/runs.db", "sqlite file (when store=sqlite)")
	configPath := flag.String("config", "sqlfleet.ini", "config file path (optional)")
	targetsPath := flag.String("targets", "targets.txt", "target list file")
	useMySQL := flag.Bool("mysql", false, "persist runs and user accounts to MySQL (env MYSQL_*)")
	tlsCert := flag.String("tls-cert", "", "TLS cert path (enables HTTPS if set with --tls-key)")
	tlsKey := flag.String("tls-key", "", "TLS key path (enables HTTPS if set with --tls-cert)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	var runStore store.RunStore
	switch *storeType {
	case "sqlite":
		runStore, err = store.NewSQLiteStore(*sqlitePath)
		if err != nil {
			log.Fatalf("sqlite store failed: %v", err)
		}
	case "memory":
		runStore = store.NewMemoryStore()
	default:
		log.Fatalf("unsupported store type: %s", *storeType)
	}
	defer runStore.Close()

	srv := &api.Server{
		Store: runStore,
		Token: *token,
		Hub:   api.NewWSHub(),
	}
	if *useMySQL {
		gdb, err := db.Init()
		if err != nil {
			log.Fatalf("mysql init failed: %v", err)
		}
		srv.DB = gdb
	}
	srv.Scan = scanFunc(cfg, *targetsPath, srv)

	router := mux.NewRouter()
	srv.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("fleetd version=%s listening on %s (store=%s)", version.Build, *addr, *storeType)
	if *tlsCert != "" && *tlsKey != "" {
		err = httpServer.ListenAndServeTLS(*tlsCert, *tlsKey)
	} else {
		err = httpServer.ListenAndServe()
	}
	if err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// scanFunc builds the scan closure the trigger endpoint runs: load targets,
// fan out, aggregate, optionally persist to the warehouse.
func scanFunc(cfg *config.Config, targetsPath string, srv *api.Server) api.ScanFunc {
	return func(ctx context.Context) (model.AssessmentRun, error) {
		targets, err := config.LoadTargetsFile(targetsPath, cfg.Domain)
		if err != nil {
			return model.AssessmentRun{}, err
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
				return mssql.ResolveInstances(ctx, t.FQDN(), 5*time.Second)
			},
			Events: srv.Hub.Broadcast,
		})

		started := time.Now().UTC()
		reports, failed := orch.Run(ctx, targets)
		assessment := report.NewRun(reports, len(targets), failed, started, time.Now().UTC())

		if srv.DB != nil {
			if err := db.SaveRun(srv.DB, assessment); err != nil {
				log.Printf("warehouse save failed: %v", err)
			}
		}
		return assessment, nil
	}
}
