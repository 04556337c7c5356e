package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"sqlfleet/pkg/model"
)

// Config holds the connection settings shared by every target instance.
type Config struct {
	Port            int    // 0: let the driver resolve via the browser service
	User            string // empty: integrated authentication
	Password        string
	QueryTimeout    time.Duration
	TrustServerCert bool
}

const defaultQueryTimeout = 5 * time.Minute

// Provider is the SQL-backed MetricsProvider. Connection pools are created
// lazily per instance and verified with a bounded ping before first use.
type Provider struct {
	cfg   Config
	mu    sync.Mutex
	pools map[model.InstanceIdentity]*sql.DB
}

func NewProvider(cfg Config) *Provider {
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = defaultQueryTimeout
	}
	return &Provider{cfg: cfg, pools: map[model.InstanceIdentity]*sql.DB{}}
}

func (p *Provider) dsn(id model.InstanceIdentity) string {
	u := &url.URL{Scheme: "sqlserver", Host: id.Server}
	if p.cfg.Port > 0 {
		u.Host = fmt.Sprintf("%s:%d", id.Server, p.cfg.Port)
	}
	if id.Instance != model.DefaultInstance {
		u.Path = id.Instance
	}
	if p.cfg.User != "" {
		u.User = url.UserPassword(p.cfg.User, p.cfg.Password)
	}
	q := url.Values{"app name": {"sqlfleet"}, "database": {"master"}}
	if p.cfg.TrustServerCert {
		q.Set("encrypt", "optional")
		q.Set("TrustServerCertificate", "true")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// db returns the pooled connection for an instance, dialing and pinging it on
// first use. A failed ping is reported as ErrUnreachable.
func (p *Provider) db(ctx context.Context, id model.InstanceIdentity) (*sql.DB, error) {
	p.mu.Lock()
	if db, ok := p.pools[id]; ok {
		p.mu.Unlock()
		return db, nil
	}
	p.mu.Unlock()

	db, err := sql.Open("sqlserver", p.dsn(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", id, ErrUnreachable, err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, p.cfg.QueryTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w: %v", id, ErrUnreachable, err)
	}

	p.mu.Lock()
	if existing, ok := p.pools[id]; ok {
		p.mu.Unlock()
		_ = db.Close()
		return existing, nil
	}
	p.pools[id] = db
	p.mu.Unlock()
	return db, nil
}

func (p *Provider) query(ctx context.Context, id model.InstanceIdentity, q string) (*sql.Rows, context.CancelFunc, error) {
	db, err := p.db(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	qctx, cancel := context.WithTimeout(ctx, p.cfg.QueryTimeout)
	rows, err := db.QueryContext(qctx, q)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return rows, cancel, nil
}

func (p *Provider) ServerInfo(ctx context.Context, id model.InstanceIdentity) (*model.ServerInfo, error) {
	rows, cancel, err := p.query(ctx, id, queryServerInfo)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("server info query returned no rows")
	}
	info := &model.ServerInfo{}
	if err := rows.Scan(&info.ServerName, &info.VersionBuild, &info.Major, &info.Edition,
		&info.TotalMemoryMB, &info.Schedulers, &info.NUMANodes); err != nil {
		return nil, err
	}
	return info, rows.Err()
}

func (p *Provider) Config(ctx context.Context, id model.InstanceIdentity) (*model.InstanceConfig, error) {
	rows, cancel, err := p.query(ctx, id, queryConfig)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer rows.Close()

	cfg := &model.InstanceConfig{}
	for rows.Next() {
		var name string
		var value int64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		switch name {
		case "min server memory (MB)":
			cfg.MinServerMemoryMB = value
		case "max server memory (MB)":
			cfg.MaxServerMemoryMB = value
		case "optimize for ad hoc workloads":
			cfg.OptimizeAdhoc = value == 1
		case "remote admin connections":
			cfg.RemoteAdmin = value == 1
		case "backup compression default":
			// present only on editions that offer compression
			enabled := value == 1
			cfg.BackupCompression = &enabled
		case "max degree of parallelism":
			cfg.MaxDOP = int(value)
		}
	}
	return cfg, rows.Err()
}

func (p *Provider) Databases(ctx context.Context, id model.InstanceIdentity) ([]model.DatabaseInfo, error) {
	rows, cancel, err := p.query(ctx, id, queryDatabases)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer rows.Close()

	var out []model.DatabaseInfo
	for rows.Next() {
		var db model.DatabaseInfo
		if err := rows.Scan(&db.Name, &db.AutoCreateStats, &db.AutoUpdateStats,
			&db.PageVerify, &db.CompatLevel, &db.RecoveryModel, &db.VLFCount); err != nil {
			return nil, err
		}
		out = append(out, db)
	}
	return out, rows.Err()
}

func (p *Provider) Files(ctx context.Context, id model.InstanceIdentity) ([]model.FileGrowth, error) {
	rows, cancel, err := p.query(ctx, id, queryFiles)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer rows.Close()

	var out []model.FileGrowth
	for rows.Next() {
		var f model.FileGrowth
		var growth int64
		if err := rows.Scan(&f.Database, &f.LogicalName, &f.MaxSizeMB, &f.IsPercent, &growth); err != nil {
			return nil, err
		}
		if f.IsPercent {
			f.GrowthPct = int(growth)
		} else {
			f.GrowthMB = growth
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (p *Provider) TraceFlags(ctx context.Context, id model.InstanceIdentity) ([]int, error) {
	rows, cancel, err := p.query(ctx, id, queryTraceFlags)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer rows.Close()

	flags := []int{}
	for rows.Next() {
		var flag, status, global, session int
		if err := rows.Scan(&flag, &status, &global, &session); err != nil {
			return nil, err
		}
		if status == 1 {
			flags = append(flags, flag)
		}
	}
	return flags, rows.Err()
}

func (p *Provider) Integrity(ctx context.Context, id model.InstanceIdentity) ([]model.IntegrityCheck, error) {
	rows, cancel, err := p.query(ctx, id, queryOnlineDatabases)
	if err != nil {
		return nil, err
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			cancel()
			return nil, err
		}
		names = append(names, name)
	}
	err = rows.Err()
	rows.Close()
	cancel()
	if err != nil {
		return nil, err
	}

	out := make([]model.IntegrityCheck, 0, len(names))
	for _, name := range names {
		last, err := p.lastKnownGood(ctx, id, name)
		if err != nil {
			// a single database refusing DBCC (restoring, single user) is
			// reported as never-checked rather than failing the category
			last = time.Time{}
		}
		out = append(out, model.IntegrityCheck{Database: name, LastGood: last})
	}
	return out, nil
}

func (p *Provider) lastKnownGood(ctx context.Context, id model.InstanceIdentity, database string) (time.Time, error) {
	safe := strings.ReplaceAll(database, "'", "''")
	rows, cancel, err := p.query(ctx, id, fmt.Sprintf(queryDBInfoFmt, safe))
	if err != nil {
		return time.Time{}, err
	}
	defer cancel()
	defer rows.Close()

	for rows.Next() {
		var parent, object, field string
		var value any
		if err := rows.Scan(&parent, &object, &field, &value); err != nil {
			return time.Time{}, err
		}
		if field != "dbi_dbccLastKnownGood" {
			continue
		}
		return parseDBInfoTime(value), nil
	}
	return time.Time{}, rows.Err()
}

// parseDBInfoTime normalizes the sql_variant VALUE column. The epoch
// sentinel 1900-01-01 means no successful check was ever recorded.
func parseDBInfoTime(v any) time.Time {
	var ts time.Time
	switch val := v.(type) {
	case time.Time:
		ts = val
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05.000", "2006-01-02 15:04:05", "Jan  2 2006 3:04PM"} {
			if parsed, err := time.Parse(layout, val); err == nil {
				ts = parsed
				break
			}
		}
	case []byte:
		return parseDBInfoTime(string(val))
	}
	if ts.Year() <= 1900 {
		return time.Time{}
	}
	return ts
}

func (p *Provider) Backups(ctx context.Context, id model.InstanceIdentity) ([]model.BackupState, error) {
	rows, cancel, err := p.query(ctx, id, queryBackups)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer rows.Close()

	var out []model.BackupState
	for rows.Next() {
		var b model.BackupState
		var full, logb time.Time
		if err := rows.Scan(&b.Database, &b.RecoveryModel, &full, &logb); err != nil {
			return nil, err
		}
		if full.Year() > 1900 {
			b.LastFull = full
		}
		if logb.Year() > 1900 {
			b.LastLog = logb
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (p *Provider) TempFiles(ctx context.Context, id model.InstanceIdentity) ([]model.TempFile, error) {
	rows, cancel, err := p.query(ctx, id, queryTempFiles)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer rows.Close()

	var out []model.TempFile
	for rows.Next() {
		var f model.TempFile
		if err := rows.Scan(&f.LogicalName, &f.IsData, &f.SizeMB); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Close closes every pooled connection.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, db := range p.pools {
		_ = db.Close()
		delete(p.pools, id)
	}
	return nil
}
