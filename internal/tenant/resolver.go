package tenant

import (
	"sync"

	"catalog-service/internal/catalog"
	"catalog-service/pkg/config"
	"catalog-service/pkg/database"
	"catalog-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Resolver maps tenant keys to live storage connections. Connections are
// dialed on first use and cached for the process lifetime; resolving is
// deterministic and dialing a brand-new handle is the only fallible path.
type Resolver struct {
	cfg  *config.Config
	log  *zap.Logger
	dial func(dsn string) (*gorm.DB, error)

	mu    sync.Mutex
	conns map[string]*Conn
}

// NewResolver builds a resolver over the configured tenant allow-list
func NewResolver(cfg *config.Config, log *zap.Logger) *Resolver {
	return &Resolver{
		cfg: cfg,
		log: log,
		dial: func(dsn string) (*gorm.DB, error) {
			return database.Open(dsn, &cfg.DB)
		},
		conns: make(map[string]*Conn),
	}
}

// Resolve returns the cached connection for a tenant key, dialing it first if
// this is the tenant's first request. An empty or unknown key, or an
// unreachable database, fails with ConnectionError; there is no fallback to
// an unscoped default connection.
func (r *Resolver) Resolve(key string) (*Conn, error) {
	if key == "" {
		return nil, &catalog.ConnectionError{Tenant: key}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if conn, ok := r.conns[key]; ok {
		prometheus.RecordTenantConn(true)
		return conn, nil
	}

	if !r.cfg.TenantAllowed(key) {
		prometheus.RecordTenantConnError()
		return nil, &catalog.ConnectionError{Tenant: key}
	}

	db, err := r.dial(r.cfg.TenantDSN(key))
	if err != nil {
		prometheus.RecordTenantConnError()
		return nil, &catalog.ConnectionError{Tenant: key, Err: err}
	}

	conn := NewConn(key, db)
	r.conns[key] = conn
	prometheus.RecordTenantConn(false)
	r.log.Info("tenant connection established", zap.String("tenant", key))
	return conn, nil
}
