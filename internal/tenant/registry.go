package tenant

import (
	"fmt"
	"sync"

	"catalog-service/prometheus"

	"gorm.io/gorm"
)

// Model is the stable handle returned by entity registration. The same
// (connection, entity name) pair always yields the same handle.
type Model struct {
	Name      string
	Prototype any
	Conn      *Conn
}

// Conn is a live tenant-scoped storage handle together with its cache of
// registered entity schemas. Registration mutates process-wide shared state:
// the first request for a tenant/entity pair registers, every later one reads.
type Conn struct {
	Key string
	DB  *gorm.DB

	mu      sync.Mutex
	models  map[string]*Model
	migrate func(prototype any) error
}

// NewConn wraps a dialed database handle for a tenant
func NewConn(key string, db *gorm.DB) *Conn {
	c := &Conn{
		Key:    key,
		DB:     db,
		models: make(map[string]*Model),
	}
	c.migrate = func(prototype any) error {
		return db.AutoMigrate(prototype)
	}
	return c
}

// Register lazily registers an entity schema on this connection and returns
// its model handle. Registering the same entity name twice is a no-op that
// returns the existing handle; the check and the insert happen under one lock
// so concurrent first use from multiple requests registers exactly once.
func (c *Conn) Register(entityName string, prototype any) (*Model, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.models[entityName]; ok {
		return m, nil
	}

	if err := c.migrate(prototype); err != nil {
		return nil, fmt.Errorf("register entity %q on tenant %q: %w", entityName, c.Key, err)
	}

	m := &Model{Name: entityName, Prototype: prototype, Conn: c}
	c.models[entityName] = m
	prometheus.RecordEntityRegistration(entityName)
	return m, nil
}

// Registered returns the handle for an already-registered entity, if any
func (c *Conn) Registered(entityName string) (*Model, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.models[entityName]
	return m, ok
}
