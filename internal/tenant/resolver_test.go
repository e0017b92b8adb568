package tenant

import (
	"errors"
	"testing"

	"catalog-service/internal/catalog"
	"catalog-service/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testResolver(dial func(dsn string) (*gorm.DB, error)) *Resolver {
	cfg := &config.Config{
		Tenant: config.TenantConfig{
			Keys:     []string{"acme", "globex"},
			DBPrefix: "catalog_",
		},
	}
	return &Resolver{
		cfg:   cfg,
		log:   zap.NewNop(),
		dial:  dial,
		conns: make(map[string]*Conn),
	}
}

func TestResolverResolve(t *testing.T) {
	t.Run("DialsOnFirstUse", func(t *testing.T) {
		var dialed []string
		r := testResolver(func(dsn string) (*gorm.DB, error) {
			dialed = append(dialed, dsn)
			return &gorm.DB{}, nil
		})

		conn, err := r.Resolve("acme")

		require.NoError(t, err)
		require.NotNil(t, conn)
		assert.Equal(t, "acme", conn.Key)
		require.Len(t, dialed, 1)
		assert.Contains(t, dialed[0], "dbname=catalog_acme")
	})

	t.Run("SecondResolveIsCached", func(t *testing.T) {
		dials := 0
		r := testResolver(func(string) (*gorm.DB, error) {
			dials++
			return &gorm.DB{}, nil
		})

		first, err := r.Resolve("acme")
		require.NoError(t, err)
		second, err := r.Resolve("acme")
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, dials)
	})

	t.Run("TenantsAreIsolated", func(t *testing.T) {
		r := testResolver(func(string) (*gorm.DB, error) {
			return &gorm.DB{}, nil
		})

		acme, err := r.Resolve("acme")
		require.NoError(t, err)
		globex, err := r.Resolve("globex")
		require.NoError(t, err)

		assert.NotSame(t, acme, globex)
	})

	t.Run("EmptyKey", func(t *testing.T) {
		r := testResolver(func(string) (*gorm.DB, error) {
			t.Fatal("dial must not run for an empty key")
			return nil, nil
		})

		_, err := r.Resolve("")

		var cerr *catalog.ConnectionError
		require.ErrorAs(t, err, &cerr)
	})

	t.Run("UnknownTenant", func(t *testing.T) {
		r := testResolver(func(string) (*gorm.DB, error) {
			t.Fatal("dial must not run for an unknown tenant")
			return nil, nil
		})

		_, err := r.Resolve("intruder")

		var cerr *catalog.ConnectionError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "intruder", cerr.Tenant)
	})

	t.Run("DialFailureNotCached", func(t *testing.T) {
		attempts := 0
		r := testResolver(func(string) (*gorm.DB, error) {
			attempts++
			if attempts == 1 {
				return nil, errors.New("connection refused")
			}
			return &gorm.DB{}, nil
		})

		_, err := r.Resolve("acme")
		var cerr *catalog.ConnectionError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "acme", cerr.Tenant)

		conn, err := r.Resolve("acme")
		require.NoError(t, err)
		assert.NotNil(t, conn)
		assert.Equal(t, 2, attempts)
	})
}
