//go:build integration

package database

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/pinewood-labs/customer-store/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
)

// newPostgresCustomerRepository levanta un PostgreSQL real y aplica las migraciones embebidas
func newPostgresCustomerRepository(t *testing.T) *CustomerRepository {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("customer_store_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrationDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	migrator, err := NewMigrator(migrationDB, newTestLogger())
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
	require.NoError(t, migrator.Close())

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	db, err := Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewCustomerRepository(db, newTestLogger())
}

func TestPostgres_CustomerLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := newPostgresCustomerRepository(t)
	ctx := context.Background()

	customer := sampleCustomer("john@x.com")
	require.NoError(t, repo.Insert(ctx, customer))
	assert.NotZero(t, customer.ID)

	found, err := repo.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, customer, found)

	duplicate := sampleCustomer("john@x.com")
	assert.ErrorIs(t, repo.Insert(ctx, duplicate), models.ErrDuplicateEmail)

	customer.Age = 31
	customer.PhoneNumber = ""
	replaced, err := repo.ReplaceByID(ctx, customer)
	require.NoError(t, err)
	assert.True(t, replaced)

	deleted, err := repo.DeleteByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPostgres_ConcurrentCreatesWithSameEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := newPostgresCustomerRepository(t)
	ctx := context.Background()

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Insert(ctx, sampleCustomer("race@x.com"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, models.ErrDuplicateEmail)
	}
	assert.Equal(t, 1, succeeded)
}

func TestPostgres_AgeCheckConstraint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := newPostgresCustomerRepository(t)

	customer := sampleCustomer("young@x.com")
	customer.Age = 17

	err := repo.Insert(context.Background(), customer)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrDuplicateEmail)
}
