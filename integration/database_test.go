//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startContainer starts a container and returns the host and mapped port for exposed.
func startContainer(t *testing.T, req testcontainers.ContainerRequest, exposed string) (string, string) {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, nat.Port(exposed))
	require.NoError(t, err)
	return host, port.Port()
}

// exercisePaddock runs the same command sequence against whatever backends the env selects.
func exercisePaddock(t *testing.T) {
	t.Helper()
	hits := fakeUpstreams(t)

	_, err := runPaddockCommand(t, "cache", "clear")
	require.NoError(t, err)

	_, err = runPaddockCommand(t, "loads", "clear")
	require.NoError(t, err)

	_, err = runPaddockCommand(t, "drivers", "2021", "--limit", "5")
	require.NoError(t, err)

	_, err = runPaddockCommand(t, "season", "2021", "--workers", "2")
	require.NoError(t, err)
	afterLoad := hits.Load()

	// Everything for a finished season is cached now
	_, err = runPaddockCommand(t, "constructors", "2021")
	require.NoError(t, err)
	assert.Equal(t, afterLoad, hits.Load())

	status, err := runPaddockCommand(t, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, status, "Connected: true")

	loads, err := runPaddockCommand(t, "loads", "status")
	require.NoError(t, err)
	assert.Contains(t, loads, "completed")
}

// TestPaddockWithMySQL tests the paddock CLI with a MySQL backend.
func TestPaddockWithMySQL(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "paddock",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}, "3306")

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/paddock?parseTime=true", host, port)
	t.Setenv("PADDOCK_CACHE_BACKEND", "mysql")
	t.Setenv("PADDOCK_CACHE_DB_CONNECT", connStr)
	t.Setenv("PADDOCK_LOAD_BACKEND", "mysql")
	t.Setenv("PADDOCK_LOAD_DB_CONNECT", connStr)

	exercisePaddock(t)
}

// TestPaddockWithPostgres tests the paddock CLI with a PostgreSQL backend.
func TestPaddockWithPostgres(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "secret123",
			"POSTGRES_DB":       "paddock",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432")

	connStr := fmt.Sprintf("host=%s port=%s user=postgres password=secret123 dbname=paddock sslmode=disable", host, port)
	t.Setenv("PADDOCK_CACHE_BACKEND", "postgresql")
	t.Setenv("PADDOCK_CACHE_DB_CONNECT", connStr)
	t.Setenv("PADDOCK_LOAD_BACKEND", "postgresql")
	t.Setenv("PADDOCK_LOAD_DB_CONNECT", connStr)

	exercisePaddock(t)
}

// TestPaddockWithRedis caches in Redis and keeps load bookkeeping in SQLite.
func TestPaddockWithRedis(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}, "6379")

	t.Setenv("PADDOCK_CACHE_BACKEND", "redis")
	t.Setenv("PADDOCK_CACHE_DB_CONNECT", fmt.Sprintf("redis://%s:%s/0", host, port))
	t.Setenv("PADDOCK_LOAD_BACKEND", "sqlite")
	t.Setenv("PADDOCK_LOAD_DB_CONNECT", t.TempDir()+"/loads.db")

	exercisePaddock(t)
}
