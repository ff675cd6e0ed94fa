//go:build integration

package database

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Ramsey-B/fern/pkg/table"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "user",
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_DB":       "fern",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://user:password@%s:%s/fern?sslmode=disable", host, port.Port())
}

func TestPostgres_RoundTrip(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()
	backend := NewBackend(nopLogger(), 2)

	u, err := url.Parse(dsn + "&table=accounts_clean&order_by=Account%20ID")
	require.NoError(t, err)

	in := &table.Table{
		Header: []string{"Account ID", "Account Name", "Outcome"},
		Rows: [][]string{
			{"A2", "Acme Labs", "Child"},
			{"A1", "Acme", "Parent"},
			{"A3", "", "No Action"},
		},
	}

	sink, err := backend.OpenSink(u)
	require.NoError(t, err)
	require.NoError(t, sink.Write(ctx, in))
	// a second write replaces rather than appends
	require.NoError(t, sink.Write(ctx, in))

	src, err := backend.OpenSource(u)
	require.NoError(t, err)
	out, err := src.Read(ctx)
	require.NoError(t, err)

	assert.Equal(t, in.Header, out.Header)
	assert.Equal(t, [][]string{
		{"A1", "Acme", "Parent"},
		{"A2", "Acme Labs", "Child"},
		{"A3", "", "No Action"},
	}, out.Rows)
}
