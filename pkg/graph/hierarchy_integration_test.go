//go:build integration

package graph

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Ramsey-B/fern/pkg/models"
)

func startMemgraph(t *testing.T) Config {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "memgraph/memgraph:latest",
		ExposedPorts: []string{"7687/tcp"},
		WaitingFor: wait.ForLog("Server is fully armed and operational").
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
	port, err := container.MappedPort(ctx, "7687")
	require.NoError(t, err)

	p, err := strconv.Atoi(port.Port())
	require.NoError(t, err)
	return Config{Host: host, Port: p}
}

func TestHierarchyExporter_Export(t *testing.T) {
	ctx := context.Background()
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})

	client, err := NewClient(startMemgraph(t), logger)
	require.NoError(t, err)
	defer client.Close(ctx)
	require.NoError(t, client.VerifyConnectivity(ctx))

	exporter := NewHierarchyExporter(client, "", logger)
	accounts := []models.Account{
		{AccountID: "P", Outcome: models.OutcomeParent},
		{AccountID: "C", Outcome: models.OutcomeChild, ProposedParentID: models.StringPtr("P")},
		{AccountID: "M", Outcome: models.OutcomeMerge, MergeTargetID: models.StringPtr("P")},
	}
	require.NoError(t, exporter.Export(ctx, "run-1", accounts))
	// re-exporting the same run does not duplicate edges
	require.NoError(t, exporter.Export(ctx, "run-2", accounts))

	count, err := client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `MATCH (:Account)-[r]->(:Account {id: "P"}) RETURN count(r) AS n`, nil)
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _ := record.Get("n")
		return n, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
