//go:build integration_ch
// +build integration_ch

package ch

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startClickhouse(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.8-alpine",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"CLICKHOUSE_USER":     "razorback",
			"CLICKHOUSE_PASSWORD": "razorback",
			"CLICKHOUSE_DB":       "razorback",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("9000/tcp"),
			wait.ForLog("Ready for connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start clickhouse container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "9000/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("clickhouse://razorback:razorback@%s:%s/razorback", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func TestOpen_InsertQuery_Integration(t *testing.T) {
	dsn, stop := startClickhouse(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	cl, err := Open(ctx, Config{URL: dsn, Role: "test", Tag: "dev"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = cl.Close() }()

	if err := cl.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	ddl := `
		CREATE TABLE bars_it (
			symbol LowCardinality(String),
			day    Date,
			close  Float64
		) ENGINE = MergeTree ORDER BY (symbol, day)`
	if err := cl.Exec(ctx, ddl); err != nil {
		t.Fatalf("create table: %v", err)
	}

	rows := [][]any{
		{"AAPL", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), 172.5},
		{"AAPL", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), 173.1},
	}
	if err := cl.Insert(ctx, "bars_it", rows); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rs, err := cl.Query(ctx, "SELECT close FROM bars_it WHERE symbol = ? ORDER BY day", "AAPL")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer func() { _ = rs.Close() }()

	var got []float64
	for rs.Next() {
		var c float64
		if err := rs.Scan(&c); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, c)
	}
	if err := rs.Err(); err != nil {
		t.Fatalf("rows err: %v", err)
	}
	if len(got) != 2 || got[0] != 172.5 || got[1] != 173.1 {
		t.Fatalf("unexpected closes: %v", got)
	}
}
