package ch

import (
	"context"
	"errors"
	"testing"

	kit "usagereport/internal/platform/testkit"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// fakeConn overrides the few driver.Conn methods the client uses
type fakeConn struct {
	driver.Conn
	pingErr  error
	queryErr error
	closed   bool
	sql      string
	args     []any
}

func (f *fakeConn) Ping(context.Context) error { return f.pingErr }
func (f *fakeConn) Close() error               { f.closed = true; return nil }
func (f *fakeConn) Query(_ context.Context, sql string, args ...any) (driver.Rows, error) {
	f.sql, f.args = sql, args
	return nil, f.queryErr
}

func withConn(t *testing.T, c *fakeConn) {
	kit.Swap(t, &openConn, func(*clickhouse.Options) (driver.Conn, error) { return c, nil })
}

func TestOpen_BadDSN(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "://nope"}); err == nil {
		t.Fatalf("expected dsn error")
	}
}

func TestOpen_PingFailureClosesConn(t *testing.T) {
	conn := &fakeConn{pingErr: errors.New("refused")}
	withConn(t, conn)

	_, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000/reports", Role: "cli"})
	if err == nil {
		t.Fatalf("expected ping error")
	}
	if !conn.closed {
		t.Fatalf("connection not closed after failed ping")
	}
}

func TestQuery_Forwards(t *testing.T) {
	conn := &fakeConn{queryErr: errors.New("table summary_data does not exist")}
	withConn(t, conn)

	c, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000/reports"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sql := "SELECT toInt64(count()) FROM summary_data WHERE sampled_at BETWEEN ? AND ?"
	if _, err := c.Query(context.Background(), sql, int64(1), int64(2)); err == nil {
		t.Fatal("query error dropped")
	}
	if conn.sql != sql || len(conn.args) != 2 {
		t.Fatalf("forwarded %q %v", conn.sql, conn.args)
	}
	if err := c.Close(); err != nil || !conn.closed {
		t.Fatal("Close did not reach the connection")
	}
}

func TestNilClient(t *testing.T) {
	t.Parallel()

	var c *CH
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("nil client ping should fail")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("nil client close: %v", err)
	}
}

func TestBuildClientInfo(t *testing.T) {
	t.Parallel()

	info := BuildClientInfo(" api ", "v1")
	if len(info.Products) != 5 || info.Products[0].Name != "usagereport" || info.Products[1].Version != "api" {
		t.Fatalf("unexpected client info %+v", info.Products)
	}
}
