package logic

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// MockConn implements driver.Conn, returning one stat_value column per row.
type MockConn struct {
	driver.Conn
	Values     []float64
	QueryErr   error
	QueryCalls int
	LastQuery  string
}

func (m *MockConn) Query(ctx context.Context, query string, args ...interface{}) (driver.Rows, error) {
	m.QueryCalls++
	m.LastQuery = query
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	return &MockRows{values: m.Values}, nil
}

type MockRows struct {
	driver.Rows
	values []float64
	idx    int
}

func (m *MockRows) Next() bool {
	m.idx++
	return m.idx <= len(m.values)
}

func (m *MockRows) Scan(dest ...interface{}) error {
	assign(dest[0], m.values[m.idx-1])
	return nil
}

func (m *MockRows) Close() error { return nil }
func (m *MockRows) Err() error   { return nil }
