package storage

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aryorithm/blackbox/internal/model"
)

// timeout bounds the sink's HTTP round-trip; exceeding it counts as a
// flush failure (the pipeline prefers loss to head-of-line blocking).
const timeout = 2 * time.Second

// ClickHouseSink issues raw SQL-over-HTTP batch inserts. It is not a
// structured driver call by design: grounded on the original
// ClickHouseClient, which POSTs the literal INSERT text via libcurl.
type ClickHouseSink struct {
	url    string
	table  string
	client *http.Client
}

// NewClickHouseSink creates a sink targeting url (a ClickHouse HTTP
// interface endpoint) for table.
func NewClickHouseSink(url, table string) *ClickHouseSink {
	return &ClickHouseSink{
		url:   url,
		table: table,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Insert POSTs a single batch-insert statement for rows. Response 200 is
// success; all other responses, or any transport error, are failures.
func (s *ClickHouseSink) Insert(ctx context.Context, rows []model.DBRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sql := buildInsertSQL(s.table, rows)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, strings.NewReader(sql))
	if err != nil {
		return fmt.Errorf("storage: build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("storage: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("storage: sink returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func buildInsertSQL(table string, rows []model.DBRow) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (id, timestamp, host, country, service, message, anomaly_score, is_threat) VALUES ")

	for i, row := range rows {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("('")
		b.WriteString(escapeSQL(row.ID))
		b.WriteString("', '")
		b.WriteString(formatTimestamp(row.Timestamp))
		b.WriteString("', '")
		b.WriteString(escapeSQL(row.Host))
		b.WriteString("', '")
		b.WriteString(escapeSQL(row.Country))
		b.WriteString("', '")
		b.WriteString(escapeSQL(row.Service))
		b.WriteString("', '")
		b.WriteString(escapeSQL(row.Message))
		b.WriteString("', ")
		b.WriteString(strconv.FormatFloat(row.AnomalyScore, 'f', -1, 64))
		b.WriteString(", ")
		if row.IsThreat {
			b.WriteString("1")
		} else {
			b.WriteString("0")
		}
		b.WriteString(")")
	}
	b.WriteString(";")
	return b.String()
}

// formatTimestamp renders t as the sink's expected "YYYY-MM-DD HH:MM:SS"
// format, seconds precision, UTC.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// escapeSQL doubles single quotes and escapes backslashes.
func escapeSQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `''`)
	return s
}
