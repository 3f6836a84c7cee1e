package precompute

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
)

// Column keys after header normalization.
const (
	colAge             = "age"
	colGender          = "gender"
	colMaritalStatus   = "maritalstatus"
	colState           = "state"
	colProductCategory = "productcategory"
	colOrders          = "orders"
	colAmount          = "amount"
)

// headerAliases maps alternative column names to their canonical key.
var headerAliases = map[string]string{
	"sales": colAmount,
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer("_", "", " ", "", "-", "").Replace(h)
	if alias, ok := headerAliases[h]; ok {
		return alias
	}
	return h
}

// parseRows converts a header row and data rows into records. Age, state,
// gender, product category and amount are required columns.
func parseRows(header []string, rows [][]string) ([]SaleRecord, error) {
	idx := map[string]int{}
	for i, h := range header {
		idx[normalizeHeader(h)] = i
	}
	for _, col := range []string{colAge, colGender, colState, colProductCategory, colAmount} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]SaleRecord, 0, len(rows))
	for n, row := range rows {
		line := n + 2
		age, err := strconv.Atoi(cell(row, colAge))
		if err != nil {
			return nil, fmt.Errorf("row %d: age: %w", line, err)
		}
		amount, err := strconv.ParseFloat(cell(row, colAmount), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: amount: %w", line, err)
		}
		orders := 0
		if v := cell(row, colOrders); v != "" {
			if orders, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("row %d: orders: %w", line, err)
			}
		}
		records = append(records, SaleRecord{
			Age:             age,
			Gender:          cell(row, colGender),
			MaritalStatus:   cell(row, colMaritalStatus),
			State:           cell(row, colState),
			ProductCategory: cell(row, colProductCategory),
			Orders:          orders,
			Amount:          amount,
		})
	}
	return records, nil
}

// CSVSource reads sales_data.csv style files.
type CSVSource struct {
	Path string
}

// Records implements RecordSource.
func (s CSVSource) Records(_ context.Context) ([]SaleRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) ([]SaleRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoRecords
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return parseRows(header, rows)
}

// XLSXSource reads the first (or the named) sheet of a workbook.
type XLSXSource struct {
	Path  string
	Sheet string
}

// Records implements RecordSource.
func (s XLSXSource) Records(_ context.Context) ([]SaleRecord, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRecords
	}
	return parseRows(rows[0], rows[1:])
}

// Querier is the part of pgxpool.Pool the Postgres source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads sales rows from a table with the columns age,
// gender, marital_status, state, product_category, orders and amount.
type PostgresSource struct {
	DB    Querier
	Table string
}

func (s PostgresSource) query() string {
	return `SELECT age, gender, marital_status, state, product_category, orders, amount::float8 FROM ` +
		pgx.Identifier(strings.Split(s.Table, ".")).Sanitize()
}

// Records implements RecordSource.
func (s PostgresSource) Records(ctx context.Context) ([]SaleRecord, error) {
	rows, err := s.DB.Query(ctx, s.query())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	defer rows.Close()

	var records []SaleRecord
	for rows.Next() {
		var r SaleRecord
		if err := rows.Scan(&r.Age, &r.Gender, &r.MaritalStatus, &r.State, &r.ProductCategory, &r.Orders, &r.Amount); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.Table, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
