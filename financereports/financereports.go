// Package financereports downloads finance and sales reports and parses
// them into typed tables.
package financereports

import (
	"context"
	"fmt"

	"github.com/s0up4200/ascreports/api"
	"github.com/s0up4200/ascreports/report"
)

const (
	financeReportsPath = "financeReports"
	salesReportsPath   = "salesReports"
)

// Getter is the part of *api.API the report routes need.
type Getter interface {
	Get(ctx context.Context, path string, opts api.Options) (*api.Result, error)
}

// DownloadFinancialReports downloads the financial report selected by q.
func DownloadFinancialReports(ctx context.Context, g Getter, q FinanceReportsQuery) (*report.Table, error) {
	if err := Validate(q); err != nil {
		return nil, fmt.Errorf("invalid finance reports query: %w", err)
	}
	return download(ctx, g, financeReportsPath, q, q.Filter.ReportType)
}

// DownloadSalesReports downloads the sales and trends report selected by q.
func DownloadSalesReports(ctx context.Context, g Getter, q SalesReportsQuery) (*report.Table, error) {
	if err := Validate(q); err != nil {
		return nil, fmt.Errorf("invalid sales reports query: %w", err)
	}
	return download(ctx, g, salesReportsPath, q, q.Filter.ReportType)
}

func download(ctx context.Context, g Getter, path string, query any, rt report.ReportType) (*report.Table, error) {
	res, err := g.Get(ctx, path, api.Options{
		Query:  query,
		Accept: api.ContentTypeGZIP,
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", path, err)
	}
	if res.Absent() {
		return &report.Table{}, nil
	}

	table, err := report.Parse(res.Text(), rt)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return table, nil
}
