package financereports

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/ascreports/api"
	"github.com/s0up4200/ascreports/report"
)

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newTestAPI(t *testing.T, handler http.HandlerFunc) *api.API {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	handle, err := api.New(server.URL+"/v1", "token")
	require.NoError(t, err)
	return handle
}

func financeQuery(rt report.ReportType) FinanceReportsQuery {
	return FinanceReportsQuery{Filter: FinanceReportsFilter{
		RegionCode:   "ZZ",
		ReportDate:   "2020-09",
		ReportType:   rt,
		VendorNumber: "8xxxxxx",
	}}
}

func salesQuery() SalesReportsQuery {
	return SalesReportsQuery{Filter: SalesReportsFilter{
		Frequency:     report.FrequencyDaily,
		ReportDate:    "2020-10-04",
		ReportSubType: report.SubTypeSummary,
		ReportType:    report.ReportTypeSales,
		VendorNumber:  "8xxxxxx",
		Version:       "1_0",
	}}
}

func TestDownloadFinancialReports(t *testing.T) {
	t.Run("finance detail", func(t *testing.T) {
		body := "Total_Rows\t1\nStart Date\t09/01/2020\nEnd Date\t09/30/2020\n" +
			"Country Of Sale\tPartner Share\tQuantity\n" +
			"US\t0.70\t12\n"

		handle := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/financeReports", r.URL.Path)
			assert.Equal(t,
				"filter[regionCode]=ZZ&filter[reportDate]=2020-09&filter[reportType]=FINANCE_DETAIL&filter[vendorNumber]=8xxxxxx",
				r.URL.RawQuery)
			assert.Equal(t, "application/a-gzip", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "application/a-gzip")
			w.Write(gzipBytes(t, body))
		})

		table, err := DownloadFinancialReports(context.Background(), handle, financeQuery(report.ReportTypeFinanceDetail))
		require.NoError(t, err)
		assert.Equal(t, []string{"country_of_sale", "partner_share", "quantity"}, table.Columns)
		assert.Equal(t, []string{"Country Of Sale", "Partner Share", "Quantity"}, table.OriginalColumns)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, report.Row{"country_of_sale": "US", "partner_share": 0.7, "quantity": float64(12)}, table.Rows[0])
	})

	t.Run("financial keeps first line as header", func(t *testing.T) {
		handle := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write(gzipBytes(t, "Units\tProceeds\n\"10\"\t\"19.99\"\n"))
		})

		table, err := DownloadFinancialReports(context.Background(), handle, financeQuery(report.ReportTypeFinancial))
		require.NoError(t, err)
		assert.Equal(t, []report.Row{{"units": float64(10), "proceeds": 19.99}}, table.Rows)
	})

	t.Run("empty body", func(t *testing.T) {
		handle := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		table, err := DownloadFinancialReports(context.Background(), handle, financeQuery(report.ReportTypeFinancial))
		require.NoError(t, err)
		assert.Zero(t, table.Len())
	})

	t.Run("upstream failure", func(t *testing.T) {
		handle := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"errors":[{"status":"404","code":"NOT_FOUND"}]}`))
		})

		_, err := DownloadFinancialReports(context.Background(), handle, financeQuery(report.ReportTypeFinancial))
		require.Error(t, err)
		var transportErr *api.TransportError
		require.True(t, errors.As(err, &transportErr))
		assert.True(t, transportErr.IsNotFound())
		assert.Contains(t, err.Error(), "NOT_FOUND")
	})

	t.Run("invalid query is rejected before sending", func(t *testing.T) {
		called := false
		handle := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		q := financeQuery(report.ReportTypeSales)
		q.Filter.ReportDate = "2020-09-01"
		_, err := DownloadFinancialReports(context.Background(), handle, q)
		require.Error(t, err)
		assert.False(t, called)

		var fields FieldErrors
		require.True(t, errors.As(err, &fields))
		assert.Len(t, fields, 2)
	})
}

func TestDownloadSalesReports(t *testing.T) {
	t.Run("sales summary", func(t *testing.T) {
		handle := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/salesReports", r.URL.Path)
			assert.Equal(t,
				"filter[frequency]=DAILY&filter[reportDate]=2020-10-04&filter[reportSubType]=SUMMARY&filter[reportType]=SALES&filter[vendorNumber]=8xxxxxx&filter[version]=1_0",
				r.URL.RawQuery)
			w.Write(gzipBytes(t, "Provider\tSKU\tUnits\tBegin Date\nAPPLE\tcom.example\t4\t2020-10-04\n"))
		})

		table, err := DownloadSalesReports(context.Background(), handle, salesQuery())
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "com.example", table.Rows[0]["sku"])
		assert.Equal(t, float64(4), table.Rows[0]["units"])
		assert.Equal(t, time.Date(2020, 10, 4, 0, 0, 0, 0, time.UTC), table.Rows[0]["begin_date"])
	})

	t.Run("report date omitted", func(t *testing.T) {
		handle := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			assert.NotContains(t, r.URL.RawQuery, "reportDate")
			w.Write(gzipBytes(t, "Units\n1\n"))
		})

		q := salesQuery()
		q.Filter.ReportDate = ""
		table, err := DownloadSalesReports(context.Background(), handle, q)
		require.NoError(t, err)
		assert.Equal(t, 1, table.Len())
	})

	t.Run("broken gzip", func(t *testing.T) {
		handle := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not gzip"))
		})

		_, err := DownloadSalesReports(context.Background(), handle, salesQuery())
		require.Error(t, err)
		assert.ErrorIs(t, err, api.ErrDecompression)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		query  any
		fields []string
	}{
		{
			name:  "valid finance",
			query: financeQuery(report.ReportTypeFinancial),
		},
		{
			name:  "valid sales",
			query: salesQuery(),
		},
		{
			name:   "empty finance",
			query:  FinanceReportsQuery{},
			fields: []string{"filter[regionCode]", "filter[reportDate]", "filter[reportType]", "filter[vendorNumber]"},
		},
		{
			name: "sales with bad enum values",
			query: func() SalesReportsQuery {
				q := salesQuery()
				q.Filter.Frequency = "HOURLY"
				q.Filter.ReportType = report.ReportTypeFinancial
				return q
			}(),
			fields: []string{"filter[frequency]", "filter[reportType]"},
		},
		{
			name: "sales report date formats",
			query: func() SalesReportsQuery {
				q := salesQuery()
				q.Filter.ReportDate = "10/04/2020"
				return q
			}(),
			fields: []string{"filter[reportDate]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.query)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			var fields FieldErrors
			require.True(t, errors.As(err, &fields))
			got := make([]string, len(fields))
			for i, f := range fields {
				got[i] = f.Field
			}
			assert.Equal(t, tt.fields, got)
		})
	}

	t.Run("messages", func(t *testing.T) {
		q := salesQuery()
		q.Filter.Version = ""
		q.Filter.ReportDate = "2020/10"
		err := Validate(q)
		assert.EqualError(t, err,
			"filter[reportDate]: must be YYYY-MM-DD, YYYY-MM or YYYY; filter[version]: This field is required")
	})

	t.Run("other rules use the english messages", func(t *testing.T) {
		q := salesQuery()
		q.Filter.Frequency = "HOURLY"

		var fields FieldErrors
		require.True(t, errors.As(Validate(q), &fields))
		require.Len(t, fields, 1)
		assert.Equal(t, FieldError{
			Field: "filter[frequency]",
			Err:   "frequency must be one of [DAILY WEEKLY MONTHLY YEARLY]",
		}, fields[0])
	})

	t.Run("monthly and yearly dates", func(t *testing.T) {
		q := salesQuery()
		for _, d := range []string{"2020-10", "2020"} {
			q.Filter.ReportDate = d
			assert.NoError(t, Validate(q), d)
		}
	})
}

func TestReportDates(t *testing.T) {
	d := time.Date(2020, 10, 4, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2020-10", FinanceReportDate(d))
	assert.Equal(t, "2020-10-04", SalesReportDate(report.FrequencyDaily, d))
	assert.Equal(t, "2020-10-04", SalesReportDate(report.FrequencyWeekly, d))
	assert.Equal(t, "2020-10", SalesReportDate(report.FrequencyMonthly, d))
	assert.Equal(t, "2020", SalesReportDate(report.FrequencyYearly, d))
}

func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		now  time.Time
		want string
	}{
		{now: time.Date(2026, 3, 28, 9, 0, 0, 0, time.UTC), want: "2026-02"},
		{now: time.Date(2026, 3, 29, 9, 0, 0, 0, time.UTC), want: "2026-02"},
		{now: time.Date(2026, 3, 30, 9, 0, 0, 0, time.UTC), want: "2026-02"},
		{now: time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC), want: "2026-02"},
		{now: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), want: "2024-02"},
		{now: time.Date(2026, 5, 31, 12, 0, 0, 0, time.UTC), want: "2026-04"},
		{now: time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC), want: "2025-12"},
		{now: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), want: "2026-06"},
	}

	for _, tt := range tests {
		t.Run(tt.now.Format(time.DateOnly), func(t *testing.T) {
			got := PreviousMonth(tt.now)
			assert.Equal(t, tt.want, FinanceReportDate(got))
			assert.Equal(t, 1, got.Day())
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}
