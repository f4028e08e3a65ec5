package financereports

import (
	"time"

	"github.com/s0up4200/ascreports/report"
)

// FinanceReportsFilter selects one monthly financial report.
type FinanceReportsFilter struct {
	// RegionCode is a territory code such as US, or ZZ for the
	// consolidated report.
	RegionCode string `url:"regionCode" validate:"required"`
	// ReportDate is the Apple fiscal month, YYYY-MM.
	ReportDate   string            `url:"reportDate" validate:"required,datetime=2006-01"`
	ReportType   report.ReportType `url:"reportType" validate:"required,oneof=FINANCIAL FINANCE_DETAIL"`
	VendorNumber string            `url:"vendorNumber" validate:"required"`
}

// FinanceReportsQuery is the query for the financeReports resource.
type FinanceReportsQuery struct {
	Filter FinanceReportsFilter `url:"filter"`
}

// SalesReportsFilter selects one sales and trends report.
type SalesReportsFilter struct {
	Frequency report.Frequency `url:"frequency" validate:"required,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	// ReportDate may be left empty for the latest DAILY report.
	ReportDate    string            `url:"reportDate,omitempty" validate:"omitempty,reportdate"`
	ReportSubType report.SubType    `url:"reportSubType" validate:"required,oneof=SUMMARY DETAILED OPT_IN"`
	ReportType    report.ReportType `url:"reportType" validate:"required,oneof=SALES PRE_ORDER NEWSSTAND SUBSCRIPTION SUBSCRIPTION_EVENT SUBSCRIBER"`
	VendorNumber  string            `url:"vendorNumber" validate:"required"`
	// Version is the report format version, e.g. 1_0.
	Version string `url:"version" validate:"required"`
}

// SalesReportsQuery is the query for the salesReports resource.
type SalesReportsQuery struct {
	Filter SalesReportsFilter `url:"filter"`
}

// Layouts accepted for a sales report date.
const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
	yearLayout  = "2006"
)

// FinanceReportDate formats t as a finance report month.
func FinanceReportDate(t time.Time) string {
	return t.Format(monthLayout)
}

// PreviousMonth returns the first day of the month before now's, in UTC.
func PreviousMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
}

// SalesReportDate formats t the way the sales resource expects for freq.
func SalesReportDate(freq report.Frequency, t time.Time) string {
	switch freq {
	case report.FrequencyMonthly:
		return t.Format(monthLayout)
	case report.FrequencyYearly:
		return t.Format(yearLayout)
	default:
		return t.Format(dayLayout)
	}
}
