// Package report parses tab-separated finance and sales reports into typed rows.
package report

// ReportType selects which finance or sales data set to download.
type ReportType string

const (
	// Finance reports
	ReportTypeFinancial     ReportType = "FINANCIAL"
	ReportTypeFinanceDetail ReportType = "FINANCE_DETAIL"

	// Sales and trends reports
	ReportTypeSales             ReportType = "SALES"
	ReportTypePreOrder          ReportType = "PRE_ORDER"
	ReportTypeNewsstand         ReportType = "NEWSSTAND"
	ReportTypeSubscription      ReportType = "SUBSCRIPTION"
	ReportTypeSubscriptionEvent ReportType = "SUBSCRIPTION_EVENT"
	ReportTypeSubscriber        ReportType = "SUBSCRIBER"
)

// IsFinance checks if the report type belongs to the finance family
func (rt ReportType) IsFinance() bool {
	return rt == ReportTypeFinancial || rt == ReportTypeFinanceDetail
}

// IsSales checks if the report type belongs to the sales family
func (rt ReportType) IsSales() bool {
	switch rt {
	case ReportTypeSales, ReportTypePreOrder, ReportTypeNewsstand,
		ReportTypeSubscription, ReportTypeSubscriptionEvent, ReportTypeSubscriber:
		return true
	}
	return false
}

// SubType is the sales report sub type.
type SubType string

const (
	SubTypeSummary  SubType = "SUMMARY"
	SubTypeDetailed SubType = "DETAILED"
	SubTypeOptIn    SubType = "OPT_IN"
)

// Frequency is the period a sales report covers.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)
