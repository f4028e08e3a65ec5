package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/ascreports/financereports"
	"github.com/s0up4200/ascreports/report"
)

var (
	financeVendor  string
	financeRegions []string
	financeDate    string
	financeType    string
)

// financeCmd represents the finance command
var financeCmd = &cobra.Command{
	Use:   "finance",
	Short: "Download a monthly financial report",
	Long: `Download the financial report for one fiscal month. Pass --region more than
once to download several regions; they are fetched concurrently and printed
as one table.`,
	Example: `  ascreports finance --date 2020-09 --region ZZ
  ascreports finance --type FINANCE_DETAIL --region Z1 -o csv
  ascreports finance --where 'partner_share > 0.5'`,
	PreRunE: initializeApp,
	RunE:    runFinance,
}

func init() {
	rootCmd.AddCommand(financeCmd)

	financeCmd.Flags().StringVar(&financeVendor, "vendor", "", "vendor number (default from reports.vendor_number)")
	financeCmd.Flags().StringSliceVar(&financeRegions, "region", nil, "region code, repeatable (default from reports.region_code)")
	financeCmd.Flags().StringVar(&financeDate, "date", "", "fiscal month, YYYY-MM (default last month)")
	financeCmd.Flags().StringVar(&financeType, "type", string(report.ReportTypeFinancial), "report type: FINANCIAL or FINANCE_DETAIL")
	addOutputFlags(financeCmd)
}

func runFinance(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	vendor := financeVendor
	if vendor == "" {
		vendor = cfg.Reports.VendorNumber
	}

	regions := financeRegions
	if len(regions) == 0 {
		regions = []string{cfg.Reports.RegionCode}
	}

	date := financeDate
	if date == "" {
		date = financereports.FinanceReportDate(financereports.PreviousMonth(time.Now()))
	}

	queries := make([]financereports.FinanceReportsQuery, 0, len(regions))
	for _, region := range regions {
		queries = append(queries, financereports.FinanceReportsQuery{
			Filter: financereports.FinanceReportsFilter{
				RegionCode:   region,
				ReportDate:   date,
				ReportType:   report.ReportType(strings.ToUpper(financeType)),
				VendorNumber: vendor,
			},
		})
	}

	logger.Info().
		Strs("regions", regions).
		Str("date", date).
		Str("type", financeType).
		Msg("Downloading financial reports")

	table, err := downloadAll(ctx, queries, cfg.Reports.Concurrency,
		func(ctx context.Context, q financereports.FinanceReportsQuery) (*report.Table, error) {
			table, err := financereports.DownloadFinancialReports(ctx, handle, q)
			if err != nil {
				return nil, fmt.Errorf("region %s: %w", q.Filter.RegionCode, err)
			}
			logger.Debug().Str("region", q.Filter.RegionCode).Int("rows", table.Len()).Msg("Report downloaded")
			return table, nil
		})
	if err != nil {
		return err
	}

	return render(table, fmt.Sprintf("Financial report %s", date))
}
