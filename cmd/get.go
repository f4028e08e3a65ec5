package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/ascreports/api"
)

var getQuery []string

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Send a GET request and print the JSON response",
	Long: `Send an authenticated GET request to any resource below the base URL and
print the decoded document. URL and date strings in the response are shown
in their canonical form. Repeating a --query key sends the parameter once per
value.`,
	Example: `  ascreports get apps --query 'fields[apps]=name,bundleId'
  ascreports get apps --query 'filter[bundleId]=com.example.app'`,
	Args:    cobra.ExactArgs(1),
	PreRunE: initializeApp,
	RunE:    runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringArrayVarP(&getQuery, "query", "q", nil, "query parameter as key=value, repeatable")
}

// parseQueryFlags turns key=value pairs into a query map. Repeated keys
// collect their values in order.
func parseQueryFlags(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	query := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query parameter %q (want key=value)", pair)
		}

		switch existing := query[key].(type) {
		case nil:
			query[key] = value
		case string:
			query[key] = []any{existing, value}
		case []any:
			query[key] = append(existing, value)
		}
	}
	return query, nil
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	query, err := parseQueryFlags(getQuery)
	if err != nil {
		return err
	}

	opts := api.Options{Accept: api.ContentTypeJSON}
	if query != nil {
		opts.Query = query
	}

	logger.Info().Str("path", args[0]).Msg("Requesting resource")

	res, err := handle.Get(ctx, args[0], opts)
	if err != nil {
		return err
	}
	if res.Absent() {
		fmt.Fprintln(os.Stderr, "Empty response")
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Document())
}
