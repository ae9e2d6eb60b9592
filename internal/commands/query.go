package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"evalgo.org/modelapi/pkg/client"
)

var (
	// Query flags
	queryAPIURL string
	queryLimit  int
	queryOffset int
	queryFormat string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a running resource API",
	Long:  `Read resources and relationships from a running modelapi server`,
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the resource types the server exposes",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

var listCmd = &cobra.Command{
	Use:   "list [type]",
	Short: "List resources of a type",
	Long: `List resources of a type with optional paging.

Examples:
  modelapi query list organization
  modelapi query list tags --limit 20 --offset 40
  modelapi query list organization --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

var getCmd = &cobra.Command{
	Use:   "get [type] [id]",
	Short: "Show one resource",
	Args:  cobra.ExactArgs(2),
	RunE:  runGet,
}

var relatedCmd = &cobra.Command{
	Use:   "related [type] [id] [relationship]",
	Short: "Show the resources referenced by a relationship",
	Long: `Follow a relationship of a resource.

Examples:
  modelapi query related organization 42 tags`,
	Args: cobra.ExactArgs(3),
	RunE: runRelated,
}

func init() {
	queryCmd.AddCommand(typesCmd)
	queryCmd.AddCommand(listCmd)
	queryCmd.AddCommand(getCmd)
	queryCmd.AddCommand(relatedCmd)

	queryCmd.PersistentFlags().StringVar(&queryAPIURL, "api-url", "", "API base URL (default: from server config)")
	queryCmd.PersistentFlags().StringVarP(&queryFormat, "format", "f", "table", "output format (table, json)")

	listCmd.Flags().IntVarP(&queryLimit, "limit", "l", 0, "maximum number of results")
	listCmd.Flags().IntVar(&queryOffset, "offset", 0, "number of results to skip")
}

func apiURL() string {
	if queryAPIURL != "" {
		return queryAPIURL
	}
	host := cfg.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d%s", host, cfg.Server.Port, strings.TrimSuffix(cfg.Server.BasePath, "/"))
}

func newQueryClient() (*client.Client, context.Context, context.CancelFunc, error) {
	c, err := client.New(apiURL())
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	return c, ctx, cancel, nil
}

func runTypes(cmd *cobra.Command, args []string) error {
	c, ctx, cancel, err := newQueryClient()
	if err != nil {
		return err
	}
	defer cancel()

	types, err := c.Types(ctx)
	if err != nil {
		return fmt.Errorf("failed to list types: %w", err)
	}

	out := cmd.OutOrStdout()
	if queryFormat == "json" {
		return printJSON(out, types)
	}

	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tURL")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%s\n", name, types[name])
	}
	return w.Flush()
}

func runList(cmd *cobra.Command, args []string) error {
	c, ctx, cancel, err := newQueryClient()
	if err != nil {
		return err
	}
	defer cancel()

	var page *client.Page
	if queryLimit > 0 || queryOffset > 0 {
		page = &client.Page{Limit: queryLimit, Offset: queryOffset}
	}

	resources, err := c.List(ctx, args[0], page)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", args[0], err)
	}
	return printResources(cmd.OutOrStdout(), resources)
}

func runGet(cmd *cobra.Command, args []string) error {
	c, ctx, cancel, err := newQueryClient()
	if err != nil {
		return err
	}
	defer cancel()

	res, err := c.Get(ctx, args[0], args[1])
	if err != nil {
		if client.IsNotFound(err) {
			return fmt.Errorf("%s %s not found", args[0], args[1])
		}
		return err
	}

	out := cmd.OutOrStdout()
	if queryFormat == "json" {
		return printJSON(out, res)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", res.ID)
	fmt.Fprintf(w, "Type:\t%s\n", res.Type)
	for _, key := range sortedKeys(res.Attributes) {
		fmt.Fprintf(w, "%s:\t%v\n", key, res.Attributes[key])
	}

	relKeys := make([]string, 0, len(res.Relationships))
	for key := range res.Relationships {
		relKeys = append(relKeys, key)
	}
	sort.Strings(relKeys)
	for _, key := range relKeys {
		ids, err := res.Relationships[key].Identifiers()
		if err != nil {
			return fmt.Errorf("failed to decode relationship %s: %w", key, err)
		}
		refs := make([]string, 0, len(ids))
		for _, id := range ids {
			refs = append(refs, id.Type+"/"+id.ID)
		}
		fmt.Fprintf(w, "%s:\t[%s]\n", key, strings.Join(refs, ", "))
	}
	return w.Flush()
}

func runRelated(cmd *cobra.Command, args []string) error {
	c, ctx, cancel, err := newQueryClient()
	if err != nil {
		return err
	}
	defer cancel()

	resources, err := c.Related(ctx, args[0], args[1], args[2])
	if err != nil {
		return fmt.Errorf("failed to follow %s: %w", args[2], err)
	}
	return printResources(cmd.OutOrStdout(), resources)
}

func printResources(out io.Writer, resources []client.Resource) error {
	if queryFormat == "json" {
		return printJSON(out, resources)
	}

	if len(resources) == 0 {
		fmt.Fprintln(out, "No resources found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tATTRIBUTES")
	for _, res := range resources {
		parts := make([]string, 0, len(res.Attributes))
		for _, key := range sortedKeys(res.Attributes) {
			parts = append(parts, fmt.Sprintf("%s=%v", key, res.Attributes[key]))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", res.ID, res.Type, strings.Join(parts, " "))
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal: %d resources\n", len(resources))
	return nil
}

func printJSON(out io.Writer, v interface{}) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func sortedKeys(attrs client.Attributes) []string {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
