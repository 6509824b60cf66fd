package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"logoobjects/internal/domain"
	"logoobjects/internal/domain/filter"
)

func newGetCommand(a *app) *cobra.Command {
	var fields, expand []string

	cmd := &cobra.Command{
		Use:   "get <entity> <id>",
		Short: "Fetch one record by INTERNAL_REFERENCE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.entityClient(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}

			rec, err := client.GetByID(cmd.Context(), id, filter.QueryOptions{Fields: fields, Expand: expand})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "columns to return")
	cmd.Flags().StringSliceVar(&expand, "expand", nil, "table parts to expand")
	return cmd
}

func newSearchCommand(a *app) *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "search <entity>",
		Short: "List records matching criteria",
		Example: `  logoctl search banks --filter '{"code":{"like":"B"}}' --sort 'CODE desc' --limit 5
  logoctl search items -q "CARD_TYPE eq 1" --count`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := qf.criteria()
			if err != nil {
				return err
			}
			opts, err := qf.options()
			if err != nil {
				return err
			}
			client, err := a.entityClient(args[0])
			if err != nil {
				return err
			}

			res, err := client.Search(cmd.Context(), criteria, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	qf.register(cmd)
	return cmd
}

func newInvokeCommand(a *app) *cobra.Command {
	var (
		id     int64
		params []string
		body   string
	)

	cmd := &cobra.Command{
		Use:   "invoke <entity> <action>",
		Short: "Call a remote action declared for the entity",
		Example: `  logoctl invoke items ExportToXML --id 7
  logoctl invoke items SetDefIntValue --id 7 --param CARD_TYPE --param 2
  logoctl invoke salesOrders ApplyCampaign --id 12 --body @order.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.entityClient(args[0])
			if err != nil {
				return err
			}

			var payload any
			if body != "" {
				raw, err := readBody(body)
				if err != nil {
					return err
				}
				if !json.Valid(raw) {
					return fmt.Errorf("--body is not valid JSON")
				}
				payload = json.RawMessage(raw)
			}

			var out []byte
			if err := client.Invoke(cmd.Context(), args[1], id, params, payload, &out); err != nil {
				return err
			}
			if len(out) > 0 {
				w := cmd.OutOrStdout()
				if _, err := w.Write(out); err != nil {
					return err
				}
				if out[len(out)-1] != '\n' {
					fmt.Fprintln(w)
				}
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "record INTERNAL_REFERENCE for record actions")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "positional action parameter, repeatable")
	cmd.Flags().StringVar(&body, "body", "", "JSON request body, or @file to read it from a file")
	return cmd
}

// entityClient builds an untyped client for name over the configured API.
func (a *app) entityClient(name string) (*domain.EntityClient[domain.Record], error) {
	if _, ok := a.registry.Get(name); !ok {
		return nil, fmt.Errorf("unknown entity %q, see logoctl entities", name)
	}
	req, err := a.requester()
	if err != nil {
		return nil, err
	}
	def, err := a.entity(name)
	if err != nil {
		return nil, err
	}
	return domain.NewEntityClient[domain.Record](req, def), nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}

func readBody(arg string) ([]byte, error) {
	if len(arg) > 1 && arg[0] == '@' {
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, fmt.Errorf("read body file: %w", err)
		}
		return data, nil
	}
	return []byte(arg), nil
}
