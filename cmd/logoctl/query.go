package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"logoobjects/internal/domain"
	"logoobjects/internal/domain/filter"
	"logoobjects/internal/metadata"
)

// queryFlags are the list options shared by compile, search and mirror.
type queryFlags struct {
	filter string
	fields []string
	sort   string
	limit  int
	offset int
	q      string
	count  bool
	expand []string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.filter, "filter", "f", "", `criteria as JSON, e.g. {"code":{"like":"B"}}`)
	flags.StringSliceVar(&f.fields, "fields", nil, "columns to return")
	flags.StringVar(&f.sort, "sort", "", `sort as "CODE desc" or a JSON tuple ["code","desc"]`)
	flags.IntVar(&f.limit, "limit", 0, "page size")
	flags.IntVar(&f.offset, "offset", 0, "records to skip")
	flags.StringVarP(&f.q, "q", "q", "", "raw filter expression; replaces --filter")
	flags.BoolVar(&f.count, "count", false, "ask for the total count")
	flags.StringSliceVar(&f.expand, "expand", nil, "table parts to expand")
}

func (f *queryFlags) criteria() (filter.Criteria, error) {
	return filter.DecodeCriteria([]byte(f.filter))
}

func (f *queryFlags) options() (filter.QueryOptions, error) {
	opts := filter.QueryOptions{
		Fields: f.fields,
		Limit:  f.limit,
		Offset: f.offset,
		Q:      f.q,
		Count:  f.count,
		Expand: f.expand,
	}

	sortSpec := strings.TrimSpace(f.sort)
	switch {
	case sortSpec == "":
	case strings.HasPrefix(sortSpec, "["):
		var tuple []any
		if err := json.Unmarshal([]byte(sortSpec), &tuple); err != nil {
			return opts, fmt.Errorf("invalid --sort: %w", err)
		}
		s, err := filter.ParseSort(tuple)
		if err != nil {
			return opts, err
		}
		opts.Sort = s
	default:
		parsed, err := filter.ParseQueryString("sort=" + url.QueryEscape(sortSpec))
		if err != nil {
			return opts, err
		}
		opts.Sort = parsed.Sort
	}
	return opts, nil
}

func newCompileCommand(a *app) *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "compile [entity]",
		Short: "Compile criteria and options into a query string without calling the API",
		Example: `  logoctl compile --filter '{"code":{"like":"B"},"cardType":1}'
  logoctl compile items --filter '{"code":{"in":["A","B"]}}' --sort '["code","desc"]' --limit 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := qf.criteria()
			if err != nil {
				return err
			}
			opts, err := qf.options()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var resolver filter.FieldResolver
			var path string
			if len(args) == 1 {
				def, err := a.entity(args[0])
				if err != nil {
					return err
				}
				resolver = def.Resolver()
				if path, err = domain.NewEntityClient[domain.Record](nil, def).SearchPath(criteria, opts); err != nil {
					return err
				}
			}

			if opts.Q == "" {
				if opts.Q, err = filter.BuildSearchQuery(criteria, resolver); err != nil {
					return err
				}
			}
			qs, err := filter.BuildQueryString(opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "q:     %s\n", opts.Q)
			fmt.Fprintf(out, "query: %s\n", qs)
			if path != "" {
				fmt.Fprintf(out, "path:  %s\n", path)
			}
			return nil
		},
	}
	qf.register(cmd)
	return cmd
}

func newEntitiesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "entities [entity]",
		Short: "List known entities, or show the fields and actions of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			if len(args) == 0 {
				fmt.Fprintln(w, "NAME\tPATH\tFIELDS\tACTIONS")
				for _, def := range a.registry.List() {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", def.Name, def.Path, len(def.Fields), actionNames(def))
				}
				return nil
			}

			def, err := a.entity(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s (/%s)\n\n", def.Name, def.Path)
			fmt.Fprintln(w, "FIELD\tCOLUMN\tTYPE")
			for _, field := range def.Fields {
				fmt.Fprintf(w, "%s\t%s\t%s\n", field.Name, field.Column, field.Type)
			}
			if len(def.Actions) > 0 {
				fmt.Fprintln(w, "\nACTION\tMETHOD\tSCOPE\tPARAMS")
				for _, action := range def.Actions {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", action.Name, action.Method, action.Scope, strings.Join(action.Params, ","))
				}
			}
			return nil
		},
	}
}

func actionNames(def metadata.EntityDef) string {
	if len(def.Actions) == 0 {
		return "-"
	}
	names := make([]string, len(def.Actions))
	for i, action := range def.Actions {
		names[i] = action.Name
	}
	return strings.Join(names, ",")
}
