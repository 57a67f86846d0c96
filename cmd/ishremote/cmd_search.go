package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rws/go-ishremote/api25"
	"github.com/rws/go-ishremote/enums"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		fa          fieldArgs
		types       []string
		languages   []string
		allVersions bool
		maxHits     int
	)
	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Full text search over document objects",
		Long: `Search document objects by text and metadata. Hits are returned in rank
order with the requested metadata of each language card.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := api25.Query{
				Languages:   languages,
				AllVersions: allVersions,
				MaxHits:     maxHits,
			}
			if len(args) == 1 {
				q.Text = strings.TrimSpace(args[0])
			}
			for _, arg := range types {
				t, err := enums.ParseISHType(arg)
				if err != nil {
					return err
				}
				q.ISHTypes = append(q.ISHTypes, t)
			}
			var err error
			if q.Filters, err = fa.filterFields(enums.LevelLng); err != nil {
				return err
			}
			requested, err := fa.requestedFields(enums.LevelLng)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			objs, err := s.API().Search().SearchDocumentObj(ctx, q, requested)
			if err != nil {
				return err
			}
			return render(a.out, a.flags.output, objectRecords(objs))
		},
	}
	fa.addFilterFlag(cmd)
	fa.addRequestedFlag(cmd)
	cmd.Flags().StringSliceVar(&types, "type", nil, "only these ishtypes")
	cmd.Flags().StringSliceVar(&languages, "lng", nil, "only these languages")
	cmd.Flags().BoolVar(&allVersions, "all-versions", false, "include older versions")
	cmd.Flags().IntVar(&maxHits, "max-hits", 100, "maximum number of hits")
	return cmd
}
