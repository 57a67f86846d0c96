package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rws/go-ishremote/api25"
	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/ishfields"
)

// cardFlags address one language card.
type cardFlags struct {
	version    string
	lng        string
	resolution string
}

func (c *cardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.version, "version", "", "version, e.g. 1 or 2.1")
	cmd.Flags().StringVar(&c.lng, "lng", "", "language, e.g. en")
	cmd.Flags().StringVar(&c.resolution, "resolution", "", "resolution of images")
}

func newDocObjCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "docobj",
		Aliases: []string{"documentobj"},
		Short:   "Read and change document objects",
		Long: `Read and change document objects: topics, maps, libraries, images and
templates. Field expressions without [level] apply to the language card.`,
	}
	cmd.AddCommand(
		newDocObjGetCmd(a),
		newDocObjAddCmd(a),
		newDocObjSetCmd(a),
		newDocObjRemoveCmd(a),
	)
	return cmd
}

func newDocObjGetCmd(a *app) *cobra.Command {
	var (
		fa     fieldArgs
		card   cardFlags
		status string
	)
	cmd := &cobra.Command{
		Use:   "get <logical-id>...",
		Short: "Show document objects",
		Long: `Show one language card when --version and --lng are given, otherwise
every card of the given logical ids that passes --status and --filter.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requested, err := fa.requestedFields(enums.LevelLng)
			if err != nil {
				return err
			}
			filter, err := fa.filterFields(enums.LevelLng)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			docs := s.API().DocumentObj()

			if card.version != "" && card.lng != "" {
				if len(args) != 1 {
					return fmt.Errorf("--version and --lng address a single logical id")
				}
				obj, err := docs.GetMetadata(ctx, args[0], card.version, card.lng, card.resolution, filter, requested)
				if err != nil {
					return err
				}
				return renderPairs(a.out, a.flags.output, obj.Properties())
			}

			sf := enums.StatusNoFilter
			if status != "" {
				if sf, err = enums.ParseStatusFilter(status); err != nil {
					return err
				}
			}
			objs, err := docs.RetrieveMetadata(ctx, args, sf, filter, requested)
			if err != nil {
				return err
			}
			return render(a.out, a.flags.output, objectRecords(objs))
		},
	}
	card.register(cmd)
	fa.addRequestedFlag(cmd)
	fa.addFilterFlag(cmd)
	cmd.Flags().StringVar(&status, "status", "", "ISHNoStatusFilter, ISHReleasedStates, ISHReleasedOrDraftStates, ISHOutOfDateOrReleasedStates")
	return cmd
}

func newDocObjAddCmd(a *app) *cobra.Command {
	var (
		fa        fieldArgs
		card      cardFlags
		folder    string
		base      string
		ishType   string
		logicalID string
		file      string
		edt       string
	)
	cmd := &cobra.Command{
		Use:   "add --folder <folder> --type <ishtype> --lng <lng> --file <file>",
		Short: "Create a document object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := enums.ParseISHType(ishType)
			if err != nil {
				return err
			}
			metadata, err := fa.metadataFields(enums.LevelLng, enums.ActionCreate)
			if err != nil {
				return err
			}
			requested, err := fa.requestedFields(enums.LevelLng)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read content: %w", err)
			}
			if edt == "" {
				edt = edtFor(file)
			}

			ctx := cmd.Context()
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			f, err := folderRef(ctx, s.API().Folder(), base, folder, nil)
			if err != nil {
				return err
			}
			obj, err := s.API().DocumentObj().Create(ctx, api25.CreateRequest{
				FolderRef:  f.IshFolderRef,
				IshType:    t,
				LogicalID:  logicalID,
				Version:    card.version,
				Lng:        card.lng,
				Resolution: card.resolution,
				Metadata:   metadata,
				EDT:        edt,
				Data:       data,
			}, requested)
			if err != nil {
				return err
			}
			return renderPairs(a.out, a.flags.output, obj.Properties())
		},
	}
	card.register(cmd)
	fa.addMetadataFlag(cmd)
	fa.addRequestedFlag(cmd)
	cmd.Flags().StringVar(&folder, "folder", "", "target folder path or ishfolderref")
	cmd.Flags().StringVar(&base, "base", string(api25.BaseFolderData), "base folder of --folder")
	cmd.Flags().StringVar(&ishType, "type", "", "ishtype, e.g. ISHModule, ISHMasterDoc, ISHIllustration")
	cmd.Flags().StringVar(&logicalID, "logical-id", "", "logical id, generated when empty")
	cmd.Flags().StringVar(&file, "file", "", "content file")
	cmd.Flags().StringVar(&edt, "edt", "", "electronic document type, derived from the file extension when empty")
	for _, name := range []string{"folder", "type", "lng", "file"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// edtFor maps a file extension to its electronic document type.
func edtFor(path string) string {
	ext := strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "", "XML", "DITA", "DITAMAP":
		return "EDTXML"
	case "JPG":
		return "EDTJPEG"
	case "TXT":
		return "EDTTEXT"
	}
	return "EDT" + ext
}

func newDocObjSetCmd(a *app) *cobra.Command {
	var (
		fa      fieldArgs
		card    cardFlags
		require []string
	)
	cmd := &cobra.Command{
		Use:   "set <logical-id> --version <version> --lng <lng> -m FIELD=value...",
		Short: "Update the metadata of a document object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			metadata, err := fa.metadataFields(enums.LevelLng, enums.ActionUpdate)
			if err != nil {
				return err
			}
			if metadata.Len() == 0 {
				return fmt.Errorf("nothing to set, pass fields with --metadata")
			}
			requiredCurrent, err := ishfields.ParseFilterArgs(require, enums.LevelLng)
			if err != nil {
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
			obj, err := s.API().DocumentObj().SetMetadata(ctx, args[0], card.version, card.lng, card.resolution, metadata, requiredCurrent, requested)
			if err != nil {
				return err
			}
			return renderPairs(a.out, a.flags.output, obj.Properties())
		},
	}
	card.register(cmd)
	fa.addMetadataFlag(cmd)
	fa.addRequestedFlag(cmd)
	cmd.Flags().StringArrayVar(&require, "require", nil, "only update when the card matches, NAME[level][~operator]=value (repeatable)")
	for _, name := range []string{"version", "lng"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newDocObjRemoveCmd(a *app) *cobra.Command {
	var card cardFlags
	cmd := &cobra.Command{
		Use:   "remove <logical-id>",
		Short: "Delete a document object, a version or a language card",
		Long: `Delete the language card given by --version and --lng, the version given
by --version alone, or the whole logical object.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if card.lng != "" && card.version == "" {
				return fmt.Errorf("--lng needs --version")
			}
			ctx := cmd.Context()
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			if err := s.API().DocumentObj().Delete(ctx, args[0], card.version, card.lng, card.resolution, nil); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removed %s\n", strings.Join(nonEmpty(args[0], card.version, card.lng, card.resolution), "="))
			return nil
		},
	}
	card.register(cmd)
	return cmd
}

func nonEmpty(ss ...string) []string {
	out := ss[:0:0]
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
