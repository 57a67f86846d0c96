package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rws/go-ishremote/api25"
	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/ishfields"
	"github.com/rws/go-ishremote/ishobjects"
)

// folderRef resolves a folder given as a path below base or as a
// numeric ishfolderref.
func folderRef(ctx context.Context, f *api25.Folder, base, arg string, requested *ishfields.Fields) (ishobjects.Folder, error) {
	if ref, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return f.GetMetadataByIshFolderRef(ctx, ref, requested)
	}
	return f.GetMetadata(ctx, api25.BaseFolder(base), arg, requested)
}

func newFolderCmd(a *app) *cobra.Command {
	var base string
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Read and change repository folders",
		Long: `Read and change repository folders. A folder is given either as a
path below --base, with \ or / between names, or as its ishfolderref.`,
	}
	cmd.PersistentFlags().StringVar(&base, "base", string(api25.BaseFolderData), "base folder: Data, System, Favorites, EditorTemplate")

	cmd.AddCommand(
		newFolderGetCmd(a, &base),
		newFolderContentCmd(a, &base),
		newFolderAddCmd(a, &base),
		newFolderRemoveCmd(a, &base),
		newFolderMoveCmd(a, &base),
		newFolderRenameCmd(a, &base),
	)
	return cmd
}

func newFolderGetCmd(a *app, base *string) *cobra.Command {
	var (
		fa    fieldArgs
		depth int
	)
	cmd := &cobra.Command{
		Use:   "get <folder>",
		Short: "Show a folder, or its subfolders with --depth",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			requested, err := fa.requestedFields(enums.LevelNone)
			if err != nil {
				return err
			}
			folders := s.API().Folder()
			parent, err := folderRef(ctx, folders, *base, args[0], requested)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("depth") {
				return renderPairs(a.out, a.flags.output, parent.Properties())
			}
			subs, err := folders.GetSubFolders(ctx, parent, depth, requested)
			if err != nil {
				return err
			}
			return render(a.out, a.flags.output, folderRecords(subs))
		},
	}
	fa.addRequestedFlag(cmd)
	cmd.Flags().IntVar(&depth, "depth", 1, "list subfolders this deep, 0 for the whole tree")
	return cmd
}

func newFolderContentCmd(a *app, base *string) *cobra.Command {
	var (
		fa        fieldArgs
		latest    bool
		languages []string
	)
	cmd := &cobra.Command{
		Use:   "content <folder>",
		Short: "List the document objects in a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			requested, err := fa.requestedFields(enums.LevelLng)
			if err != nil {
				return err
			}
			folders := s.API().Folder()
			f, err := folderRef(ctx, folders, *base, args[0], nil)
			if err != nil {
				return err
			}
			versions := enums.VersionFilterAll
			if latest {
				versions = enums.VersionFilterLatest
			}
			objs, err := folders.GetContents(ctx, f.IshFolderRef, versions, languages, requested)
			if err != nil {
				return err
			}
			return render(a.out, a.flags.output, objectRecords(objs))
		},
	}
	fa.addRequestedFlag(cmd)
	cmd.Flags().BoolVar(&latest, "latest", false, "only the latest versions")
	cmd.Flags().StringSliceVar(&languages, "lng", nil, "only these languages")
	return cmd
}

func newFolderAddCmd(a *app, base *string) *cobra.Command {
	var (
		folderType string
		ownedBy    string
		readAccess []string
	)
	cmd := &cobra.Command{
		Use:   "add <parent> <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := enums.ParseFolderType(folderType)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			folders := s.API().Folder()
			parent, err := folderRef(ctx, folders, *base, args[0], nil)
			if err != nil {
				return err
			}
			f, err := folders.Create(ctx, parent.IshFolderRef, ft, args[1], ownedBy, readAccess, nil)
			if err != nil {
				return err
			}
			return renderPairs(a.out, a.flags.output, f.Properties())
		},
	}
	cmd.Flags().StringVar(&folderType, "type", string(enums.FolderModule), "folder type, e.g. ISHModule, ISHMasterDoc, ISHLibrary, ISHNone")
	cmd.Flags().StringVar(&ownedBy, "owned-by", "", "owning user group")
	cmd.Flags().StringSliceVar(&readAccess, "read-access", nil, "user groups with read access")
	return cmd
}

func newFolderRemoveCmd(a *app, base *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <folder>",
		Short: "Delete an empty folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			folders := s.API().Folder()
			f, err := folderRef(ctx, folders, *base, args[0], nil)
			if err != nil {
				return err
			}
			if err := folders.Delete(ctx, f.IshFolderRef); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removed folder %d\n", f.IshFolderRef)
			return nil
		},
	}
}

func newFolderMoveCmd(a *app, base *string) *cobra.Command {
	return &cobra.Command{
		Use:   "move <folder> <new-parent>",
		Short: "Move a folder below another folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			folders := s.API().Folder()
			f, err := folderRef(ctx, folders, *base, args[0], nil)
			if err != nil {
				return err
			}
			to, err := folderRef(ctx, folders, *base, args[1], nil)
			if err != nil {
				return err
			}
			if err := folders.Move(ctx, f.IshFolderRef, to.IshFolderRef); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Moved folder %d below %d\n", f.IshFolderRef, to.IshFolderRef)
			return nil
		},
	}
}

func newFolderRenameCmd(a *app, base *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <folder> <new-name>",
		Short: "Rename a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.session(ctx)
			if err != nil {
				return err
			}
			folders := s.API().Folder()
			f, err := folderRef(ctx, folders, *base, args[0], nil)
			if err != nil {
				return err
			}
			if err := folders.Rename(ctx, f.IshFolderRef, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Renamed folder %d to %q\n", f.IshFolderRef, args[1])
			return nil
		},
	}
}
