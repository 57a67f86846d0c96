package api25

import (
	"context"
	"fmt"
	"strings"

	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/ishfields"
	"github.com/rws/go-ishremote/ishobjects"
	"github.com/rws/go-ishremote/soap"
)

// BaseFolder is the root a folder path is resolved from.
type BaseFolder string

const (
	BaseFolderData           BaseFolder = "Data"
	BaseFolderSystem         BaseFolder = "System"
	BaseFolderFavorites      BaseFolder = "Favorites"
	BaseFolderEditorTemplate BaseFolder = "EditorTemplate"
)

// PathSeparator joins folder names in Folder.Path.
const PathSeparator = `\`

// Folder is the Folder25 service.
type Folder struct{ c *Client }

var folderTypes = []enums.ISHType{enums.ISHFolder}

// SplitPath splits a folder path on either slash, dropping empty names.
func SplitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '\\' || r == '/' })
}

// folderRequested always asks for FNAME, which the paths are built from.
func (f *Folder) folderRequested(requested *ishfields.Fields) (string, error) {
	fields := requested.Clone()
	fields.AddOrUpdate(ishfields.NewRequestedField("FNAME", enums.LevelNone, enums.ValueTypeValue), enums.ActionRead)
	return f.c.requested(folderTypes, fields)
}

func (f *Folder) callFolders(ctx context.Context, req *soap.Request) (ishobjects.Folders, error) {
	out, err := f.c.call(ctx, req, req.Operation+"Result")
	if err != nil {
		return nil, err
	}
	folders, err := ishobjects.ParseFolders(out)
	if err != nil {
		return nil, fmt.Errorf("Folder25.%s: %w", req.Operation, err)
	}
	return folders, nil
}

// GetMetadata returns the folder at path below base.
func (f *Folder) GetMetadata(ctx context.Context, base BaseFolder, path string, requested *ishfields.Fields) (ishobjects.Folder, error) {
	if base == "" {
		base = BaseFolderData
	}
	names := SplitPath(path)
	rx, err := f.folderRequested(requested)
	if err != nil {
		return ishobjects.Folder{}, err
	}
	folders, err := f.callFolders(ctx, soap.NewRequest(soap.ServiceFolder, "GetMetadata").
		With("baseFolder", string(base)).
		With("folderPath", names).
		With("xmlRequestedMetadata", rx))
	if err != nil {
		return ishobjects.Folder{}, err
	}
	if len(folders) == 0 {
		return ishobjects.Folder{}, fmt.Errorf("Folder25.GetMetadata %s: %w", path, ErrNotFound)
	}
	folder := folders[0]
	folder.Path = PathSeparator + strings.Join(names, PathSeparator)
	return folder, nil
}

// GetMetadataByIshFolderRef returns the folder with reference ref. Its
// Path is left empty.
func (f *Folder) GetMetadataByIshFolderRef(ctx context.Context, ref int64, requested *ishfields.Fields) (ishobjects.Folder, error) {
	rx, err := f.folderRequested(requested)
	if err != nil {
		return ishobjects.Folder{}, err
	}
	folders, err := f.callFolders(ctx, soap.NewRequest(soap.ServiceFolder, "GetMetadataByIshFolderRef").
		With("folderId", ref).
		With("xmlRequestedMetadata", rx))
	if err != nil {
		return ishobjects.Folder{}, err
	}
	if len(folders) == 0 {
		return ishobjects.Folder{}, fmt.Errorf("Folder25.GetMetadataByIshFolderRef %d: %w", ref, ErrNotFound)
	}
	return folders[0], nil
}

// GetSubFolders walks the tree below parent. Depth 1 returns the direct
// children only, depth 0 or less walks the whole tree. Folders come back
// depth first, every folder followed by its own subfolders.
func (f *Folder) GetSubFolders(ctx context.Context, parent ishobjects.Folder, depth int, requested *ishfields.Fields) (ishobjects.Folders, error) {
	rx, err := f.folderRequested(requested)
	if err != nil {
		return nil, err
	}
	var out ishobjects.Folders
	if err := f.walk(ctx, parent, depth, rx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *Folder) walk(ctx context.Context, parent ishobjects.Folder, depth int, rx string, out *ishobjects.Folders) error {
	children, err := f.callFolders(ctx, soap.NewRequest(soap.ServiceFolder, "GetSubFoldersByIshFolderRef").
		With("folderId", parent.IshFolderRef).
		With("xmlRequestedMetadata", rx))
	if err != nil {
		return err
	}
	f.c.logger.Debug("api25: subfolders", "folder_ref", parent.IshFolderRef, "count", len(children), "depth", depth)
	for _, child := range children {
		child.Path = strings.TrimSuffix(parent.Path, PathSeparator) + PathSeparator + child.Name()
		*out = append(*out, child)
		if depth == 1 {
			continue
		}
		if err := f.walk(ctx, child, depth-1, rx, out); err != nil {
			return err
		}
	}
	return nil
}

// GetContents returns the document objects in folder ref, with their
// metadata. languages restricts the language cards, empty means all.
func (f *Folder) GetContents(ctx context.Context, ref int64, versions enums.VersionFilter, languages []string, requested *ishfields.Fields) (ishobjects.Objects, error) {
	out, err := f.c.call(ctx, soap.NewRequest(soap.ServiceFolder, "GetContents").
		With("folderId", ref).
		With("versionFilter", string(versions)).
		With("languagesFilter", languages), "GetContentsResult")
	if err != nil {
		return nil, err
	}
	cards, err := ishobjects.ParseObjects(out)
	if err != nil {
		return nil, fmt.Errorf("Folder25.GetContents: %w", err)
	}
	if len(cards) == 0 {
		return nil, nil
	}

	docs := f.c.DocumentObj()
	if cards[0].LngRef != 0 {
		return docs.RetrieveMetadataByIshLngRefs(ctx, cards.LngRefs(), requested)
	}
	return docs.RetrieveMetadata(ctx, cards.IshRefs(), enums.StatusNoFilter, nil, requested)
}

// Create adds a folder below parentRef and returns it.
func (f *Folder) Create(ctx context.Context, parentRef int64, folderType enums.FolderType, name, ownedBy string, readAccess []string, requested *ishfields.Fields) (ishobjects.Folder, error) {
	if strings.TrimSpace(name) == "" {
		return ishobjects.Folder{}, fmt.Errorf("Folder25.Create: folder name is required")
	}
	resp, err := f.c.caller.Call(ctx, soap.NewRequest(soap.ServiceFolder, "Create").
		With("parentFolderId", parentRef).
		With("folderType", string(folderType)).
		With("folderName", name).
		With("ownedBy", ownedBy).
		With("readAccess", readAccess))
	if err != nil {
		return ishobjects.Folder{}, err
	}
	ref, err := resp.Int64("CreateResult")
	if err != nil {
		return ishobjects.Folder{}, fmt.Errorf("Folder25.Create: %w", err)
	}
	return f.GetMetadataByIshFolderRef(ctx, ref, requested)
}

// Delete removes an empty folder.
func (f *Folder) Delete(ctx context.Context, ref int64) error {
	_, err := f.c.caller.Call(ctx, soap.NewRequest(soap.ServiceFolder, "Delete").With("folderId", ref))
	return err
}

// Move moves folder ref below toRef.
func (f *Folder) Move(ctx context.Context, ref, toRef int64) error {
	_, err := f.c.caller.Call(ctx, soap.NewRequest(soap.ServiceFolder, "Move").
		With("folderId", ref).
		With("toFolderId", toRef))
	return err
}

// Rename changes the FNAME of folder ref.
func (f *Folder) Rename(ctx context.Context, ref int64, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("Folder25.Rename: folder name is required")
	}
	_, err := f.c.caller.Call(ctx, soap.NewRequest(soap.ServiceFolder, "Rename").
		With("folderId", ref).
		With("newFolderName", name))
	return err
}
