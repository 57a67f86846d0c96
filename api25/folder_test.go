package api25

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/ishfields"
	"github.com/rws/go-ishremote/ishobjects"
	"github.com/rws/go-ishremote/soap"
)

func parseFields(args ...string) (*ishfields.Fields, error) {
	return ishfields.ParseFieldArgs(args, enums.LevelLogical, enums.ActionCreate)
}

func foldersXML(names map[int64]string, refs ...int64) string {
	var b strings.Builder
	b.WriteString("<ishfolders>")
	for _, r := range refs {
		fmt.Fprintf(&b, `<ishfolder ishfolderref="%d" ishfoldertype="ISHModule"><ishfields><ishfield name="FNAME" level="none">%s</ishfield></ishfields></ishfolder>`, r, names[r])
	}
	b.WriteString("</ishfolders>")
	return b.String()
}

// folder tree: 1 Root -> 2 A, 3 B; 2 A -> 4 C
func treeHandler(req *soap.Request) (map[string]string, error) {
	names := map[int64]string{1: "Root", 2: "A", 3: "B", 4: "C"}
	children := map[int64][]int64{1: {2, 3}, 2: {4}}
	switch req.Operation {
	case "GetSubFoldersByIshFolderRef":
		ref := param(req, "folderId").(int64)
		return map[string]string{req.Operation + "Result": foldersXML(names, children[ref]...)}, nil
	case "GetMetadata", "GetMetadataByIshFolderRef":
		return map[string]string{req.Operation + "Result": foldersXML(names, 1)}, nil
	}
	return nil, fmt.Errorf("unexpected %s", req.Operation)
}

func TestFolder_GetMetadata(t *testing.T) {
	c, fc := newTestAPI(t, treeHandler, Preferences{})

	f, err := c.Folder().GetMetadata(context.Background(), "", `\General/Root\`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.IshFolderRef)
	assert.Equal(t, "Root", f.Name())
	assert.Equal(t, `\General\Root`, f.Path)

	req := fc.calls[0]
	assert.Equal(t, "Data", param(req, "baseFolder"))
	assert.Equal(t, []string{"General", "Root"}, param(req, "folderPath"))
	assert.Contains(t, param(req, "xmlRequestedMetadata"), `name="FNAME"`)
}

func TestFolder_GetSubFolders(t *testing.T) {
	root := ishobjects.Folder{IshFolderRef: 1, Path: `\Root`}

	tests := []struct {
		name      string
		depth     int
		wantPaths []string
	}{
		{name: "children only", depth: 1, wantPaths: []string{`\Root\A`, `\Root\B`}},
		{name: "whole tree", depth: 0, wantPaths: []string{`\Root\A`, `\Root\A\C`, `\Root\B`}},
		{name: "two levels", depth: 2, wantPaths: []string{`\Root\A`, `\Root\A\C`, `\Root\B`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestAPI(t, treeHandler, Preferences{})
			folders, err := c.Folder().GetSubFolders(context.Background(), root, tt.depth, nil)
			require.NoError(t, err)

			var paths []string
			for _, f := range folders {
				paths = append(paths, f.Path)
			}
			assert.Equal(t, tt.wantPaths, paths)
		})
	}
}

func TestFolder_GetContents(t *testing.T) {
	c, fc := newTestAPI(t, func(req *soap.Request) (map[string]string, error) {
		switch req.Operation {
		case "GetContents":
			assert.Equal(t, "latest", param(req, "versionFilter"))
			assert.Equal(t, []string{"en"}, param(req, "languagesFilter"))
			return map[string]string{"GetContentsResult": lngObjectsXML(5, 6)}, nil
		case "RetrieveMetadataByIshLngRefs":
			return map[string]string{"RetrieveMetadataByIshLngRefsResult": lngObjectsXML(6, 5)}, nil
		}
		return nil, fmt.Errorf("unexpected %s", req.Operation)
	}, Preferences{})

	objs, err := c.Folder().GetContents(context.Background(), 9, enums.VersionFilterLatest, []string{"en"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6}, objs.LngRefs())
	assert.Equal(t, []string{"Folder25.GetContents", "DocumentObj25.RetrieveMetadataByIshLngRefs"}, fc.operations())
}

func TestFolder_GetContentsByLogicalIDs(t *testing.T) {
	c, _ := newTestAPI(t, func(req *soap.Request) (map[string]string, error) {
		switch req.Operation {
		case "GetContents":
			return map[string]string{"GetContentsResult": `<ishobjects><ishobject ishtype="ISHModule" ishref="GUID-A"/></ishobjects>`}, nil
		case "RetrieveMetadata":
			assert.Equal(t, []string{"GUID-A"}, param(req, "logicalIds"))
			return map[string]string{"RetrieveMetadataResult": objectsXML("ISHModule", "GUID-A")}, nil
		}
		return nil, fmt.Errorf("unexpected %s", req.Operation)
	}, Preferences{})

	objs, err := c.Folder().GetContents(context.Background(), 9, enums.VersionFilterAll, nil, nil)
	require.NoError(t, err)
	require.Len(t, objs, 1)
}

func TestFolder_CreateMoveRenameDelete(t *testing.T) {
	c, fc := newTestAPI(t, func(req *soap.Request) (map[string]string, error) {
		switch req.Operation {
		case "Create":
			assert.Equal(t, "ISHModule", param(req, "folderType"))
			return map[string]string{"CreateResult": "1"}, nil
		case "GetMetadataByIshFolderRef":
			assert.Equal(t, int64(1), param(req, "folderId"))
			return treeHandler(req)
		}
		return map[string]string{}, nil
	}, Preferences{})
	ctx := context.Background()

	f, err := c.Folder().Create(ctx, 100, enums.FolderModule, "Root", "Default Department", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Root", f.Name())

	require.NoError(t, c.Folder().Move(ctx, 1, 200))
	require.NoError(t, c.Folder().Rename(ctx, 1, "Renamed"))
	require.NoError(t, c.Folder().Delete(ctx, 1))
	assert.Error(t, c.Folder().Rename(ctx, 1, " "))

	assert.Equal(t, []string{
		"Folder25.Create", "Folder25.GetMetadataByIshFolderRef",
		"Folder25.Move", "Folder25.Rename", "Folder25.Delete",
	}, fc.operations())
	assert.Equal(t, int64(200), param(fc.calls[2], "toFolderId"))
	assert.Equal(t, "Renamed", param(fc.calls[3], "newFolderName"))
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitPath(`\a/b\\c/`))
	assert.Empty(t, SplitPath(`\`))
}
