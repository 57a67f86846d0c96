package ishobjects

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/ishfields"
)

// Folder is a repository folder.
type Folder struct {
	IshFolderRef int64
	FolderType   enums.FolderType
	Fields       *ishfields.Fields

	// Path is the separator-joined location, filled in by the caller that
	// walked the tree.
	Path string
}

// Folders is an ordered list of folders.
type Folders []Folder

// Name returns the FNAME of the folder.
func (f Folder) Name() string {
	v, _ := f.Fields.Value("FNAME", enums.LevelNone, enums.ValueTypeValue)
	return v
}

// Properties flattens the folder into a map.
func (f Folder) Properties() map[string]string {
	props := map[string]string{
		"ishfolderref":  strconv.FormatInt(f.IshFolderRef, 10),
		"ishfoldertype": string(f.FolderType),
		"name":          f.Name(),
	}
	if f.Path != "" {
		props["path"] = f.Path
	}
	addFieldProperties(props, f.Fields)
	return props
}

type xmlFolders struct {
	XMLName xml.Name    `xml:"ishfolders"`
	Folders []xmlFolder `xml:"ishfolder"`
}

type xmlFolder struct {
	Ref    string               `xml:"ishfolderref,attr"`
	Type   string               `xml:"ishfoldertype,attr"`
	Fields []ishfields.XMLField `xml:"ishfields>ishfield"`
}

// ParseFolders reads ishfolders XML.
func ParseFolders(data string) (Folders, error) {
	if strings.TrimSpace(data) == "" {
		return nil, nil
	}
	var doc xmlFolders
	if err := xml.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("parse ishfolders: %w", err)
	}
	out := make(Folders, 0, len(doc.Folders))
	for _, xf := range doc.Folders {
		ref, err := strconv.ParseInt(xf.Ref, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ishfolder reference %q: %w", xf.Ref, err)
		}
		f := Folder{IshFolderRef: ref, FolderType: enums.FolderNone}
		if xf.Type != "" {
			if f.FolderType, err = enums.ParseFolderType(xf.Type); err != nil {
				return nil, fmt.Errorf("ishfolder %d: %w", ref, err)
			}
		}
		if f.Fields, err = ishfields.FromXMLFields(xf.Fields); err != nil {
			return nil, fmt.Errorf("ishfolder %d: %w", ref, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// FolderRefs returns the references of the folders.
func (fs Folders) FolderRefs() []int64 {
	out := make([]int64, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.IshFolderRef)
	}
	return out
}
