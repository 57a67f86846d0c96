package main

import (
	"github.com/spf13/cobra"

	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/ishfields"
)

// fieldArgs collects field expressions such as FTITLE[logical]=Intro,
// FAUTHOR[lng].element or FSTATUS~in=Draft from repeatable flags.
type fieldArgs struct {
	metadata  []string
	requested []string
	filter    []string
}

func (f *fieldArgs) addMetadataFlag(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.metadata, "metadata", "m", nil, "field to write, NAME[level][.valuetype]=value (repeatable)")
}

func (f *fieldArgs) addRequestedFlag(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.requested, "requested", "r", nil, "extra field to read, NAME[level][.valuetype] (repeatable)")
}

func (f *fieldArgs) addFilterFlag(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.filter, "filter", "f", nil, "field condition, NAME[level][.valuetype][~operator]=value (repeatable)")
}

func (f *fieldArgs) metadataFields(level enums.Level, mode enums.ActionMode) (*ishfields.Fields, error) {
	return ishfields.ParseFieldArgs(f.metadata, level, mode)
}

func (f *fieldArgs) requestedFields(level enums.Level) (*ishfields.Fields, error) {
	return ishfields.ParseRequestedArgs(f.requested, level)
}

func (f *fieldArgs) filterFields(level enums.Level) (*ishfields.Fields, error) {
	return ishfields.ParseFilterArgs(f.filter, level)
}
