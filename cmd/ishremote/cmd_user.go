package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rws/go-ishremote/enums"
)

// activityFlag parses --activity, empty meaning no filter.
func activityFlag(s string) (enums.ActivityFilter, error) {
	if s == "" {
		return enums.ActivityNone, nil
	}
	return enums.ParseActivityFilter(s)
}

func newUserRoleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "userrole",
		Short: "Read and change user roles",
	}

	var (
		findArgs fieldArgs
		activity string
	)
	find := &cobra.Command{
		Use:   "find",
		Short: "List user roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			af, err := activityFlag(activity)
			if err != nil {
				return err
			}
			filter, err := findArgs.filterFields(enums.LevelNone)
			if err != nil {
				return err
			}
			requested, err := findArgs.requestedFields(enums.LevelNone)
			if err != nil {
				return err
			}
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			objs, err := s.API().UserRole().Find(cmd.Context(), af, filter, requested)
			if err != nil {
				return err
			}
			return render(a.out, a.flags.output, objectRecords(objs))
		},
	}
	findArgs.addFilterFlag(find)
	findArgs.addRequestedFlag(find)
	find.Flags().StringVar(&activity, "activity", "", "None, Active or Inactive")

	var getArgs fieldArgs
	get := &cobra.Command{
		Use:   "get <id>...",
		Short: "Show user roles by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requested, err := getArgs.requestedFields(enums.LevelNone)
			if err != nil {
				return err
			}
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			objs, err := s.API().UserRole().RetrieveMetadata(cmd.Context(), args, enums.ActivityNone, nil, requested)
			if err != nil {
				return err
			}
			return render(a.out, a.flags.output, objectRecords(objs))
		},
	}
	getArgs.addRequestedFlag(get)

	var addArgs fieldArgs
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a user role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			metadata, err := addArgs.metadataFields(enums.LevelNone, enums.ActionCreate)
			if err != nil {
				return err
			}
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			obj, err := s.API().UserRole().Create(cmd.Context(), args[0], metadata, nil)
			if err != nil {
				return err
			}
			return renderPairs(a.out, a.flags.output, obj.Properties())
		},
	}
	addArgs.addMetadataFlag(add)

	var setArgs fieldArgs
	set := &cobra.Command{
		Use:   "set <id> -m FIELD=value...",
		Short: "Update a user role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			metadata, err := setArgs.metadataFields(enums.LevelNone, enums.ActionUpdate)
			if err != nil {
				return err
			}
			if metadata.Len() == 0 {
				return fmt.Errorf("nothing to set, pass fields with --metadata")
			}
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			obj, err := s.API().UserRole().Update(cmd.Context(), args[0], metadata, nil)
			if err != nil {
				return err
			}
			return renderPairs(a.out, a.flags.output, obj.Properties())
		},
	}
	setArgs.addMetadataFlag(set)

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a user role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.API().UserRole().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removed user role %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(find, get, add, set, remove)
	return cmd
}

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Read users",
	}

	var meArgs fieldArgs
	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			requested, err := meArgs.requestedFields(enums.LevelNone)
			if err != nil {
				return err
			}
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			obj, err := s.API().User().GetMyMetadata(cmd.Context(), requested)
			if err != nil {
				return err
			}
			return renderPairs(a.out, a.flags.output, obj.Properties())
		},
	}
	meArgs.addRequestedFlag(whoami)

	var (
		findArgs fieldArgs
		activity string
	)
	find := &cobra.Command{
		Use:   "find",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			af, err := activityFlag(activity)
			if err != nil {
				return err
			}
			filter, err := findArgs.filterFields(enums.LevelNone)
			if err != nil {
				return err
			}
			requested, err := findArgs.requestedFields(enums.LevelNone)
			if err != nil {
				return err
			}
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			objs, err := s.API().User().Find(cmd.Context(), af, filter, requested)
			if err != nil {
				return err
			}
			return render(a.out, a.flags.output, objectRecords(objs))
		},
	}
	findArgs.addFilterFlag(find)
	findArgs.addRequestedFlag(find)
	find.Flags().StringVar(&activity, "activity", "", "None, Active or Inactive")

	cmd.AddCommand(whoami, find)
	return cmd
}
