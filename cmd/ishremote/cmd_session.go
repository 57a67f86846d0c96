package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/fieldsetup"
	"github.com/rws/go-ishremote/internal/config"
)

func newSessionCmd(a *app) *cobra.Command {
	var test bool
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Connect and show the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			r := record{
				"wsurl":          s.WSURL(),
				"serverversion":  s.Version().String(),
				"username":       s.UserName(),
				"sessionid":      s.SessionID(),
				"auth":           a.profile.Auth,
				"strictmetadata": string(s.FieldSetup().StrictMetadataPreference()),
				"fielddefs":      strconv.Itoa(s.FieldSetup().Len()),
			}
			if c := s.ConnectionConfiguration(); c != nil {
				r["authenticationtype"] = c.Issuer.AuthenticationType
				r["issuerurl"] = c.Issuer.URL
			}
			if test {
				if _, err := s.Test(cmd.Context()); err != nil {
					return fmt.Errorf("session test: %w", err)
				}
				r["test"] = "ok"
			}
			return renderPairs(a.out, a.flags.output, r)
		},
	}
	cmd.Flags().BoolVar(&test, "test", false, "round-trip a call to verify the session")
	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	var server bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the client version, and the server version with --server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := record{"client": version}
			if server {
				s, err := a.session(cmd.Context())
				if err != nil {
					return err
				}
				r["server"] = s.Version().String()
			}
			return renderPairs(a.out, a.flags.output, r)
		},
	}
	cmd.Flags().BoolVar(&server, "server", false, "connect and show the server version")
	return cmd
}

func newFieldsCmd(a *app) *cobra.Command {
	var (
		static  bool
		catalog bool
	)
	cmd := &cobra.Command{
		Use:   "fields [ishtype...]",
		Short: "List the field setup",
		Long: `List the field definitions known to the client, for all or the given
ishtypes. Without --static the setup of the connected server is shown.
--catalog writes the definitions in the bundled catalog format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			types := make([]enums.ISHType, 0, len(args))
			for _, arg := range args {
				t, err := enums.ParseISHType(arg)
				if err != nil {
					return err
				}
				types = append(types, t)
			}

			var setup *fieldsetup.Setup
			if static {
				var err error
				if setup, err = fieldsetup.Static(a.logger); err != nil {
					return err
				}
			} else {
				s, err := a.session(cmd.Context())
				if err != nil {
					return err
				}
				setup = s.FieldSetup()
			}

			defs := setup.Definitions(types...)
			if catalog {
				data, err := fieldsetup.MarshalCatalog(defs)
				if err != nil {
					return err
				}
				_, err = a.out.Write(data)
				return err
			}
			recs := make([]record, 0, len(defs))
			for _, d := range defs {
				recs = append(recs, definitionRecord(d))
			}
			return render(a.out, a.flags.output, recs)
		},
	}
	cmd.Flags().BoolVar(&static, "static", false, "use the bundled field setup, no connection needed")
	cmd.Flags().BoolVar(&catalog, "catalog", false, "write the definitions as a YAML catalog")
	return cmd
}

func definitionRecord(d fieldsetup.Definition) record {
	var flags []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{d.IsMandatory, "mandatory"},
		{d.IsMultiValue, "multivalue"},
		{d.AllowOnRead, "read"},
		{d.AllowOnCreate, "create"},
		{d.AllowOnUpdate, "update"},
		{d.AllowOnSearch, "search"},
		{d.IsSystem, "system"},
		{d.IsBasic, "basic"},
		{d.IsDescriptive, "descriptive"},
	} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	r := record{
		"ishtype":  string(d.ISHType),
		"level":    string(d.Level),
		"name":     d.Name,
		"datatype": string(d.DataType),
		"flags":    strings.Join(flags, ","),
	}
	if d.ReferenceLov != "" {
		r["reference"] = d.ReferenceLov
	} else if d.ReferenceType != "" {
		r["reference"] = string(d.ReferenceType)
	}
	return r
}

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or save connection profiles",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved settings",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			p := a.profile
			r := record{
				"ws_url":             p.WSURL,
				"auth":               p.Auth,
				"username":           p.Username,
				"domain":             p.Domain,
				"client_id":          p.ClientID,
				"timeout":            p.Timeout.String(),
				"insecure":           strconv.FormatBool(p.Insecure),
				"strict_metadata":    p.StrictMetadata,
				"requested_metadata": p.RequestedMetadata,
				"metadata_batch":     strconv.Itoa(p.MetadataBatchSize),
				"parallelism":        strconv.Itoa(p.Parallelism),
			}
			return renderPairs(a.out, a.flags.output, r)
		},
	}

	var makeDefault bool
	save := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the resolved settings, without secrets, as a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.profile.Validate(); err != nil {
				return err
			}
			path := a.flags.configFile
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			if err := config.Save(path, args[0], a.profile, makeDefault); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved profile %q to %s\n", args[0], path)
			return nil
		},
	}
	save.Flags().BoolVar(&makeDefault, "default", false, "make it the default profile")

	cmd.AddCommand(show, save)
	return cmd
}
