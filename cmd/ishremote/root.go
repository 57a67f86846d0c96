package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rws/go-ishremote/auth"
	"github.com/rws/go-ishremote/internal/config"
	"github.com/rws/go-ishremote/internal/log"
	"github.com/rws/go-ishremote/session"
)

// flags are the persistent root flags.
type flags struct {
	configFile        string
	profile           string
	wsURL             string
	auth              string
	user              string
	password          string
	domain            string
	clientID          string
	timeout           time.Duration
	insecure          bool
	strictMetadata    string
	requestedMetadata string
	output            string
	logLevel          string
	logFile           string
}

// app carries the state shared by all commands.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	flags   flags
	profile config.Profile
	logger  *slog.Logger
	closers []io.Closer

	sess *session.Session
	// connect is replaced in tests.
	connect func(ctx context.Context, cfg session.Config) (*session.Session, error)
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		in:      in,
		out:     out,
		errOut:  errOut,
		logger:  slog.New(slog.DiscardHandler),
		connect: session.New,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "ishremote",
		Short:         "Manage content on an ISH server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.resolve(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.flags.configFile, "config", "", "profiles file (default $XDG_CONFIG_HOME/ishremote/config.yaml)")
	f.StringVarP(&a.flags.profile, "profile", "p", "", "profile to use from the profiles file")
	f.StringVar(&a.flags.wsURL, "ws-url", "", "web services url, e.g. https://ish.example.com/ISHWS/")
	f.StringVar(&a.flags.auth, "auth", "", "authentication: basic, ntlm, negotiate, kerberos, clientcredentials")
	f.StringVarP(&a.flags.user, "user", "u", "", "user name")
	f.StringVar(&a.flags.password, "password", "", "password (visible in process list, prefer ISH_PASSWORD or the prompt)")
	f.StringVar(&a.flags.domain, "domain", "", "NTLM domain")
	f.StringVar(&a.flags.clientID, "client-id", "", "OAuth client id for clientcredentials")
	f.DurationVar(&a.flags.timeout, "timeout", 0, "timeout of one request")
	f.BoolVar(&a.flags.insecure, "insecure", false, "skip TLS certificate verification")
	f.StringVar(&a.flags.strictMetadata, "strict-metadata", "", "Continue, SilentlyContinue or Off")
	f.StringVar(&a.flags.requestedMetadata, "requested-metadata", "", "Descriptive, Basic or All")
	f.StringVarP(&a.flags.output, "output", "o", "table", "output format: table, json, yaml")
	f.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (default off)")
	f.StringVar(&a.flags.logFile, "log-file", "", "write logs as JSON to this file instead of stderr")

	root.AddCommand(
		newSessionCmd(a),
		newVersionCmd(a),
		newFieldsCmd(a),
		newFolderCmd(a),
		newDocObjCmd(a),
		newSearchCmd(a),
		newUserRoleCmd(a),
		newUserCmd(a),
		newProfileCmd(a),
	)
	return root
}

// resolve merges profile, environment and flags, and sets up logging.
func (a *app) resolve(cmd *cobra.Command) error {
	switch a.flags.output {
	case outputTable, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q", a.flags.output)
	}

	p, err := config.Load(a.flags.configFile, a.flags.profile)
	if err != nil {
		return err
	}
	a.applyFlags(cmd, &p)
	a.profile = p

	logger, closer, err := log.New(log.Options{Level: p.LogLevel, File: p.LogFile, Stderr: a.errOut})
	if err != nil {
		return err
	}
	a.logger = logger
	a.closers = append(a.closers, closer)
	return nil
}

// applyFlags overrides p with the flags given on the command line.
func (a *app) applyFlags(cmd *cobra.Command, p *config.Profile) {
	changed := cmd.Flags().Changed
	if changed("ws-url") {
		p.WSURL = a.flags.wsURL
	}
	if changed("auth") {
		p.Auth = a.flags.auth
	}
	if changed("user") {
		p.Username = a.flags.user
	}
	if changed("password") {
		p.Password = a.flags.password
	}
	if changed("domain") {
		p.Domain = a.flags.domain
	}
	if changed("client-id") {
		p.ClientID = a.flags.clientID
	}
	if changed("timeout") {
		p.Timeout = a.flags.timeout
	}
	if changed("insecure") {
		p.Insecure = a.flags.insecure
	}
	if changed("strict-metadata") {
		p.StrictMetadata = a.flags.strictMetadata
	}
	if changed("requested-metadata") {
		p.RequestedMetadata = a.flags.requestedMetadata
	}
	if changed("log-level") {
		p.LogLevel = a.flags.logLevel
	}
	if changed("log-file") {
		p.LogFile = a.flags.logFile
	}
}

// session connects on first use.
func (a *app) session(ctx context.Context) (*session.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}
	if err := a.profile.Validate(); err != nil {
		return nil, err
	}
	if a.needsPassword() {
		pass, err := a.readPassword()
		if err != nil {
			return nil, err
		}
		a.profile.Password = pass
	}
	cfg, err := a.profile.SessionConfig(a.logger)
	if err != nil {
		return nil, err
	}
	s, err := a.connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.sess = s
	a.closers = append(a.closers, s)
	return s, nil
}

func (a *app) needsPassword() bool {
	p := a.profile
	if p.Password != "" || p.Username == "" {
		return false
	}
	switch auth.Method(p.Auth) {
	case auth.MethodBasic, auth.MethodNTLM:
		return true
	case auth.MethodKerberos, auth.MethodNegotiate:
		return !p.SSO && p.Keytab == "" && p.CCache == ""
	}
	return false
}

// readPassword prompts on the terminal, or reads a line from piped input.
func (a *app) readPassword() (string, error) {
	fmt.Fprintf(a.errOut, "Password for %s: ", a.profile.Username)

	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.errOut)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}
