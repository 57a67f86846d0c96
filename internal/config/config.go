// Package config resolves the connection settings of the ishremote
// command from defaults, a YAML profiles file and ISH_* environment
// variables, in that order. Command line flags are applied last by the
// command itself.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rws/go-ishremote/enums"
)

// Profile holds the settings of one server connection.
type Profile struct {
	WSURL    string `yaml:"ws_url" env:"ISH_WS_BASE_URL" validate:"required,url"`
	Auth     string `yaml:"auth" env:"ISH_AUTH" validate:"required,oneof=basic ntlm negotiate kerberos clientcredentials"`
	Username string `yaml:"username,omitempty" env:"ISH_USERNAME"`
	Password string `yaml:"password,omitempty" env:"ISH_PASSWORD"`
	Domain   string `yaml:"domain,omitempty" env:"ISH_DOMAIN"`

	ClientID     string `yaml:"client_id,omitempty" env:"ISH_CLIENT_ID" validate:"required_if=Auth clientcredentials"`
	ClientSecret string `yaml:"client_secret,omitempty" env:"ISH_CLIENT_SECRET"`

	Realm     string `yaml:"realm,omitempty" env:"ISH_KRB5_REALM"`
	Krb5Conf  string `yaml:"krb5_conf,omitempty" env:"ISH_KRB5_CONFIG"`
	Keytab    string `yaml:"keytab,omitempty" env:"ISH_KRB5_KEYTAB"`
	CCache    string `yaml:"ccache,omitempty" env:"ISH_KRB5_CCACHE"`
	TargetSPN string `yaml:"spn,omitempty" env:"ISH_KRB5_SPN"`
	SSO       bool   `yaml:"sso,omitempty" env:"ISH_SSO"`

	Timeout  time.Duration `yaml:"timeout,omitempty" env:"ISH_TIMEOUT" validate:"min=0"`
	Insecure bool          `yaml:"insecure,omitempty" env:"ISH_INSECURE"`
	Proxy    string        `yaml:"proxy,omitempty" env:"ISH_PROXY"`

	StrictMetadata    string `yaml:"strict_metadata,omitempty" env:"ISH_STRICT_METADATA" validate:"strictmetadata"`
	RequestedMetadata string `yaml:"requested_metadata,omitempty" env:"ISH_REQUESTED_METADATA" validate:"requestedmetadata"`
	MetadataBatchSize int    `yaml:"metadata_batch_size,omitempty" env:"ISH_METADATA_BATCH_SIZE" validate:"min=1,max=999"`
	BlobBatchSize     int    `yaml:"blob_batch_size,omitempty" env:"ISH_BLOB_BATCH_SIZE" validate:"min=1,max=999"`
	Parallelism       int    `yaml:"parallelism,omitempty" env:"ISH_PARALLELISM" validate:"min=1,max=32"`

	LogLevel string `yaml:"log_level,omitempty" env:"ISH_LOG_LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	LogFile  string `yaml:"log_file,omitempty" env:"ISH_LOG_FILE"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Profile {
	return Profile{
		Auth:              "ntlm",
		Timeout:           100 * time.Second,
		StrictMetadata:    "Continue",
		RequestedMetadata: "Basic",
		MetadataBatchSize: 999,
		BlobBatchSize:     50,
		Parallelism:       4,
	}
}

// File is the profiles file.
type File struct {
	DefaultProfile string               `yaml:"default_profile,omitempty"`
	Profiles       map[string]yaml.Node `yaml:"profiles,omitempty"`
}

// DefaultPath returns $XDG_CONFIG_HOME/ishremote/config.yaml or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return filepath.Join(dir, "ishremote", "config.yaml"), nil
}

// LoadFile reads a profiles file. A missing file is an empty one.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &f, nil
}

// Apply decodes profile name over p. An empty name selects the default
// profile; it is not an error for the file to have none.
func (f *File) Apply(name string, p *Profile) error {
	explicit := name != ""
	if !explicit {
		name = f.DefaultProfile
	}
	if name == "" {
		return nil
	}
	node, ok := f.Profiles[name]
	if !ok {
		if explicit || f.DefaultProfile != "" {
			return fmt.Errorf("config: unknown profile %q", name)
		}
		return nil
	}
	if err := node.Decode(p); err != nil {
		return fmt.Errorf("config: profile %q: %w", name, err)
	}
	return nil
}

// Load resolves the settings of profile from the file at path and the
// environment. An empty path uses DefaultPath.
func Load(path, profile string) (Profile, error) {
	p := Defaults()
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return Profile{}, err
		}
	}
	f, err := LoadFile(path)
	if err != nil {
		return Profile{}, err
	}
	if err := f.Apply(profile, &p); err != nil {
		return Profile{}, err
	}
	if err := env.Parse(&p); err != nil {
		return Profile{}, fmt.Errorf("config: parse env: %w", err)
	}
	return p, nil
}

var validate = newValidator()

// newValidator adds the enum tags, which accept any letter case as the
// enums package does.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("strictmetadata", func(fl validator.FieldLevel) bool {
		_, err := enums.ParseStrictMetadataPreference(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("requestedmetadata", func(fl validator.FieldLevel) bool {
		_, err := enums.ParseRequestedMetadataGroup(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the profile.
func (p Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s fails %q validation (value %v)", fe.Field(), fe.Tag(), redact(fe.Field(), fe.Value()))
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func redact(field string, v any) any {
	switch field {
	case "Password", "ClientSecret":
		return "[REDACTED]"
	}
	return v
}

// Save writes p as profile name into the file at path, creating it when
// needed. Secrets are not written.
func Save(path, name string, p Profile, makeDefault bool) error {
	f, err := LoadFile(path)
	if err != nil {
		return err
	}
	p.Password, p.ClientSecret = "", ""

	var node yaml.Node
	if err := node.Encode(p); err != nil {
		return fmt.Errorf("config: encode profile: %w", err)
	}
	if f.Profiles == nil {
		f.Profiles = map[string]yaml.Node{}
	}
	f.Profiles[name] = node
	if makeDefault || f.DefaultProfile == "" {
		f.DefaultProfile = name
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("config: encode file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
