package config

import (
	"fmt"
	"log/slog"

	"github.com/rws/go-ishremote/auth"
	"github.com/rws/go-ishremote/enums"
	"github.com/rws/go-ishremote/session"
)

// SessionConfig converts a validated profile into a session.Config.
func (p Profile) SessionConfig(logger *slog.Logger) (session.Config, error) {
	strict, err := enums.ParseStrictMetadataPreference(p.StrictMetadata)
	if err != nil {
		return session.Config{}, fmt.Errorf("config: %w", err)
	}
	group, err := enums.ParseRequestedMetadataGroup(p.RequestedMetadata)
	if err != nil {
		return session.Config{}, fmt.Errorf("config: %w", err)
	}
	return session.Config{
		WSURL: p.WSURL,
		Auth:  auth.Method(p.Auth),
		Credentials: auth.Credentials{
			Username: p.Username,
			Password: p.Password,
			Domain:   p.Domain,
		},
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		Kerberos: auth.KerberosProviderConfig{
			TargetSPN:    p.TargetSPN,
			UseSSO:       p.SSO,
			Realm:        p.Realm,
			Krb5ConfPath: p.Krb5Conf,
			KeytabPath:   p.Keytab,
			CCachePath:   p.CCache,
		},
		Timeout:                p.Timeout,
		InsecureSkipVerify:     p.Insecure,
		Proxy:                  p.Proxy,
		StrictMetadata:         strict,
		RequestedMetadataGroup: group,
		MetadataBatchSize:      p.MetadataBatchSize,
		BlobBatchSize:          p.BlobBatchSize,
		Parallelism:            p.Parallelism,
		Logger:                 logger,
	}, nil
}
