// Package fieldsetup is the client-side field policy engine.
//
// A Setup holds one Definition per ISHType, level and field name, either
// parsed from the server (Settings25.RetrieveFieldSetupByIshType) or
// loaded from the bundled catalog for servers older than 13. Before a
// request is sent, the Setup reshapes the caller's fields for the action
// mode at hand:
//
//   - ToMetadataFields keeps the fields that may be written on Create or Update.
//   - ToRequestedFields adds the default fields of a metadata group and
//     expands ValueTypeAll for Read.
//   - ToFilterFields keeps the searchable fields of a Find or Search.
//
// Fields that do not pass are dropped and logged according to the
// StrictMetadataPreference: at warn level for Continue, at debug level
// for SilentlyContinue. Off skips the definition checks entirely.
package fieldsetup
