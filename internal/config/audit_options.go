// internal/config/audit_options.go
//
// Options for the optional on-disk audit trail, additive to the
// in-memory release state machine's event journal.

package config

// AuditOptions returns configuration options for the lumberjack-backed
// audit log.
func AuditOptions() []ConfigOption {
	return []ConfigOption{
		{
			Key:          "audit.enabled",
			DefaultValue: true,
			Description:  "Append every release state transition to a rotated audit log under .arm/",
			Type:         "bool",
			Required:     false,
			Example:      "false",
		},
		{
			Key:          "audit.max_size_mb",
			DefaultValue: 10,
			Description:  "Maximum size in megabytes of the audit log before it is rotated",
			Type:         "int",
			Required:     false,
			Example:      "25",
		},
		{
			Key:          "audit.max_backups",
			DefaultValue: 3,
			Description:  "Number of rotated audit log backups to retain",
			Type:         "int",
			Required:     false,
			Example:      "5",
		},
	}
}
