package config

const (
	defaultVaultDir            = "~/notemill/vault"
	defaultLogDir              = "~/.local/share/notemill/logs"
	defaultAttachmentFolder    = "attachments"
	defaultDateFormat          = "2006-01-02 15:04:05"
	defaultSourceLabel         = "Evernote"
	defaultOrganizationMode    = "notebook"
	defaultDateFolderFormat    = "2006/01"
	defaultCollisionPolicy     = "rename"
	defaultMaxFilenameLength   = 100
	defaultSanitizePlaceholder = "_"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			VaultDir: defaultVaultDir,
			LogDir:   defaultLogDir,
		},
		Conversion: Conversion{
			AttachmentFolder: defaultAttachmentFolder,
			SaveAttachments:  true,
			DateFormat:       defaultDateFormat,
			SourceLabel:      defaultSourceLabel,
		},
		Metadata: Metadata{
			Title:           true,
			Created:         true,
			Updated:         true,
			Tags:            true,
			Notebook:        true,
			Source:          true,
			Author:          true,
			SourceURL:       true,
			AttachmentCount: true,
		},
		Organization: Organization{
			Mode:                defaultOrganizationMode,
			DateFolderFormat:    defaultDateFolderFormat,
			CollisionPolicy:     defaultCollisionPolicy,
			MaxFilenameLength:   defaultMaxFilenameLength,
			SanitizePlaceholder: defaultSanitizePlaceholder,
			WriteIndex:          true,
		},
		Sync: Sync{
			Enabled:            true,
			ReconcileDeletions: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
