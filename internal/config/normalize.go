package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeConversion()
	c.normalizeOrganization()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.VaultDir, err = expandPath(c.Paths.VaultDir); err != nil {
		return fmt.Errorf("paths.vault_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeConversion() {
	c.Conversion.AttachmentFolder = strings.Trim(strings.TrimSpace(c.Conversion.AttachmentFolder), "/")
	if c.Conversion.AttachmentFolder == "" {
		c.Conversion.AttachmentFolder = defaultAttachmentFolder
	}
	c.Conversion.DateFormat = strings.TrimSpace(c.Conversion.DateFormat)
	if c.Conversion.DateFormat == "" {
		c.Conversion.DateFormat = defaultDateFormat
	}
	c.Conversion.SourceLabel = strings.TrimSpace(c.Conversion.SourceLabel)
	if c.Conversion.SourceLabel == "" {
		c.Conversion.SourceLabel = defaultSourceLabel
	}
}

func (c *Config) normalizeOrganization() {
	c.Organization.Mode = strings.ToLower(strings.TrimSpace(c.Organization.Mode))
	if c.Organization.Mode == "" {
		c.Organization.Mode = defaultOrganizationMode
	}
	c.Organization.DateFolderFormat = strings.TrimSpace(c.Organization.DateFolderFormat)
	if c.Organization.DateFolderFormat == "" {
		c.Organization.DateFolderFormat = defaultDateFolderFormat
	}
	c.Organization.CollisionPolicy = strings.ToLower(strings.TrimSpace(c.Organization.CollisionPolicy))
	if c.Organization.CollisionPolicy == "" {
		c.Organization.CollisionPolicy = defaultCollisionPolicy
	}
	if c.Organization.MaxFilenameLength <= 0 {
		c.Organization.MaxFilenameLength = defaultMaxFilenameLength
	}
	if c.Organization.SanitizePlaceholder == "" {
		c.Organization.SanitizePlaceholder = defaultSanitizePlaceholder
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
