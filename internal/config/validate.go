package config

import (
	"errors"
	"fmt"
	"strings"
)

// Valid organization modes and collision policies.
var (
	organizationModes = map[string]struct{}{
		"notebook": {},
		"tag":      {},
		"date":     {},
		"flat":     {},
	}
	collisionPolicies = map[string]struct{}{
		"rename":    {},
		"skip":      {},
		"overwrite": {},
	}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateConversion(); err != nil {
		return err
	}
	if err := c.validateOrganization(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.VaultDir) == "" {
		return errors.New("paths.vault_dir must be set")
	}
	return nil
}

func (c *Config) validateConversion() error {
	if strings.ContainsAny(c.Conversion.AttachmentFolder, `<>:"\|?*`) {
		return fmt.Errorf("conversion.attachment_folder %q contains invalid characters", c.Conversion.AttachmentFolder)
	}
	return nil
}

func (c *Config) validateOrganization() error {
	if _, ok := organizationModes[c.Organization.Mode]; !ok {
		return fmt.Errorf("organization.mode must be one of notebook, tag, date, flat (got %q)", c.Organization.Mode)
	}
	if _, ok := collisionPolicies[c.Organization.CollisionPolicy]; !ok {
		return fmt.Errorf("organization.collision_policy must be one of rename, skip, overwrite (got %q)", c.Organization.CollisionPolicy)
	}
	if c.Organization.MaxFilenameLength < 16 {
		return errors.New("organization.max_filename_length must be at least 16")
	}
	if strings.ContainsAny(c.Organization.SanitizePlaceholder, `<>:"/\|?*`) {
		return errors.New("organization.sanitize_placeholder must not itself contain invalid characters")
	}
	return nil
}
