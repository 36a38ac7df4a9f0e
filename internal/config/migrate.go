package config

import "fmt"

// migrate upgrades older config versions in place. Each step moves the
// config forward exactly one version; Load persists the result.
func migrate(c *Config) error {
	for c.Version < CurrentVersion {
		switch c.Version {
		case 1:
			migrateV1toV2(c)
		default:
			return fmt.Errorf("%w: cannot migrate from version %d", ErrInvalid, c.Version)
		}
	}
	return nil
}

// v1 configs predate the extractor timeout and index tunables.
func migrateV1toV2(c *Config) {
	if c.Extractor.Timeout == "" {
		c.Extractor.Timeout = DefaultExtractorTimeout
	}
	if c.Index.SampleLimit == 0 {
		c.Index.SampleLimit = DefaultSampleLimit
	}
	if c.Index.SimilarityThreshold == 0 {
		c.Index.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if c.Index.TemplateMinCount == 0 {
		c.Index.TemplateMinCount = DefaultTemplateMinCount
	}
	c.Version = 2
}
