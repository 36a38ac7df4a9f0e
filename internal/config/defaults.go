// Package config handles the tasksense data directory configuration.
package config

const (
	// DefaultDir is the default data directory name.
	DefaultDir = ".tasksense"
	// DefaultTasksDir is the open-task subdirectory name.
	DefaultTasksDir = "tasks"
	// DefaultArchiveDir is the completed-task subdirectory name.
	DefaultArchiveDir = "archive"
	// DefaultExtractorTimeout bounds one external extractor call.
	DefaultExtractorTimeout = "10s"
	// DefaultSampleLimit bounds observed sample values per field.
	DefaultSampleLimit = 5
	// DefaultSimilarityThreshold gates automatic alias proposals.
	DefaultSimilarityThreshold = 0.8
	// DefaultTemplateMinCount is the repetitions needed to establish a template.
	DefaultTemplateMinCount = 2
	// DefaultStatsWindowDays is the trailing daily-activity window.
	DefaultStatsWindowDays = 14
	// DefaultFocusLimit caps the focus view length.
	DefaultFocusLimit = 10

	// ConfigFileName is the name of the config file within the data directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2
)
