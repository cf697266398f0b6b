// Package config loads and validates the transform-configuration file
// (spec.md §6.2): the declarative mapping from curated trial keys to
// document-store fields that pkg/matchengine's CriteriaTranslator runs
// against: a struct-tagged YAML document with environment-variable
// overrides, trimmed to the one concern this module needs.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// KeySetting is one entry of a trial_key_mappings table: how a single
// curated trial key should be turned into document-store predicates.
// Extra, transform-specific settings ride along in Extra (spec.md §4.5:
// "arbitrary additional keys passed through to the transform function").
type KeySetting struct {
	Ignore      bool                   `yaml:"ignore"`
	SampleValue string                 `yaml:"sample_value"`
	Extra       map[string]interface{} `yaml:",inline"`
}

// CollectionMapping names the join field and projection for one category
// (clinical or genomic) of the two-phase query.
type CollectionMapping struct {
	JoinField  string   `yaml:"join_field"`
	Projection []string `yaml:"projection"`
}

// TransformConfig is the full transform-configuration document (spec.md
// §6.2): per-category key-settings tables, per-category collection
// mappings, and the clinical/genomic field projections.
type TransformConfig struct {
	TrialKeyMappings   map[string]map[string]KeySetting `yaml:"trial_key_mappings"`
	CollectionMappings map[string]CollectionMapping     `yaml:"collection_mappings"`
	ClinicalProjection []string                         `yaml:"clinical_projection"`
	GenomicProjection  []string                         `yaml:"genomic_projection"`
}

// KeySettingFor returns the configured settings for trialKey within
// category, normalizing the lookup to upper case per spec.md §4.5, and
// reports whether an explicit entry exists.
func (c *TransformConfig) KeySettingFor(category, trialKey string) (KeySetting, bool) {
	table, ok := c.TrialKeyMappings[category]
	if !ok {
		return KeySetting{}, false
	}
	setting, ok := table[strings.ToUpper(trialKey)]
	return setting, ok
}

// Mapping returns the collection mapping for category, or the zero value
// if none is configured.
func (c *TransformConfig) Mapping(category string) CollectionMapping {
	return c.CollectionMappings[category]
}

// Load reads and parses a transform-configuration file from path.
func Load(path string) (*TransformConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transform configuration: %w", err)
	}
	cfg := &TransformConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing transform configuration: %w", err)
	}
	if err := ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the structural invariants Load cannot express through
// YAML tags alone: the genomic category must have a join field configured
// before TwoPhaseQueryRunner can build its genomic join clause. Other
// categories are not checked.
func (c *TransformConfig) Validate() error {
	if _, ok := c.CollectionMappings["genomic"]; !ok {
		return fmt.Errorf("transform configuration: collection_mappings.genomic is required")
	}
	if c.CollectionMappings["genomic"].JoinField == "" {
		return fmt.Errorf("transform configuration: collection_mappings.genomic.join_field is required")
	}
	return nil
}

// envPrefix is the environment-variable prefix for configuration
// overrides.
const envPrefix = "MATCHENGINE_"

// ApplyEnvOverrides walks cfg's top-level fields via reflection and
// overrides string-slice, string and bool fields from MATCHENGINE_-prefixed
// environment variables named after the upper-cased field name (e.g.
// MATCHENGINE_CLINICALPROJECTION, comma-separated for slices). The nested
// TrialKeyMappings/CollectionMappings tables are keyed by curation
// vocabulary and are never overridden, so in practice only the
// ClinicalProjection and GenomicProjection lists can be set this way.
func ApplyEnvOverrides(cfg *TransformConfig) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		name := envPrefix + strings.ToUpper(t.Field(i).Name)
		raw, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		switch field.Kind() {
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				field.Set(reflect.ValueOf(strings.Split(raw, ",")))
			}
		case reflect.String:
			field.SetString(raw)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("parsing bool from %s: %w", name, err)
			}
			field.SetBool(b)
		}
	}
	return nil
}
