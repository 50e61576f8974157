package scaffold

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"reflect"

	"github.com/typeramp/typeramp/internal/models"
)

// artifact is one named configuration entry with a content template and a
// merge policy.
type artifact struct {
	relPath string
	policy  MergePolicy
	content []byte
	mode    fs.FileMode
	// templateOwned lists the JSON keys the template controls across
	// profile changes (merge-keys artifacts only). Owned keys are updated
	// on re-scaffold when the file is still tool-managed; everything else
	// follows the add-only merge rule.
	templateOwned []string
}

// artifactsFor returns the artifact set for a profile, in write order.
func artifactsFor(profile models.Profile) []artifact {
	artifacts := []artifact{
		{
			relPath:       "pyrightconfig.json",
			policy:        PolicyMergeKeys,
			content:       checkerConfig(profile),
			mode:          0o644,
			templateOwned: []string{"typeCheckingMode"},
		},
		{
			relPath: ".typeramp/findings.md",
			policy:  PolicyCreateIfAbsent,
			content: []byte(findingsTemplate),
			mode:    0o644,
		},
		{
			relPath: ".typeramp/hooks/pre-commit",
			policy:  PolicyCreateIfAbsent,
			content: []byte(preCommitHook),
			mode:    0o755,
		},
	}

	for _, rule := range ruleTemplatesFor(profile) {
		artifacts = append(artifacts, artifact{
			relPath: ".typeramp/rules/" + rule.name + ".md",
			policy:  PolicyOverwrite,
			content: []byte(rule.content),
			mode:    0o644,
		})
	}

	return artifacts
}

// checkerConfig renders the pyright configuration template for a profile.
func checkerConfig(profile models.Profile) []byte {
	cfg := map[string]any{
		"typeCheckingMode": string(profile),
		"pythonVersion":    "3.11",
	}
	switch profile {
	case models.ProfileStandard:
		cfg["reportMissingTypeStubs"] = false
	case models.ProfileStrict:
		cfg["reportMissingTypeStubs"] = false
		cfg["reportMissingImports"] = false
	}

	data, _ := json.MarshalIndent(cfg, "", "  ")
	return append(data, '\n')
}

// mergeJSONKeys performs the structural merge for merge-keys artifacts.
//
// Template keys absent from the existing document are added; keys already
// present are left untouched; no key is ever removed. Keys listed in
// templateOwned are additionally updated to the template value, but only
// when toolManaged is true (the on-disk file still matches what this tool
// last wrote); a hand-edited file keeps every value it has.
//
// Returns the merged document and whether anything changed. A merge
// rewrites the document with stable formatting, so user key order is not
// preserved, but user keys and values are.
func mergeJSONKeys(existing, template []byte, templateOwned []string, toolManaged bool) ([]byte, bool, error) {
	var current map[string]any
	if err := json.Unmarshal(existing, &current); err != nil {
		return nil, false, fmt.Errorf("existing file is not a JSON object: %w", err)
	}
	var tmpl map[string]any
	if err := json.Unmarshal(template, &tmpl); err != nil {
		return nil, false, fmt.Errorf("template is not a JSON object: %w", err)
	}

	changed := false
	for key, value := range tmpl {
		if _, present := current[key]; !present {
			current[key] = value
			changed = true
		}
	}

	if toolManaged {
		for _, key := range templateOwned {
			want, inTemplate := tmpl[key]
			if !inTemplate {
				continue
			}
			if !reflect.DeepEqual(current[key], want) {
				current[key] = want
				changed = true
			}
		}
	}

	if !changed {
		return existing, false, nil
	}

	// MarshalIndent sorts map keys, so merged output is reproducible.
	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return nil, false, err
	}
	return append(data, '\n'), true, nil
}
