// Package scaffold materializes checker configuration artifacts for a
// strictness profile without clobbering user customizations.
//
// Every artifact carries a merge policy. The governing rule is that user
// content is never silently discarded: merge-keys artifacts get a
// structural merge that only adds keys, overwrite artifacts are protected
// by a content fingerprint recorded at write time, and create-if-absent
// artifacts are left alone once they exist.
//
// Concurrent scaffold runs against the same root are not guaranteed safe;
// scaffolding is a rare, human-triggered event and callers serialize it.
package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/typeramp/typeramp/internal/models"
)

// MergePolicy controls how an artifact is written over an existing file.
type MergePolicy string

const (
	// PolicyCreateIfAbsent writes the artifact only when no file exists.
	PolicyCreateIfAbsent MergePolicy = "create-if-absent"
	// PolicyOverwrite replaces tool-managed content; hand-edited files are
	// detected via the recorded fingerprint and reported as conflicts.
	PolicyOverwrite MergePolicy = "overwrite"
	// PolicyMergeKeys structurally merges JSON keys: template keys missing
	// from the existing file are added, present keys stay, none removed.
	PolicyMergeKeys MergePolicy = "merge-keys"
)

// Action describes what the scaffolder did with one artifact.
type Action string

const (
	ActionCreated  Action = "created"
	ActionMerged   Action = "merged"
	ActionSkipped  Action = "skipped"
	ActionConflict Action = "conflict"
)

// ArtifactResult is the per-artifact outcome of a scaffold run.
type ArtifactResult struct {
	Path   string `json:"path"` // relative to the scaffold root
	Action Action `json:"action"`
	Detail string `json:"detail,omitempty"`
	Err    error  `json:"-"`
}

// ArtifactConflictError reports an overwrite-policy artifact whose on-disk
// content was changed by something other than this tool since the last
// scaffold. The file is left untouched.
type ArtifactConflictError struct {
	Path string
}

func (e *ArtifactConflictError) Error() string {
	return fmt.Sprintf("artifact %s was modified outside this tool; refusing to overwrite", e.Path)
}

// WriteDeniedError reports a filesystem permission failure for one
// artifact. It is surfaced verbatim and never retried.
type WriteDeniedError struct {
	Path string
	Err  error
}

func (e *WriteDeniedError) Error() string {
	return fmt.Sprintf("write denied for %s: %v", e.Path, e.Err)
}

func (e *WriteDeniedError) Unwrap() error { return e.Err }

// Scaffolder installs and updates configuration artifacts under a project
// root.
type Scaffolder struct {
	root string
}

// New creates a scaffolder for the given project root. The root is assumed
// writable; that precondition belongs to the caller.
func New(root string) *Scaffolder {
	return &Scaffolder{root: root}
}

// Scaffold materializes the artifact set for the profile.
//
// The run is artifact-granular: one artifact's conflict or write failure
// does not block the others, and the returned slice reflects every
// artifact. The returned error joins the per-artifact failures (if any) so
// callers can inspect them with errors.As.
func (s *Scaffolder) Scaffold(profile models.Profile) ([]ArtifactResult, error) {
	manifest, err := loadManifest(s.root)
	if err != nil {
		return nil, fmt.Errorf("load scaffold manifest: %w", err)
	}

	artifacts := artifactsFor(profile)
	results := make([]ArtifactResult, 0, len(artifacts))
	var failures []error

	for _, art := range artifacts {
		result := s.apply(art, manifest)
		results = append(results, result)
		if result.Err != nil {
			failures = append(failures, result.Err)
		}
	}

	if err := manifest.save(s.root); err != nil {
		failures = append(failures, fmt.Errorf("save scaffold manifest: %w", err))
	}

	return results, errors.Join(failures...)
}

// apply writes a single artifact according to its merge policy.
func (s *Scaffolder) apply(art artifact, manifest *manifest) ArtifactResult {
	fullPath := filepath.Join(s.root, filepath.FromSlash(art.relPath))

	existing, readErr := os.ReadFile(fullPath)
	exists := readErr == nil
	if readErr != nil && !os.IsNotExist(readErr) {
		if os.IsPermission(readErr) {
			err := &WriteDeniedError{Path: art.relPath, Err: readErr}
			return ArtifactResult{Path: art.relPath, Action: ActionConflict, Detail: err.Error(), Err: err}
		}
		return ArtifactResult{Path: art.relPath, Action: ActionConflict, Detail: readErr.Error(), Err: readErr}
	}

	switch art.policy {
	case PolicyCreateIfAbsent:
		if exists {
			return ArtifactResult{Path: art.relPath, Action: ActionSkipped, Detail: "already exists"}
		}
		return s.write(art, art.content, ActionCreated, manifest)

	case PolicyOverwrite:
		if !exists {
			return s.write(art, art.content, ActionCreated, manifest)
		}
		recorded, tracked := manifest.fingerprint(art.relPath)
		if !tracked || recorded != fingerprint(existing) {
			err := &ArtifactConflictError{Path: art.relPath}
			return ArtifactResult{Path: art.relPath, Action: ActionConflict, Detail: err.Error(), Err: err}
		}
		if fingerprint(existing) == fingerprint(art.content) {
			return ArtifactResult{Path: art.relPath, Action: ActionSkipped, Detail: "up to date"}
		}
		return s.write(art, art.content, ActionMerged, manifest)

	case PolicyMergeKeys:
		if !exists {
			return s.write(art, art.content, ActionCreated, manifest)
		}
		toolManaged := false
		if recorded, tracked := manifest.fingerprint(art.relPath); tracked {
			toolManaged = recorded == fingerprint(existing)
		}
		merged, changed, err := mergeJSONKeys(existing, art.content, art.templateOwned, toolManaged)
		if err != nil {
			return ArtifactResult{Path: art.relPath, Action: ActionConflict,
				Detail: fmt.Sprintf("cannot merge: %v", err), Err: err}
		}
		if !changed {
			// Still record the current content so later runs can tell
			// tool-managed files from hand-edited ones.
			manifest.record(art.relPath, fingerprint(existing))
			return ArtifactResult{Path: art.relPath, Action: ActionSkipped, Detail: "no new keys"}
		}
		return s.write(art, merged, ActionMerged, manifest)

	default:
		err := fmt.Errorf("unknown merge policy %q for %s", art.policy, art.relPath)
		return ArtifactResult{Path: art.relPath, Action: ActionConflict, Detail: err.Error(), Err: err}
	}
}

// write creates parent directories and writes the artifact, recording its
// fingerprint in the manifest.
func (s *Scaffolder) write(art artifact, content []byte, action Action, manifest *manifest) ArtifactResult {
	fullPath := filepath.Join(s.root, filepath.FromSlash(art.relPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return s.writeFailure(art, err)
	}
	if err := os.WriteFile(fullPath, content, art.mode); err != nil {
		return s.writeFailure(art, err)
	}

	manifest.record(art.relPath, fingerprint(content))
	return ArtifactResult{Path: art.relPath, Action: action}
}

func (s *Scaffolder) writeFailure(art artifact, err error) ArtifactResult {
	if os.IsPermission(err) {
		denied := &WriteDeniedError{Path: art.relPath, Err: err}
		return ArtifactResult{Path: art.relPath, Action: ActionConflict, Detail: denied.Error(), Err: denied}
	}
	return ArtifactResult{Path: art.relPath, Action: ActionConflict, Detail: err.Error(), Err: err}
}
