package scaffold

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// manifestPath is where fingerprints live, relative to the scaffold root.
// The manifest itself is tool state, not an artifact.
const manifestPath = ".typeramp/scaffold.json"

// manifest records the content fingerprint of every artifact this tool has
// written, so later runs can tell tool-managed files from hand-edited ones.
type manifest struct {
	Version      int               `json:"version"`
	Fingerprints map[string]string `json:"fingerprints"` // artifact path -> sha256 hex
}

// fingerprint hashes artifact content for the manifest.
func fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// loadManifest reads the manifest from root, returning an empty one when
// none exists yet.
func loadManifest(root string) (*manifest, error) {
	path := filepath.Join(root, filepath.FromSlash(manifestPath))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &manifest{Version: 1, Fingerprints: make(map[string]string)}, nil
		}
		return nil, err
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("corrupt manifest at %s: %w", path, err)
	}
	if m.Fingerprints == nil {
		m.Fingerprints = make(map[string]string)
	}
	return &m, nil
}

// save writes the manifest back to root.
func (m *manifest) save(root string) error {
	path := filepath.Join(root, filepath.FromSlash(manifestPath))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// fingerprint returns the recorded fingerprint for an artifact path.
func (m *manifest) fingerprint(relPath string) (string, bool) {
	fp, ok := m.Fingerprints[relPath]
	return fp, ok
}

// record stores an artifact's fingerprint.
func (m *manifest) record(relPath, fp string) {
	m.Fingerprints[relPath] = fp
}
