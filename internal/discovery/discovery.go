package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LookPathFunc matches the signature of exec.LookPath.
type LookPathFunc func(file string) (string, error)

// GetenvFunc matches the signature of os.Getenv.
type GetenvFunc func(key string) string

// Discoverer probes the local environment for a usable type checker
// toolchain and project configuration. Injectable deps make it fully
// testable.
type Discoverer struct {
	lookPath LookPathFunc
	getenv   GetenvFunc
	root     string
}

// New creates a Discoverer for the given project root.
func New(root string, lookPath LookPathFunc, getenv GetenvFunc) *Discoverer {
	return &Discoverer{
		lookPath: lookPath,
		getenv:   getenv,
		root:     root,
	}
}

// BinaryStatus describes a probed executable.
type BinaryStatus struct {
	Name      string `json:"name"`
	Path      string `json:"path,omitempty"`
	Available bool   `json:"available"`
}

// FileStatus tracks whether a project file exists.
type FileStatus struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// Plan is the complete result of an environment probe.
type Plan struct {
	Binaries     []BinaryStatus `json:"binaries"`
	Configs      []FileStatus   `json:"configs"`
	EnvVars      []EnvVarStatus `json:"env_vars,omitempty"`
	Scaffolded   bool           `json:"scaffolded"`
	CheckerReady bool           `json:"checker_ready"`
}

// EnvVarStatus tracks whether an environment variable is set.
type EnvVarStatus struct {
	Name string `json:"name"`
	Set  bool   `json:"set"`
}

// checkerBinaries are the executables that can provide a pyright run,
// in preference order.
var checkerBinaries = []string{"pyright", "npx", "node", "python3"}

// projectConfigs are the files that signal the project is set up for
// type checking.
var projectConfigs = []string{
	"pyrightconfig.json",
	"typeramp.yaml",
	".typeramp/scaffold.json",
}

// probeEnvVars are environment variables that affect checker behavior.
var probeEnvVars = []string{"VIRTUAL_ENV", "PYTHONPATH", "TYPERAMP_STORAGE_DIR"}

// Discover probes PATH, project files, and env vars. No network calls.
func (d *Discoverer) Discover() *Plan {
	plan := &Plan{}

	for _, name := range checkerBinaries {
		bs := BinaryStatus{Name: name}
		if path, err := d.lookPath(name); err == nil {
			bs.Available = true
			bs.Path = path
		}
		plan.Binaries = append(plan.Binaries, bs)
	}

	for _, rel := range projectConfigs {
		full := filepath.Join(d.root, rel)
		exists := fileExists(full)
		plan.Configs = append(plan.Configs, FileStatus{Path: rel, Exists: exists})
		if rel == ".typeramp/scaffold.json" && exists {
			plan.Scaffolded = true
		}
	}

	for _, name := range probeEnvVars {
		plan.EnvVars = append(plan.EnvVars, EnvVarStatus{
			Name: name,
			Set:  d.getenv(name) != "",
		})
	}

	// pyright directly, or npx to fetch it, is enough to run the checker.
	for _, bs := range plan.Binaries {
		if bs.Available && (bs.Name == "pyright" || bs.Name == "npx") {
			plan.CheckerReady = true
			break
		}
	}

	sort.Slice(plan.EnvVars, func(i, j int) bool {
		return plan.EnvVars[i].Name < plan.EnvVars[j].Name
	})

	return plan
}

// MissingBinaries returns the names of probed binaries not found in PATH.
func (p *Plan) MissingBinaries() []string {
	var missing []string
	for _, bs := range p.Binaries {
		if !bs.Available {
			missing = append(missing, bs.Name)
		}
	}
	return missing
}

// Summary renders a one-line readiness verdict.
func (p *Plan) Summary() string {
	switch {
	case p.CheckerReady && p.Scaffolded:
		return "ready: checker available and project scaffolded"
	case p.CheckerReady:
		return "checker available, project not scaffolded (run 'typeramp init')"
	case p.Scaffolded:
		return "project scaffolded, no checker in PATH (install pyright or node)"
	default:
		return "not ready: missing " + strings.Join(p.MissingBinaries(), ", ")
	}
}

// fileExists checks if a file exists (not a directory).
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
