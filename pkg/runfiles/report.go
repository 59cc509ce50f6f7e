package runfiles

// Created records one entry the materializer made
type Created struct {
	Path     string `yaml:"path" toml:"path"`
	Kind     string `yaml:"kind" toml:"kind"`
	Target   string `yaml:"target,omitempty" toml:"target,omitempty"`
	Strategy string `yaml:"strategy,omitempty" toml:"strategy,omitempty"`
}

// Report summarizes what a run did, or would do in a dry run. Paths are
// manifest-relative and listed in the order the run touched them.
type Report struct {
	Root      string    `yaml:"root" toml:"root"`
	Manifest  string    `yaml:"manifest" toml:"manifest"`
	DryRun    bool      `yaml:"dry_run" toml:"dry_run"`
	Entries   int       `yaml:"entries" toml:"entries"`
	Repaired  []string  `yaml:"repaired,omitempty" toml:"repaired,omitempty"`
	Pruned    []string  `yaml:"pruned,omitempty" toml:"pruned,omitempty"`
	Trashed   []string  `yaml:"trashed,omitempty" toml:"trashed,omitempty"`
	Created   []Created `yaml:"created,omitempty" toml:"created,omitempty"`
	Committed bool      `yaml:"committed" toml:"committed"`
}

// Changed reports whether the run pruned or created anything
func (r *Report) Changed() bool {
	return len(r.Pruned) > 0 || len(r.Created) > 0
}

func (r *Report) repaired(path string) {
	r.Repaired = append(r.Repaired, path)
}

func (r *Report) pruned(path string) {
	r.Pruned = append(r.Pruned, path)
}

func (r *Report) trashed(path string) {
	r.Trashed = append(r.Trashed, path)
}

func (r *Report) created(c Created) {
	r.Created = append(r.Created, c)
}
