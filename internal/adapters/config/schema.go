package config

// Manifest represents the structure of the drover.yaml build definition.
type Manifest struct {
	Version string    `yaml:"version"`
	Steps   []StepDTO `yaml:"steps"`
}

// StepDTO represents one build step in the manifest. Steps form a list, not
// a map: the same output may appear in several entries, each contributing
// more inputs to the same target.
type StepDTO struct {
	Output  string   `yaml:"output"`
	Outputs []string `yaml:"outputs"`
	Inputs  []string `yaml:"inputs"`
	Options []string `yaml:"options"`
	Deps    []string `yaml:"deps"`
	AltDeps []string `yaml:"altDeps"`
	Cmd     []string `yaml:"cmd"`
}
