package core

// Pipeline represents one declarative workflow: an ordered list of steps
// plus the trigger event kinds that cause it to run.
//
// Step order is fixed at load time and is never reordered during execution.
type Pipeline struct {
	Name    string            `yaml:"name"`
	On      []string          `yaml:"on,omitempty"`      // trigger event kinds (e.g. "push", "pull_request")
	WorkDir string            `yaml:"workdir,omitempty"` // shared working directory for all steps
	Env     map[string]string `yaml:"env,omitempty"`     // pipeline-level environment, applied under step overlays
	Steps   []Step            `yaml:"steps"`
}

// Step is a single command invocation inside a pipeline.
//
// Exactly one of Run and Command is set: Run is a shell string executed
// via "sh -c", Command plus Args is executed directly. Env entries
// override matching variables from the pipeline env and the parent
// process environment.
type Step struct {
	Name    string            `yaml:"name,omitempty"`
	Run     string            `yaml:"run,omitempty"`
	Command string            `yaml:"command,omitempty"`
	Args    []string          `yaml:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
}

// DisplayName returns the step's name, falling back to its command text.
func (s Step) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Run != "" {
		return s.Run
	}
	return s.Command
}
