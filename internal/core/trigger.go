package core

import "strings"

// Event kinds commonly used in pipeline trigger lists. The set is open:
// any string a pipeline declares in on: is a valid kind.
const (
	EventPush        = "push"
	EventPullRequest = "pull_request"
)

// Fires reports whether an event of the given kind triggers this pipeline.
// A pipeline with an empty on: list never fires for events; it only runs
// when invoked directly.
func (p *Pipeline) Fires(kind string) bool {
	for _, k := range p.On {
		if strings.EqualFold(k, kind) {
			return true
		}
	}
	return false
}
