package model

// StageOrder is the sequence of distinct stage names of one pipeline, in the
// order the stages first appear in its job list.
type StageOrder []string

// DeriveStageOrder infers stage order from jobs as returned by the API. No
// pipeline definition is consulted.
func DeriveStageOrder(jobs []*Job) StageOrder {
	stages := make(StageOrder, 0, len(jobs))
	seen := make(map[string]struct{}, len(jobs))

	for _, job := range jobs {
		if _, ok := seen[job.Stage]; ok {
			continue
		}
		seen[job.Stage] = struct{}{}
		stages = append(stages, job.Stage)
	}

	return stages
}

// Index returns the position of stage, or false if the pipeline has no such stage.
func (s StageOrder) Index(stage string) (int, bool) {
	for i, name := range s {
		if name == stage {
			return i, true
		}
	}
	return -1, false
}
