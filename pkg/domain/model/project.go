package model

// Project identifies a GitLab project by its namespaced path, e.g. "group/sub/app".
type Project struct {
	Path string
}

func (p Project) String() string {
	return p.Path
}
