package domain

// Project groups tasks. Deleting a project removes its tasks on the remote store.
type Project struct {
	ID   ID     `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
