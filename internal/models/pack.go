package models

// Pack describes a problem pack.
// This corresponds to <packs>/<name>/pack.json.
type Pack struct {
	Name         string           `json:"name"`
	Language     string           `json:"language"`
	Version      string           `json:"version,omitempty"`
	Description  string           `json:"description,omitempty"`
	Image        string           `json:"image"`
	TestCommand  string           `json:"test_command"`
	SolutionFile string           `json:"solution_file"`
	TestFile     string           `json:"test_file"`
	Problems     []string         `json:"problems"`
	Dependencies PackDependencies `json:"dependencies,omitempty"`
}

// PackDependencies lists what must be installed on the host to use a pack.
type PackDependencies struct {
	Executables []string `json:"executables,omitempty"`
}

// Problem is a single practice problem.
// This corresponds to <packs>/<name>/<id>.json.
type Problem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Difficulty  string `json:"difficulty"`
	Description string `json:"description"`
	Skeleton    string `json:"skeleton"`
	TestCode    string `json:"test_code"`
}
