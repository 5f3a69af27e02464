package dto

type TaskOutput struct {
	Type         string
	Prompt       string
	EstimatedSec int
}

type ProblemOutput struct {
	A    int
	B    int
	Op   string
	Text string
}

type ChallengeInput struct {
	Method           string
	Mode             string
	DistractionCount int
	Goal             string
	Prefetched       *TaskOutput
}

type ChallengeOutput struct {
	Kind        string
	Title       string
	Prompt      string
	Problems    []ProblemOutput
	DurationSec int
	MinWords    int
	Task        *TaskOutput
}

type SubmitInput struct {
	Challenge ChallengeOutput
	Answers   []string
	Goal      string
}

type ResultOutput struct {
	Valid    bool
	Feedback string
}
