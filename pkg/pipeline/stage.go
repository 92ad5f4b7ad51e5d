package pipeline

// Stage is a step of a run. Runs only move forward.
type Stage int

const (
	Idle Stage = iota
	Loaded
	ChunksFound
	FramesSelected
	Corrupting
	Written
	Done
	Failed
)

var stageNames = [...]string{
	Idle:           "idle",
	Loaded:         "loaded",
	ChunksFound:    "chunks-found",
	FramesSelected: "frames-selected",
	Corrupting:     "corrupting",
	Written:        "written",
	Done:           "done",
	Failed:         "failed",
}

func (s Stage) String() string {
	if s < Idle || s > Failed {
		return "unknown"
	}
	return stageNames[s]
}
