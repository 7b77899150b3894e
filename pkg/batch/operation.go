package batch

type OperationType string

const (
	CopyOperation      OperationType = "copy"
	MoveOperation      OperationType = "move"
	PasteOperation     OperationType = "paste"
	StagingOperation   OperationType = "copy-to-staging"
	DeleteOperation    OperationType = "delete"
	RenameOperation    OperationType = "rename"
	CreateDirOperation OperationType = "create-dir"
	CreateOperation    OperationType = "create-file"
	InjectOperation    OperationType = "inject"
)

// OperationProgress is reported before each item is processed.
type OperationProgress struct {
	Type    OperationType
	Total   int
	Done    int
	Failed  int
	Skipped int
	Current string
}

type ProgressReporter = func(progress OperationProgress)

// Result counts the outcome of a batch. Aborted is set when the batch ended
// before all items were processed.
type Result struct {
	Succeeded int
	Failed    int
	Skipped   int
	Aborted   bool
}

func (r Result) Total() int {
	return r.Succeeded + r.Failed + r.Skipped
}

func (r *Result) track(p *OperationProgress, outcome string) {
	switch outcome {
	case outcomeSucceeded:
		r.Succeeded++
		p.Done++
	case outcomeSkipped:
		r.Skipped++
		p.Skipped++
	default:
		r.Failed++
		p.Failed++
	}
}

const (
	outcomeSucceeded = "succeeded"
	outcomeFailed    = "failed"
	outcomeSkipped   = "skipped"
)
