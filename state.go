package promptcraft

// State is the request record carried through the graph. Steps receive a
// copy and describe their changes as a Patch; only the driver applies them.
type State struct {
	Mode            Mode
	TaskDescription string
	UsePattern      bool
	SelectedPattern string

	BaseTemplate string
	Prompt       string
	Context      string

	// Score and IssueFound are meaningful only once Evaluated is true.
	Score      float64
	Evaluated  bool
	IssueFound bool
	Feedback   string

	ImprovedPrompt string
}

// NewState builds the entry state for a request.
func NewState(req Request) State {
	return State{
		Mode:            req.Mode,
		TaskDescription: req.TaskDescription,
		UsePattern:      req.UsePattern,
		SelectedPattern: req.SelectedPattern,
		Prompt:          req.Prompt,
		Context:         req.Context,
	}
}

// Pattern returns the pattern name the template selector should expand, or
// "" when the request does not use one.
func (s State) Pattern() string {
	if !s.UsePattern {
		return ""
	}
	return s.SelectedPattern
}

// Patch is the output of one step. Nil fields are left untouched. There is no
// Mode field: the mode is fixed at entry.
type Patch struct {
	BaseTemplate   *string
	Prompt         *string
	Context        *string
	Score          *float64
	IssueFound     *bool
	Feedback       *string
	ImprovedPrompt *string

	// Cost of the completion call the step made, if any.
	Cost float64
}

// Apply returns a copy of s with p merged in.
func (s State) Apply(p Patch) State {
	if p.BaseTemplate != nil {
		s.BaseTemplate = *p.BaseTemplate
	}
	if p.Prompt != nil {
		s.Prompt = *p.Prompt
	}
	if p.Context != nil {
		s.Context = *p.Context
	}
	if p.Score != nil {
		s.Score = *p.Score
		s.Evaluated = true
	}
	if p.IssueFound != nil {
		s.IssueFound = *p.IssueFound
	}
	if p.Feedback != nil {
		s.Feedback = *p.Feedback
	}
	if p.ImprovedPrompt != nil {
		s.ImprovedPrompt = *p.ImprovedPrompt
	}
	return s
}

func ptr[T any](v T) *T { return &v }
