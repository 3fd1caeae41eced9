package model

// Section is a named, ordered group of questions with aggregate marks and
// duration. Immutable after load; Clone is used when a paper set needs a
// reordered copy.
type Section struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TotalMarks  float64    `json:"total_marks"`
	Duration    int        `json:"duration"` // minutes
	Questions   []Question `json:"questions"`
}

// Clone returns a deep copy of the section. The clone is value-independent:
// reordering its question slice never affects the original.
func (s Section) Clone() Section {
	c := s
	c.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		c.Questions[i] = q.Clone()
	}
	return c
}

// Paper is a loaded question paper: the input to set generation and layout.
type Paper struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Subject  string    `json:"subject,omitempty"`
	Sections []Section `json:"sections"`
}

// Clone returns a deep copy of the paper, cloning every section so the
// copy and the original never share question storage.
func (p Paper) Clone() Paper {
	c := p
	c.Sections = make([]Section, len(p.Sections))
	for i, s := range p.Sections {
		c.Sections[i] = s.Clone()
	}
	return c
}

// TotalMarks sums the section marks.
func (p *Paper) TotalMarks() float64 {
	var total float64
	for _, s := range p.Sections {
		total += s.TotalMarks
	}
	return total
}

// Duration sums the section durations in minutes.
func (p *Paper) Duration() int {
	var total int
	for _, s := range p.Sections {
		total += s.Duration
	}
	return total
}

// QuestionCount counts questions across all sections.
func (p *Paper) QuestionCount() int {
	var n int
	for _, s := range p.Sections {
		n += len(s.Questions)
	}
	return n
}

// PaperSet is one complete, independently orderable instance of the question
// paper, used for multi-version exam printing.
type PaperSet struct {
	SetNumber int       `json:"set_number"`
	Sections  []Section `json:"sections"`
}
