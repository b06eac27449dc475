package dept

// CreatedEvent is published after a department is stored.
type CreatedEvent struct {
	Result Dept
}

type UpdatedEvent struct {
	Before Dept
	Result Dept
}

type DeletedEvent struct {
	ID int64
}

func (e *UpdatedEvent) Entity() string { return "dept" }

func (e *UpdatedEvent) EntityID() int64 { return e.Result.ID }

// States omits the timestamps so only edited fields show up in audits.
func (e *UpdatedEvent) States() (before, after any) {
	b, a := e.Before, e.Result
	b.CreatedAt, b.UpdatedAt = a.CreatedAt, a.UpdatedAt
	return b, a
}
