package user

type CreatedEvent struct {
	Result User
}

type UpdatedEvent struct {
	Before User
	Result User
}

type DeletedEvent struct {
	ID int64
}

func (e *UpdatedEvent) Entity() string { return "user" }

func (e *UpdatedEvent) EntityID() int64 { return e.Result.ID }

// States hides password hashes and timestamps from the audit diff.
func (e *UpdatedEvent) States() (before, after any) {
	b, a := e.Before, e.Result
	b.PasswordHash, a.PasswordHash = "", ""
	b.CreatedAt, b.UpdatedAt = a.CreatedAt, a.UpdatedAt
	return b, a
}
