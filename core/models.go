package core

// Status is the request lifecycle state. The ordinals are part of the wire
// format: dashboards send and compare raw numbers.
type Status int

const (
	StatusPending   Status = 0
	StatusOngoing   Status = 1
	StatusCompleted Status = 2
	StatusCanceled  Status = 3
)

func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusCanceled
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusOngoing:
		return "Ongoing"
	case StatusCompleted:
		return "Completed"
	case StatusCanceled:
		return "Canceled"
	}
	return "Unknown"
}

type Request struct {
	ID                      string
	ReferenceNumber         string
	Timestamp               string
	Email                   string
	Name                    string
	TypeOfClient            string
	Classification          string
	ProjectTitle            string
	PhilgepsReferenceNumber string
	ProductType             string
	RequestType             string
	DateNeeded              string
	SpecialInstructions     string
	AssignedTo              string
	Status                  Status
	CompletedAt             *string
	CanceledAt              *string
	CancellationReason      string
	FileURL                 string
	FileName                string
	RequesterFileURL        string
	RequesterFileName       string
}

// RequestUpdate is a partial update. Nil fields are left untouched.
// CompletedAt and CanceledAt are deliberately absent: the service stamps
// them itself at the transition.
type RequestUpdate struct {
	AssignedTo          *string
	Status              *Status
	CancellationReason  *string
	DateNeeded          *string
	SpecialInstructions *string
}

type TeamMember struct {
	ID              string
	Name            string
	ProfileImageURL string
}

// MemberStats is derived from the request set on every read, never stored.
type MemberStats struct {
	ID              string
	Name            string
	OpenTasks       int
	ClosedTasks     int
	CompletionRate  int
	ProfileImageURL string
}
