package booking

type Status string

const (
	StatusPending             Status = "pending"
	StatusApproved            Status = "approved"
	StatusRejected            Status = "rejected"
	StatusPaid                Status = "paid"
	StatusCancelled           Status = "cancelled"
	StatusCompleted           Status = "completed"
	StatusRescheduleRequested Status = "reschedule_requested"
)

func (s Status) String() string {
	return string(s)
}

// LiveStatuses are the statuses in which a booking still occupies its
// slot. At most one live booking may exist per (teacher, date, start, end);
// the partial unique index in the bookings schema enforces the same set.
var LiveStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusRescheduleRequested,
	StatusPaid,
	StatusCompleted,
}

func (s Status) IsLive() bool {
	for _, live := range LiveStatuses {
		if s == live {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Source statuses for each transition.
var (
	ApprovableFrom    = []Status{StatusPending, StatusRescheduleRequested}
	RejectableFrom    = []Status{StatusPending, StatusRescheduleRequested}
	CancellableFrom   = []Status{StatusApproved, StatusPaid}
	ReschedulableFrom = []Status{StatusApproved}
	PayableFrom       = []Status{StatusApproved}
	CompletableFrom   = []Status{StatusPaid}
)

func statusIn(s Status, set []Status) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}

func StatusStrings(set []Status) []string {
	out := make([]string, len(set))
	for i, s := range set {
		out[i] = string(s)
	}
	return out
}
