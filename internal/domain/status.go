package domain

import "strings"

type Status string

const (
	StatusNew         Status = "New"
	StatusConfirmed   Status = "Confirmed"
	StatusInProgress  Status = "InProgress"
	StatusDelivered   Status = "Delivered"
	StatusPostponed   Status = "Postponed"
	StatusCancelled   Status = "Cancelled"
	StatusRefused     Status = "Refused"
	StatusWrongNumber Status = "WrongNumber"
	StatusOutOfZone   Status = "OutOfZone"
	StatusScheduled   Status = "Scheduled"
)

var allStatuses = []Status{
	StatusNew,
	StatusConfirmed,
	StatusInProgress,
	StatusDelivered,
	StatusPostponed,
	StatusCancelled,
	StatusRefused,
	StatusWrongNumber,
	StatusOutOfZone,
	StatusScheduled,
}

// AllStatuses returns a fresh slice in declaration order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func (s Status) Valid() bool {
	for _, st := range allStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// ParseStatus matches case-insensitively so imported sheets may use any case.
func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	for _, st := range allStatuses {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}
