package domain

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
)

// StatusSequence is the fixed display order of the tracking view. Writes do not
// enforce it: any status may be set from any other.
var StatusSequence = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered}

var statusLabels = map[Status]string{
	StatusPending:    "Order Placed",
	StatusProcessing: "Processing",
	StatusShipped:    "Out for Delivery",
	StatusDelivered:  "Delivered",
}

// ParseStatus accepts a status name in any letter case.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	return s.Index() >= 0
}

// Index returns the position of s in StatusSequence, or -1.
func (s Status) Index() int {
	for i, st := range StatusSequence {
		if st == s {
			return i
		}
	}
	return -1
}

func (s Status) Label() string {
	return statusLabels[s]
}

// Terminal reports whether s is the conventional end of the lifecycle.
func (s Status) Terminal() bool {
	return s == StatusDelivered
}

type Step struct {
	Status    Status `json:"status"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

// Progress is the tracking view derived from an order's status.
type Progress struct {
	Index    int     `json:"index"`
	Fraction float64 `json:"fraction"`
	Steps    []Step  `json:"steps"`
}

// ProgressOf derives the tracking view purely from the status. An unknown
// status yields index -1 with no completed steps and a zero fraction.
func ProgressOf(s Status) Progress {
	idx := s.Index()
	steps := make([]Step, len(StatusSequence))
	for i, st := range StatusSequence {
		steps[i] = Step{
			Status:    st,
			Label:     st.Label(),
			Completed: idx >= 0 && i <= idx,
			Current:   i == idx,
		}
	}

	p := Progress{Index: idx, Steps: steps}
	if idx > 0 {
		p.Fraction = float64(idx) / float64(len(StatusSequence)-1)
	}
	return p
}
