package order

import "fmt"

type Status string

const (
	StatusOpen      Status = "open"       // committed from a cart, waiting for the kitchen
	StatusInKitchen Status = "in_kitchen" // confirmed by the kitchen
	StatusReady     Status = "ready"      // every item checked off
	StatusDelivered Status = "delivered"  // handed to the customer
	StatusSettled   Status = "settled"    // paid, terminal
)

// transitions maps a target status to the statuses it may be reached from.
var transitions = map[Status][]Status{
	StatusInKitchen: {StatusOpen},
	StatusReady:     {StatusInKitchen},
	StatusDelivered: {StatusReady},
	StatusSettled:   {StatusOpen, StatusInKitchen, StatusReady, StatusDelivered},
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusOpen, StatusInKitchen, StatusReady, StatusDelivered, StatusSettled:
		return st, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s Status) Terminal() bool { return s == StatusSettled }

// AllowedFrom lists the statuses an order must be in to move to `to`.
func AllowedFrom(to Status) []Status { return transitions[to] }

func CanTransition(from, to Status) bool {
	for _, s := range transitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

func statusStrings(ss []Status) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}
