package gatepass

// Status represents the lifecycle of a gate pass.
type Status string

const (
	StatusIssued    Status = "ISSUED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusIssued, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanCancel checks whether a pass in this status may be voided.
func (s Status) CanCancel() bool {
	return s == StatusIssued
}

// Direction of goods movement through the gate.
type Direction string

const (
	DirectionInward  Direction = "INWARD"
	DirectionOutward Direction = "OUTWARD"
)

// IsValid checks if the direction is valid.
func (d Direction) IsValid() bool {
	return d == DirectionInward || d == DirectionOutward
}
