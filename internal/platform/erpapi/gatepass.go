package erpapi

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// GatePass authorizes physical movement of goods in or out of premises.
type GatePass struct {
	ID              int64     `json:"id"`
	Number          string    `json:"number"`
	Direction       string    `json:"direction"`
	ReferenceNumber string    `json:"reference_number"`
	ReferenceID     int64     `json:"reference_id"`
	PartyName       string    `json:"party_name"`
	Quantity        float64   `json:"quantity"`
	VehicleNumber   string    `json:"vehicle_number,omitempty"`
	Remarks         string    `json:"remarks,omitempty"`
	Status          string    `json:"status"`
	IssuedAt        time.Time `json:"issued_at"`
}

// GatePassInput is the create payload for a gate pass.
type GatePassInput struct {
	Direction       string  `json:"direction"`
	ReferenceNumber string  `json:"referenceNumber"`
	ReferenceID     int64   `json:"referenceId"`
	PartyName       string  `json:"partyName"`
	Quantity        float64 `json:"quantity"`
	VehicleNumber   string  `json:"vehicleNumber,omitempty"`
	Remarks         string  `json:"remarks,omitempty"`
	CreatedBy       string  `json:"createdBy"`
}

// CreateGatePass persists a gate pass.
func (c *Client) CreateGatePass(ctx context.Context, in GatePassInput) (*GatePass, error) {
	var gp GatePass
	if err := c.post(ctx, "/gate-passes", in, &gp); err != nil {
		return nil, err
	}
	return &gp, nil
}

// ListGatePasses lists gate passes, newest first.
func (c *Client) ListGatePasses(ctx context.Context, limit, offset int) ([]GatePass, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	var passes []GatePass
	if err := c.get(ctx, "/gate-passes", q, &passes); err != nil {
		return nil, err
	}
	return passes, nil
}

// CancelGatePass voids an issued gate pass.
func (c *Client) CancelGatePass(ctx context.Context, id int64, reason string) error {
	payload := map[string]string{"reason": reason}
	return c.post(ctx, "/gate-passes/"+strconv.FormatInt(id, 10)+"/cancel", payload, nil)
}
