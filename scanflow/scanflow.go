// Package scanflow drives a delivery-note scan through its three stages:
// scanning the DN, scanning item labels against the expected quantities, and
// confirming completion. All validation that can be decided locally happens
// before any remote call, and every remote failure leaves the controller in
// the state it was in before the call.
package scanflow

import (
	"context"
	"errors"
)

// Stage enumerates the controller states. The zero value is StageNoSession.
type Stage int

const (
	StageNoSession Stage = iota
	StageScanning
	StageReadyToComplete
)

func (s Stage) String() string {
	switch s {
	case StageScanning:
		return "scanning"
	case StageReadyToComplete:
		return "ready_to_complete"
	default:
		return "no_session"
	}
}

// Session mirrors the server-tracked scan session.
type Session struct {
	ID        string
	ArrivalID int64
	DNNumber  string
	Status    string
}

// Item is one expected line of the active DN.
type Item struct {
	PartNo     string
	TotalQty   int64
	ScannedQty int64
	QtyPerBox  int64
}

// Remaining is the quantity still expected for the line.
func (i Item) Remaining() int64 {
	r := i.TotalQty - i.ScannedQty
	if r < 0 {
		return 0
	}
	return r
}

// Client is the remote boundary. Implementations own the wire format; the
// controller only interprets returned errors as opaque messages, except for
// ErrConflict which marks a duplicate-scan race.
type Client interface {
	ScanDN(ctx context.Context, dnNumber string) (Session, []Item, error)
	ScanItem(ctx context.Context, sessionID, rawLabel string) error
	CompleteScanSession(ctx context.Context, sessionID, dnNumber string) error
	MarkArrivalIncomplete(ctx context.Context, arrivalID int64) error
	GetDNItems(ctx context.Context, dnNumber string) ([]Item, error)
}

// ErrConflict is returned by Client.ScanItem when the server refused a scan as
// a likely duplicate. The controller keeps the typed input in that case so the
// operator can see what was submitted.
var ErrConflict = errors.New("scan conflict")

// ErrBusy is reported when a submission arrives while a remote call for the
// same stage is still in flight.
var ErrBusy = errors.New("a scan is already in progress")
