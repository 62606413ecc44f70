package scanflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeClient records calls and returns scripted results.
type fakeClient struct {
	mu          sync.Mutex
	session     Session
	items       []Item
	scanDNErr   error
	scanItemErr error
	completeErr error
	markErr     error

	scanDNCalls   int
	scanItemCalls int
	completeCalls int
	markCalls     int
	lastLabel     string
}

func (f *fakeClient) ScanDN(_ context.Context, dn string) (Session, []Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scanDNCalls++
	if f.scanDNErr != nil {
		return Session{}, nil, f.scanDNErr
	}
	return f.session, append([]Item(nil), f.items...), nil
}

func (f *fakeClient) ScanItem(_ context.Context, sessionID, raw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scanItemCalls++
	f.lastLabel = raw
	return f.scanItemErr
}

func (f *fakeClient) CompleteScanSession(_ context.Context, sessionID, dn string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completeCalls++
	return f.completeErr
}

func (f *fakeClient) MarkArrivalIncomplete(_ context.Context, arrivalID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markCalls++
	return f.markErr
}

func (f *fakeClient) GetDNItems(_ context.Context, dn string) ([]Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Item(nil), f.items...), nil
}

func (f *fakeClient) calls() (dn, item, complete, mark int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scanDNCalls, f.scanItemCalls, f.completeCalls, f.markCalls
}

type noticeRecorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *noticeRecorder) record(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *noticeRecorder) last() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func newTestController(f *fakeClient, rec *noticeRecorder) *Controller {
	opts := Options{Debounce: 10 * time.Millisecond}
	if rec != nil {
		opts.Notify = rec.record
	}
	return New(f, opts)
}

func openSession(t *testing.T, c *Controller, f *fakeClient) {
	t.Helper()
	c.SetInput(StageNoSession, f.session.DNNumber)
	if err := c.SubmitDN(context.Background()); err != nil {
		t.Fatalf("open session: %v", err)
	}
	if c.Snapshot().Stage != StageScanning {
		t.Fatalf("expected Scanning after DN scan")
	}
}

func dn001Client() *fakeClient {
	return &fakeClient{
		session: Session{ID: "sess-1", ArrivalID: 42, DNNumber: "DN001234", Status: "active"},
		items: []Item{
			{PartNo: "P1", TotalQty: 10, ScannedQty: 8, QtyPerBox: 5},
			{PartNo: "P2", TotalQty: 4, ScannedQty: 0, QtyPerBox: 2},
		},
	}
}

func TestSubmitDN_FailureStaysAndClearsInput(t *testing.T) {
	f := dn001Client()
	f.scanDNErr = errors.New("DN not found")
	rec := &noticeRecorder{}
	c := newTestController(f, rec)

	c.SetInput(StageNoSession, "DN009999")
	if err := c.SubmitDN(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	v := c.Snapshot()
	if v.Stage != StageNoSession {
		t.Fatalf("failed DN scan must not transition, got %v", v.Stage)
	}
	if v.Input != "" {
		t.Fatalf("failed DN scan must clear the input, got %q", v.Input)
	}
	if rec.last().Message != "DN not found" {
		t.Fatalf("server message not surfaced: %+v", rec.last())
	}
}

func TestSubmitItem_QuantityExceedsRemaining_NoNetworkCall(t *testing.T) {
	f := dn001Client()
	rec := &noticeRecorder{}
	c := newTestController(f, rec)
	openSession(t, c, f)

	c.SetInput(StageScanning, "P1;5;LOT1;;;;DN001234")
	if err := c.SubmitItem(context.Background()); err == nil {
		t.Fatalf("expected local rejection")
	}
	if _, itemCalls, _, _ := f.calls(); itemCalls != 0 {
		t.Fatalf("local rejection must not call the server")
	}
	msg := rec.last().Message
	if !strings.Contains(msg, "only 2 left") {
		t.Fatalf("error must report the exact remaining amount, got %q", msg)
	}
}

func TestSubmitItem_DNMismatch_NoNetworkCall(t *testing.T) {
	f := dn001Client()
	rec := &noticeRecorder{}
	c := newTestController(f, rec)
	openSession(t, c, f)

	c.SetInput(StageScanning, "P1;2;LOT1;;;;DN999888")
	if err := c.SubmitItem(context.Background()); err == nil {
		t.Fatalf("expected DN mismatch rejection")
	}
	if _, itemCalls, _, _ := f.calls(); itemCalls != 0 {
		t.Fatalf("DN mismatch must not call the server")
	}
	if !strings.Contains(rec.last().Message, "DN999888") {
		t.Fatalf("mismatch message should name the label DN, got %q", rec.last().Message)
	}
}

func TestSubmitItem_UnknownPartRejectedLocally(t *testing.T) {
	f := dn001Client()
	c := newTestController(f, nil)
	openSession(t, c, f)

	c.SetInput(StageScanning, "P9;1;LOT1;;;;DN001234")
	if err := c.SubmitItem(context.Background()); err == nil {
		t.Fatalf("expected part-not-found rejection")
	}
	if _, itemCalls, _, _ := f.calls(); itemCalls != 0 {
		t.Fatalf("unknown part must not call the server")
	}
}

func TestSubmitItem_MalformedLabelRejectedLocally(t *testing.T) {
	f := dn001Client()
	c := newTestController(f, nil)
	openSession(t, c, f)

	c.SetInput(StageScanning, "garbage")
	if err := c.SubmitItem(context.Background()); err == nil {
		t.Fatalf("expected format rejection")
	}
	if _, itemCalls, _, _ := f.calls(); itemCalls != 0 {
		t.Fatalf("malformed label must not call the server")
	}
	if v := c.Snapshot(); v.Input != "" {
		t.Fatalf("rejected label must clear the input")
	}
}

func TestSubmitItem_SuccessIncrementsAndClears(t *testing.T) {
	f := dn001Client()
	c := newTestController(f, nil)
	openSession(t, c, f)

	c.SetInput(StageScanning, "P1;2;LOT7;;;;DN001234")
	if err := c.SubmitItem(context.Background()); err != nil {
		t.Fatalf("scan item: %v", err)
	}
	v := c.Snapshot()
	if v.Items[0].ScannedQty != 10 {
		t.Fatalf("expected local increment to 10, got %d", v.Items[0].ScannedQty)
	}
	if v.Stage != StageScanning {
		t.Fatalf("P2 still outstanding, must stay in Scanning")
	}
	if v.Input != "" {
		t.Fatalf("successful scan must clear the input")
	}
}

func TestTransitionToReadyToComplete_WithoutUserAction(t *testing.T) {
	f := dn001Client()
	c := newTestController(f, nil)
	openSession(t, c, f)

	labels := []string{
		"P1;2;LOT1;;;;DN001234",
		"P2;4;LOT2;;;;DN001234",
	}
	for _, l := range labels {
		c.SetInput(StageScanning, l)
		if err := c.SubmitItem(context.Background()); err != nil {
			t.Fatalf("scan %s: %v", l, err)
		}
	}
	v := c.Snapshot()
	if v.Stage != StageReadyToComplete {
		t.Fatalf("expected ReadyToComplete once scanned covers required, got %v", v.Stage)
	}
	if v.TotalScanned != v.TotalRequired {
		t.Fatalf("totals mismatch: %d vs %d", v.TotalScanned, v.TotalRequired)
	}
}

func TestReadyToComplete_PreservesTypedConfirmationAcrossRefresh(t *testing.T) {
	f := dn001Client()
	f.items = []Item{{PartNo: "P1", TotalQty: 2, ScannedQty: 0}}
	c := newTestController(f, nil)
	openSession(t, c, f)

	c.SetInput(StageScanning, "P1;2;LOT1;;;;DN001234")
	if err := c.SubmitItem(context.Background()); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if c.Snapshot().Stage != StageReadyToComplete {
		t.Fatalf("expected ReadyToComplete")
	}

	c.SetInput(StageReadyToComplete, "DN0012")
	// Server still reports full quantities; re-entering the ready state
	// without a net change must not wipe the half-typed confirmation.
	f.mu.Lock()
	f.items = []Item{{PartNo: "P1", TotalQty: 2, ScannedQty: 2}}
	f.mu.Unlock()
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if v := c.Snapshot(); v.Input != "DN0012" {
		t.Fatalf("typed confirmation was cleared, got %q", v.Input)
	}
}

func TestSubmitComplete_FailureKeepsInput(t *testing.T) {
	f := dn001Client()
	f.items = []Item{{PartNo: "P1", TotalQty: 1, ScannedQty: 0}}
	f.completeErr = errors.New("arrival already closed")
	c := newTestController(f, nil)
	openSession(t, c, f)

	c.SetInput(StageScanning, "P1;1;LOT1;;;;DN001234")
	if err := c.SubmitItem(context.Background()); err != nil {
		t.Fatalf("scan: %v", err)
	}
	c.SetInput(StageReadyToComplete, "DN001234")
	if err := c.SubmitComplete(context.Background()); err == nil {
		t.Fatalf("expected completion failure")
	}
	v := c.Snapshot()
	if v.Stage != StageReadyToComplete {
		t.Fatalf("failed completion must not transition")
	}
	if v.Input != "DN001234" {
		t.Fatalf("failed completion must keep the input, got %q", v.Input)
	}
}

func TestSubmitComplete_SuccessResetsToNoSession(t *testing.T) {
	f := dn001Client()
	f.items = []Item{{PartNo: "P1", TotalQty: 1, ScannedQty: 0}}
	c := newTestController(f, nil)
	openSession(t, c, f)

	c.SetInput(StageScanning, "P1;1;LOT1;;;;DN001234")
	if err := c.SubmitItem(context.Background()); err != nil {
		t.Fatalf("scan: %v", err)
	}
	c.SetInput(StageReadyToComplete, "DN001234")
	if err := c.SubmitComplete(context.Background()); err != nil {
		t.Fatalf("complete: %v", err)
	}
	v := c.Snapshot()
	if v.Stage != StageNoSession || len(v.Items) != 0 || v.Session.ID != "" {
		t.Fatalf("completion must clear all local session state: %+v", v)
	}
}

func TestMarkIncomplete_FromScanningClearsLocalState(t *testing.T) {
	f := dn001Client()
	c := newTestController(f, nil)
	openSession(t, c, f)

	if err := c.MarkIncomplete(context.Background()); err != nil {
		t.Fatalf("mark incomplete: %v", err)
	}
	v := c.Snapshot()
	if v.Stage != StageNoSession || len(v.Items) != 0 {
		t.Fatalf("mark incomplete must reset local state: %+v", v)
	}
	if _, _, _, mark := f.calls(); mark != 1 {
		t.Fatalf("expected one remote mark call, got %d", mark)
	}
}

func TestMarkIncomplete_FailureLeavesStateUnchanged(t *testing.T) {
	f := dn001Client()
	f.markErr = errors.New("network down")
	c := newTestController(f, nil)
	openSession(t, c, f)

	if err := c.MarkIncomplete(context.Background()); err == nil {
		t.Fatalf("expected failure")
	}
	if v := c.Snapshot(); v.Stage != StageScanning {
		t.Fatalf("failed mark must not transition, got %v", v.Stage)
	}
}

func TestConflictError_KeepsItemInput(t *testing.T) {
	f := dn001Client()
	f.scanItemErr = fmt.Errorf("duplicate scan: %w", ErrConflict)
	c := newTestController(f, nil)
	openSession(t, c, f)

	label := "P2;2;LOT9;;;;DN001234"
	c.SetInput(StageScanning, label)
	if err := c.SubmitItem(context.Background()); err == nil {
		t.Fatalf("expected conflict error")
	}
	if v := c.Snapshot(); v.Input != label {
		t.Fatalf("conflict must keep the input, got %q", v.Input)
	}
}

func TestRemoteError_ClearsItemInput(t *testing.T) {
	f := dn001Client()
	f.scanItemErr = errors.New("session expired")
	c := newTestController(f, nil)
	openSession(t, c, f)

	c.SetInput(StageScanning, "P2;2;LOT9;;;;DN001234")
	if err := c.SubmitItem(context.Background()); err == nil {
		t.Fatalf("expected remote error")
	}
	if v := c.Snapshot(); v.Input != "" {
		t.Fatalf("non-conflict remote error must clear the input, got %q", v.Input)
	}
}

func TestAutoSubmit_DNInputDebounces(t *testing.T) {
	f := dn001Client()
	c := newTestController(f, nil)
	defer c.Close()

	c.SetInput(StageNoSession, "DN001234")
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if c.Snapshot().Stage == StageScanning {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if c.Snapshot().Stage != StageScanning {
		t.Fatalf("auto-submit did not fire")
	}
	if dn, _, _, _ := f.calls(); dn != 1 {
		t.Fatalf("expected exactly one ScanDN call, got %d", dn)
	}
}

func TestAutoSubmit_ValueChangeCancelsPendingTimer(t *testing.T) {
	f := dn001Client()
	c := newTestController(f, nil)
	defer c.Close()

	c.SetInput(StageNoSession, "DN000011")
	c.SetInput(StageNoSession, "DN000011x")
	c.SetInput(StageNoSession, "DN001234")
	time.Sleep(100 * time.Millisecond)
	if dn, _, _, _ := f.calls(); dn != 1 {
		t.Fatalf("stale timers must be cancelled, got %d ScanDN calls", dn)
	}
}

func TestAutoSubmit_NonMatchingInputNeverFires(t *testing.T) {
	f := dn001Client()
	c := newTestController(f, nil)
	defer c.Close()

	c.SetInput(StageNoSession, "short")
	time.Sleep(50 * time.Millisecond)
	if dn, _, _, _ := f.calls(); dn != 0 {
		t.Fatalf("non-matching input must not auto-submit")
	}
}

func TestSetInput_IgnoredForWrongStage(t *testing.T) {
	f := dn001Client()
	c := newTestController(f, nil)
	defer c.Close()

	c.SetInput(StageScanning, "P1;2;LOT1;;;;DN001234")
	if v := c.Snapshot(); v.Input != "" {
		t.Fatalf("input for an inactive stage must be ignored")
	}
}

func TestSnapshotItemsAreCopies(t *testing.T) {
	f := dn001Client()
	c := newTestController(f, nil)
	openSession(t, c, f)

	v := c.Snapshot()
	v.Items[0].ScannedQty = 999
	if c.Snapshot().Items[0].ScannedQty == 999 {
		t.Fatalf("snapshot must not alias controller state")
	}
}
