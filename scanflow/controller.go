package scanflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Notice is a user-facing message emitted by the controller.
type Notice struct {
	Level   string // "info" or "error"
	Message string
}

// Options tunes a Controller.
type Options struct {
	// Debounce is the settle window for scanner auto-submit. Zero means
	// DefaultDebounce.
	Debounce time.Duration
	// Notify receives user-facing notices. Nil notices are dropped.
	Notify func(Notice)
}

// DefaultDebounce tolerates hardware scanners that paste a full barcode
// without a reliably detectable trailing newline.
const DefaultDebounce = 300 * time.Millisecond

// Controller sequences one operator's scan workflow. All methods are safe for
// concurrent use; remote calls run outside the state lock and a busy flag
// rejects a second submission while one is in flight.
type Controller struct {
	client   Client
	debounce time.Duration
	notify   func(Notice)

	mu              sync.Mutex
	stage           Stage
	session         *Session
	items           []Item
	inputs          [3]string
	busy            bool
	completionArmed bool
	timers          [3]Debouncer
}

// New creates a controller in StageNoSession.
func New(client Client, opts Options) *Controller {
	d := opts.Debounce
	if d <= 0 {
		d = DefaultDebounce
	}
	n := opts.Notify
	if n == nil {
		n = func(Notice) {}
	}
	return &Controller{client: client, debounce: d, notify: n}
}

// View is a render-ready snapshot of controller state.
type View struct {
	Stage         Stage
	Session       Session
	Items         []Item
	Input         string
	Busy          bool
	TotalRequired int64
	TotalScanned  int64
}

// Snapshot returns the current state. Items are copied so renderers never
// observe a partial update.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{Stage: c.stage, Input: c.inputs[c.stage], Busy: c.busy}
	if c.session != nil {
		v.Session = *c.session
	}
	v.Items = append([]Item(nil), c.items...)
	for _, it := range c.items {
		v.TotalRequired += it.TotalQty
		v.TotalScanned += it.ScannedQty
	}
	return v
}

// SetInput records the watched input for the current stage and arms the
// auto-submit debounce when the value matches the stage's scanner heuristic.
// Any previously armed timer for the stage is cancelled first, so a value
// change before the window elapses never produces a stale submission.
func (c *Controller) SetInput(stage Stage, value string) {
	c.mu.Lock()
	if stage != c.stage {
		c.mu.Unlock()
		return
	}
	c.inputs[stage] = value
	c.timers[stage].Cancel()

	var match bool
	switch stage {
	case StageNoSession, StageReadyToComplete:
		match = LooksLikeDN(value)
	case StageScanning:
		match = LooksLikeLabel(value)
	}
	if !match {
		c.mu.Unlock()
		return
	}
	delay := c.debounce
	c.mu.Unlock()

	c.timers[stage].Arm(delay, func() {
		c.mu.Lock()
		current := c.stage == stage && c.inputs[stage] == value
		c.mu.Unlock()
		if !current {
			return
		}
		_ = c.Submit(context.Background(), stage)
	})
}

// Submit dispatches the current stage's submission.
func (c *Controller) Submit(ctx context.Context, stage Stage) error {
	switch stage {
	case StageNoSession:
		return c.SubmitDN(ctx)
	case StageScanning:
		return c.SubmitItem(ctx)
	case StageReadyToComplete:
		return c.SubmitComplete(ctx)
	default:
		return fmt.Errorf("unknown stage %d", stage)
	}
}

// SubmitDN scans the typed DN number and opens a session.
func (c *Controller) SubmitDN(ctx context.Context) error {
	c.mu.Lock()
	if c.stage != StageNoSession {
		c.mu.Unlock()
		return c.reject("no DN input expected in this stage")
	}
	if c.busy {
		c.mu.Unlock()
		return c.reject(ErrBusy.Error())
	}
	c.timers[StageNoSession].Cancel()
	dn := strings.TrimSpace(c.inputs[StageNoSession])
	if dn == "" {
		c.mu.Unlock()
		return c.reject("scan a DN number first")
	}
	c.busy = true
	c.mu.Unlock()

	sess, items, err := c.client.ScanDN(ctx, dn)

	c.mu.Lock()
	c.busy = false
	if err != nil {
		// Clear so the next scan is not concatenated with the failed one.
		c.inputs[StageNoSession] = ""
		c.mu.Unlock()
		c.notify(Notice{Level: "error", Message: err.Error()})
		return err
	}
	c.session = &sess
	c.items = items
	c.stage = StageScanning
	c.inputs = [3]string{}
	c.completionArmed = false
	c.cancelTimersLocked()
	c.mu.Unlock()
	c.notify(Notice{Level: "info", Message: fmt.Sprintf("session open for %s, %d items expected", sess.DNNumber, len(items))})
	return nil
}

// SubmitItem validates the typed label locally, then submits it. Local
// rejections never reach the network.
func (c *Controller) SubmitItem(ctx context.Context) error {
	c.mu.Lock()
	if c.stage != StageScanning || c.session == nil {
		c.mu.Unlock()
		return c.reject("no item input expected in this stage")
	}
	if c.busy {
		c.mu.Unlock()
		return c.reject(ErrBusy.Error())
	}
	c.timers[StageScanning].Cancel()
	raw := strings.TrimSpace(c.inputs[StageScanning])

	label, err := ParseLabel(raw)
	if err != nil {
		c.inputs[StageScanning] = ""
		c.mu.Unlock()
		return c.reject("invalid label format")
	}
	if !strings.EqualFold(label.DNNumber, c.session.DNNumber) {
		c.inputs[StageScanning] = ""
		c.mu.Unlock()
		return c.reject(fmt.Sprintf("label belongs to %s, session is %s", label.DNNumber, c.session.DNNumber))
	}
	item := findItem(c.items, label.PartNo)
	if item == nil {
		c.inputs[StageScanning] = ""
		c.mu.Unlock()
		return c.reject(fmt.Sprintf("part %s is not on this delivery note", label.PartNo))
	}
	if remaining := item.Remaining(); label.Qty > remaining {
		c.inputs[StageScanning] = ""
		c.mu.Unlock()
		return c.reject(fmt.Sprintf("quantity exceeds remaining: only %d left for %s", remaining, label.PartNo))
	}

	partNo := item.PartNo
	sessionID := c.session.ID
	c.busy = true
	c.mu.Unlock()

	err = c.client.ScanItem(ctx, sessionID, raw)

	c.mu.Lock()
	c.busy = false
	if err != nil {
		// A conflict is likely the same label scanned twice in a race;
		// keep the input visible so the operator can judge.
		if !isConflict(err) {
			c.inputs[StageScanning] = ""
		}
		c.mu.Unlock()
		c.notify(Notice{Level: "error", Message: err.Error()})
		return err
	}

	for i := range c.items {
		if strings.EqualFold(c.items[i].PartNo, partNo) {
			c.items[i].ScannedQty += label.Qty
		}
	}
	c.inputs[StageScanning] = ""
	c.advanceIfReadyLocked()
	c.mu.Unlock()
	c.notify(Notice{Level: "info", Message: fmt.Sprintf("scanned %d x %s (lot %s)", label.Qty, label.PartNo, label.LotNo)})
	return nil
}

// SubmitComplete confirms the DN number and closes the session.
func (c *Controller) SubmitComplete(ctx context.Context) error {
	c.mu.Lock()
	if c.stage != StageReadyToComplete || c.session == nil {
		c.mu.Unlock()
		return c.reject("session is not ready to complete")
	}
	if c.busy {
		c.mu.Unlock()
		return c.reject(ErrBusy.Error())
	}
	c.timers[StageReadyToComplete].Cancel()
	dn := strings.TrimSpace(c.inputs[StageReadyToComplete])
	if dn == "" {
		c.mu.Unlock()
		return c.reject("confirm by scanning the DN number")
	}
	sessionID := c.session.ID
	c.busy = true
	c.mu.Unlock()

	err := c.client.CompleteScanSession(ctx, sessionID, dn)

	c.mu.Lock()
	c.busy = false
	if err != nil {
		// Input stays so the operator can see what was typed.
		c.mu.Unlock()
		c.notify(Notice{Level: "error", Message: err.Error()})
		return err
	}
	dnNumber := c.session.DNNumber
	c.resetLocked()
	c.mu.Unlock()
	c.notify(Notice{Level: "info", Message: fmt.Sprintf("%s completed", dnNumber)})
	return nil
}

// MarkIncomplete abandons the local session after the caller has taken the
// operator through an explicit confirmation step. The server-side session
// stays open for later resumption.
func (c *Controller) MarkIncomplete(ctx context.Context) error {
	c.mu.Lock()
	if c.stage == StageNoSession || c.session == nil {
		c.mu.Unlock()
		return c.reject("no active session to mark incomplete")
	}
	if c.busy {
		c.mu.Unlock()
		return c.reject(ErrBusy.Error())
	}
	arrivalID := c.session.ArrivalID
	c.busy = true
	c.mu.Unlock()

	err := c.client.MarkArrivalIncomplete(ctx, arrivalID)

	c.mu.Lock()
	c.busy = false
	if err != nil {
		c.mu.Unlock()
		c.notify(Notice{Level: "error", Message: err.Error()})
		return err
	}
	c.resetLocked()
	c.mu.Unlock()
	c.notify(Notice{Level: "info", Message: "arrival marked incomplete; the session can be resumed later"})
	return nil
}

// Refresh refetches the expected items from the server. It is used when the
// scan page reloads against a still-open session.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return nil
	}
	dn := c.session.DNNumber
	c.mu.Unlock()

	items, err := c.client.GetDNItems(ctx, dn)
	if err != nil {
		c.notify(Notice{Level: "error", Message: err.Error()})
		return err
	}

	c.mu.Lock()
	c.items = items
	c.advanceIfReadyLocked()
	c.mu.Unlock()
	return nil
}

// Close cancels every pending auto-submit timer. It must be called when the
// controller's owner goes away.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelTimersLocked()
}

// advanceIfReadyLocked moves Scanning to ReadyToComplete once total scanned
// covers total required. The first transition clears the completion input;
// re-entering without a net change leaves anything the operator already typed.
func (c *Controller) advanceIfReadyLocked() {
	if c.stage != StageScanning {
		return
	}
	var required, scanned int64
	for _, it := range c.items {
		required += it.TotalQty
		scanned += it.ScannedQty
	}
	if required == 0 || scanned < required {
		return
	}
	c.stage = StageReadyToComplete
	c.timers[StageScanning].Cancel()
	if !c.completionArmed {
		c.inputs[StageReadyToComplete] = ""
		c.completionArmed = true
	}
}

func (c *Controller) resetLocked() {
	c.stage = StageNoSession
	c.session = nil
	c.items = nil
	c.inputs = [3]string{}
	c.completionArmed = false
	c.cancelTimersLocked()
}

func (c *Controller) cancelTimersLocked() {
	for i := range c.timers {
		c.timers[i].Cancel()
	}
}

func (c *Controller) reject(msg string) error {
	c.notify(Notice{Level: "error", Message: msg})
	return fmt.Errorf("%s", msg)
}

func findItem(items []Item, partNo string) *Item {
	for i := range items {
		if strings.EqualFold(items[i].PartNo, partNo) {
			return &items[i]
		}
	}
	return nil
}

func isConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
