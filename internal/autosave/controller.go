package autosave

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Persister is the slice of the progress layer a controller commits through.
// Both calls target ids, so a late redundant write is at worst a harmless
// overwrite of the same value.
type Persister interface {
	SaveExerciseResponse(ctx context.Context, moduleID, exerciseID string, response any) error
	CompleteExercise(ctx context.Context, moduleID, exerciseID string) error
}

// AwardFunc runs one badge evaluation + persistence cycle after an exercise
// crosses into completion. Optional.
type AwardFunc func(ctx context.Context, moduleID string) error

// FieldController autosaves a single free-text exercise field. Local edits
// are applied synchronously; commits are debounced, skipped when the value
// matches the last persisted one, and never roll back user input on failure.
type FieldController struct {
	moduleID   string
	exerciseID string
	persister  Persister
	award      AwardFunc
	complete   func(string) bool

	mu          sync.Mutex
	local       string
	lastSaved   string
	wasComplete bool

	deb *Debouncer[string]
}

// NewFieldController seeds the controller with the last persisted value and
// starts with no pending work. complete may be nil when the field has no
// completion predicate; award may be nil when completion awards no badge.
func NewFieldController(p Persister, moduleID, exerciseID, saved string, wait time.Duration, complete func(string) bool, award AwardFunc) *FieldController {
	c := &FieldController{
		moduleID:   moduleID,
		exerciseID: exerciseID,
		persister:  p,
		award:      award,
		complete:   complete,
		local:      saved,
		lastSaved:  saved,
	}
	if complete != nil && complete(saved) {
		c.wasComplete = true
	}
	c.deb = NewDebouncer(c.commit, wait)
	return c
}

// SetValue records an edit. The local value updates immediately so the input
// stays responsive; the commit is debounced.
func (c *FieldController) SetValue(v string) {
	c.mu.Lock()
	c.local = v
	c.mu.Unlock()
	c.deb.Call(v)
}

// Value returns the current local (possibly unpersisted) value.
func (c *FieldController) Value() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.local
}

func (c *FieldController) commit(v string) {
	c.mu.Lock()
	if v == "" || v == c.lastSaved {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	ctx := context.Background()
	if err := c.persister.SaveExerciseResponse(ctx, c.moduleID, c.exerciseID, v); err != nil {
		// Local state stays; the next edit is the de facto retry.
		log.Printf("autosave: save response %s/%s: %v", c.moduleID, c.exerciseID, err)
		return
	}

	c.mu.Lock()
	c.lastSaved = v
	fire := c.complete != nil && !c.wasComplete && c.complete(v)
	if fire {
		c.wasComplete = true
	}
	c.mu.Unlock()

	if fire {
		c.completeAndAward(ctx)
	}
}

func (c *FieldController) completeAndAward(ctx context.Context) {
	if err := c.persister.CompleteExercise(ctx, c.moduleID, c.exerciseID); err != nil {
		log.Printf("autosave: complete exercise %s/%s: %v", c.moduleID, c.exerciseID, err)
		return
	}
	if c.award != nil {
		if err := c.award(ctx, c.moduleID); err != nil {
			log.Printf("autosave: badge award %s: %v", c.moduleID, err)
		}
	}
}

// Flush commits any pending edit immediately.
func (c *FieldController) Flush() { c.deb.Flush() }

// Close cancels pending work. Always called on teardown.
func (c *FieldController) Close() { c.deb.Stop() }

// Record is one entry of a structured multi-record exercise (a character
// profile, a theme profile). Fields hold the per-record sub-fields.
type Record struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// RecordListController autosaves a structured list-of-records exercise. The
// collection never drops to zero records: removing the last one leaves a
// fresh placeholder. New records get a fresh unique id at creation.
type RecordListController struct {
	moduleID   string
	exerciseID string
	persister  Persister
	award      AwardFunc
	required   []string

	mu          sync.Mutex
	records     []Record
	lastSaved   string // JSON-ish fingerprint of the last persisted snapshot
	wasComplete bool

	deb *Debouncer[[]Record]
}

// NewRecordListController seeds from the persisted records, inserting a
// placeholder when none exist. required lists the per-record field names the
// completeness predicate demands non-empty.
func NewRecordListController(p Persister, moduleID, exerciseID string, saved []Record, required []string, wait time.Duration, award AwardFunc) *RecordListController {
	c := &RecordListController{
		moduleID:   moduleID,
		exerciseID: exerciseID,
		persister:  p,
		award:      award,
		required:   required,
	}
	if len(saved) == 0 {
		saved = []Record{newRecord()}
	}
	c.records = cloneRecords(saved)
	c.lastSaved = fingerprint(c.records)
	if c.isComplete(c.records) {
		c.wasComplete = true
	}
	c.deb = NewDebouncer(c.commit, wait)
	return c
}

func newRecord() Record {
	return Record{ID: uuid.NewString(), Fields: map[string]string{}}
}

// AddRecord appends a fresh empty record and returns it.
func (c *RecordListController) AddRecord() Record {
	c.mu.Lock()
	r := newRecord()
	c.records = append(c.records, r)
	snap := cloneRecords(c.records)
	c.mu.Unlock()
	c.deb.Call(snap)
	return r
}

// RemoveRecord deletes a record by id, retaining a placeholder when the last
// one goes. Unknown ids are a no-op.
func (c *RecordListController) RemoveRecord(id string) {
	c.mu.Lock()
	kept := c.records[:0]
	for _, r := range c.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		kept = append(kept, newRecord())
	}
	c.records = kept
	snap := cloneRecords(c.records)
	c.mu.Unlock()
	c.deb.Call(snap)
}

// SetField updates one field of one record and schedules a commit.
func (c *RecordListController) SetField(recordID, field, value string) {
	c.mu.Lock()
	for i := range c.records {
		if c.records[i].ID == recordID {
			if c.records[i].Fields == nil {
				c.records[i].Fields = map[string]string{}
			}
			c.records[i].Fields[field] = value
			break
		}
	}
	snap := cloneRecords(c.records)
	c.mu.Unlock()
	c.deb.Call(snap)
}

// Records returns a snapshot of the current local records.
func (c *RecordListController) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneRecords(c.records)
}

func (c *RecordListController) commit(records []Record) {
	fp := fingerprint(records)
	c.mu.Lock()
	if fp == c.lastSaved {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	ctx := context.Background()
	if err := c.persister.SaveExerciseResponse(ctx, c.moduleID, c.exerciseID, records); err != nil {
		log.Printf("autosave: save records %s/%s: %v", c.moduleID, c.exerciseID, err)
		return
	}

	c.mu.Lock()
	c.lastSaved = fp
	fire := !c.wasComplete && c.isComplete(records)
	if fire {
		c.wasComplete = true
	}
	c.mu.Unlock()

	if fire {
		c.completeAndAward(ctx)
	}
}

func (c *RecordListController) completeAndAward(ctx context.Context) {
	if err := c.persister.CompleteExercise(ctx, c.moduleID, c.exerciseID); err != nil {
		log.Printf("autosave: complete exercise %s/%s: %v", c.moduleID, c.exerciseID, err)
		return
	}
	if c.award != nil {
		if err := c.award(ctx, c.moduleID); err != nil {
			log.Printf("autosave: badge award %s: %v", c.moduleID, err)
		}
	}
}

// isComplete: every record carries every required field non-empty.
func (c *RecordListController) isComplete(records []Record) bool {
	if len(c.required) == 0 || len(records) == 0 {
		return false
	}
	for _, r := range records {
		for _, f := range c.required {
			if r.Fields[f] == "" {
				return false
			}
		}
	}
	return true
}

func (c *RecordListController) Flush() { c.deb.Flush() }
func (c *RecordListController) Close() { c.deb.Stop() }

// fingerprint gives a deterministic snapshot identity for change detection;
// json orders map keys so equal snapshots always compare equal.
func fingerprint(records []Record) string {
	b, err := json.Marshal(records)
	if err != nil {
		return ""
	}
	return string(b)
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		fields := make(map[string]string, len(r.Fields))
		for k, v := range r.Fields {
			fields[k] = v
		}
		out[i] = Record{ID: r.ID, Fields: fields}
	}
	return out
}
