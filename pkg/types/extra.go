package types

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"strconv"
)

// Extra holds the members of a plan document object that Woolly does not
// model. They are kept verbatim so a rewrite of the document does not drop
// keys written by other tools.
type Extra map[string]json.RawMessage

// Clone returns a copy of e. A nil Extra clones to nil.
func (e Extra) Clone() Extra {
	if e == nil {
		return nil
	}
	out := make(Extra, len(e))
	for k, v := range e {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// Field names of the modeled members, per object.
var (
	planFields      = []string{"projectName", "description", "phases"}
	phaseFields     = []string{"phaseNumber", "title", "status", "description", "duration", "checklist"}
	taskFields      = []string{"id", "category", "description", "status", "priority"}
	boardTaskFields = []string{"phase", "phaseNumber"}
)

// Aliases without methods, so the codecs below can reuse the struct tags.
type (
	planJSON  Plan
	phaseJSON Phase
	taskJSON  Task
)

// MarshalJSON encodes the plan followed by its unmodeled members.
func (p Plan) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(planJSON(p), p.Extra)
}

// UnmarshalJSON decodes the plan and keeps unmodeled members in Extra.
func (p *Plan) UnmarshalJSON(data []byte) error {
	var v planJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, planFields)
	if err != nil {
		return err
	}
	*p = Plan(v)
	p.Extra = extra
	return nil
}

// MarshalJSON encodes the phase followed by its unmodeled members.
func (ph Phase) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(phaseJSON(ph), ph.Extra)
}

// UnmarshalJSON decodes the phase and keeps unmodeled members in Extra.
func (ph *Phase) UnmarshalJSON(data []byte) error {
	var v phaseJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, phaseFields)
	if err != nil {
		return err
	}
	*ph = Phase(v)
	ph.Extra = extra
	return nil
}

// MarshalJSON encodes the task followed by its unmodeled members.
func (t Task) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(taskJSON(t), t.Extra)
}

// UnmarshalJSON decodes the task and keeps unmodeled members in Extra.
func (t *Task) UnmarshalJSON(data []byte) error {
	var v taskJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, taskFields)
	if err != nil {
		return err
	}
	*t = Task(v)
	t.Extra = extra
	return nil
}

// MarshalJSON encodes the task with its phase annotations. Without it the
// embedded Task's codec would hide Phase and PhaseNumber.
func (b BoardTask) MarshalJSON() ([]byte, error) {
	extra := b.Task.Extra.Clone()
	if extra == nil {
		extra = Extra{}
	}
	phase, err := json.Marshal(b.Phase)
	if err != nil {
		return nil, err
	}
	extra["phase"] = phase
	extra["phaseNumber"] = json.RawMessage(strconv.Itoa(b.PhaseNumber))
	return marshalWithExtra(taskJSON(b.Task), extra)
}

// UnmarshalJSON decodes a BoardTask written by MarshalJSON.
func (b *BoardTask) UnmarshalJSON(data []byte) error {
	var task Task
	if err := json.Unmarshal(data, &task); err != nil {
		return err
	}
	var ann struct {
		Phase       string `json:"phase"`
		PhaseNumber int    `json:"phaseNumber"`
	}
	if err := json.Unmarshal(data, &ann); err != nil {
		return err
	}
	for _, k := range boardTaskFields {
		delete(task.Extra, k)
	}
	if len(task.Extra) == 0 {
		task.Extra = nil
	}
	*b = BoardTask{Task: task, Phase: ann.Phase, PhaseNumber: ann.PhaseNumber}
	return nil
}

// marshalWithExtra encodes v and appends the members of extra that v does
// not already define. Modeled members keep their struct order; extra
// members follow in key order.
func marshalWithExtra(v any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(data, &known); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(bytes.TrimSuffix(bytes.TrimSpace(data), []byte("}")))
	first := len(known) == 0
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		if _, ok := known[k]; ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// splitExtra returns the members of the JSON object data whose names are
// not in known, compacted, or nil when there are none.
func splitExtra(data []byte, known []string) (Extra, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	for k, v := range all {
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return nil, err
		}
		all[k] = buf.Bytes()
	}
	return Extra(all), nil
}
