package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrMalformed is returned by Decode when the stored value is not a valid task list.
var ErrMalformed = errors.New("malformed task list")

const taskListSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "content", "isCompleted"],
		"properties": {
			"id": {"type": "integer"},
			"content": {"type": "string", "minLength": 1},
			"isCompleted": {"type": "boolean"}
		}
	}
}`

var schema = jsonschema.MustCompileString("todos.schema.json", taskListSchema)

// Encode serializes tasks as a JSON array. A nil list encodes as [].
func Encode(tasks []Task) (string, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return string(data), nil
}

// Decode parses and validates a stored task list.
func Decode(data string) ([]Task, error) {
	var raw any
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var tasks []Task
	if err := json.Unmarshal([]byte(data), &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// maxID is the largest id a JSON number carries exactly.
const maxID int64 = 1<<53 - 1

// dedupeIDs gives a fresh id to every task whose id is out of range or
// already held by an earlier task. It returns the next free id and how many
// tasks were renumbered.
func dedupeIDs(tasks []Task) (next int64, renumbered int) {
	next = 1
	for _, t := range tasks {
		if t.ID <= maxID && t.ID >= next {
			next = t.ID + 1
		}
	}
	seen := make(map[int64]struct{}, len(tasks))
	var fix []int
	for i, t := range tasks {
		if _, dup := seen[t.ID]; dup || t.ID > maxID {
			fix = append(fix, i)
			continue
		}
		seen[t.ID] = struct{}{}
	}
	for _, i := range fix {
		tasks[i].ID, next = allocID(seen, next)
		seen[tasks[i].ID] = struct{}{}
	}
	return next, len(fix)
}

// allocID hands out next while it is in range. Past maxID it falls back to
// the lowest positive id missing from used, and next stays put.
func allocID(used map[int64]struct{}, next int64) (id, after int64) {
	if next <= maxID {
		return next, next + 1
	}
	for id = 1; ; id++ {
		if _, ok := used[id]; !ok {
			return id, next
		}
	}
}
