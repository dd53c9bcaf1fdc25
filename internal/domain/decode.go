package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// RecordError reports the fields of one stored record that could not be
// coerced. The record itself is still returned with every field that could.
type RecordError struct {
	Index int    // position in the stored collection
	ID    string // record id, when readable
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (id %q): %v", e.Index, e.ID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// DecodeTasks decodes a persisted task collection. Individual records are
// decoded leniently: scalar types are coerced ("true", 1, "3", 72.6), unknown
// keys are ignored and entries that are not objects are skipped, so partial
// or legacy records still load. Fields that resist coercion keep their zero
// value and are reported in problems. Only malformed JSON is an error.
func DecodeTasks(data []byte) (tasks []*Task, problems []*RecordError, err error) {
	records, err := decodeRecords(data)
	if err != nil {
		return nil, nil, err
	}

	tasks = make([]*Task, 0, len(records))
	for _, rec := range records {
		var task Task
		if err := decodeLenient(rec.fields, &task); err != nil {
			problems = append(problems, rec.problem(err))
		}
		tasks = append(tasks, &task)
	}
	return tasks, problems, nil
}

// DecodeCategories decodes a persisted category collection with the same
// leniency as DecodeTasks.
func DecodeCategories(data []byte) (categories []*Category, problems []*RecordError, err error) {
	records, err := decodeRecords(data)
	if err != nil {
		return nil, nil, err
	}

	categories = make([]*Category, 0, len(records))
	for _, rec := range records {
		var category Category
		if err := decodeLenient(rec.fields, &category); err != nil {
			problems = append(problems, rec.problem(err))
		}
		categories = append(categories, &category)
	}
	return categories, problems, nil
}

type record struct {
	index  int
	fields map[string]any
}

func (r record) problem(err error) *RecordError {
	id, _ := r.fields["id"].(string)
	return &RecordError{Index: r.index, ID: id, Err: err}
}

func decodeRecords(data []byte) ([]record, error) {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal collection: %w", err)
	}

	records := make([]record, 0, len(raw))
	for i, entry := range raw {
		if fields, ok := entry.(map[string]any); ok {
			records = append(records, record{index: i, fields: fields})
		}
	}
	return records, nil
}

func decodeLenient(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       roundFloatHook,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	return decoder.Decode(input)
}

// roundFloatHook rounds JSON numbers decoded into integer fields instead of
// truncating them.
func roundFloatHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float64 {
		return data, nil
	}
	if to.Kind() == reflect.Pointer {
		to = to.Elem()
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return math.Round(data.(float64)), nil
	default:
		return data, nil
	}
}
