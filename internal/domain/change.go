package domain

import "fmt"

type OperationType string

const (
	OperationInsert OperationType = "insert"
	OperationUpdate OperationType = "update"
	OperationDelete OperationType = "delete"
)

func ParseOperationType(s string) (OperationType, error) {
	switch op := OperationType(s); op {
	case OperationInsert, OperationUpdate, OperationDelete:
		return op, nil
	}
	return "", fmt.Errorf("unknown operation type %q", s)
}

// ChangeEvent is one write observed on a collection. Operation selects which
// payload is populated: FullDocument for inserts, UpdatedFields for updates,
// neither for deletes. DocumentID is always set.
type ChangeEvent struct {
	Seq           int64
	Collection    string
	Operation     OperationType
	DocumentID    string
	FullDocument  map[string]interface{}
	UpdatedFields map[string]interface{}
}

// StringField returns a string field carried by the event. For inserts it is
// looked up in the full document, for updates only among the updated fields.
// Deletes carry no fields.
func (e ChangeEvent) StringField(name string) (string, bool) {
	var fields map[string]interface{}
	switch e.Operation {
	case OperationInsert:
		fields = e.FullDocument
	case OperationUpdate:
		fields = e.UpdatedFields
	default:
		return "", false
	}

	v, ok := fields[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
