package changefeed

import (
	"encoding/json"
	"fmt"

	"comment-censor/internal/domain"
)

type changeRow struct {
	Seq           int64
	Collection    string
	Operation     string
	DocumentID    string
	FullDocument  []byte
	UpdatedFields []byte
}

func decodeRow(r changeRow) (domain.ChangeEvent, error) {
	op, err := domain.ParseOperationType(r.Operation)
	if err != nil {
		return domain.ChangeEvent{}, err
	}

	ev := domain.ChangeEvent{
		Seq:        r.Seq,
		Collection: r.Collection,
		Operation:  op,
		DocumentID: r.DocumentID,
	}

	switch op {
	case domain.OperationInsert:
		if len(r.FullDocument) == 0 {
			return domain.ChangeEvent{}, fmt.Errorf("insert %s without document", r.DocumentID)
		}
		if err := json.Unmarshal(r.FullDocument, &ev.FullDocument); err != nil {
			return domain.ChangeEvent{}, fmt.Errorf("failed to decode document: %w", err)
		}
	case domain.OperationUpdate:
		ev.UpdatedFields = map[string]interface{}{}
		if len(r.UpdatedFields) > 0 {
			if err := json.Unmarshal(r.UpdatedFields, &ev.UpdatedFields); err != nil {
				return domain.ChangeEvent{}, fmt.Errorf("failed to decode updated fields: %w", err)
			}
		}
	}

	return ev, nil
}
