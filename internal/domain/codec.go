package domain

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// MarshalStep encodes the slice owned by id as JSON.
func MarshalStep(s *WizardState, id StepID) ([]byte, error) {
	slot, err := s.Slot(id)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(slot)
	if err != nil {
		return nil, fmt.Errorf("encoding step %s: %w", id, err)
	}
	return data, nil
}

// UnmarshalStep decodes data into the slice owned by id, replacing it.
func UnmarshalStep(s *WizardState, id StepID, data []byte) error {
	slot, err := s.Slot(id)
	if err != nil {
		return err
	}
	v := reflect.ValueOf(slot).Elem()
	v.Set(reflect.Zero(v.Type()))
	if err := json.Unmarshal(data, slot); err != nil {
		return fmt.Errorf("decoding step %s: %w", id, err)
	}
	return nil
}
