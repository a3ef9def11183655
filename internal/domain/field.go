package domain

// FieldDescriptor describes one dynamically required or optional field of
// the DELTA step. Descriptors are consumed to compute required-field sets
// and to build input forms; they are never persisted with a profile.
type FieldDescriptor struct {
	Key      string    `json:"key" yaml:"key"`
	Label    string    `json:"label,omitempty" yaml:"label,omitempty"`
	Kind     FieldKind `json:"kind" yaml:"kind"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Options  []string  `json:"options,omitempty" yaml:"options,omitempty"`
}

// DisplayLabel returns Label, falling back to Key.
func (f FieldDescriptor) DisplayLabel() string {
	return CoalesceStr(f.Label, f.Key)
}

// RequiredKeys returns the keys of required descriptors in declaration order.
func RequiredKeys(fields []FieldDescriptor) []string {
	var keys []string
	for _, f := range fields {
		if f.Required {
			keys = append(keys, f.Key)
		}
	}
	return keys
}
