package scene

import (
	"encoding/json"
	"fmt"
)

// MergeStyle decodes the JSON object patch over a copy of a. Fields absent
// from patch keep their current value. Unknown fields are ignored.
func MergeStyle(a Attributes, patch json.RawMessage) (Attributes, error) {
	if len(patch) == 0 {
		return a, nil
	}
	a = cloneAttrs(a)

	var err error
	switch v := a.(type) {
	case Shape:
		err = json.Unmarshal(patch, &v)
		a = v
	case Text:
		err = json.Unmarshal(patch, &v)
		a = v
	case Image:
		err = json.Unmarshal(patch, &v)
		a = v
	case Button:
		err = json.Unmarshal(patch, &v)
		a = v
	case Card:
		err = json.Unmarshal(patch, &v)
		a = v
	case Section:
		err = json.Unmarshal(patch, &v)
		a = v
	case Group:
		var fields map[string]json.RawMessage
		err = json.Unmarshal(patch, &fields)
	case Line:
		err = json.Unmarshal(patch, &v)
		a = v
	default:
		return nil, fmt.Errorf("style for %T: %w", a, ErrUnknownKind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode style: %w", err)
	}
	return a, nil
}

// DecodeStyle builds the attributes of kind k from a JSON style object.
func DecodeStyle(k Kind, raw json.RawMessage) (Attributes, error) {
	a, err := DefaultAttributes(k)
	if err != nil {
		return nil, err
	}
	return MergeStyle(a, raw)
}

// EncodeStyle returns the JSON style object for a.
func EncodeStyle(a Attributes) json.RawMessage {
	if a == nil {
		return json.RawMessage(`{}`)
	}
	data, err := json.Marshal(a)
	if err != nil {
		// Attribute structs hold only strings, numbers and float slices.
		return json.RawMessage(`{}`)
	}
	return data
}
