package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

type shape uint8

const (
	shapeInvalid shape = iota
	shapeSingle
	shapeSequence
)

// Raw is one container's unnormalized payload. Containers answer with either
// a single record or a list of records; anything else decodes to an invalid
// Raw that contributes nothing. Decoding a Raw never fails.
type Raw struct {
	shape   shape
	records []Record
}

// Batch maps a container id to the payload that container returned.
type Batch map[string]Raw

func Single(rec Record) Raw {
	return Raw{shape: shapeSingle, records: []Record{rec}}
}

func Sequence(recs ...Record) Raw {
	return Raw{shape: shapeSequence, records: recs}
}

func (r Raw) Valid() bool { return r.shape != shapeInvalid }

// Normalize flattens a payload into the records it carries.
func Normalize(r Raw) []Record {
	switch r.shape {
	case shapeSingle:
		return []Record{r.records[0]}
	case shapeSequence:
		out := make([]Record, len(r.records))
		copy(out, r.records)
		return out
	default:
		return nil
	}
}

func (r *Raw) UnmarshalJSON(data []byte) error {
	*r = Raw{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '{':
		rec, ok := decodeRecordJSON(data)
		if !ok {
			return nil
		}
		*r = Single(rec)
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return nil
		}
		recs := make([]Record, 0, len(elems))
		for _, elem := range elems {
			elem = bytes.TrimSpace(elem)
			if len(elem) == 0 || elem[0] != '{' {
				continue
			}
			rec, ok := decodeRecordJSON(elem)
			if !ok {
				continue
			}
			recs = append(recs, rec)
		}
		*r = Sequence(recs...)
	}
	return nil
}

func (r *Raw) UnmarshalYAML(value *yaml.Node) error {
	*r = Raw{}
	value = resolveAlias(value)

	switch value.Kind {
	case yaml.MappingNode:
		rec, ok := decodeRecordYAML(value)
		if !ok {
			return nil
		}
		*r = Single(rec)
	case yaml.SequenceNode:
		recs := make([]Record, 0, len(value.Content))
		for _, elem := range value.Content {
			elem = resolveAlias(elem)
			if elem.Kind != yaml.MappingNode {
				continue
			}
			rec, ok := decodeRecordYAML(elem)
			if !ok {
				continue
			}
			recs = append(recs, rec)
		}
		*r = Sequence(recs...)
	}
	return nil
}

// decodeRecordJSON keeps numbers as json.Number so 64-bit ids and counters
// survive without float rounding.
func decodeRecordJSON(data []byte) (Record, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil || m == nil {
		return nil, false
	}
	return Record(Sanitize(m).(map[string]any)), true
}

func decodeRecordYAML(n *yaml.Node) (Record, bool) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, false
	}
	m, ok := Sanitize(v).(map[string]any)
	if !ok {
		return nil, false
	}
	return Record(m), true
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// DecodeBatchJSON decodes a container-id keyed object. Only the top level has
// to be well formed; each container value is decoded leniently.
func DecodeBatchJSON(data []byte) (Batch, error) {
	var batch Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	if batch == nil {
		return nil, fmt.Errorf("decode batch: expected an object keyed by container id")
	}
	return batch, nil
}

// ContainerIDs returns the ids of a batch in sorted order.
func ContainerIDs(b Batch) []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
