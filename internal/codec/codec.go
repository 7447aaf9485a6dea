// Package codec implements the stateless binary encoding and decoding for
// the five physical record kinds: Node, Relationship, Label, Property, and
// Dynamic chunk. Every layout below is byte-exact and fixed; integers are
// big-endian signed, booleans are one byte, and scalar payloads (property
// keys, values, and label names) travel through the Dynamic store as
// UTF-8 text split into 27-byte chunks.
package codec

import (
	"encoding/binary"

	"github.com/dreamware/graphdb/internal/gverrors"
)

// InvalidID is the sentinel identifier meaning "absent". It is always
// encoded as a signed big-endian -1, never as the all-ASCII-zero shortcut
// some drafts of the source system used.
const InvalidID int32 = -1

// Fixed record sizes, per the specification's layout table.
const (
	NodeRecordSize         = 13
	RelationshipRecordSize = 33
	LabelRecordSize        = 5
	PropertyRecordSize     = 13
	DynamicRecordSize      = 32
	DynamicPayloadSize     = 27
)

func putInt32(dst []byte, v int32) {
	binary.BigEndian.PutUint32(dst, uint32(v))
}

func getInt32(src []byte) int32 {
	return int32(binary.BigEndian.Uint32(src))
}

func putBool(dst []byte, v bool) {
	if v {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
}

func getBool(src []byte) bool {
	return src[0] != 0
}

// NodeFields is the decoded contents of a physical Node record.
type NodeFields struct {
	Used         bool
	LabelID      int32
	FirstRelID   int32
	FirstPropID  int32
}

// EncodeNode lays out a Node record:
//
//	used:1  label_id:4  first_rel_id:4  first_prop_id:4
func EncodeNode(f NodeFields) []byte {
	buf := make([]byte, NodeRecordSize)
	putBool(buf[0:1], f.Used)
	putInt32(buf[1:5], f.LabelID)
	putInt32(buf[5:9], f.FirstRelID)
	putInt32(buf[9:13], f.FirstPropID)
	return buf
}

// DecodeNode parses a physical Node record.
func DecodeNode(buf []byte) (NodeFields, error) {
	if len(buf) != NodeRecordSize {
		return NodeFields{}, gverrors.Wrap(gverrors.CorruptStore, "node record has %d bytes, want %d", len(buf), NodeRecordSize)
	}
	return NodeFields{
		Used:        getBool(buf[0:1]),
		LabelID:     getInt32(buf[1:5]),
		FirstRelID:  getInt32(buf[5:9]),
		FirstPropID: getInt32(buf[9:13]),
	}, nil
}

// RelationshipFields is the decoded contents of a physical Relationship
// record.
type RelationshipFields struct {
	Used        bool
	StartNode   int32
	EndNode     int32
	LabelID     int32
	StartPrevID int32
	StartNextID int32
	EndPrevID   int32
	EndNextID   int32
	FirstPropID int32
}

// EncodeRelationship lays out a Relationship record:
//
//	used:1 start_node:4 end_node:4 label_id:4
//	start_prev:4 start_next:4 end_prev:4 end_next:4 first_prop_id:4
func EncodeRelationship(f RelationshipFields) []byte {
	buf := make([]byte, RelationshipRecordSize)
	putBool(buf[0:1], f.Used)
	putInt32(buf[1:5], f.StartNode)
	putInt32(buf[5:9], f.EndNode)
	putInt32(buf[9:13], f.LabelID)
	putInt32(buf[13:17], f.StartPrevID)
	putInt32(buf[17:21], f.StartNextID)
	putInt32(buf[21:25], f.EndPrevID)
	putInt32(buf[25:29], f.EndNextID)
	putInt32(buf[29:33], f.FirstPropID)
	return buf
}

// DecodeRelationship parses a physical Relationship record.
func DecodeRelationship(buf []byte) (RelationshipFields, error) {
	if len(buf) != RelationshipRecordSize {
		return RelationshipFields{}, gverrors.Wrap(gverrors.CorruptStore, "relationship record has %d bytes, want %d", len(buf), RelationshipRecordSize)
	}
	return RelationshipFields{
		Used:        getBool(buf[0:1]),
		StartNode:   getInt32(buf[1:5]),
		EndNode:     getInt32(buf[5:9]),
		LabelID:     getInt32(buf[9:13]),
		StartPrevID: getInt32(buf[13:17]),
		StartNextID: getInt32(buf[17:21]),
		EndPrevID:   getInt32(buf[21:25]),
		EndNextID:   getInt32(buf[25:29]),
		FirstPropID: getInt32(buf[29:33]),
	}, nil
}

// LabelFields is the decoded contents of a physical Label record.
type LabelFields struct {
	Used      bool
	DynamicID int32
}

// EncodeLabel lays out a Label record: used:1 dynamic_id:4
func EncodeLabel(f LabelFields) []byte {
	buf := make([]byte, LabelRecordSize)
	putBool(buf[0:1], f.Used)
	putInt32(buf[1:5], f.DynamicID)
	return buf
}

// DecodeLabel parses a physical Label record.
func DecodeLabel(buf []byte) (LabelFields, error) {
	if len(buf) != LabelRecordSize {
		return LabelFields{}, gverrors.Wrap(gverrors.CorruptStore, "label record has %d bytes, want %d", len(buf), LabelRecordSize)
	}
	return LabelFields{
		Used:      getBool(buf[0:1]),
		DynamicID: getInt32(buf[1:5]),
	}, nil
}

// PropertyFields is the decoded contents of a physical Property record.
type PropertyFields struct {
	Used       bool
	KeyDynID   int32
	ValueDynID int32
	NextPropID int32
}

// EncodeProperty lays out a Property record:
//
//	used:1 key_dyn_id:4 value_dyn_id:4 next_prop_id:4
func EncodeProperty(f PropertyFields) []byte {
	buf := make([]byte, PropertyRecordSize)
	putBool(buf[0:1], f.Used)
	putInt32(buf[1:5], f.KeyDynID)
	putInt32(buf[5:9], f.ValueDynID)
	putInt32(buf[9:13], f.NextPropID)
	return buf
}

// DecodeProperty parses a physical Property record.
func DecodeProperty(buf []byte) (PropertyFields, error) {
	if len(buf) != PropertyRecordSize {
		return PropertyFields{}, gverrors.Wrap(gverrors.CorruptStore, "property record has %d bytes, want %d", len(buf), PropertyRecordSize)
	}
	return PropertyFields{
		Used:       getBool(buf[0:1]),
		KeyDynID:   getInt32(buf[1:5]),
		ValueDynID: getInt32(buf[5:9]),
		NextPropID: getInt32(buf[9:13]),
	}, nil
}

// DynamicFields is the decoded contents of one physical Dynamic chunk.
type DynamicFields struct {
	PayloadSize byte
	Payload     [DynamicPayloadSize]byte
	NextChunkID int32
}

// EncodeDynamicChunk lays out one Dynamic chunk record:
//
//	payload_size:1 payload:27 next_chunk_id:4
func EncodeDynamicChunk(f DynamicFields) []byte {
	buf := make([]byte, DynamicRecordSize)
	buf[0] = f.PayloadSize
	copy(buf[1:1+DynamicPayloadSize], f.Payload[:])
	putInt32(buf[1+DynamicPayloadSize:DynamicRecordSize], f.NextChunkID)
	return buf
}

// DecodeDynamicChunk parses one physical Dynamic chunk record.
func DecodeDynamicChunk(buf []byte) (DynamicFields, error) {
	if len(buf) != DynamicRecordSize {
		return DynamicFields{}, gverrors.Wrap(gverrors.CorruptStore, "dynamic record has %d bytes, want %d", len(buf), DynamicRecordSize)
	}
	var f DynamicFields
	f.PayloadSize = buf[0]
	copy(f.Payload[:], buf[1:1+DynamicPayloadSize])
	f.NextChunkID = getInt32(buf[1+DynamicPayloadSize : DynamicRecordSize])
	return f, nil
}

// SplitDynamicChunks splits the UTF-8 bytes of payload into 27-byte
// groups, one Dynamic chunk per group, numbered firstID, firstID+1, ...
// The last group's PayloadSize records the actual used byte count and its
// NextChunkID is InvalidID; every earlier chunk points at its successor.
func SplitDynamicChunks(payload []byte, firstID int32) []DynamicFields {
	if len(payload) == 0 {
		var f DynamicFields
		f.PayloadSize = 0
		f.NextChunkID = InvalidID
		return []DynamicFields{f}
	}

	n := (len(payload) + DynamicPayloadSize - 1) / DynamicPayloadSize
	chunks := make([]DynamicFields, n)
	for i := 0; i < n; i++ {
		start := i * DynamicPayloadSize
		end := start + DynamicPayloadSize
		if end > len(payload) {
			end = len(payload)
		}
		var f DynamicFields
		f.PayloadSize = byte(end - start)
		copy(f.Payload[:], payload[start:end])
		if i < n-1 {
			f.NextChunkID = firstID + int32(i) + 1
		} else {
			f.NextChunkID = InvalidID
		}
		chunks[i] = f
	}
	return chunks
}

// ReassembleDynamicChunks concatenates the used bytes of each chunk in
// chain order, yielding the original encoded payload.
func ReassembleDynamicChunks(chunks []DynamicFields) []byte {
	var out []byte
	for _, c := range chunks {
		out = append(out, c.Payload[:c.PayloadSize]...)
	}
	return out
}
