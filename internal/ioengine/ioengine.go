// Package ioengine mediates the store.Set on behalf of the graph engine:
// it hands out fresh identifiers, writes and reads the five record kinds,
// and owns the Dynamic-chunk scalar read/write path, including the
// write-or-update overload and the property-update subtlety described by
// the specification.
package ioengine

import (
	"github.com/dreamware/graphdb/internal/codec"
	"github.com/dreamware/graphdb/internal/graph"
	"github.com/dreamware/graphdb/internal/gverrors"
	"github.com/dreamware/graphdb/internal/record"
	"github.com/dreamware/graphdb/internal/store"
)

// Engine is the storage-facing API sitting directly above store.Set.
type Engine struct {
	stores *store.Set
}

// New wraps an already-opened store.Set.
func New(stores *store.Set) *Engine {
	return &Engine{stores: stores}
}

// Stats returns the current record count of every open store, which also
// serves as the next-id allocator for each store kind.
func (e *Engine) Stats() map[store.Kind]int {
	return e.stores.Stats()
}

// NextID returns the identifier a fresh record of kind would receive if
// inserted now.
func (e *Engine) NextID(kind store.Kind) (int32, error) {
	f, err := e.stores.File(kind)
	if err != nil {
		return 0, err
	}
	return int32(f.CountRecords()), nil
}

// writeBytes implements the write-or-update overload: update=false
// requires idx to equal the store's current record count (an insert),
// allocates a new physical slot, and writes into it; update=true writes
// in place at idx without extending the file.
func (e *Engine) writeBytes(kind store.Kind, idx int32, data []byte, update bool) error {
	f, err := e.stores.File(kind)
	if err != nil {
		return err
	}
	if idx < 0 {
		return gverrors.Wrap(gverrors.InvalidArgument, "ioengine: negative id %d for %s", idx, kind)
	}

	if update {
		if int(idx) >= f.CountRecords() {
			return gverrors.Wrap(gverrors.RecordNotFound, "ioengine: update id %d does not exist in %s", idx, kind)
		}
		rec := record.New(data, int(idx))
		return f.WriteRecord(rec)
	}

	if int(idx) != f.CountRecords() {
		return gverrors.Wrap(gverrors.InvalidArgument, "ioengine: id %d does not match %s's next id %d", idx, kind, f.CountRecords())
	}
	rec, err := f.AllocateRecord()
	if err != nil {
		return err
	}
	rec.Override(0, data)
	return f.WriteRecord(rec)
}

func (e *Engine) readBytes(kind store.Kind, idx int32) ([]byte, error) {
	f, err := e.stores.File(kind)
	if err != nil {
		return nil, err
	}
	rec, err := f.ReadRecord(int(idx))
	if err != nil {
		return nil, err
	}
	return rec.Bytes(), nil
}

// WriteDynamic encodes value as UTF-8, splits it into 27-byte chunks
// numbered firstID upward, and writes them in order. firstID must equal
// the Dynamic store's current record count.
func (e *Engine) WriteDynamic(value graph.Scalar, firstID int32) error {
	payload := []byte(value.Stringify())
	for _, chunk := range codec.SplitDynamicChunks(payload, firstID) {
		if err := e.writeBytes(store.Dynamic, firstID, codec.EncodeDynamicChunk(chunk), false); err != nil {
			return err
		}
		firstID++
	}
	return nil
}

// BuildDynamic walks the Dynamic chain starting at id, reassembles the
// original UTF-8 bytes, and promotes the result to a typed Scalar.
func (e *Engine) BuildDynamic(id int32) (graph.Scalar, error) {
	var chunks []codec.DynamicFields
	for id != codec.InvalidID {
		buf, err := e.readBytes(store.Dynamic, id)
		if err != nil {
			return graph.Scalar{}, err
		}
		chunk, err := codec.DecodeDynamicChunk(buf)
		if err != nil {
			return graph.Scalar{}, err
		}
		chunks = append(chunks, chunk)
		id = chunk.NextChunkID
	}
	return graph.Promote(string(codec.ReassembleDynamicChunks(chunks))), nil
}

// WriteNode persists n's current field values, inserting (update=false)
// or overwriting in place (update=true).
func (e *Engine) WriteNode(n *graph.Node, update bool) error {
	labelID := codec.InvalidID
	if n.Label != nil {
		labelID = n.Label.ID
	}
	fields := codec.NodeFields{Used: n.Used, LabelID: labelID, FirstRelID: n.FirstRelID, FirstPropID: n.FirstPropID}
	return e.writeBytes(store.Node, n.ID, codec.EncodeNode(fields), update)
}

// ReadNode decodes the physical Node record at id without resolving its
// label or properties.
func (e *Engine) ReadNode(id int32) (codec.NodeFields, error) {
	buf, err := e.readBytes(store.Node, id)
	if err != nil {
		return codec.NodeFields{}, err
	}
	return codec.DecodeNode(buf)
}

// WriteRelationship persists r's current field values.
func (e *Engine) WriteRelationship(r *graph.Relationship, update bool) error {
	labelID := codec.InvalidID
	if r.Label != nil {
		labelID = r.Label.ID
	}
	fields := codec.RelationshipFields{
		Used: r.Used, StartNode: r.StartNodeID, EndNode: r.EndNodeID, LabelID: labelID,
		StartPrevID: r.StartPrevID, StartNextID: r.StartNextID,
		EndPrevID: r.EndPrevID, EndNextID: r.EndNextID,
		FirstPropID: r.FirstPropID,
	}
	return e.writeBytes(store.Relationship, r.ID, codec.EncodeRelationship(fields), update)
}

// ReadRelationship decodes the physical Relationship record at id.
func (e *Engine) ReadRelationship(id int32) (codec.RelationshipFields, error) {
	buf, err := e.readBytes(store.Relationship, id)
	if err != nil {
		return codec.RelationshipFields{}, err
	}
	return codec.DecodeRelationship(buf)
}

// WriteLabel persists l, writing a fresh Dynamic chain for its name. It
// is only called once per distinct label name — the graph engine resolves
// an existing label by name before ever calling WriteLabel.
func (e *Engine) WriteLabel(l *graph.Label, update bool) error {
	dynID, err := e.NextID(store.Dynamic)
	if err != nil {
		return err
	}
	if err := e.WriteDynamic(l.Name, dynID); err != nil {
		return err
	}
	fields := codec.LabelFields{Used: l.Used, DynamicID: dynID}
	return e.writeBytes(store.Label, l.ID, codec.EncodeLabel(fields), update)
}

// ReadLabel decodes the physical Label record at id.
func (e *Engine) ReadLabel(id int32) (codec.LabelFields, error) {
	buf, err := e.readBytes(store.Label, id)
	if err != nil {
		return codec.LabelFields{}, err
	}
	return codec.DecodeLabel(buf)
}

// ResolveLabel reads the Label record at id and rebuilds its name from
// the Dynamic store, producing a *graph.Label ready for caching.
func (e *Engine) ResolveLabel(id int32) (*graph.Label, error) {
	fields, err := e.ReadLabel(id)
	if err != nil {
		return nil, err
	}
	name, err := e.BuildDynamic(fields.DynamicID)
	if err != nil {
		return nil, err
	}
	return &graph.Label{ID: id, Used: fields.Used, Name: name}, nil
}

// WriteProperty persists p. On insert (update=false) it writes fresh
// Dynamic chains for both key and value. On update it implements the
// specification's property-update subtlety: it reads the property's
// current on-disk key/value, reassembles them, and only writes a new
// Dynamic chain for whichever of key/value actually changed — never both,
// since the source models a single call as changing at most one field.
func (e *Engine) WriteProperty(p *graph.Property, update bool) error {
	var keyDynID, valueDynID int32

	if update {
		old, err := e.ReadProperty(p.ID)
		if err != nil {
			return err
		}
		keyDynID, valueDynID = old.KeyDynID, old.ValueDynID

		oldKey, err := e.BuildDynamic(old.KeyDynID)
		if err != nil {
			return err
		}
		oldValue, err := e.BuildDynamic(old.ValueDynID)
		if err != nil {
			return err
		}

		switch {
		case !oldKey.Equal(p.Key):
			keyDynID, err = e.NextID(store.Dynamic)
			if err != nil {
				return err
			}
			if err := e.WriteDynamic(p.Key, keyDynID); err != nil {
				return err
			}
		case !oldValue.Equal(p.Value):
			valueDynID, err = e.NextID(store.Dynamic)
			if err != nil {
				return err
			}
			if err := e.WriteDynamic(p.Value, valueDynID); err != nil {
				return err
			}
		}
	} else {
		var err error
		keyDynID, err = e.NextID(store.Dynamic)
		if err != nil {
			return err
		}
		if err := e.WriteDynamic(p.Key, keyDynID); err != nil {
			return err
		}
		valueDynID, err = e.NextID(store.Dynamic)
		if err != nil {
			return err
		}
		if err := e.WriteDynamic(p.Value, valueDynID); err != nil {
			return err
		}
	}

	fields := codec.PropertyFields{Used: p.Used, KeyDynID: keyDynID, ValueDynID: valueDynID, NextPropID: p.NextPropID}
	return e.writeBytes(store.Property, p.ID, codec.EncodeProperty(fields), update)
}

// ReadProperty decodes the physical Property record at id.
func (e *Engine) ReadProperty(id int32) (codec.PropertyFields, error) {
	buf, err := e.readBytes(store.Property, id)
	if err != nil {
		return codec.PropertyFields{}, err
	}
	return codec.DecodeProperty(buf)
}

// ResolveProperty reads the Property record at id and rebuilds its key
// and value from the Dynamic store.
func (e *Engine) ResolveProperty(id int32) (*graph.Property, error) {
	fields, err := e.ReadProperty(id)
	if err != nil {
		return nil, err
	}
	key, err := e.BuildDynamic(fields.KeyDynID)
	if err != nil {
		return nil, err
	}
	value, err := e.BuildDynamic(fields.ValueDynID)
	if err != nil {
		return nil, err
	}
	return &graph.Property{ID: id, Used: fields.Used, Key: key, Value: value, NextPropID: fields.NextPropID}, nil
}

// Close flushes and closes the underlying store set.
func (e *Engine) Close() error {
	return e.stores.Close()
}
