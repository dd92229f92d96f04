package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotFileName is the conventional name of the viewport snapshot file.
const SnapshotFileName = "viewport-snapshots-ohif.json"

// Serialize encodes the document as the persisted JSON schema: an array of
// [name, snapshot] pairs, indented two spaces like the original exporter.
func Serialize(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot document: %w", err)
	}
	return data, nil
}

// Deserialize is the exact inverse of Serialize for well-formed input.
// Malformed input fails with a SchemaError naming the offending field.
func Deserialize(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, wrapSchemaError(err)
	}
	return doc, nil
}

// wrapSchemaError keeps SchemaErrors produced by the custom unmarshalers
// intact and converts other decoding failures into one.
func wrapSchemaError(err error) error {
	if _, ok := err.(*SchemaError); ok {
		return err
	}
	if je, ok := err.(*json.UnmarshalTypeError); ok {
		return &SchemaError{Field: je.Field, Reason: fmt.Sprintf("cannot decode %s into %s", je.Value, je.Type)}
	}
	return &SchemaError{Field: "document", Reason: err.Error()}
}

// decodeSnapshot decodes a snapshot object, checking the required keys
// and shapes before the typed decode so failures name the field.
func decodeSnapshot(data []byte) (Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, &SchemaError{Field: "snapshot", Reason: "not an object: " + err.Error()}
	}
	for _, key := range []string{"name", "timestamp", "radius", "length", "transform", "viewports"} {
		if _, ok := raw[key]; !ok {
			return Snapshot{}, &SchemaError{Field: key, Reason: "missing required key"}
		}
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, wrapSchemaError(err)
	}
	if len(snap.Transform) != 16 {
		return Snapshot{}, &SchemaError{Field: "transform", Reason: fmt.Sprintf("has %d elements, want 16", len(snap.Transform))}
	}
	if len(snap.Viewports) != 3 {
		return Snapshot{}, &SchemaError{Field: "viewports", Reason: fmt.Sprintf("has %d viewports, want 3 (axial, sagittal, coronal)", len(snap.Viewports))}
	}
	return snap, nil
}

// Save serializes the document and writes it to path atomically: the data
// goes to a temporary file in the same directory which is renamed over the
// target, so a failed save never leaves a partial file and never touches
// the prior output.
func Save(path string, doc Document) error {
	data, err := Serialize(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("creating temporary snapshot file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing snapshot file: %w", err)
	}
	return nil
}

// Load reads and deserializes a snapshot file.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	return Deserialize(data)
}
