package crate

import (
	"fmt"
	"sort"

	"github.com/molcrate/molexport/errs"
	"github.com/molcrate/molexport/internal/options"
	"github.com/molcrate/molexport/scene"
	"github.com/molcrate/molexport/sink"
)

// Field name tokens used as fixed vocabulary throughout the tree walk.
const (
	fieldSpecifier          = "specifier"
	fieldTypeName           = "typeName"
	fieldProperties         = "properties"
	fieldPrimChildren       = "primChildren"
	fieldDefault            = "default"
	fieldTimeSamples        = "timeSamples"
	fieldConnectionPaths    = "connectionPaths"
	fieldConnectionChildren = "connectionChildren"
	fieldTargetPaths        = "targetPaths"
	fieldTargetChildren     = "targetChildren"
	fieldVariability        = "variability"
)

// Writer walks a scene.Root and assembles a Crate binary file into a byte
// sink, interning tokens/strings/fields/field-sets/paths/specs exactly as
// spec.md §3 and §4.7 describe.
type Writer struct {
	body *sink.Sink

	tokens    *internTable
	strings   *stringRefTable
	fields    *fieldTable
	fieldSets *fieldSetTable
	paths     *pathTable
	specs     *specTable
	blobs     *blobDedup

	timeSamplesFramesOffset int64

	stats Stats
}

// NewWriter creates an empty Writer, applying any options in order
// (e.g. crate.WithTokenHashing, crate.WithCollisionTracking).
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		body:                    sink.New(),
		tokens:                  newInternTable(),
		strings:                 newStringRefTable(),
		fields:                  newFieldTable(),
		fieldSets:               &fieldSetTable{},
		paths:                   &pathTable{},
		specs:                   &specTable{},
		blobs:                   newBlobDedup(),
		timeSamplesFramesOffset: -1,
	}

	_ = options.Apply(w, opts...)

	return w
}

// WriteScene walks root and its subtree, registering every prim and
// attribute into the intern tables and writing out-of-line value payloads
// as it goes. root.AssignPathIndices must already have run.
func (w *Writer) WriteScene(root *scene.Root) error {
	if err := root.Validate(); err != nil {
		return err
	}

	if err := w.writeRoot(root); err != nil {
		return err
	}

	for _, p := range root.Children {
		if err := w.writePrim(p); err != nil {
			return err
		}
	}

	return nil
}

func (w *Writer) writeRoot(root *scene.Root) error {
	fields, err := w.buildMetadataFields(root.Metadata)
	if err != nil {
		return err
	}

	if len(root.Children) > 0 {
		names := make([]string, len(root.Children))
		for i, c := range root.Children {
			names[i] = c.Name
		}

		rep := w.writeTokenVector(names)
		fields = append(fields, w.fields.intern(w.tokens.intern(fieldPrimChildren), rep))
	}

	fsIdx := w.fieldSets.allocate(fields)
	w.specs.add(0, fsIdx, specPseudoRoot)

	rootTok := w.tokens.intern("")
	jump := int32(-2)
	if len(root.Children) > 0 {
		jump = -1
	}
	w.paths.add(0, -rootTok, jump)

	return nil
}

// writePrim registers p's field-set and spec, then recurses into its
// children before writing its own attributes, per spec.md §4.7 ("Recurse
// into children, then write attributes").
func (w *Writer) writePrim(p *scene.Prim) error {
	var fields []int32

	specifierRep := inlineRep(uint32(p.Specifier), tagSpecifier) //nolint:gosec
	fields = append(fields, w.fields.intern(w.tokens.intern(fieldSpecifier), specifierRep))

	typeNameTok := w.tokens.intern(p.TypeName)
	fields = append(fields, w.fields.intern(w.tokens.intern(fieldTypeName), inlineRep(uint32(typeNameTok), tagToken))) //nolint:gosec

	metaFields, err := w.buildMetadataFields(p.Metadata)
	if err != nil {
		return fmt.Errorf("prim %q: %w", p.Name, err)
	}
	fields = append(fields, metaFields...)

	if len(p.Attrs) > 0 {
		names := make([]string, len(p.Attrs))
		for i, a := range p.Attrs {
			names[i] = a.Name
		}

		rep := w.writeTokenVector(names)
		fields = append(fields, w.fields.intern(w.tokens.intern(fieldProperties), rep))
	}

	if len(p.Children) > 0 {
		names := make([]string, len(p.Children))
		for i, c := range p.Children {
			names[i] = c.Name
		}

		rep := w.writeTokenVector(names)
		fields = append(fields, w.fields.intern(w.tokens.intern(fieldPrimChildren), rep))
	}

	fsIdx := w.fieldSets.allocate(fields)
	w.specs.add(p.PathIndex(), fsIdx, specPrim)

	tok := w.tokens.intern(p.Name)
	w.paths.add(p.PathIndex(), -tok, p.Jump())

	for _, c := range p.Children {
		if err := w.writePrim(c); err != nil {
			return err
		}
	}

	for _, a := range p.Attrs {
		if err := w.writeAttribute(a); err != nil {
			return fmt.Errorf("prim %q: %w", p.Name, err)
		}
	}

	return nil
}

// writeAttribute dispatches on the attribute's value shape: a connection
// (pointing at another attribute), a relationship (pointing at a prim), or
// a plain value, per spec.md §4.7's three cases.
func (w *Writer) writeAttribute(a *scene.Attribute) error {
	switch {
	case a.Value.Connection != nil:
		return w.writeConnectionAttribute(a)
	case a.Value.Relationship != nil:
		return w.writeRelationshipAttribute(a)
	default:
		return w.writePlainAttribute(a)
	}
}

func (w *Writer) writeConnectionAttribute(a *scene.Attribute) error {
	var fields []int32

	typeNameTok := w.tokens.intern(a.TypeName)
	fields = append(fields, w.fields.intern(w.tokens.intern(fieldTypeName), inlineRep(uint32(typeNameTok), tagToken))) //nolint:gosec
	fields = append(fields, w.buildQualifierFields(a.Qualifiers)...)

	targetIdx := a.Value.Connection.PathIndex()
	fields = append(fields, w.fields.intern(w.tokens.intern(fieldConnectionPaths), w.writePathListOp(targetIdx)))
	fields = append(fields, w.fields.intern(w.tokens.intern(fieldConnectionChildren), w.writePathVector(targetIdx)))

	fsIdx := w.fieldSets.allocate(fields)
	w.specs.add(a.PathIndex(), fsIdx, specAttribute)

	// Attributes negate their token exactly like prims: the sign flag marks
	// "property-like", and Prim vs. Attribute is carried by the Spec's own
	// type column, not by the path entry's sign (see spec.md §9 notes).
	tok := w.tokens.intern(a.Name)
	w.paths.add(a.PathIndex(), -tok, a.Jump())

	return nil
}

func (w *Writer) writeRelationshipAttribute(a *scene.Attribute) error {
	var fields []int32

	fields = append(fields, w.fields.intern(w.tokens.intern(fieldVariability), inlineRep(1, tagVariability)))

	targetIdx := a.Value.Relationship.PathIndex()
	fields = append(fields, w.fields.intern(w.tokens.intern(fieldTargetPaths), w.writePathListOp(targetIdx)))
	fields = append(fields, w.fields.intern(w.tokens.intern(fieldTargetChildren), w.writePathVector(targetIdx)))

	fsIdx := w.fieldSets.allocate(fields)
	w.specs.add(a.PathIndex(), fsIdx, specRelationship)

	tok := w.tokens.intern(a.Name)
	w.paths.add(a.PathIndex(), -tok, a.Jump())

	return nil
}

func (w *Writer) writePlainAttribute(a *scene.Attribute) error {
	var fields []int32

	typeNameTok := w.tokens.intern(a.TypeName)
	fields = append(fields, w.fields.intern(w.tokens.intern(fieldTypeName), inlineRep(uint32(typeNameTok), tagToken))) //nolint:gosec
	fields = append(fields, w.buildQualifierFields(a.Qualifiers)...)

	metaFields, err := w.buildMetadataFields(a.Metadata)
	if err != nil {
		return fmt.Errorf("attribute %q: %w", a.Name, err)
	}
	fields = append(fields, metaFields...)

	if !a.Value.IsNull {
		rep, err := w.valueToRep(a.ValueType, a.Value)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		fields = append(fields, w.fields.intern(w.tokens.intern(fieldDefault), rep))
	}

	if len(a.Samples) > 0 {
		rep, err := w.writeTimeSamples(a.Samples, a.ValueType)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		fields = append(fields, w.fields.intern(w.tokens.intern(fieldTimeSamples), rep))
	}

	fsIdx := w.fieldSets.allocate(fields)
	w.specs.add(a.PathIndex(), fsIdx, specAttribute)

	tok := w.tokens.intern(a.Name)
	w.paths.add(a.PathIndex(), -tok, a.Jump())

	return nil
}

// buildQualifierFields encodes each qualifier string (e.g. "uniform",
// "custom") as a boolean field of that name set to true.
func (w *Writer) buildQualifierFields(qualifiers []string) []int32 {
	fields := make([]int32, 0, len(qualifiers))
	for _, q := range qualifiers {
		fields = append(fields, w.fields.intern(w.tokens.intern(q), inlineRep(1, tagBool)))
	}

	return fields
}

// buildMetadataFields encodes a Prim/Attribute/Root metadata map into field
// indices, in sorted-key order for deterministic output. The "references"
// key is explicitly unimplemented and is a fatal error per spec.md §4.7.
func (w *Writer) buildMetadataFields(meta map[string]scene.MetaValue) ([]int32, error) {
	if _, ok := meta["references"]; ok {
		return nil, fmt.Errorf("%w: references", errs.ErrUnimplementedMetadata)
	}

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]int32, 0, len(keys))
	for _, k := range keys {
		v := meta[k]

		var rep uint64
		switch v.Kind {
		case scene.MetaString:
			valTok := w.tokens.intern(v.Str)
			rep = inlineRep(uint32(valTok), tagToken) //nolint:gosec
		case scene.MetaFloat:
			rep = inlineRep(float32Bits(float32(v.Num)), tagFloat)
		case scene.MetaBool:
			b := uint32(0)
			if v.Bool {
				b = 1
			}
			rep = inlineRep(b, tagBool)
		case scene.MetaDictionary:
			rep = w.writeDictionary(v.Dict, sortedKeys(v.Dict))
		case scene.MetaPrimRef:
			rep = w.writePathListOp(v.Ref.PathIndex())
		}

		fields = append(fields, w.fields.intern(w.tokens.intern(k), rep))
	}

	return fields, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// valueToRep dispatches an attribute's "default" value onto the rep64 it
// serializes as, per spec.md §4.7's ValueType table.
func (w *Writer) valueToRep(vt scene.ValueType, val scene.Value) (uint64, error) {
	switch vt {
	case scene.ValueToken:
		tok := w.tokens.intern(val.Token)
		return inlineRep(uint32(tok), tagToken), nil //nolint:gosec
	case scene.ValueTokenArray:
		return w.writeTokenArray(val.TokenArray), nil
	case scene.ValueTokenVector:
		return w.writeTokenVector(val.TokenArray), nil
	case scene.ValueInt32Array:
		return w.writeIntArray(val.Ints)
	case scene.ValueFloat:
		return inlineRep(float32Bits(val.Float), tagFloat), nil
	case scene.ValueVec3fScalar:
		return w.writeVec3fScalar(val.Vec3.X, val.Vec3.Y, val.Vec3.Z), nil
	case scene.ValueVec3fArray:
		flat := make([]float32, 0, len(val.Vec3Array)*3)
		for _, v := range val.Vec3Array {
			flat = append(flat, v.X, v.Y, v.Z)
		}

		return w.writeVec3fArray(flat), nil
	case scene.ValueBool:
		b := uint32(0)
		if val.Bool {
			b = 1
		}

		return inlineRep(b, tagBool), nil
	case scene.ValueVariability:
		b := uint32(0)
		if val.Variability {
			b = 1
		}

		return inlineRep(b, tagVariability), nil
	case scene.ValueSpecifier:
		return inlineRep(uint32(val.Specifier), tagSpecifier), nil //nolint:gosec
	case scene.ValueDictionary:
		return w.writeDictionary(val.Dict, sortedKeys(val.Dict)), nil
	case scene.ValuePathConnection:
		return w.writePathListOp(val.Connection.PathIndex()), nil
	case scene.ValuePathRelationship:
		return w.writePathListOp(val.Relationship.PathIndex()), nil
	default:
		return 0, fmt.Errorf("%w: %v", errs.ErrUnsupportedValueType, vt)
	}
}

// writeTimeSamples encodes an attribute's time-samples list per spec.md
// §4.7. Not exercised by any exporter in this tree (time samples are an
// explicit Non-goal, §1), but the data model supports it, so the Crate
// writer implements it rather than silently dropping populated Samples.
func (w *Writer) writeTimeSamples(samples []scene.Sample, vt scene.ValueType) (uint64, error) {
	if w.timeSamplesFramesOffset < 0 {
		framesStart := int64(bootstrapSize + w.body.Tell()) //nolint:gosec

		tmp := sink.New()
		tmp.WriteU64(uint64(len(samples))) //nolint:gosec
		for _, s := range samples {
			tmp.WriteF64(s.Time)
		}

		w.body.WriteU64(uint64(tmp.Tell())) //nolint:gosec
		w.body.WriteBytes(tmp.Bytes())
		w.timeSamplesFramesOffset = framesStart + 8
	}

	blockStart := int64(bootstrapSize + w.body.Tell()) //nolint:gosec

	framesPtr := offsetRep(w.timeSamplesFramesOffset, tagDoubleVector, false, false)
	w.body.WriteU64(framesPtr)
	w.body.WriteU64(8)
	w.body.WriteU64(uint64(len(samples))) //nolint:gosec

	for _, s := range samples {
		rep, err := w.valueToRep(vt, s.Value)
		if err != nil {
			return 0, err
		}

		w.body.WriteU64(rep)
	}

	return offsetRep(blockStart, tagDoubleVector, false, false), nil
}

// Stats summarizes a finished Crate file: the number of entries in each
// intern table (tokens, strings, fields, field-set indices including -1
// sentinels, paths, specs) and the total file size in bytes. Finish
// returns it alongside the file.
type Stats struct {
	TokenCount    int
	StringCount   int
	FieldCount    int
	FieldSetCount int
	PathCount     int
	SpecCount     int
	TotalBytes    int
}

// Finish serializes the six sections and the table of contents, prepends
// the 88-byte bootstrap with its table-of-contents offset already resolved
// (no back-patching needed: the offset is known once the body's total
// length is known, so the bootstrap is simply built last), and returns the
// complete Crate file. Returns errs.ErrInputTooLarge if any section's
// LZ4-compressed column would exceed the block compressor's input limit.
func (w *Writer) Finish() ([]byte, Stats, error) {
	var entries []tocEntry

	tokensEntry, err := writeTokensSection(w.body, w.tokens.values)
	if err != nil {
		return nil, Stats{}, err
	}
	entries = append(entries, tokensEntry)

	entries = append(entries, writeStringsSection(w.body, w.strings.indices))

	fieldsEntry, err := writeFieldsSection(w.body, w.fields.tokenIndices, w.fields.reps)
	if err != nil {
		return nil, Stats{}, err
	}
	entries = append(entries, fieldsEntry)

	fieldSetsEntry, err := writeFieldSetsSection(w.body, w.fieldSets.indices)
	if err != nil {
		return nil, Stats{}, err
	}
	entries = append(entries, fieldSetsEntry)

	pathsEntry, err := writePathsSection(w.body, w.paths)
	if err != nil {
		return nil, Stats{}, err
	}
	entries = append(entries, pathsEntry)

	specsEntry, err := writeSpecsSection(w.body, w.specs)
	if err != nil {
		return nil, Stats{}, err
	}
	entries = append(entries, specsEntry)

	tocOffset := uint64(bootstrapSize + w.body.Tell()) //nolint:gosec
	for i := range entries {
		entries[i].start += bootstrapSize
	}
	writeTOC(w.body, entries)

	out := sink.New()
	out.WriteBytes([]byte("PXR-USDC"))
	out.WriteBytes([]byte{0, 7, 0, 0, 0, 0, 0, 0})
	out.WriteU64(tocOffset)
	out.WriteZeros(64)
	out.WriteBytes(w.body.Bytes())

	stats := Stats{
		TokenCount:    w.tokens.len(),
		StringCount:   len(w.strings.indices),
		FieldCount:    len(w.fields.tokenIndices),
		FieldSetCount: len(w.fieldSets.indices),
		PathCount:     w.paths.len(),
		SpecCount:     w.specs.len(),
		TotalBytes:    out.Tell(),
	}

	return out.Bytes(), stats, nil
}
