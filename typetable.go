package gobwire

// TypeTable is the per-stream, bidirectional registry of TypeId ↔
// TypeDefinition. It is created at stream start, grows monotonically, and
// is discarded at stream end; no state leaks across streams, since it's a
// driver-owned value rather than a package-level variable.
type TypeTable struct {
	byId            map[TypeId]TypeDefinition
	idByFingerprint map[uint64]TypeId
	depthById       map[TypeId]uint
	nextUserId      TypeId
}

func newTypeTable() *TypeTable {
	return &TypeTable{
		byId:            make(map[TypeId]TypeDefinition),
		idByFingerprint: make(map[uint64]TypeId),
		depthById:       make(map[TypeId]uint),
		nextUserId:      firstUserId,
	}
}

// Lookup resolves id to its definition. Well-known ids resolve to a
// synthetic single-kind definition without needing a prior entry.
func (t *TypeTable) Lookup(id TypeId) (TypeDefinition, bool) {
	if isWellKnown(id) {
		return TypeDefinition{Kind: wellKnownKind(id)}, true
	}
	def, ok := t.byId[id]
	return def, ok
}

// allocate reserves a fresh negative id without installing a definition.
// Used by the registration walker to break cycles: the id is handed out
// before a composite type's children are walked, so a self-reference
// resolves to a real (if not yet finalized) id.
func (t *TypeTable) allocate() TypeId {
	id := t.nextUserId
	t.nextUserId--
	return id
}

// finalize installs def under id and records its fingerprint. When
// canonicalize is true and an existing, distinct id already carries an
// identical fingerprint, that canonical id is returned instead and id is
// left unassigned — this lets two differently-named host types with the
// same field layout collapse onto one wire type. canonicalize is false
// for self-referential types, where the shape was only finalizable by
// assuming its own placeholder id already existed, so collapsing after
// the fact is not attempted.
func (t *TypeTable) finalize(id TypeId, def TypeDefinition, canonicalize bool) (final TypeId, isNew bool) {
	fp := fingerprint(def)
	if canonicalize {
		if existing, ok := t.idByFingerprint[fp]; ok {
			return existing, false
		}
	}
	t.byId[id] = def
	t.idByFingerprint[fp] = id
	return id, true
}

// install records a definition arriving on the decode side under an
// explicit id taken from a definition message, rejecting one that nests
// deeper than maxDepth (0 means unlimited) to bound how far a later
// decode has to recurse to fully unpack a value of this type.
func (t *TypeTable) install(id TypeId, def TypeDefinition, maxDepth uint) {
	depth := typeDepth(t, def, id)
	checkLimit(uint64(depth), maxDepth, "type nesting depth")
	t.byId[id] = def
	t.depthById[id] = depth
}

// typeDepth computes how deeply def nests by following its child TypeIds
// through definitions already installed in t. A well-formed stream
// installs child definitions before the parent that references them, so
// an ordinary child id is already present by the time its parent
// arrives; a child id that isn't yet installed (selfId itself, or any
// other id from a longer reference cycle) contributes no extra depth,
// since nothing has measured it yet and the cycle is already bounded by
// id reuse rather than by unbounded nesting.
func typeDepth(t *TypeTable, def TypeDefinition, selfId TypeId) uint {
	childDepth := func(id TypeId) uint {
		if id == selfId || isWellKnown(id) {
			return 0
		}
		return t.depthById[id]
	}

	switch def.Kind {
	case KindArray, KindSlice:
		return 1 + childDepth(def.Elem)
	case KindMap:
		kd, vd := childDepth(def.Key), childDepth(def.Elem)
		if vd > kd {
			kd = vd
		}
		return 1 + kd
	case KindStruct:
		var max uint
		for _, f := range def.Fields {
			if d := childDepth(f.Id); d > max {
				max = d
			}
		}
		return 1 + max
	default:
		return 1
	}
}
