package gobwire

import (
	"reflect"
	"sync"
)

var (
	typeRegistryMu sync.RWMutex
	typeRegistry   = map[string]reflect.Type{}
)

// Register records value's concrete type under its gob type name, so a
// decoded interface{} value carrying that name can be reconstructed.
// Mirrors encoding/gob.Register: call it once per concrete type that will
// ever cross an interface{} boundary, at init time.
func Register(value any) {
	rt := reflect.TypeOf(value)
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	typeRegistryMu.Lock()
	typeRegistry[gobTypeName(rt)] = rt
	typeRegistryMu.Unlock()
}

func lookupRegisteredType(name string) (reflect.Type, bool) {
	if rt, ok := basicGobTypes[name]; ok {
		return rt, true
	}
	typeRegistryMu.RLock()
	rt, ok := typeRegistry[name]
	typeRegistryMu.RUnlock()
	return rt, ok
}

// basicGobTypes covers the well-known kinds, which never need an explicit
// Register call since their wire type name is fixed by their Go kind
// rather than a package-qualified name.
var basicGobTypes = map[string]reflect.Type{
	"bool":    reflect.TypeOf(false),
	"string":  reflect.TypeOf(""),
	"int":     reflect.TypeOf(int(0)),
	"int8":    reflect.TypeOf(int8(0)),
	"int16":   reflect.TypeOf(int16(0)),
	"int32":   reflect.TypeOf(int32(0)),
	"int64":   reflect.TypeOf(int64(0)),
	"uint":    reflect.TypeOf(uint(0)),
	"uint8":   reflect.TypeOf(uint8(0)),
	"uint16":  reflect.TypeOf(uint16(0)),
	"uint32":  reflect.TypeOf(uint32(0)),
	"uint64":  reflect.TypeOf(uint64(0)),
	"float32": reflect.TypeOf(float32(0)),
	"float64": reflect.TypeOf(float64(0)),
	"[]uint8": reflect.TypeOf([]byte(nil)),
}
