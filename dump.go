package logsink

import (
	"fmt"
	"reflect"
)

// Maximum recursion depth to prevent stack overflow
const maxDumpDepth = 10

// maxDumpElements bounds how many slice or array elements are written.
const maxDumpElements = 10

// Dump writes the contents of v to l at debug level, one record per line.
// Structs list their exported fields, maps and slices their elements, and
// basic values their formatted value. Pointer cycles are reported instead of
// followed. Nothing is built when l's sink drops debug records.
func Dump(l Logger, v any) {
	if l == nil {
		return
	}
	if e, ok := l.(interface{ enabled(Level) bool }); ok && !e.enabled(LevelDebug) {
		return
	}
	if v == nil {
		l.Debug("Dump: <nil>")
		return
	}
	d := dumper{log: l, visited: make(map[uintptr]bool)}
	d.value(v, emptyString, 0)
}

type dumper struct {
	log     Logger
	visited map[uintptr]bool
}

func (d *dumper) value(v any, prefix string, depth int) {
	if depth > maxDumpDepth {
		d.log.Debugf("%s: <max depth reached>", prefix)
		return
	}
	if v == nil {
		d.log.Debugf("%s: <nil>", prefix)
		return
	}

	val := reflect.ValueOf(v)

	// Unwrap interfaces and pointers, stopping at nil or an already seen pointer.
	for val.Kind() == reflect.Interface || val.Kind() == reflect.Ptr {
		if val.IsNil() {
			d.log.Debugf("%s: <nil>", prefix)
			return
		}
		if val.Kind() == reflect.Ptr {
			ptr := val.Pointer()
			if d.visited[ptr] {
				d.log.Debugf("%s: <circular reference>", prefix)
				return
			}
			d.visited[ptr] = true
		}
		val = val.Elem()
	}

	typ := val.Type()
	switch val.Kind() {
	case reflect.Struct:
		if prefix == emptyString {
			d.log.Debugf("Struct: %s", typ.Name())
		} else {
			d.log.Debugf("%s: %s {", prefix, typ.Name())
		}
		for i := 0; i < val.NumField(); i++ {
			field := val.Field(i)
			if !field.CanInterface() {
				continue
			}
			name := typ.Field(i).Name
			if prefix != emptyString {
				name = prefix + "." + name
			}
			d.value(field.Interface(), name, depth+1)
		}
		if prefix != emptyString {
			d.log.Debugf("%s: }", prefix)
		}

	case reflect.Map:
		d.log.Debugf("%s: map[%s]%s (len: %d) {", prefix, typ.Key(), typ.Elem(), val.Len())
		iter := val.MapRange()
		for iter.Next() {
			key := fmt.Sprintf("%s[%v]", prefix, iter.Key().Interface())
			d.value(iter.Value().Interface(), key, depth+1)
		}
		d.log.Debugf("%s: }", prefix)

	case reflect.Slice, reflect.Array:
		d.log.Debugf("%s: %s (len: %d) {", prefix, typ, val.Len())
		for i := 0; i < val.Len() && i < maxDumpElements; i++ {
			elem := val.Index(i)
			if elem.CanInterface() {
				d.value(elem.Interface(), fmt.Sprintf("%s[%d]", prefix, i), depth+1)
			}
		}
		if val.Len() > maxDumpElements {
			d.log.Debugf("%s: ... (%d more elements)", prefix, val.Len()-maxDumpElements)
		}
		d.log.Debugf("%s: }", prefix)

	default:
		if val.IsValid() && val.CanInterface() {
			d.log.Debugf("%s: %v", prefix, val.Interface())
		} else {
			d.log.Debugf("%s: %v", prefix, v)
		}
	}
}
