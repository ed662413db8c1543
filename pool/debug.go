//go:build debug

package pool

import (
	"fmt"
	"math"
	"reflect"
	"runtime/debug"
	"sync"

	json "github.com/goccy/go-json"
)

const poisonString = "<<poison>>"

// debugState tracks destroyed objects by pointer identity so double-Destroy
// panics with the stack of the first destroy. Destroyed objects are poisoned so
// consumers that pull them without renewing surface stale-state bugs quickly.
// Poisoning goes through reflect and therefore only reaches exported fields;
// unexported state keeps its last value.
type debugState struct {
	name   string
	mu     sync.Mutex
	stacks map[uintptr]string
}

func newDebugState(name string) *debugState {
	if name == "" {
		name = "default"
	}
	return &debugState{
		name:   name,
		stacks: make(map[uintptr]string),
	}
}

func (d *debugState) ensureDestroyable(obj any) {
	if d == nil {
		return
	}
	key := pointerKey(obj)
	if key == 0 {
		return
	}
	d.mu.Lock()
	stack, resident := d.stacks[key]
	d.mu.Unlock()
	if resident {
		panic(fmt.Sprintf("pool %s: double-Destroy detected for %T, first destroyed at:\n%s", d.name, obj, stack))
	}
}

func (d *debugState) recordDestroy(obj any) {
	if d == nil {
		return
	}
	key := pointerKey(obj)
	if key == 0 {
		return
	}
	stack := string(debug.Stack())
	d.mu.Lock()
	d.stacks[key] = stack
	d.mu.Unlock()
	poisonWithReflection(obj)
}

func (d *debugState) recordWithdraw(obj any) {
	if d == nil {
		return
	}
	key := pointerKey(obj)
	if key == 0 {
		return
	}
	d.mu.Lock()
	delete(d.stacks, key)
	d.mu.Unlock()
}

func (d *debugState) reset() {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.stacks = make(map[uintptr]string)
	d.mu.Unlock()
}

var rawMessageType = reflect.TypeOf(json.RawMessage(nil))

func poisonWithReflection(obj any) {
	v := reflect.ValueOf(obj)
	if !v.IsValid() || v.Kind() != reflect.Ptr || v.IsNil() {
		return
	}
	poisonValue(v.Elem())
}

func poisonValue(v reflect.Value) {
	if !v.IsValid() || !v.CanSet() {
		return
	}
	switch v.Kind() {
	case reflect.String:
		v.SetString(poisonString)
	case reflect.Bool:
		v.SetBool(true)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(-1)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		v.SetUint(math.MaxUint64)
	case reflect.Float32, reflect.Float64:
		v.SetFloat(math.MaxFloat64)
	case reflect.Slice:
		if v.Type() == rawMessageType {
			v.Set(reflect.ValueOf(json.RawMessage(`"poison"`)))
			return
		}
		v.Set(reflect.MakeSlice(v.Type(), 0, 0))
	case reflect.Map:
		v.Set(reflect.MakeMapWithSize(v.Type(), 0))
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			poisonValue(v.Field(i))
		}
	case reflect.Pointer:
		if v.IsNil() {
			return
		}
		poisonValue(v.Elem())
	}
}

func pointerKey(obj any) uintptr {
	if obj == nil {
		return 0
	}
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return 0
	}
	return v.Pointer()
}
