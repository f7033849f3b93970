package funckeeper

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/funckeeper/internal/introspect"
	"github.com/roach88/funckeeper/internal/record"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Wrap instruments fn and returns a function of the identical type. The
// wrapper calls fn with the original arguments, returns its results
// unchanged, and persists one execution record per call.
//
// Metadata (name, source text, doc comment, imports of the defining file)
// is captured once, here; every record the wrapper produces repeats it
// verbatim, so the history survives later edits to the source.
//
// Error handling per call:
//   - a non-nil trailing error return produces an error record and is
//     returned to the caller unchanged;
//   - a panic produces an error record with the captured stack and is then
//     re-raised with the original panic value;
//   - a storage failure never affects the call. The result is returned (or
//     the panic re-raised) and the failure goes to the keeper's logger.
//
// Wrap panics if fn is not a function. That is a programming error at the
// wrap site, not a runtime condition.
func Wrap[F any](k *Keeper, fn F, opts ...WrapOption) F {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func {
		panic(fmt.Sprintf("funckeeper: Wrap requires a function, got %T", fn))
	}
	ft := fnVal.Type()

	var cfg wrapConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	meta, err := introspect.Describe(fn)
	if err != nil {
		panic(fmt.Sprintf("funckeeper: %v", err))
	}

	name := cfg.name
	if name == "" {
		name = meta.Name
	}
	tags := record.NormalizeTags(cfg.tags)
	wrapID := uuid.Must(uuid.NewV7()).String()

	wrapper := reflect.MakeFunc(ft, func(in []reflect.Value) []reflect.Value {
		// Snapshot the arguments before the call: pointer and slice
		// arguments may be mutated by fn.
		args, kwargs := splitCallInputs(ft, in)
		argsJSON := record.SerializeArgs(args, k.maxPayload)
		kwargsJSON := "{}"
		if kwargs != nil {
			kwargsJSON = record.SerializeValue(kwargs, k.maxPayload)
		}

		start := time.Now()
		out, panicVal, stack := call(fnVal, ft, in)
		duration := time.Since(start).Seconds()

		rec := &record.Record{
			WrapID:       wrapID,
			FuncName:     name,
			ModulePath:   meta.File,
			Source:       meta.Source,
			Docstring:    meta.Doc,
			Dependencies: meta.Imports,
			Tags:         tags,
			Args:         argsJSON,
			Kwargs:       kwargsJSON,
			StartTime:    start.UTC(),
			Duration:     duration,
		}

		switch {
		case panicVal != nil:
			rec.Status = record.StatusError
			rec.ErrorType = fmt.Sprintf("panic(%T)", panicVal)
			rec.ErrorMessage = fmt.Sprint(panicVal)
			rec.ErrorStack = stack
			if err, ok := panicVal.(error); ok {
				rec.ErrorType = fmt.Sprintf("%T", err)
				if cause := errors.Unwrap(err); cause != nil {
					rec.ErrorCause = cause.Error()
				}
			}
		default:
			if err := trailingError(ft, out); err != nil {
				rec.Status = record.StatusError
				rec.ErrorType = fmt.Sprintf("%T", err)
				rec.ErrorMessage = err.Error()
				if cause := errors.Unwrap(err); cause != nil {
					rec.ErrorCause = cause.Error()
				}
			} else {
				rec.Status = record.StatusSuccess
				rec.ReturnValue = serializeResults(ft, out, k.maxPayload)
			}
		}

		if _, err := k.store.Insert(context.Background(), rec); err != nil {
			k.logger.Error("funckeeper: dropping execution record, store write failed",
				"func", name, "wrap_id", wrapID, "error", err)
		}

		if panicVal != nil {
			panic(panicVal)
		}
		return out
	})

	return wrapper.Interface().(F)
}

// call invokes fn and converts a panic into a return. A nil panicVal means
// the call finished normally; out is only valid in that case.
func call(fnVal reflect.Value, ft reflect.Type, in []reflect.Value) (out []reflect.Value, panicVal any, stack string) {
	defer func() {
		if r := recover(); r != nil {
			panicVal = r
			stack = string(debug.Stack())
		}
	}()
	if ft.IsVariadic() {
		// MakeFunc hands the variadic tail to us as a slice already.
		out = fnVal.CallSlice(in)
	} else {
		out = fnVal.Call(in)
	}
	return out, nil, ""
}

// splitCallInputs partitions the inputs into positional args and an
// optional trailing options struct. A final parameter whose type is a
// struct with only exported fields is Go's keyword-argument convention and
// is captured as kwargs. A variadic tail is flattened into the positional
// list, matching how the call site reads.
func splitCallInputs(ft reflect.Type, in []reflect.Value) (args []any, kwargs any) {
	if ft.IsVariadic() {
		vals := make([]any, 0, len(in))
		for i, v := range in {
			if i == len(in)-1 {
				for j := 0; j < v.Len(); j++ {
					vals = append(vals, v.Index(j).Interface())
				}
				continue
			}
			vals = append(vals, v.Interface())
		}
		return vals, nil
	}

	vals := make([]any, len(in))
	for i, v := range in {
		vals[i] = v.Interface()
	}
	if n := len(vals); n > 0 && isOptionsStruct(ft.In(ft.NumIn()-1)) {
		return vals[:n-1], vals[n-1]
	}
	return vals, nil
}

func isOptionsStruct(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t.NumField() == 0 {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).PkgPath != "" { // unexported field
			return false
		}
	}
	return true
}

// trailingError returns the function's error result when its last return
// type is the error interface and the returned value is non-nil.
func trailingError(ft reflect.Type, out []reflect.Value) error {
	n := ft.NumOut()
	if n == 0 {
		return nil
	}
	last := ft.Out(n - 1)
	if last.Kind() != reflect.Interface || !last.Implements(errType) {
		return nil
	}
	v := out[n-1]
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

// serializeResults captures the non-error results: "null" for none, the
// single value for one, a JSON array for several.
func serializeResults(ft reflect.Type, out []reflect.Value, maxBytes int) string {
	n := ft.NumOut()
	if n > 0 {
		last := ft.Out(n - 1)
		if last.Kind() == reflect.Interface && last.Implements(errType) {
			n--
		}
	}
	switch n {
	case 0:
		return record.SerializeValue(nil, maxBytes)
	case 1:
		return record.SerializeValue(out[0].Interface(), maxBytes)
	default:
		vals := make([]any, n)
		for i := 0; i < n; i++ {
			vals[i] = out[i].Interface()
		}
		return record.SerializeArgs(vals, maxBytes)
	}
}
