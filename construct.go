package didi

import (
	"reflect"
)

var errorType = reflect.TypeFor[error]()

// paramField is an exported field of a constructor's parameter struct.
type paramField struct {
	index []int
	typ   reflect.Type
	names []string
}

// Construct adapts an ordinary Go constructor into a Maker.
//
// fn must take either no parameters or a single struct parameter, and return
// a value assignable to T, optionally followed by an error. Each exported
// field of the parameter struct is filled from the argument named by its
// `didi` tag, or else by its Go name or snake_case name. Fields without a
// matching argument keep their zero value; a field tagged `didi:"-"` is
// never filled.
//
//	type RepoParams struct {
//	    DB      *DB
//	    Timeout time.Duration `didi:"query_timeout"`
//	}
//
//	func NewRepo(p RepoParams) (*Repo, error) { ... }
//
//	repo := didi.Factory(didi.Construct[*Repo](NewRepo),
//	    didi.Kw("db", db),
//	    didi.Kw("query_timeout", 5*time.Second),
//	).Named("repo")
//
// An fn of the wrong shape panics with a *ConstructorError. An argument whose
// type is not assignable to its field fails at resolution with an
// *ArgumentError.
func Construct[T any](fn any) Maker[T] {
	if isNilFunc(fn) {
		panic(ErrNilMaker)
	}

	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	target := reflect.TypeFor[T]()

	if ft.Kind() != reflect.Func {
		panic(&ConstructorError{Constructor: ft, Reason: "not a function"})
	}

	var (
		paramType reflect.Type
		fields    []paramField
	)
	switch ft.NumIn() {
	case 0:
	case 1:
		paramType = ft.In(0)
		if paramType.Kind() != reflect.Struct {
			panic(&ConstructorError{Constructor: ft, Reason: "parameter must be a struct"})
		}
		fields = paramFields(paramType)
	default:
		panic(&ConstructorError{Constructor: ft, Reason: "must take no parameters or a single struct parameter"})
	}

	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		panic(&ConstructorError{Constructor: ft, Reason: "must return a value and an optional error"})
	}
	if !ft.Out(0).AssignableTo(target) {
		panic(&ConstructorError{Constructor: ft, Reason: "result is not assignable to " + formatType(target)})
	}

	return func(args Args) (T, error) {
		var zero T

		var in []reflect.Value
		if paramType != nil {
			param := reflect.New(paramType).Elem()
			for _, field := range fields {
				name, raw, ok := lookupField(args, field)
				if !ok || raw == nil {
					continue
				}

				rv := reflect.ValueOf(raw)
				if !rv.Type().AssignableTo(field.typ) {
					return zero, &ArgumentError{
						Provider: args.provider,
						Name:     name,
						Expected: field.typ,
						Actual:   rv.Type(),
					}
				}
				param.FieldByIndex(field.index).Set(rv)
			}
			in = []reflect.Value{param}
		}

		out := fv.Call(in)
		if len(out) == 2 && !out[1].IsNil() {
			return zero, out[1].Interface().(error)
		}

		result, _ := out[0].Interface().(T)
		return result, nil
	}
}

func paramFields(t reflect.Type) []paramField {
	var fields []paramField

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		tag := f.Tag.Get("didi")
		if tag == "-" {
			continue
		}

		var names []string
		if tag != "" {
			names = []string{tag}
		} else {
			names = []string{f.Name, snakeCase(f.Name)}
		}

		fields = append(fields, paramField{index: f.Index, typ: f.Type, names: names})
	}

	return fields
}

func lookupField(args Args, field paramField) (string, any, bool) {
	for _, name := range field.names {
		if v, ok := args.Get(name); ok {
			return name, v, true
		}
	}
	return "", nil, false
}
