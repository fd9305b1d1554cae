package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Decode populates a Go struct from a validated options value. Struct fields
// are matched by their `cli` tag, falling back to the lowercased field name;
// a tag of "-" skips the field. Absent or null attributes leave the Go zero
// value in place.
func Decode(v cty.Value, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", out)
	}
	return decodeValue(v, rv.Elem())
}

func decodeValue(v cty.Value, rv reflect.Value) error {
	if v.IsNull() || !v.IsKnown() {
		return nil
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return decodeValue(v, rv.Elem())

	case reflect.Interface:
		nv, err := Native(v)
		if err != nil {
			return err
		}
		if nv != nil {
			rv.Set(reflect.ValueOf(nv))
		}
		return nil

	case reflect.String:
		cv, err := convert.Convert(v, cty.String)
		if err != nil {
			return fmt.Errorf("cannot decode %s into string", describeValue(v))
		}
		rv.SetString(cv.AsString())
		return nil

	case reflect.Bool:
		cv, err := convert.Convert(v, cty.Bool)
		if err != nil {
			return fmt.Errorf("cannot decode %s into bool", describeValue(v))
		}
		rv.SetBool(cv.True())
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		cv, err := convert.Convert(v, cty.Number)
		if err != nil {
			return fmt.Errorf("cannot decode %s into %s", describeValue(v), rv.Type())
		}
		return gocty.FromCtyValue(cv, rv.Addr().Interface())

	case reflect.Slice:
		if !isCollection(v) {
			return fmt.Errorf("cannot decode %s into %s", describeValue(v), rv.Type())
		}
		elems := v.AsValueSlice()
		out := reflect.MakeSlice(rv.Type(), len(elems), len(elems))
		for i, ev := range elems {
			if err := decodeValue(ev, out.Index(i)); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		rv.Set(out)
		return nil

	case reflect.Map:
		if !isObjectLike(v) {
			return fmt.Errorf("cannot decode %s into %s", describeValue(v), rv.Type())
		}
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("map keys must be strings, got %s", rv.Type().Key())
		}
		out := reflect.MakeMap(rv.Type())
		it := v.ElementIterator()
		for it.Next() {
			key, ev := it.Element()
			ep := reflect.New(rv.Type().Elem())
			if err := decodeValue(ev, ep.Elem()); err != nil {
				return fmt.Errorf("attribute %q: %w", key.AsString(), err)
			}
			out.SetMapIndex(reflect.ValueOf(key.AsString()), ep.Elem())
		}
		rv.Set(out)
		return nil

	case reflect.Struct:
		if !isObjectLike(v) {
			return fmt.Errorf("cannot decode %s into %s", describeValue(v), rv.Type())
		}
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() {
				continue
			}
			name := fieldTagName(field)
			if name == "-" {
				continue
			}
			av, present := attrOf(v, name)
			if !present {
				continue
			}
			if err := decodeValue(av, rv.Field(i)); err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
		}
		return nil

	default:
		return fmt.Errorf("unsupported decode target %s", rv.Type())
	}
}

func fieldTagName(field reflect.StructField) string {
	tag := field.Tag.Get("cli")
	name := strings.Split(tag, ",")[0]
	if name == "" {
		return strings.ToLower(field.Name)
	}
	return name
}
