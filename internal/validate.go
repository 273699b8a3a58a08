package internal

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/reflectwalk"
)

// ErrNotFinite is returned by CheckFinite for NaN and infinite values.
var ErrNotFinite = errors.New("value is not a finite number")

// CheckFinite walks every field of v (structs, nested structs, arrays and slices) and fails on the first float
// that is NaN or infinite. Config files can spell those (.nan, .inf) and they would poison the rasterizer.
func CheckFinite(v interface{}) error {
	return reflectwalk.Walk(v, &finiteWalker{})
}

type finiteWalker struct{}

func (w *finiteWalker) Struct(_ reflect.Value) error {
	return nil
}

func (w *finiteWalker) StructField(field reflect.StructField, value reflect.Value) error {
	switch value.Kind() {
	case reflect.Float32, reflect.Float64:
		return checkFloat(field.Name, value)
	case reflect.Array, reflect.Slice:
		for i := 0; i < value.Len(); i++ {
			if err := checkFloat(fmt.Sprintf("%s[%d]", field.Name, i), value.Index(i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Primitive catches floats that are not held directly by a named field (map values, top-level values...).
func (w *finiteWalker) Primitive(value reflect.Value) error {
	return checkFloat("value", value)
}

func checkFloat(name string, value reflect.Value) error {
	if value.Kind() == reflect.Interface || value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Float32 && value.Kind() != reflect.Float64 {
		return nil
	}
	if f := value.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%s=%v: %w", name, f, ErrNotFinite)
	}
	return nil
}
