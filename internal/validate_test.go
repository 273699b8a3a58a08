package internal

import (
	"errors"
	"math"
	"strings"
	"testing"
)

type testInner struct {
	Values [3]float64
	Speed  float64
}

type testOuter struct {
	Name  string
	Inner testInner
	Scale float64
	List  []float64
	Extra map[string]float64
}

func TestCheckFiniteAccepts(t *testing.T) {
	v := &testOuter{Name: "ok", Inner: testInner{Values: [3]float64{1, 2, 3}, Speed: 0.01}, Scale: 5, List: []float64{-1}}
	if err := CheckFinite(v); err != nil {
		t.Fatal(err)
	}
}

func TestCheckFiniteRejects(t *testing.T) {
	cases := map[string]*testOuter{
		"Scale":     {Scale: math.NaN()},
		"Speed":     {Inner: testInner{Speed: math.Inf(1)}},
		"Values[1]": {Inner: testInner{Values: [3]float64{0, math.Inf(-1), 0}}},
		"List[0]":   {List: []float64{math.NaN()}},
		"value":     {Extra: map[string]float64{"a": math.NaN()}},
	}
	for field, v := range cases {
		err := CheckFinite(v)
		if !errors.Is(err, ErrNotFinite) {
			t.Errorf("%s: expected ErrNotFinite, got %v", field, err)
			continue
		}
		if !strings.HasPrefix(err.Error(), field) {
			t.Errorf("%s: error should name the field, got %q", field, err)
		}
	}
}
