package response

import (
	"fmt"
	"reflect"

	"github.com/jinzhu/copier"
)

// mapView copies a read model into its response shape by field name. A nil
// source maps to nil; a copy failure is a programming error.
func mapView[T any](src any) *T {
	if v := reflect.ValueOf(src); !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return nil
	}
	var dst T
	if err := copier.Copy(&dst, src); err != nil {
		panic(fmt.Sprintf("response mapping %T: %v", src, err))
	}
	return &dst
}

func mapViews[T any, S any](src []S) []*T {
	out := make([]*T, 0, len(src))
	for _, s := range src {
		out = append(out, mapView[T](s))
	}
	return out
}
