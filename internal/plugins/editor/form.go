package editor

import (
	"reflect"
	"strconv"

	"github.com/keyxmakerx/saga/internal/adventures"
)

// formValues reads a draft struct into form values keyed by form tag.
// Booleans become "true" or "".
func formValues(draft any) map[string]string {
	out := make(map[string]string)
	v := reflect.Indirect(reflect.ValueOf(draft))
	if v.Kind() != reflect.Struct {
		return out
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("form")
		if name == "" {
			continue
		}
		f := v.Field(i)
		switch f.Kind() {
		case reflect.String:
			out[name] = f.String()
		case reflect.Bool:
			if f.Bool() {
				out[name] = "true"
			} else {
				out[name] = ""
			}
		case reflect.Int, reflect.Int64:
			out[name] = strconv.FormatInt(f.Int(), 10)
		}
	}
	return out
}

// fill pairs fields with the draft's values.
func fill(fields []Field, draft any) []FieldView {
	values := formValues(draft)
	out := make([]FieldView, 0, len(fields))
	for _, f := range fields {
		val := values[f.Name]
		out = append(out, FieldView{Field: f, Value: val, Checked: f.Kind == KindCheckbox && val == "true"})
	}
	return out
}

// titleOptions builds select options from titled entities, sorted by title.
func titleOptions[T interface {
	EntityID() int
	DisplayTitle() string
}](items []T) []Option {
	sorted := adventures.SortByTitle(items)
	out := make([]Option, 0, len(sorted))
	for _, item := range sorted {
		out = append(out, Option{Value: strconv.Itoa(item.EntityID()), Label: item.DisplayTitle()})
	}
	return out
}
