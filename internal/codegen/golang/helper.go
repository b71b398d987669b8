package golang

import (
	"github.com/okra-platform/overlay/internal/codegen"
)

// HelperFile is the file name of the shared helper package
const HelperFile = "jso.go"

// Helper renders the shared helper package: the backing object and array types,
// the list helper and the conversion functions wrappers call.
func (e *Emitter) Helper(p *codegen.Plan) (codegen.File, error) {
	f := newFile(p.Helper)
	for _, path := range []string{"encoding/json", "fmt", "reflect"} {
		f.imports.add(path)
	}
	f.body.Write(helperSource)
	return f.build(HelperFile, "")
}

const helperSource = `// Object is a decoded JSON object. Wrappers read and write their properties through it.
type Object map[string]any

// Wrapper is implemented by every generated wrapper.
type Wrapper interface {
	JSObject() Object
}

// Parse decodes a JSON object. The text "null" yields an empty object.
func Parse(text string) (Object, error) {
	var obj Object
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, fmt.Errorf("failed to parse JSON object: %w", err)
	}
	if obj == nil {
		obj = Object{}
	}
	return obj, nil
}

// ParseArray decodes a JSON array of objects.
func ParseArray(text string) ([]Object, error) {
	var objs []Object
	if err := json.Unmarshal([]byte(text), &objs); err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}
	for i := range objs {
		if objs[i] == nil {
			objs[i] = Object{}
		}
	}
	return objs, nil
}

// Text returns the string stored under key, or "" when it is absent or not a string.
func (o Object) Text(key string) string {
	s, _ := o[key].(string)
	return s
}

// Set stores v under key. o must not be nil.
func (o Object) Set(key string, v any) {
	o[key] = v
}

// Object returns the object stored under key.
func (o Object) Object(key string) (Object, bool) {
	switch v := o[key].(type) {
	case Object:
		return v, v != nil
	case map[string]any:
		obj := Object(v)
		o[key] = obj
		return obj, obj != nil
	}
	return nil, false
}

// Lookup returns the array stored under key without changing o, or nil when the
// value is absent or not an array.
func (o Object) Lookup(key string) *Array {
	switch v := o[key].(type) {
	case *Array:
		return v
	case []any:
		return &Array{items: v}
	}
	return nil
}

// Array returns the array stored under key. An absent or non-array value is replaced
// by an empty array, so changes made through the result are always visible in o.
// o must not be nil.
func (o Object) Array(key string) *Array {
	switch v := o[key].(type) {
	case *Array:
		if v != nil {
			return v
		}
	case []any:
		a := &Array{items: v}
		o[key] = a
		return a
	}
	a := &Array{items: []any{}}
	o[key] = a
	return a
}

// Strings returns the string elements of the array stored under key.
func (o Object) Strings(key string) []string {
	return Values[string](o.Lookup(key))
}

// MarshalJSON encodes the object.
func (o Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	return json.Marshal(map[string]any(o))
}

// JSONString returns the JSON text of the object, or "" when it cannot be encoded.
func (o Object) JSONString() string {
	data, err := o.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(data)
}

// Array is a JSON array shared by reference with the object holding it.
type Array struct {
	items []any
}

// ArrayOf copies values into a new array. A nil slice yields a nil array.
func ArrayOf[T any](values []T) *Array {
	if values == nil {
		return nil
	}
	items := make([]any, len(values))
	for i, v := range values {
		items[i] = v
	}
	return &Array{items: items}
}

// Len returns the number of elements.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// At returns the element at index i.
func (a *Array) At(i int) any {
	return a.items[i]
}

// SetAt replaces the element at index i.
func (a *Array) SetAt(i int, v any) {
	a.items[i] = v
}

// Append adds v to the end of the array.
func (a *Array) Append(v any) {
	a.items = append(a.items, v)
}

// MarshalJSON encodes the elements as a JSON array.
func (a *Array) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	if a.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.items)
}

// Get returns the value stored under key converted to T, or the zero value.
// Decoded JSON numbers convert to any numeric T.
func Get[T any](o Object, key string) T {
	v, _ := convert[T](o[key])
	return v
}

// Values converts every element of a to T. Elements that do not convert are zero.
// A nil array yields nil.
func Values[T any](a *Array) []T {
	if a == nil {
		return nil
	}
	out := make([]T, a.Len())
	for i := range out {
		out[i], _ = convert[T](a.At(i))
	}
	return out
}

// Wrap wraps every object element of a. Elements that are not objects are zero.
// A nil array yields nil.
func Wrap[T any](a *Array, wrap func(Object) T) []T {
	if a == nil {
		return nil
	}
	out := make([]T, a.Len())
	for i := range out {
		if obj, ok := asObject(a.At(i)); ok {
			out[i] = wrap(obj)
		}
	}
	return out
}

// Unwrap collects the backing objects of values into a new array.
func Unwrap[T Wrapper](values []T) *Array {
	if values == nil {
		return nil
	}
	items := make([]any, len(values))
	for i, v := range values {
		items[i] = ObjectOf(v)
	}
	return &Array{items: items}
}

// ObjectOf returns the backing object of w, or nil.
func ObjectOf(w Wrapper) any {
	if w == nil {
		return nil
	}
	if obj := w.JSObject(); obj != nil {
		return obj
	}
	return nil
}

// ListHelper is an ordered, indexable list of wrappers over an array shared with
// the object that holds it.
type ListHelper[T Wrapper] struct {
	array *Array
	wrap  func(Object) T
}

// NewListHelper creates a list over array. A nil array starts empty.
func NewListHelper[T Wrapper](array *Array, wrap func(Object) T) *ListHelper[T] {
	if array == nil {
		array = &Array{items: []any{}}
	}
	return &ListHelper[T]{array: array, wrap: wrap}
}

// Get returns the element at index i.
func (l *ListHelper[T]) Get(i int) T {
	obj, ok := asObject(l.array.At(i))
	if !ok {
		var zero T
		return zero
	}
	return l.wrap(obj)
}

// Set replaces the element at index i.
func (l *ListHelper[T]) Set(i int, v T) {
	l.array.SetAt(i, ObjectOf(v))
}

// Add appends v.
func (l *ListHelper[T]) Add(v T) {
	l.array.Append(ObjectOf(v))
}

// Len returns the number of elements.
func (l *ListHelper[T]) Len() int {
	if l == nil {
		return 0
	}
	return l.array.Len()
}

// All returns every element.
func (l *ListHelper[T]) All() []T {
	out := make([]T, l.Len())
	for i := range out {
		out[i] = l.Get(i)
	}
	return out
}

// Raw returns the backing array.
func (l *ListHelper[T]) Raw() *Array {
	if l == nil {
		return nil
	}
	return l.array
}

func asObject(v any) (Object, bool) {
	switch o := v.(type) {
	case Object:
		return o, o != nil
	case map[string]any:
		return Object(o), o != nil
	}
	return nil, false
}

func convert[T any](v any) (T, bool) {
	var zero T
	if t, ok := v.(T); ok {
		return t, true
	}

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return zero, false
		}
		f = parsed
	default:
		return zero, false
	}

	target := reflect.TypeFor[T]()
	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return reflect.ValueOf(f).Convert(target).Interface().(T), true
	}
	return zero, false
}
`
