package argset

import (
	"fmt"
	"reflect"
	"time"
)

// Destination receives an argument's final value.
type Destination interface {
	Set(v any) error
}

// Binding pairs a value type with the destination it writes to.
type Binding struct {
	Type       ValueType
	Dest       Destination
	collection bool
	elemType   reflect.Type
}

// IsCollection reports whether the binding accumulates a list.
func (b Binding) IsCollection() bool { return b.collection }

type varDest[T any] struct {
	p *T
}

func (d varDest[T]) Set(v any) error {
	tv, ok := v.(T)
	if !ok {
		var zero T
		return fmt.Errorf("%w: cannot assign %T to %T", ErrTypeMismatch, v, zero)
	}
	if d.p != nil {
		*d.p = tv
	}
	return nil
}

type sliceDest[T any] struct {
	p *[]T
}

// Set accepts either []T (defaults) or the parser's accumulated []any.
func (d sliceDest[T]) Set(v any) error {
	var out []T
	switch vs := v.(type) {
	case []T:
		out = append(make([]T, 0, len(vs)), vs...)
	case []any:
		out = make([]T, 0, len(vs))
		for _, e := range vs {
			te, ok := e.(T)
			if !ok {
				var zero T
				return fmt.Errorf("%w: cannot append %T to []%T", ErrTypeMismatch, e, zero)
			}
			out = append(out, te)
		}
	default:
		var zero T
		return fmt.Errorf("%w: cannot assign %T to []%T", ErrTypeMismatch, v, zero)
	}
	if d.p != nil {
		*d.p = out
	}
	return nil
}

// Var binds a scalar destination. p may be nil for dry runs.
func Var[T any](p *T, vt ValueType) Binding {
	return Binding{
		Type:     vt,
		Dest:     varDest[T]{p: p},
		elemType: reflect.TypeFor[T](),
	}
}

// SliceVar binds a list destination; elem parses each element.
func SliceVar[T any](p *[]T, elem ValueType) Binding {
	return Binding{
		Type:       Collection(elem),
		Dest:       sliceDest[T]{p: p},
		collection: true,
		elemType:   reflect.TypeFor[T](),
	}
}

func StringVar(p *string) Binding                 { return Var(p, String()) }
func IntVar(p *int) Binding                       { return Var(p, Int()) }
func UintVar(p *uint) Binding                     { return Var(p, Uint()) }
func BoolVar(p *bool) Binding                     { return Var(p, Bool()) }
func FloatVar(p *float64) Binding                 { return Var(p, Float()) }
func DurationVar(p *time.Duration) Binding        { return Var(p, Duration()) }
func EnumVar(p *string, values ...string) Binding { return Var(p, Enum(values...)) }
func FileVar(p *string) Binding                   { return Var(p, FilePath()) }
func StringsVar(p *[]string) Binding              { return SliceVar(p, String()) }
func IntsVar(p *[]int) Binding                    { return SliceVar(p, Int()) }
func FilesVar(p *[]string) Binding                { return SliceVar(p, FilePath()) }

// CommandVar binds a command group; p receives the selected command's value.
func CommandVar(p *any, cmds ...CommandSpec) Binding {
	return Var(p, CommandGroup(cmds...))
}
