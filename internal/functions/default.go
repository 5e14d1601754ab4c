// default.go implements the `default` function, grounded on
// original_source/src/functions/default.rs: pass the input through
// unchanged unless it is null, in which case substitute the literal
// argument. Per spec.md §4's Open Question decision, the argument must be
// a literal — a nested placeholder is never accepted here.
package functions

import "github.com/konflab/konf/internal/value"

type defaultFunc struct{}

func (defaultFunc) Name() string { return "default" }

func (f defaultFunc) Execute(v value.Value, args []Arg) (value.Value, error) {
	if !v.IsNull() {
		return v, nil
	}
	if len(args) == 0 {
		return value.Value{}, invalidArgument(f.Name(), "one literal argument", "none")
	}
	return args[0].AsValue(), nil
}
