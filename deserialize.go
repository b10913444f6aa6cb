package serialize

import (
	"fmt"

	"github.com/dop251/goja"
)

// Deserialize evaluates src as a JavaScript expression in a fresh runtime
// and exports the result as a Go value. It is the inverse of Serialize for
// trusted input only: the text is executed as code, with everything that
// implies. There is no sandboxing here.
func Deserialize(src string) (any, error) {
	vm := goja.New()
	v, err := vm.RunString("(" + src + ")")
	if err != nil {
		return nil, fmt.Errorf("serialize: deserialize: %w", err)
	}
	return v.Export(), nil
}
