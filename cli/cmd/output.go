package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/molang/lang"
	"github.com/ardnew/molang/pkg"
)

// outputFormats lists the result formats accepted by --output.
var outputFormats = []string{"text", "json", "yaml"}

// Output selects how a result value is printed.
type Output struct {
	Output string `default:"text" enum:"text,json,yaml" help:"Result format (${enum})." short:"o"`
}

// write prints v to w in the selected format. Values that have no host
// representation, such as functions and namespaces, print as text.
func (o Output) write(w io.Writer, v lang.Value) error {
	switch o.Output {
	case "", "text":
		_, err := fmt.Fprintln(w, v.String())

		return err

	case "json":
		b, err := json.Marshal(jsonValue(v))
		if err != nil {
			return pkg.ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(b))

		return err

	case "yaml":
		b, err := yaml.Marshal(hostValue(v))
		if err != nil {
			return pkg.ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(b)

		return err
	}

	return pkg.ErrInvalidFormat.Wrapf("%q (valid: %s)", o.Output, strings.Join(outputFormats, ", "))
}

func hostValue(v lang.Value) any {
	switch v.Kind() {
	case lang.KindCallable, lang.KindObject:
		return v.String()
	default:
		return v.Any()
	}
}

// jsonValue is hostValue with non-finite numbers, which JSON cannot hold,
// written as the strings "+Inf", "-Inf" and "NaN".
func jsonValue(v lang.Value) any {
	if v.Kind() == lang.KindNumber {
		if n := v.AsDouble(); math.IsInf(n, 0) || math.IsNaN(n) {
			return strconv.FormatFloat(n, 'g', -1, 64)
		}
	}

	return hostValue(v)
}
