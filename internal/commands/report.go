package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/gaborage/noclist/httpclient"
)

// ReportError writes err to w for a human reader. Each cause of an
// AggregateError gets its own line; anything else is a single line.
func ReportError(w io.Writer, err error) {
	if err == nil {
		return
	}

	var agg *httpclient.AggregateError
	if errors.As(err, &agg) && len(agg.Errors) > 0 {
		for _, cause := range agg.Errors {
			fmt.Fprintln(w, cause.Error())
		}
		return
	}

	fmt.Fprintln(w, err.Error())
}
