package cli

import (
	stderrors "errors"
	"sort"

	"github.com/toyz/iocscan/internal/errors"
	"github.com/toyz/iocscan/internal/utils"
)

// ReportError prints err with its code, context and suggestions when it
// carries them.
func ReportError(d *utils.DiagnosticSystem, err error) {
	var iocErr errors.IocError
	if !stderrors.As(err, &iocErr) {
		d.Error("%v", err)
		return
	}

	d.Error("%s: %v", iocErr.ErrorCode(), err)
	d.Indent()
	defer d.Unindent()

	ctx := iocErr.Context()
	keys := make([]string, 0, len(ctx))
	for key := range ctx {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		d.Error("%s: %v", key, ctx[key])
	}
	for _, suggestion := range iocErr.Suggestions() {
		d.Error("hint: %s", suggestion)
	}
}
