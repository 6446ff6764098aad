package zipwriter

// CodeNotExist marks a source file that vanished between planning and writing
const CodeNotExist = "ENOENT"

// Warning is a non-fatal condition. The entry it concerns was not written
// but the archive remains valid.
type Warning struct {
	Code string
	Path string
	Err  error
}

func (w *Warning) Error() string {
	msg := "warning " + w.Code + ": " + w.Path
	if w.Err != nil {
		msg += ": " + w.Err.Error()
	}
	return msg
}

func (w *Warning) Unwrap() error {
	return w.Err
}

// WarningCode returns the machine-readable code of the warning
func (w *Warning) WarningCode() string {
	return w.Code
}
