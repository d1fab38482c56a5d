package worker

import "errors"

// ErrUnknownJobKind — нет обработчика для данного вида job.
var ErrUnknownJobKind = errors.New("unknown job kind")
