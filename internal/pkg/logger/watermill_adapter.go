package logger

import "github.com/ThreeDotsLabs/watermill"

// WatermillAdapter routes watermill's own logging into an ILogger.
type WatermillAdapter struct {
	logger ILogger
	fields watermill.LogFields
	debug  bool
}

func NewWatermillAdapter(l ILogger, debug bool) *WatermillAdapter {
	return &WatermillAdapter{logger: l, debug: debug}
}

func (a *WatermillAdapter) details(fields watermill.LogFields) map[string]interface{} {
	out := make(map[string]interface{}, len(a.fields)+len(fields))
	for k, v := range a.fields {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (a *WatermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	d := a.details(fields)
	if err != nil {
		d["error"] = err.Error()
	}
	a.logger.Error("Watermill", msg, d)
}

func (a *WatermillAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Info("Watermill", msg, a.details(fields))
}

func (a *WatermillAdapter) Debug(msg string, fields watermill.LogFields) {
	if a.debug {
		a.logger.Debug("Watermill", msg, a.details(fields))
	}
}

func (a *WatermillAdapter) Trace(msg string, fields watermill.LogFields) {
	if a.debug {
		a.logger.Debug("Watermill", msg, a.details(fields))
	}
}

func (a *WatermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &WatermillAdapter{logger: a.logger, fields: a.details(fields), debug: a.debug}
}
