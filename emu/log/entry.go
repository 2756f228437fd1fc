package log

import "fmt"

// printf-like family, for messages without fields. Formatting only happens
// when the module is enabled at that level.

func (mod Module) Debugf(format string, args ...any) { mod.logf(DebugLevel, format, args) }
func (mod Module) Infof(format string, args ...any)  { mod.logf(InfoLevel, format, args) }
func (mod Module) Warnf(format string, args ...any)  { mod.logf(WarnLevel, format, args) }
func (mod Module) Errorf(format string, args ...any) { mod.logf(ErrorLevel, format, args) }
func (mod Module) Fatalf(format string, args ...any) { mod.logf(FatalLevel, format, args) }

func (mod Module) logf(lvl Level, format string, args []any) {
	z := mod.logz(lvl, "")
	if z == nil {
		return
	}
	z.msg = fmt.Sprintf(format, args...)
	z.End()
}
