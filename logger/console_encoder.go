package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Console palette (gruvbox dark: warm, muted, easy on eyes).
const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"

	colorFg     = "\x1b[38;5;223m" // soft cream
	colorTime   = "\x1b[38;5;108m" // muted cyan-green
	colorOrange = "\x1b[38;5;208m" // warm orange
	colorYellow = "\x1b[38;5;214m" // soft yellow
	colorBlue   = "\x1b[38;5;109m" // soft blue
	colorPurple = "\x1b[38;5;175m" // muted purple
	colorRed    = "\x1b[38;5;167m" // warm red
	colorRedBg  = "\x1b[48;5;88m"
	colorYelBg  = "\x1b[48;5;58m"
)

// consoleEncoder implements a calm, compact console encoder.
// Format: "13:04:35  c.cache  ⊞ Surface regenerated  session=f3a1 630ms"
type consoleEncoder struct {
	zapcore.Encoder // embedded base encoder for Clone/field serialization
}

func newConsoleEncoder() *consoleEncoder {
	return &consoleEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *consoleEncoder) Clone() zapcore.Encoder {
	return &consoleEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *consoleEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := buffer.NewPool().Get()

	final.AppendString(colorTime)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level tag only for WARN and worse; INFO stays quiet
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelTag(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(componentColor(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	// A "symbol" field carries the subsystem glyph; it leads the message
	glyph, rest := splitSymbolField(fields)
	final.AppendString("  ")
	if glyph != "" {
		final.AppendString(colorPurple)
		final.AppendString(glyph)
		final.AppendString(colorReset)
		final.AppendString(" ")
	}
	final.AppendString(colorFg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	if rendered := renderFields(rest); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

func levelTag(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return colorBlue + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + colorYelBg + colorYellow + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + colorRedBg + colorRed + "ERROR" + colorReset
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + colorRedBg + colorRed + level.CapitalString() + colorReset
	default:
		return ""
	}
}

// componentColor hashes the logger name so each component keeps a stable color.
func componentColor(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	if hash%2 == 0 {
		return colorOrange
	}
	return colorYellow
}

// abbreviateName shortens component names: canvas -> canvas, canvas.cache -> c.cache
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

func splitSymbolField(fields []zapcore.Field) (glyph string, rest []zapcore.Field) {
	rest = fields[:0:0]
	for _, f := range fields {
		if f.Key == FieldSymbol && f.Type == zapcore.StringType {
			glyph = f.String
			continue
		}
		rest = append(rest, f)
	}
	return glyph, rest
}

func fieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.BoolType:
		if field.Integer == 1 {
			return "true"
		}
		return "false"
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.Float64Type, zapcore.Float32Type:
		return fmt.Sprintf("%v", field.Interface)
	case zapcore.DurationType:
		return fmt.Sprintf("%dms", field.Integer/1e6)
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
	}
	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

// renderFields flattens structured fields to "key=value" pairs, with ids in
// blue and counts/durations in purple so the eye can find them.
func renderFields(fields []zapcore.Field) string {
	var parts []string
	for _, f := range fields {
		val := fieldValue(f)
		if val == "" {
			continue
		}
		color := colorFg
		switch {
		case strings.HasSuffix(f.Key, "_id") || f.Key == FieldDocument:
			color = colorBlue
		case f.Key == FieldCount || f.Key == FieldDurationMS ||
			f.Key == FieldVertices || f.Key == FieldEdges:
			color = colorPurple
		case f.Key == FieldError:
			color = colorRed
		}
		parts = append(parts, colorFg+f.Key+"="+colorReset+color+val+colorReset)
	}
	return strings.Join(parts, " ")
}
