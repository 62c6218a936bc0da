package collector

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/samber/lo"
)

// LogEntry is a flattened slog record kept for reports.
type LogEntry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// LogCollector keeps the most recent log records, typically of a single step.
type LogCollector struct {
	buffer   *RingBuffer[LogEntry]
	notifier *Notifier[LogEntry]
}

func NewLogCollector(capacity uint64) *LogCollector {
	return NewLogCollectorWithOptions(capacity, DefaultLogOptions())
}

func DefaultLogOptions() LogOptions {
	return LogOptions{}
}

type LogOptions struct {
	// NotifierOptions are options for notification about new log entries
	NotifierOptions *NotifierOptions
}

func NewLogCollectorWithOptions(capacity uint64, options LogOptions) *LogCollector {
	notifierOptions := DefaultNotifierOptions()
	if options.NotifierOptions != nil {
		notifierOptions = *options.NotifierOptions
	}

	return &LogCollector{
		buffer:   NewRingBuffer[LogEntry](capacity),
		notifier: NewNotifierWithOptions[LogEntry](notifierOptions),
	}
}

func (c *LogCollector) Collect(ctx context.Context, record slog.Record) {
	entry := LogEntry{
		Time:    record.Time,
		Level:   record.Level.String(),
		Message: record.Message,
	}
	if record.NumAttrs() > 0 {
		entry.Attrs = make(map[string]any, record.NumAttrs())
		record.Attrs(func(attr slog.Attr) bool {
			entry.Attrs[attr.Key] = attrValue(attr.Value)
			return true
		})
	}

	c.buffer.Add(entry)
	c.notifier.Notify(entry)
}

// Tail returns the last n entries, oldest first.
func (c *LogCollector) Tail(n int) []LogEntry {
	return c.buffer.Tail(n)
}

// Entries returns all buffered entries, oldest first.
func (c *LogCollector) Entries() []LogEntry {
	return c.buffer.All()
}

// Subscribe returns a channel that receives new log entries
func (c *LogCollector) Subscribe(ctx context.Context) <-chan LogEntry {
	return c.notifier.Subscribe(ctx)
}

// Close releases resources used by the collector
func (c *LogCollector) Close() {
	c.notifier.Close()
}

func attrValue(v slog.Value) any {
	v = v.Resolve()
	if v.Kind() != slog.KindGroup {
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	}
	group := make(map[string]any, len(v.Group()))
	for _, attr := range v.Group() {
		group[attr.Key] = attrValue(attr.Value)
	}
	return group
}

type CollectSlogLogsOptions struct {
	// Level is the minimum level of logs to collect.
	Level slog.Level
}

// SlogHandler is a slog.Handler writing into a LogCollector.
type SlogHandler struct {
	collector *LogCollector
	options   CollectSlogLogsOptions

	attrs  []slog.Attr
	groups []string
}

func NewSlogHandler(collector *LogCollector, options CollectSlogLogsOptions) *SlogHandler {
	return &SlogHandler{
		collector: collector,
		options:   options,

		attrs:  []slog.Attr{},
		groups: []string{},
	}
}

func (h *SlogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.options.Level <= level
}

func (h *SlogHandler) Handle(ctx context.Context, record slog.Record) error {
	// Handler attributes must come before the record attributes, so the record is rebuilt.
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	newRecord.AddAttrs(h.attrs...)

	attrs := []slog.Attr{}
	record.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, attr)
		return true
	})

	for i := len(h.groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{
			slog.Group(h.groups[i], lo.ToAnySlice(attrs)...),
		}
	}
	newRecord.AddAttrs(attrs...)

	h.collector.Collect(ctx, newRecord)

	return nil
}

func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SlogHandler{
		collector: h.collector,
		options:   h.options,

		attrs:  appendAttrsToGroup(h.groups, h.attrs, attrs...),
		groups: h.groups,
	}
}

func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &SlogHandler{
		collector: h.collector,
		options:   h.options,

		attrs:  h.attrs,
		groups: append(slices.Clone(h.groups), name),
	}
}

// Copied from github.com/samber/slog-mock
func appendAttrsToGroup(groups []string, actualAttrs []slog.Attr, newAttrs ...slog.Attr) []slog.Attr {
	actualAttrs = slices.Clone(actualAttrs)

	if len(groups) == 0 {
		return append(actualAttrs, newAttrs...)
	}

	for i := range actualAttrs {
		attr := actualAttrs[i]
		if attr.Key == groups[0] && attr.Value.Kind() == slog.KindGroup {
			actualAttrs[i] = slog.Group(groups[0], lo.ToAnySlice(appendAttrsToGroup(groups[1:], attr.Value.Group(), newAttrs...))...)
			return actualAttrs
		}
	}

	return append(
		actualAttrs,
		slog.Group(
			groups[0],
			lo.ToAnySlice(appendAttrsToGroup(groups[1:], []slog.Attr{}, newAttrs...))...,
		),
	)
}
