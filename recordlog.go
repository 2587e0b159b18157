package parquetrecord

import (
	"github.com/kestrel-data/parquet-record/internal/debug"
)

// TraceConsumer wraps a RecordConsumer, printing every call it receives to
// stderr when tracing is enabled. It's meant for debugging a schema or
// emission bug by eye, the same role the teacher's internal/debug
// Reader/Writer wrappers played for raw file I/O.
type TraceConsumer struct {
	RecordConsumer
	tracer *debug.Tracer
}

// NewTraceConsumer wraps next, tracing under prefix when enabled is true.
func NewTraceConsumer(next RecordConsumer, prefix string, enabled bool) *TraceConsumer {
	t := debug.New(prefix)
	t.Enable(enabled)
	return &TraceConsumer{RecordConsumer: next, tracer: t}
}

func (c *TraceConsumer) StartMessage() {
	c.tracer.Enter("start_message")
	c.RecordConsumer.StartMessage()
}

func (c *TraceConsumer) EndMessage() {
	c.RecordConsumer.EndMessage()
	c.tracer.Leave("end_message")
}

func (c *TraceConsumer) StartField(name string, index int) {
	c.tracer.Enter("start_field(%s, %d)", name, index)
	c.RecordConsumer.StartField(name, index)
}

func (c *TraceConsumer) EndField(name string, index int) {
	c.RecordConsumer.EndField(name, index)
	c.tracer.Leave("end_field(%s, %d)", name, index)
}

func (c *TraceConsumer) StartGroup() {
	c.tracer.Enter("start_group")
	c.RecordConsumer.StartGroup()
}

func (c *TraceConsumer) EndGroup() {
	c.RecordConsumer.EndGroup()
	c.tracer.Leave("end_group")
}

func (c *TraceConsumer) AddBool(v bool) {
	c.tracer.Event("add_bool(%v)", v)
	c.RecordConsumer.AddBool(v)
}

func (c *TraceConsumer) AddInt32(v int32) {
	c.tracer.Event("add_i32(%d)", v)
	c.RecordConsumer.AddInt32(v)
}

func (c *TraceConsumer) AddInt64(v int64) {
	c.tracer.Event("add_i64(%d)", v)
	c.RecordConsumer.AddInt64(v)
}

func (c *TraceConsumer) AddFloat32(v float32) {
	c.tracer.Event("add_f32(%v)", v)
	c.RecordConsumer.AddFloat32(v)
}

func (c *TraceConsumer) AddFloat64(v float64) {
	c.tracer.Event("add_f64(%v)", v)
	c.RecordConsumer.AddFloat64(v)
}

func (c *TraceConsumer) AddBinary(v []byte) {
	c.tracer.Event("add_binary(%d bytes)", len(v))
	c.RecordConsumer.AddBinary(v)
}
