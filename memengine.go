package parquetrecord

// MemEngine is an in-memory stand-in for the external Parquet reader/writer
// this package is designed to sit behind: it implements RecordConsumer by
// recording every call into an ordered event log, and Events() hands that
// log back in the exact shape MaterializeRecord consumes.
//
// It exists so this package's own tests can exercise a full write-then-read
// round trip without a real page encoder/decoder, which is explicitly out
// of scope for the CORE itself.
type MemEngine struct {
	events []recordEvent
}

// NewMemEngine returns an empty MemEngine ready to record one record's
// events. A MemEngine is single-record; call Reset between records.
func NewMemEngine() *MemEngine {
	return &MemEngine{}
}

// Reset discards any recorded events, preparing the engine to record
// another record.
func (m *MemEngine) Reset() { m.events = m.events[:0] }

// Events returns the recorded column-event log.
func (m *MemEngine) Events() []recordEvent { return m.events }

func (m *MemEngine) StartMessage() { m.events = append(m.events, recordEvent{kind: evStartMessage}) }
func (m *MemEngine) EndMessage()   { m.events = append(m.events, recordEvent{kind: evEndMessage}) }

func (m *MemEngine) StartField(name string, index int) {
	m.events = append(m.events, recordEvent{kind: evStartField, fieldName: name, fieldIndex: index})
}

func (m *MemEngine) EndField(name string, index int) {
	m.events = append(m.events, recordEvent{kind: evEndField, fieldName: name, fieldIndex: index})
}

func (m *MemEngine) StartGroup() { m.events = append(m.events, recordEvent{kind: evStartGroup}) }
func (m *MemEngine) EndGroup()    { m.events = append(m.events, recordEvent{kind: evEndGroup}) }

func (m *MemEngine) AddBool(v bool)       { m.events = append(m.events, recordEvent{kind: evBool, b: v}) }
func (m *MemEngine) AddInt32(v int32)     { m.events = append(m.events, recordEvent{kind: evInt32, i32: v}) }
func (m *MemEngine) AddInt64(v int64)     { m.events = append(m.events, recordEvent{kind: evInt64, i64: v}) }
func (m *MemEngine) AddFloat32(v float32) { m.events = append(m.events, recordEvent{kind: evFloat32, f32: v}) }
func (m *MemEngine) AddFloat64(v float64) { m.events = append(m.events, recordEvent{kind: evFloat64, f64: v}) }

func (m *MemEngine) AddBinary(v []byte) {
	cp := make([]byte, len(v))
	copy(cp, v)
	m.events = append(m.events, recordEvent{kind: evBinary, bin: cp})
}

var _ RecordConsumer = (*MemEngine)(nil)
