package domain

// ParseEvent is delivered while a document is being opened: zero or more
// Progress values followed by exactly one Done or Failed.
type ParseEvent interface {
	isParseEvent()
}

type Progress struct {
	Percent int // 1..100
}

type Done struct {
	Document   *Document
	TotalUnits int
}

type Failed struct {
	Message string
	Err     error
}

func (Progress) isParseEvent() {}
func (Done) isParseEvent()     {}
func (Failed) isParseEvent()   {}
