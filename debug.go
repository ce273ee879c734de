package bindata

import (
	"encoding/json"
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

func Debug(arg interface{}) {
	spew.Dump(arg)
}

func JsonDump(v interface{}) {
	fmt.Println(StringIndent(v))
}

func StringIndent(v interface{}) string {
	result, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(result)
}

// TraceObserver watches field traversal during a read. Install one on
// the stream to trace what the driver visits and where.
type TraceObserver interface {
	OnField(name string, offset int64, node Node)
}

func notifyObserver(io *Stream, name string, node Node) {
	if io.observer != nil {
		io.observer.OnField(name, io.Pos(), node)
	}
}

// LogObserver prints each visited field through a printf style
// logger.
type LogObserver struct {
	Logf func(format string, args ...interface{})
}

func (self *LogObserver) OnField(name string, offset int64, node Node) {
	if self.Logf != nil {
		self.Logf("%6d: %v (%v)", offset, name, node.Factory().TypeName())
	}
}
