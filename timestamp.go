package bindata

import (
	"fmt"
	"time"
)

type timestampFactory struct {
	accepted *AcceptedParameters
}

func newTimestampFactory() *timestampFactory {
	accepted := NewAcceptedParameters()
	accepted.Default("type", "uint32le")
	accepted.Default("factor", int64(1))
	accepted.Optional("onlyif", "check_offset", "adjust_offset")
	accepted.MutuallyExclusive("check_offset", "adjust_offset")

	return &timestampFactory{accepted: accepted}
}

func (self *timestampFactory) TypeName() string {
	return "epoch_timestamp"
}

func (self *timestampFactory) AcceptedParameters() *AcceptedParameters {
	return self.accepted
}

func (self *timestampFactory) Sanitize(
	sanitizer *Sanitizer, params *SanitizedParameters) error {

	err := sanitizeWrappedType(sanitizer, params)
	if err != nil {
		return fmt.Errorf("epoch_timestamp: %w", err)
	}
	return nil
}

func (self *timestampFactory) Instantiate(
	proto *Prototype, parent Node) (Node, error) {

	factor := int64(1)
	factor_value, pres := proto.params.Get("factor")
	if pres {
		factor, _ = to_int64(factor_value)
		if factor < 1 {
			factor = 1
		}
	}

	result := &EpochTimestamp{factor: factor}
	result.init(result, proto, parent)

	err := result.wrapPrototype(result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// EpochTimestamp decorates an integer primitive holding seconds (or a
// finer unit, per factor) since the Unix epoch.
type EpochTimestamp struct {
	Wrapper

	factor int64
}

func (self *EpochTimestamp) Snapshot() (interface{}, error) {
	raw, err := self.wrapped.Snapshot()
	if err != nil {
		return nil, err
	}

	value, ok := to_int64(raw)
	if !ok {
		return nil, fmt.Errorf("epoch_timestamp: underlying value %T is not an integer", raw)
	}

	nsec := value % self.factor * int64(time.Second) / self.factor
	return time.Unix(value/self.factor, nsec).UTC(), nil
}

// Assign accepts a time.Time or a raw tick count.
func (self *EpochTimestamp) Assign(value interface{}) error {
	materialized, err := materialize(value)
	if err != nil {
		return err
	}

	t, ok := materialized.(time.Time)
	if ok {
		return self.wrapped.Assign(t.Unix() * self.factor)
	}

	return self.wrapped.Assign(materialized)
}
