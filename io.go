package bindata

import (
	"bytes"
	"fmt"
	"io"
)

// Stream wraps a byte source/sink with offset tracking and bit-packed
// access for bit-width primitives. The engine borrows a Stream for the
// duration of a single read or write call. It never opens or closes the
// underlying resource.
type Stream struct {
	in     io.Reader
	out    io.Writer
	seeker io.Seeker

	offset int64
	origin int64

	// One byte of lookahead used for end-of-stream detection.
	peeked  []byte
	peek_at int64

	// Partial byte state for bit reads. rbuf holds the unconsumed
	// bits right aligned.
	rbuf    uint8
	rbits   uint8
	rendian Endian

	// Partial byte state for bit writes.
	wbuf    uint8
	wbits   uint8
	wendian Endian

	observer TraceObserver
}

// SetObserver installs a tracing observer notified as the driver
// visits fields.
func (self *Stream) SetObserver(observer TraceObserver) {
	self.observer = observer
}

// NewStream wraps an io.Reader, io.Writer or both. The seeking surface
// is only available when the underlying value implements io.Seeker.
func NewStream(v interface{}) *Stream {
	result := &Stream{}

	reader, ok := v.(io.Reader)
	if ok {
		result.in = reader
	}

	writer, ok := v.(io.Writer)
	if ok {
		result.out = writer
	}

	seeker, ok := v.(io.Seeker)
	if ok {
		result.seeker = seeker
	}

	return result
}

func NewStreamFromBytes(data []byte) *Stream {
	return NewStream(bytes.NewReader(data))
}

// Pos is the current byte offset. Pending write bits do not count
// until they are flushed to a whole byte; a byte that bit reads have
// started on counts as soon as it is pulled from the source.
func (self *Stream) Pos() int64 {
	return self.offset
}

// MarkOrigin records the current position as the origin of the
// enclosing read or write. check_offset and adjust_offset are relative
// to this point.
func (self *Stream) MarkOrigin() {
	self.origin = self.offset
}

func (self *Stream) Origin() int64 {
	return self.origin
}

func (self *Stream) RelPos() int64 {
	return self.offset - self.origin
}

// ReadBytes transfers exactly n bytes. A short read fails with
// EndOfStreamError. Any pending bit remainder is discarded first so
// byte fields realign to the next byte boundary.
func (self *Stream) ReadBytes(n int64) ([]byte, error) {
	self.DiscardReadBits()

	if n < 0 {
		return nil, fmt.Errorf("ReadBytes: negative count %v", n)
	}
	if n == 0 {
		return []byte{}, nil
	}

	if self.in == nil {
		return nil, fmt.Errorf("ReadBytes: %w: stream is not readable",
			EndOfStreamError)
	}

	buf := make([]byte, n)
	copied := int64(0)

	if len(self.peeked) > 0 && self.peek_at == self.offset {
		copied = int64(copy(buf, self.peeked))
		self.peeked = nil
	} else {
		self.peeked = nil
	}

	read, _ := io.ReadFull(self.in, buf[copied:])
	total := copied + int64(read)
	self.offset += total

	if total < n {
		return nil, fmt.Errorf(
			"%w: wanted %v bytes, got %v at offset %v",
			EndOfStreamError, n, total, self.offset)
	}

	return buf, nil
}

func (self *Stream) ReadByte() (byte, error) {
	buf, err := self.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteBytes transfers all of data. Any pending bit buffer is flushed
// (padded to a whole byte) first.
func (self *Stream) WriteBytes(data []byte) error {
	err := self.FlushWriteBits()
	if err != nil {
		return err
	}

	if self.out == nil {
		return fmt.Errorf("WriteBytes: stream is not writable")
	}

	n, err := self.out.Write(data)
	self.offset += int64(n)
	if err != nil {
		return err
	}
	if n < len(data) {
		return io.ErrShortWrite
	}
	return nil
}

// Seek moves to an absolute offset. Requires the underlying value to
// support seeking.
func (self *Stream) Seek(offset int64) error {
	if self.seeker == nil {
		return fmt.Errorf("Seek: underlying stream is not seekable")
	}

	self.DiscardReadBits()
	self.peeked = nil

	_, err := self.seeker.Seek(offset, io.SeekStart)
	if err != nil {
		return err
	}
	self.offset = offset
	return nil
}

// SeekBytes moves n bytes relative to the current position. On a non
// seekable reader only forward moves work: the bytes are consumed and
// discarded.
func (self *Stream) SeekBytes(n int64) error {
	if n == 0 {
		return nil
	}

	if self.seeker != nil {
		return self.Seek(self.offset + n)
	}

	if n < 0 {
		return fmt.Errorf("SeekBytes: cannot seek backwards on a non seekable stream")
	}

	_, err := self.ReadBytes(n)
	return err
}

// AtEOF reports whether another byte can be read. Used by arrays
// reading until end of stream.
func (self *Stream) AtEOF() bool {
	if self.rbits > 0 {
		return false
	}

	if self.in == nil {
		return true
	}

	if len(self.peeked) > 0 && self.peek_at == self.offset {
		return false
	}

	buf := make([]byte, 1)
	n, _ := self.in.Read(buf)
	if n == 0 {
		return true
	}

	self.peeked = buf[:n]
	self.peek_at = self.offset
	return false
}

func bit_mask(n uint8) uint8 {
	return byte(1<<n) - 1
}

// ReadBits reads nbits (1..64) packed MSB first (big) or LSB first
// (little). Adjacent bit reads of the same endian share bytes; a
// change of endian realigns to the next byte.
func (self *Stream) ReadBits(nbits uint8, endian Endian) (uint64, error) {
	if self.rbits > 0 && self.rendian != endian {
		self.DiscardReadBits()
	}
	self.rendian = endian

	var result uint64
	var got uint8

	for got < nbits {
		if self.rbits == 0 {
			b, err := self.readRawByte()
			if err != nil {
				return 0, err
			}
			self.rbuf = b
			self.rbits = 8
		}

		take := nbits - got
		if take > self.rbits {
			take = self.rbits
		}

		if endian == BigEndian {
			chunk := (self.rbuf >> (self.rbits - take)) & bit_mask(take)
			result = result<<take | uint64(chunk)
		} else {
			chunk := self.rbuf & bit_mask(take)
			self.rbuf >>= take
			result |= uint64(chunk) << got
		}

		self.rbits -= take
		got += take
	}

	return result, nil
}

// readRawByte bypasses DiscardReadBits so bit reads can refill their
// buffer.
func (self *Stream) readRawByte() (byte, error) {
	if self.in == nil {
		return 0, fmt.Errorf("%w: stream is not readable", EndOfStreamError)
	}

	if len(self.peeked) > 0 && self.peek_at == self.offset {
		b := self.peeked[0]
		self.peeked = nil
		self.offset++
		return b, nil
	}
	self.peeked = nil

	buf := make([]byte, 1)
	n, _ := self.in.Read(buf)
	if n == 0 {
		return 0, fmt.Errorf("%w: wanted 1 byte at offset %v",
			EndOfStreamError, self.offset)
	}
	self.offset++
	return buf[0], nil
}

// WriteBits accumulates nbits into the pending byte, emitting whole
// bytes as they fill.
func (self *Stream) WriteBits(value uint64, nbits uint8, endian Endian) error {
	if self.wbits > 0 && self.wendian != endian {
		err := self.FlushWriteBits()
		if err != nil {
			return err
		}
	}
	self.wendian = endian

	remaining := nbits
	for remaining > 0 {
		space := 8 - self.wbits
		take := remaining
		if take > space {
			take = space
		}

		if endian == BigEndian {
			chunk := byte(value>>(remaining-take)) & bit_mask(take)
			self.wbuf |= chunk << (space - take)
		} else {
			chunk := byte(value) & bit_mask(take)
			self.wbuf |= chunk << self.wbits
			value >>= take
		}

		self.wbits += take
		remaining -= take

		if self.wbits == 8 {
			err := self.writeRawByte(self.wbuf)
			if err != nil {
				return err
			}
			self.wbuf = 0
			self.wbits = 0
		}
	}

	return nil
}

// FlushWriteBits pads any pending bits to a whole byte and emits it.
func (self *Stream) FlushWriteBits() error {
	if self.wbits == 0 {
		return nil
	}

	b := self.wbuf
	self.wbuf = 0
	self.wbits = 0
	return self.writeRawByte(b)
}

func (self *Stream) writeRawByte(b byte) error {
	if self.out == nil {
		return fmt.Errorf("WriteBits: stream is not writable")
	}

	n, err := self.out.Write([]byte{b})
	self.offset += int64(n)
	return err
}

// DiscardReadBits drops any partially consumed byte so the next read
// starts on a byte boundary.
func (self *Stream) DiscardReadBits() {
	self.rbuf = 0
	self.rbits = 0
}
