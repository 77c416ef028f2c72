package base

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Archive is the (de)serialization contract every persisted node type binds to,
// grounded on the teacher's internal/base/Serializable.go Archive interface.
// A single implementation serves both directions: ar.Loading() tells a
// Serializable which way the bytes are flowing.
type Archive interface {
	Loading() bool
	Error() error

	Bool(*bool)
	Uint32(*uint32)
	Uint64(*uint64)
	Int64(*int64)
	String(*string)
	StringSlice(*[]string)
	Raw([]byte)
}

type Serializable interface {
	Serialize(ar Archive)
}

/***************************************
 * Binary writer
 ***************************************/

type ArchiveBinaryWriter struct {
	w   *bufio.Writer
	err error
}

func NewArchiveBinaryWriter(w io.Writer) *ArchiveBinaryWriter {
	return &ArchiveBinaryWriter{w: bufio.NewWriter(w)}
}
func (x *ArchiveBinaryWriter) Loading() bool { return false }
func (x *ArchiveBinaryWriter) Error() error   { return x.err }
func (x *ArchiveBinaryWriter) Flush() error {
	if x.err == nil {
		x.err = x.w.Flush()
	}
	return x.err
}
func (x *ArchiveBinaryWriter) Raw(value []byte) {
	if x.err != nil {
		return
	}
	_, x.err = x.w.Write(value)
}
func (x *ArchiveBinaryWriter) Bool(value *bool) {
	if *value {
		x.Raw([]byte{1})
	} else {
		x.Raw([]byte{0})
	}
}
func (x *ArchiveBinaryWriter) Uint32(value *uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], *value)
	x.Raw(buf[:])
}
func (x *ArchiveBinaryWriter) Uint64(value *uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], *value)
	x.Raw(buf[:])
}
func (x *ArchiveBinaryWriter) Int64(value *int64) {
	u := uint64(*value)
	x.Uint64(&u)
}
func (x *ArchiveBinaryWriter) String(value *string) {
	size := uint32(len(*value))
	x.Uint32(&size)
	x.Raw([]byte(*value))
}
func (x *ArchiveBinaryWriter) StringSlice(value *[]string) {
	size := uint32(len(*value))
	x.Uint32(&size)
	for i := range *value {
		x.String(&(*value)[i])
	}
}

/***************************************
 * Binary reader
 ***************************************/

type ArchiveBinaryReader struct {
	r   *bufio.Reader
	err error
}

func NewArchiveBinaryReader(r io.Reader) *ArchiveBinaryReader {
	return &ArchiveBinaryReader{r: bufio.NewReader(r)}
}
func (x *ArchiveBinaryReader) Loading() bool { return true }
func (x *ArchiveBinaryReader) Error() error   { return x.err }
func (x *ArchiveBinaryReader) Raw(value []byte) {
	if x.err != nil {
		return
	}
	_, x.err = io.ReadFull(x.r, value)
}
func (x *ArchiveBinaryReader) Bool(value *bool) {
	var buf [1]byte
	x.Raw(buf[:])
	*value = buf[0] != 0
}
func (x *ArchiveBinaryReader) Uint32(value *uint32) {
	var buf [4]byte
	x.Raw(buf[:])
	*value = binary.LittleEndian.Uint32(buf[:])
}
func (x *ArchiveBinaryReader) Uint64(value *uint64) {
	var buf [8]byte
	x.Raw(buf[:])
	*value = binary.LittleEndian.Uint64(buf[:])
}
func (x *ArchiveBinaryReader) Int64(value *int64) {
	var u uint64
	x.Uint64(&u)
	*value = int64(u)
}
func (x *ArchiveBinaryReader) String(value *string) {
	var size uint32
	x.Uint32(&size)
	if x.err != nil {
		return
	}
	if size > 64<<20 {
		x.err = fmt.Errorf("archive: implausible string length %d", size)
		return
	}
	buf := make([]byte, size)
	x.Raw(buf)
	*value = string(buf)
}
func (x *ArchiveBinaryReader) StringSlice(value *[]string) {
	var size uint32
	x.Uint32(&size)
	if x.err != nil {
		return
	}
	result := make([]string, size)
	for i := range result {
		x.String(&result[i])
	}
	*value = result
}
