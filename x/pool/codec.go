package pool

import (
	"github.com/gogo/protobuf/proto"

	"github.com/EricInMarkham/fundpool/errors"
)

// Status is the lifecycle state of a transfer request. Open is the
// initial state, Executed is terminal and immutable.
type Status int32

const (
	StatusInvalid  Status = 0
	StatusOpen     Status = 1
	StatusExecuted Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusExecuted:
		return "executed"
	default:
		return "invalid"
	}
}

// Config are the construction parameters of a pool. They are fixed at
// creation and persisted, reopening with different values fails.
type Config struct {
	MaxOwners         uint32 `protobuf:"varint,1,opt,name=max_owners,json=maxOwners,proto3" json:"max_owners,omitempty"`
	ApprovalsRequired uint32 `protobuf:"varint,2,opt,name=approvals_required,json=approvalsRequired,proto3" json:"approvals_required,omitempty"`
}

// OwnerInfo is the membership record of a single owner. Index is the
// stable registration position, starting at 0. Presence of the record
// itself is the membership predicate, the index carries no sentinel
// meaning.
type OwnerInfo struct {
	Index uint32 `protobuf:"varint,1,opt,name=index,proto3" json:"index,omitempty"`
}

// TransferRequest is a proposed movement of funds out of the pool.
// Approvals is an ordered set of distinct owner addresses, insertion
// order is approval order.
type TransferRequest struct {
	Recipient []byte   `protobuf:"bytes,1,opt,name=recipient,proto3" json:"recipient,omitempty"`
	Amount    int64    `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,omitempty"`
	Approvals [][]byte `protobuf:"bytes,3,rep,name=approvals,proto3" json:"approvals,omitempty"`
	Status    Status   `protobuf:"varint,4,opt,name=status,proto3,enum=fundpool.x.pool.Status" json:"status,omitempty"`
}

// Funds is the aggregate accounting record: total custody balance and
// the pending amount reserved by open requests.
type Funds struct {
	Custody int64 `protobuf:"varint,1,opt,name=custody,proto3" json:"custody,omitempty"`
	Pending int64 `protobuf:"varint,2,opt,name=pending,proto3" json:"pending,omitempty"`
}

// DepositRecord tracks the lifetime total deposited by one identity.
// Pure bookkeeping, it confers no rights.
type DepositRecord struct {
	Total int64 `protobuf:"varint,1,opt,name=total,proto3" json:"total,omitempty"`
}

var (
	_ proto.Message = (*Config)(nil)
	_ proto.Message = (*OwnerInfo)(nil)
	_ proto.Message = (*TransferRequest)(nil)
	_ proto.Message = (*Funds)(nil)
	_ proto.Message = (*DepositRecord)(nil)
)

func (m *Config) Reset() { *m = Config{} }
func (m *Config) String() string { return proto.CompactTextString(m) }
func (*Config) ProtoMessage() {}

func (m *OwnerInfo) Reset() { *m = OwnerInfo{} }
func (m *OwnerInfo) String() string { return proto.CompactTextString(m) }
func (*OwnerInfo) ProtoMessage() {}

func (m *TransferRequest) Reset() { *m = TransferRequest{} }
func (m *TransferRequest) String() string { return proto.CompactTextString(m) }
func (*TransferRequest) ProtoMessage() {}

func (m *Funds) Reset() { *m = Funds{} }
func (m *Funds) String() string { return proto.CompactTextString(m) }
func (*Funds) ProtoMessage() {}

func (m *DepositRecord) Reset() { *m = DepositRecord{} }
func (m *DepositRecord) String() string { return proto.CompactTextString(m) }
func (*DepositRecord) ProtoMessage() {}

// Marshal implements the orm persistence contract.
func (m *Config) Marshal() ([]byte, error) {
	var buf []byte
	buf = appendVarintField(buf, 1, uint64(m.MaxOwners))
	buf = appendVarintField(buf, 2, uint64(m.ApprovalsRequired))
	return buf, nil
}

// Unmarshal implements the orm persistence contract.
func (m *Config) Unmarshal(raw []byte) error {
	m.Reset()
	return walkFields(raw, func(field uint64, varint uint64, bytes []byte) error {
		switch field {
		case 1:
			m.MaxOwners = uint32(varint)
		case 2:
			m.ApprovalsRequired = uint32(varint)
		}
		return nil
	})
}

// Marshal implements the orm persistence contract.
func (m *OwnerInfo) Marshal() ([]byte, error) {
	// index 0 is the first owner, not an absent value
	return appendVarintFieldAlways(nil, 1, uint64(m.Index)), nil
}

// Unmarshal implements the orm persistence contract.
func (m *OwnerInfo) Unmarshal(raw []byte) error {
	m.Reset()
	return walkFields(raw, func(field uint64, varint uint64, bytes []byte) error {
		if field == 1 {
			m.Index = uint32(varint)
		}
		return nil
	})
}

// Marshal implements the orm persistence contract.
func (m *TransferRequest) Marshal() ([]byte, error) {
	var buf []byte
	buf = appendBytesField(buf, 1, m.Recipient)
	buf = appendVarintField(buf, 2, uint64(m.Amount))
	for _, a := range m.Approvals {
		buf = appendBytesField(buf, 3, a)
	}
	buf = appendVarintField(buf, 4, uint64(m.Status))
	return buf, nil
}

// Unmarshal implements the orm persistence contract.
func (m *TransferRequest) Unmarshal(raw []byte) error {
	m.Reset()
	return walkFields(raw, func(field uint64, varint uint64, bytes []byte) error {
		switch field {
		case 1:
			m.Recipient = bytes
		case 2:
			m.Amount = int64(varint)
		case 3:
			m.Approvals = append(m.Approvals, bytes)
		case 4:
			m.Status = Status(varint)
		}
		return nil
	})
}

// Marshal implements the orm persistence contract.
func (m *Funds) Marshal() ([]byte, error) {
	// a drained pool is all zeroes and still a real record
	buf := appendVarintFieldAlways(nil, 1, uint64(m.Custody))
	return appendVarintFieldAlways(buf, 2, uint64(m.Pending)), nil
}

// Unmarshal implements the orm persistence contract.
func (m *Funds) Unmarshal(raw []byte) error {
	m.Reset()
	return walkFields(raw, func(field uint64, varint uint64, bytes []byte) error {
		switch field {
		case 1:
			m.Custody = int64(varint)
		case 2:
			m.Pending = int64(varint)
		}
		return nil
	})
}

// Marshal implements the orm persistence contract.
func (m *DepositRecord) Marshal() ([]byte, error) {
	return appendVarintFieldAlways(nil, 1, uint64(m.Total)), nil
}

// Unmarshal implements the orm persistence contract.
func (m *DepositRecord) Unmarshal(raw []byte) error {
	m.Reset()
	return walkFields(raw, func(field uint64, varint uint64, bytes []byte) error {
		if field == 1 {
			m.Total = int64(varint)
		}
		return nil
	})
}

// The wire format is standard proto3 varint/bytes encoding. The
// messages are small and flat, so the codec is written out by hand
// instead of being generated.

func appendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// appendVarintField emits a varint field, omitting zero values as
// proto3 does.
func appendVarintField(buf []byte, field uint64, v uint64) []byte {
	if v == 0 {
		return buf
	}
	return appendVarintFieldAlways(buf, field, v)
}

// appendVarintFieldAlways emits a varint field even when the value is
// zero. Models whose fields may all legitimately be zero must use it:
// the buckets treat a nil value as absence, and the merkle store
// rejects nil values outright, so a present record must never encode
// to empty bytes. An explicit zero is still valid proto3 wire data.
func appendVarintFieldAlways(buf []byte, field uint64, v uint64) []byte {
	buf = appendVarint(buf, field<<3)
	return appendVarint(buf, v)
}

func appendBytesField(buf []byte, field uint64, b []byte) []byte {
	if len(b) == 0 {
		return buf
	}
	buf = appendVarint(buf, field<<3|2)
	buf = appendVarint(buf, uint64(len(b)))
	return append(buf, b...)
}

func readVarint(raw []byte) (uint64, int, error) {
	var v uint64
	var shift uint
	for i := 0; i < len(raw) && i < 10; i++ {
		b := raw[i]
		v |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return v, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, errors.Wrap(errors.ErrInput, "malformed varint")
}

// walkFields decodes the top level fields of a proto3 message and
// reports each to the set callback. Unknown fields are skipped, as a
// decoder must.
func walkFields(raw []byte, set func(field uint64, varint uint64, bytes []byte) error) error {
	for len(raw) > 0 {
		key, n, err := readVarint(raw)
		if err != nil {
			return err
		}
		raw = raw[n:]
		field, wire := key>>3, key&0x7

		switch wire {
		case 0: // varint
			v, n, err := readVarint(raw)
			if err != nil {
				return err
			}
			raw = raw[n:]
			if err := set(field, v, nil); err != nil {
				return err
			}
		case 2: // length delimited
			l, n, err := readVarint(raw)
			if err != nil {
				return err
			}
			raw = raw[n:]
			if uint64(len(raw)) < l {
				return errors.Wrap(errors.ErrInput, "truncated field")
			}
			b := make([]byte, l)
			copy(b, raw[:l])
			raw = raw[l:]
			if err := set(field, 0, b); err != nil {
				return err
			}
		case 1: // 64-bit, not used by our fields
			if len(raw) < 8 {
				return errors.Wrap(errors.ErrInput, "truncated field")
			}
			raw = raw[8:]
		case 5: // 32-bit, not used by our fields
			if len(raw) < 4 {
				return errors.Wrap(errors.ErrInput, "truncated field")
			}
			raw = raw[4:]
		default:
			return errors.Wrapf(errors.ErrInput, "unsupported wire type %d", wire)
		}
	}
	return nil
}
