package u256

import (
	"fmt"
	"math/big"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/go-faster/errors"
	"github.com/holiman/uint256"
)

// Uint256 adds fmt scanning and binary encoding to uint256.Int.
type Uint256 uint256.Int

func (u *Uint256) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	} else if i.Sign() < 0 {
		return errors.New("value cannot be negative")
	} else if i.BitLen() > 256 {
		return errors.New("value overflows Uint256")
	}
	(*uint256.Int)(u).SetFromBig(i)
	return nil
}

// MarshalWithEncoder writes the value as 32 little-endian bytes.
func (u *Uint256) MarshalWithEncoder(encoder *bin.Encoder) error {
	be := (*uint256.Int)(u).Bytes32()
	var le [32]byte
	for i := range be {
		le[i] = be[31-i]
	}
	return encoder.WriteBytes(le[:], false)
}

func (u *Uint256) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	le, err := decoder.ReadNBytes(32)
	if err != nil {
		return err
	}
	var be [32]byte
	for i := range le {
		be[31-i] = le[i]
	}
	(*uint256.Int)(u).SetBytes32(be[:])
	return nil
}

// GenUint256FromString parses a decimal string and panics on failure.
// Meant for constants and tests.
func GenUint256FromString(num string) *uint256.Int {
	v, err := FromString(num)
	if err != nil {
		panic(err)
	}
	return v
}

// FromString parses a non-negative decimal integer, such as a reserve or
// parameter read from a config file.
func FromString(num string) (*uint256.Int, error) {
	num = strings.TrimSpace(num)
	if num == "" {
		return nil, errors.New("empty number")
	}
	v := new(Uint256)
	r := strings.NewReader(num)
	if _, err := fmt.Fscan(r, v); err != nil {
		return nil, errors.Wrapf(err, "parse %q", num)
	}
	if r.Len() != 0 {
		return nil, errors.Errorf("parse %q: trailing characters", num)
	}
	return (*uint256.Int)(v), nil
}

func FromBig(b *big.Int) (*uint256.Int, error) {
	if b.Sign() < 0 {
		return nil, errors.New("value cannot be negative")
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, errors.New("value overflows Uint256")
	}
	return v, nil
}

func Encode(encoder *bin.Encoder, v *uint256.Int) error {
	if v == nil {
		v = new(uint256.Int)
	}
	return (*Uint256)(v).MarshalWithEncoder(encoder)
}

func Decode(decoder *bin.Decoder) (*uint256.Int, error) {
	v := new(Uint256)
	if err := v.UnmarshalWithDecoder(decoder); err != nil {
		return nil, err
	}
	return (*uint256.Int)(v), nil
}
