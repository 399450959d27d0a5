package pool

import (
	"bytes"
	"encoding/binary"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/go-faster/errors"
	"github.com/holiman/uint256"
	"github.com/krazyTry/cryptoswap-go/shared"
	"github.com/krazyTry/cryptoswap-go/u256"
	"go.uber.org/zap"
)

const snapshotVersion uint8 = 1

// MarshalBinary encodes the full pool state. 256-bit fields are written as
// 32 little-endian bytes.
func (p *CurveCryptoPool) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)

	if err := enc.WriteUint8(snapshotVersion); err != nil {
		return nil, err
	}
	for _, v := range p.scalarFields() {
		if err := u256.Encode(enc, *v); err != nil {
			return nil, err
		}
	}
	if err := enc.WriteInt64(p.LastPricesTimestamp, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(p.MaHalfTime, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteBool(p.NotAdjusted); err != nil {
		return nil, err
	}
	if err := enc.WriteUint8(uint8(p.N)); err != nil {
		return nil, err
	}
	for i := 0; i < p.N; i++ {
		if err := u256.Encode(enc, p.Precisions[i]); err != nil {
			return nil, err
		}
		if err := u256.Encode(enc, p.Balances[i]); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalSnapshot restores a pool written by MarshalBinary.
func UnmarshalSnapshot(data []byte, opts ...Option) (*CurveCryptoPool, error) {
	p := &CurveCryptoPool{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	dec := bin.NewBorshDecoder(data)

	version, err := dec.ReadUint8()
	if err != nil {
		return nil, errors.Wrap(err, "snapshot version")
	}
	if version != snapshotVersion {
		return nil, errors.Errorf("unsupported snapshot version %d", version)
	}
	for _, v := range p.scalarFields() {
		if *v, err = u256.Decode(dec); err != nil {
			return nil, errors.Wrap(err, "snapshot")
		}
	}
	if p.LastPricesTimestamp, err = dec.ReadInt64(binary.LittleEndian); err != nil {
		return nil, errors.Wrap(err, "snapshot")
	}
	if p.MaHalfTime, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return nil, errors.Wrap(err, "snapshot")
	}
	if p.NotAdjusted, err = dec.ReadBool(); err != nil {
		return nil, errors.Wrap(err, "snapshot")
	}
	n, err := dec.ReadUint8()
	if err != nil {
		return nil, errors.Wrap(err, "snapshot")
	}
	if n != shared.NCoins {
		return nil, errors.Wrapf(shared.ErrCoinCount, "snapshot n = %d", n)
	}
	p.N = int(n)
	p.Precisions = make([]*uint256.Int, p.N)
	p.Balances = make([]*uint256.Int, p.N)
	for i := 0; i < p.N; i++ {
		if p.Precisions[i], err = u256.Decode(dec); err != nil {
			return nil, errors.Wrap(err, "snapshot")
		}
		if p.Balances[i], err = u256.Decode(dec); err != nil {
			return nil, errors.Wrap(err, "snapshot")
		}
	}
	if dec.HasRemaining() {
		return nil, errors.New("snapshot: trailing bytes")
	}
	return p, nil
}

// scalarFields lists the 256-bit fields in snapshot order.
func (p *CurveCryptoPool) scalarFields() []**uint256.Int {
	return []**uint256.Int{
		&p.A,
		&p.Gamma,
		&p.MidFee,
		&p.OutFee,
		&p.AllowedExtraProfit,
		&p.FeeGamma,
		&p.AdjustmentStep,
		&p.AdminFee,
		&p.PriceScale,
		&p.PriceOracle,
		&p.LastPrices,
		&p.XcpProfit,
		&p.XcpProfitA,
		&p.VirtualPrice,
		&p.Tokens,
	}
}
