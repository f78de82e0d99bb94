package fees

import (
	"bytes"
	"strconv"

	binary "github.com/gagliardetto/binary"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
)

func (f Fees) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.NewBorshEncoder(buf).Encode(f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Decode(data []byte) (Fees, error) {
	var out Fees
	if err := binary.NewBorshDecoder(data).Decode(&out); err != nil {
		return Fees{}, err
	}
	return out, nil
}

var jsonFields = []string{
	"tradeFeeNumerator",
	"tradeFeeDenominator",
	"ownerTradeFeeNumerator",
	"ownerTradeFeeDenominator",
	"ownerWithdrawFeeNumerator",
	"ownerWithdrawFeeDenominator",
	"hostFeeNumerator",
	"hostFeeDenominator",
}

// ParseJSON reads a fee schedule in the camelCase shape produced by Anchor
// clients. Values may be numbers or decimal strings; missing fields are 0.
func ParseJSON(data []byte) (Fees, error) {
	if !gjson.ValidBytes(data) {
		return Fees{}, errors.Wrap(shared.ErrInvalidFee, "malformed fee json")
	}
	results := gjson.GetManyBytes(data, jsonFields...)

	values := make([]uint64, len(results))
	for i, r := range results {
		if !r.Exists() {
			continue
		}
		switch r.Type {
		case gjson.Number, gjson.String:
		default:
			return Fees{}, errors.Wrapf(shared.ErrInvalidFee, "%s: unexpected value %s", jsonFields[i], r.Raw)
		}
		v, err := strconv.ParseUint(r.String(), 10, 64)
		if err != nil {
			return Fees{}, errors.Wrapf(shared.ErrInvalidFee, "%s: not an unsigned integer", jsonFields[i])
		}
		values[i] = v
	}

	return Fees{
		TradeFeeNumerator:           values[0],
		TradeFeeDenominator:         values[1],
		OwnerTradeFeeNumerator:      values[2],
		OwnerTradeFeeDenominator:    values[3],
		OwnerWithdrawFeeNumerator:   values[4],
		OwnerWithdrawFeeDenominator: values[5],
		HostFeeNumerator:            values[6],
		HostFeeDenominator:          values[7],
	}, nil
}
