package fees

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/krazyTry/liquidity-pool-go/cpswap/shared"
)

func testFees() Fees {
	return Fees{
		TradeFeeNumerator:        25,
		TradeFeeDenominator:      10000,
		OwnerTradeFeeNumerator:   5,
		OwnerTradeFeeDenominator: 10000,
		HostFeeNumerator:         20,
		HostFeeDenominator:       100,
	}
}

func TestComputeFee(t *testing.T) {
	fee, err := ComputeFee(1_000_000, 25, 10000)
	require.NoError(t, err)
	require.Equal(t, uint64(2500), fee)

	fee, err = ComputeFee(1_000_000, 5, 10000)
	require.NoError(t, err)
	require.Equal(t, uint64(500), fee)

	fee, err = ComputeFee(1_000_000, 0, 0)
	require.NoError(t, err)
	require.Zero(t, fee)

	fee, err = ComputeFee(399, 25, 10000)
	require.NoError(t, err)
	require.Zero(t, fee)

	_, err = ComputeFee(1, 1, 0)
	require.ErrorIs(t, err, shared.ErrDivisionByZero)
}

func TestComputeFeeNeverExceedsAmount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amount := rapid.Uint64().Draw(t, "amount")
		den := rapid.Uint64Range(1, 1<<62).Draw(t, "den")
		num := rapid.Uint64Range(0, den-1).Draw(t, "num")

		fee, err := ComputeFee(amount, num, den)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fee > amount {
			t.Fatalf("fee %d > amount %d", fee, amount)
		}
	})
}

func TestSplitOwnerFee(t *testing.T) {
	owner, host, err := SplitOwnerFee(1001, 20, 100, true)
	require.NoError(t, err)
	require.Equal(t, uint64(200), host)
	require.Equal(t, uint64(801), owner)

	owner, host, err = SplitOwnerFee(1001, 20, 100, false)
	require.NoError(t, err)
	require.Zero(t, host)
	require.Equal(t, uint64(1001), owner)

	rapid.Check(t, func(t *rapid.T) {
		fee := rapid.Uint64().Draw(t, "fee")
		den := rapid.Uint64Range(1, 10000).Draw(t, "den")
		num := rapid.Uint64Range(0, den-1).Draw(t, "num")
		o, h, err := SplitOwnerFee(fee, num, den, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if o+h != fee {
			t.Fatalf("%d + %d != %d", o, h, fee)
		}
	})
}

func TestValidate(t *testing.T) {
	f := testFees()
	require.NoError(t, f.Validate())

	f.TradeFeeNumerator = 10000
	require.ErrorIs(t, f.Validate(), shared.ErrInvalidFee)

	f = testFees()
	f.HostFeeDenominator = 0
	require.ErrorIs(t, f.Validate(), shared.ErrInvalidFee)

	require.NoError(t, (&Fees{}).Validate())
}

func TestConstraints(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	c := &Constraints{
		OwnerKey:                 &owner,
		OwnerTradeFeeNumerator:   5,
		OwnerTradeFeeDenominator: 10000,
	}
	f := testFees()
	require.NoError(t, c.ValidateFees(&f))
	require.NoError(t, c.ValidateFeeReceiver(owner))
	require.ErrorIs(t, c.ValidateFeeReceiver(solana.NewWallet().PublicKey()), shared.ErrInvalidOwner)

	f.OwnerTradeFeeNumerator = 6
	require.ErrorIs(t, c.ValidateFees(&f), shared.ErrInvalidFee)

	var none *Constraints
	require.NoError(t, none.ValidateFees(&f))
}

func TestCodec(t *testing.T) {
	f := testFees()
	data, err := f.Marshal()
	require.NoError(t, err)
	require.Len(t, data, 64)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, f, got)
}

func TestParseJSON(t *testing.T) {
	f, err := ParseJSON([]byte(`{
		"tradeFeeNumerator": 25,
		"tradeFeeDenominator": "10000",
		"ownerTradeFeeNumerator": 5,
		"ownerTradeFeeDenominator": 10000,
		"ownerWithdrawFeeNumerator": 0,
		"hostFeeNumerator": 20,
		"hostFeeDenominator": 100
	}`))
	require.NoError(t, err)
	require.Equal(t, testFees(), f)

	_, err = ParseJSON([]byte(`{"tradeFeeNumerator": -1}`))
	require.ErrorIs(t, err, shared.ErrInvalidFee)

	_, err = ParseJSON([]byte(`{"tradeFeeNumerator": true}`))
	require.ErrorIs(t, err, shared.ErrInvalidFee)

	_, err = ParseJSON([]byte(`{`))
	require.ErrorIs(t, err, shared.ErrInvalidFee)
}
